package simplify

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/project-tktt/go-tracker/internal/cleaner"
	"github.com/project-tktt/go-tracker/internal/domain"
)

// hourDivisors converts a salary quoted per hour into the period's
// denomination: 2 = weekly (40h), 3 = monthly (40h * 4.33 weeks),
// 4 = yearly (40h * 52.142 weeks).
var hourDivisors = map[int]float64{
	2: 40,
	3: 40 * 4.33,
	4: 40 * 52.142,
}

// locationSplitters, in priority order. Only the first one present in a
// location string is applied.
var locationSplitters = []string{"|", ";", "•", " and ", " or "}

// Parser turns raw tracker items into TrackedApplications. Free-text fields
// are sanitized since they originate from arbitrary job postings.
type Parser struct {
	cleaner *cleaner.Cleaner
}

// NewParser creates a Parser
func NewParser(c *cleaner.Cleaner) *Parser {
	return &Parser{cleaner: c}
}

// Parse converts raw tracker items. Malformed items are skipped rather than
// failing the whole batch.
func (p *Parser) Parse(items []json.RawMessage) []domain.TrackedApplication {
	apps := make([]domain.TrackedApplication, 0, len(items))
	for _, item := range items {
		var app domain.TrackedApplication
		if err := json.Unmarshal(item, &app); err != nil {
			continue
		}

		app.CompanyName = p.cleaner.CleanToText(app.CompanyName)
		app.JobPostingTitle = p.cleaner.CleanToText(app.JobPostingTitle)
		app.JobPostingLocation = p.cleaner.CleanToText(app.JobPostingLocation)

		app.Salary = deriveSalary(app.SalaryLow, app.SalaryHigh, app.SalaryPeriod)
		if app.Coordinates == nil {
			app.Coordinates = []domain.Coordinate{}
		}

		apps = append(apps, app)
	}
	return apps
}

// deriveSalary reduces the low/high range to a single figure: the floored
// midpoint when both bounds exist, otherwise whichever bound is set. Salaries
// quoted for longer periods are converted back to an hourly figure.
func deriveSalary(low, high *float64, period int) *float64 {
	var sal float64
	switch {
	case low != nil && high != nil:
		sal = math.Floor((*low + *high) / 2)
	case low != nil:
		sal = *low
	case high != nil:
		sal = *high
	default:
		return nil
	}
	if sal == 0 {
		return nil
	}

	if period > 1 {
		if div, ok := hourDivisors[period]; ok {
			sal = math.Floor(sal / div)
		}
	}

	return &sal
}

// SplitLocations breaks a compound posting location ("NYC | SF | 3 more")
// into individual place names. Entries that are just overflow markers are
// dropped; a string with no separator comes back as a single entry.
func SplitLocations(location string) []string {
	var parts []string
	for _, sep := range locationSplitters {
		if strings.Contains(location, sep) {
			parts = strings.Split(location, sep)
			break
		}
	}

	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasSuffix(part, " more") {
			continue
		}
		cleaned = append(cleaned, part)
	}

	if len(cleaned) == 0 {
		return []string{strings.TrimSpace(location)}
	}
	return cleaned
}
