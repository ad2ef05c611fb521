package analytics

import (
	"strings"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// FilterJobs applies the user's filters ahead of aggregation. A record passes
// only when every active clause passes; inactive clauses (zero values) are
// skipped, so a half-populated filter set never errors.
func (p *Processor) FilterJobs(jobs []domain.TrackedApplication, f domain.AnalyticsFilters) []domain.TrackedApplication {
	out := make([]domain.TrackedApplication, 0, len(jobs))
	for _, job := range jobs {
		if p.matches(job, f) {
			out = append(out, job)
		}
	}
	return out
}

func (p *Processor) matches(job domain.TrackedApplication, f domain.AnalyticsFilters) bool {
	if !p.matchesDateRange(job, f) {
		return false
	}
	if len(f.Companies) > 0 && !containsString(f.Companies, job.CompanyID) {
		return false
	}
	if len(f.Locations) > 0 && !matchesLocation(job.JobPostingLocation, f.Locations) {
		return false
	}
	if job.Salary != nil {
		if f.SalaryMin != nil && *job.Salary < *f.SalaryMin {
			return false
		}
		if f.SalaryMax != nil && *job.Salary > *f.SalaryMax {
			return false
		}
	}
	if len(f.Statuses) > 0 && !matchesStatuses(job, f.Statuses) {
		return false
	}
	return true
}

// matchesDateRange checks the applied-event date against the window. A job
// without an applied event passes vacuously: it cannot be excluded by date.
func (p *Processor) matchesDateRange(job domain.TrackedApplication, f domain.AnalyticsFilters) bool {
	if f.DateRange == "" || f.DateRange == domain.RangeAll {
		return true
	}
	ev, ok := appliedEvent(job)
	if !ok {
		return true
	}
	applied := p.localDate(ev.Timestamp)
	if applied == "" {
		return true
	}

	if f.DateRange == domain.RangeCustom {
		// Inclusive on both ends; a missing bound is simply not enforced.
		if f.CustomStartDate != "" && applied < f.CustomStartDate {
			return false
		}
		if f.CustomEndDate != "" && applied > f.CustomEndDate {
			return false
		}
		return true
	}

	days, ok := f.DateRange.RelativeDays()
	if !ok {
		return true
	}
	lower := p.now().In(p.loc).AddDate(0, 0, -days).Format(dateLayout)
	return applied >= lower
}

// matchesLocation does a case-insensitive substring match of any allow-listed
// token. A job with no location fails every non-empty location filter.
func matchesLocation(location string, tokens []string) bool {
	if location == "" {
		return false
	}
	lower := strings.ToLower(location)
	for _, tok := range tokens {
		if tok != "" && strings.Contains(lower, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// matchesStatuses passes when any event's normalized status is allow-listed.
func matchesStatuses(job domain.TrackedApplication, allowed []string) bool {
	for _, ev := range job.StatusEvents {
		if containsString(allowed, NormalizeStatus(ev.Status)) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
