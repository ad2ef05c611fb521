package simplify_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/go-tracker/internal/cleaner"
	"github.com/project-tktt/go-tracker/internal/simplify"
)

func newParser() *simplify.Parser {
	return simplify.NewParser(cleaner.NewCleaner())
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// ── parsing ──

func TestParse_SkipsMalformedItems(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"company_id": "acme", "status_events": []}`),
		json.RawMessage(`not json`),
	}

	apps := newParser().Parse(items)

	require.Len(t, apps, 1)
	assert.Equal(t, "acme", apps[0].CompanyID)
	assert.NotNil(t, apps[0].Coordinates)
}

func TestParse_StripsMarkupFromFreeText(t *testing.T) {
	items := []json.RawMessage{raw(t, map[string]any{
		"company_id":        "acme",
		"company_name":      "<b>Acme</b> Corp",
		"job_posting_title": "Engineer <script>alert(1)</script>",
		"status_events":     []any{},
	})}

	apps := newParser().Parse(items)

	require.Len(t, apps, 1)
	assert.Equal(t, "Acme Corp", apps[0].CompanyName)
	assert.Equal(t, "Engineer", apps[0].JobPostingTitle)
}

// ── salary derivation ──

func TestParse_SalaryMidpoint(t *testing.T) {
	items := []json.RawMessage{raw(t, map[string]any{
		"company_id":    "acme",
		"salary_low":    30.0,
		"salary_high":   41.0,
		"salary_period": 1,
		"status_events": []any{},
	})}

	apps := newParser().Parse(items)

	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Salary)
	// Midpoint is floored: (30+41)/2 = 35.5 -> 35.
	assert.Equal(t, 35.0, *apps[0].Salary)
}

func TestParse_SalarySingleBound(t *testing.T) {
	items := []json.RawMessage{
		raw(t, map[string]any{"company_id": "a", "salary_low": 28.0, "status_events": []any{}}),
		raw(t, map[string]any{"company_id": "b", "salary_high": 52.0, "status_events": []any{}}),
		raw(t, map[string]any{"company_id": "c", "status_events": []any{}}),
	}

	apps := newParser().Parse(items)

	require.Len(t, apps, 3)
	require.NotNil(t, apps[0].Salary)
	assert.Equal(t, 28.0, *apps[0].Salary)
	require.NotNil(t, apps[1].Salary)
	assert.Equal(t, 52.0, *apps[1].Salary)
	assert.Nil(t, apps[2].Salary)
}

func TestParse_SalaryConvertedToHourly(t *testing.T) {
	// Yearly salary of 104284: divided by 40h * 52.142 weeks = 50/h.
	items := []json.RawMessage{raw(t, map[string]any{
		"company_id":    "acme",
		"salary_low":    104284.0,
		"salary_high":   104284.0,
		"salary_period": 4,
		"status_events": []any{},
	})}

	apps := newParser().Parse(items)

	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Salary)
	assert.Equal(t, 50.0, *apps[0].Salary)
}

func TestParse_HourlySalaryKeptAsIs(t *testing.T) {
	items := []json.RawMessage{raw(t, map[string]any{
		"company_id":    "acme",
		"salary_low":    45.0,
		"salary_high":   55.0,
		"salary_period": 1,
		"status_events": []any{},
	})}

	apps := newParser().Parse(items)

	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Salary)
	assert.Equal(t, 50.0, *apps[0].Salary)
}

// ── location splitting ──

func TestSplitLocations(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     []string
	}{
		{"single", "New York, NY", []string{"New York, NY"}},
		{"pipe", "New York, NY | San Francisco, CA", []string{"New York, NY", "San Francisco, CA"}},
		{"semicolon", "Austin; Boston", []string{"Austin", "Boston"}},
		{"bullet", "Seattle • Denver", []string{"Seattle", "Denver"}},
		{"and", "Chicago and Miami", []string{"Chicago", "Miami"}},
		{"or", "London or Paris", []string{"London", "Paris"}},
		{"overflow dropped", "NYC | SF | 3 more", []string{"NYC", "SF"}},
		{"first separator wins", "NYC | Boston and Austin", []string{"NYC", "Boston and Austin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, simplify.SplitLocations(tt.location))
		})
	}
}
