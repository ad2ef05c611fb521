package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// ── Date-range clause ──────────────────────────────────────────────────────

func TestFilterJobs_RelativeRangeExcludesOldApplications(t *testing.T) {
	p := newTestProcessor()
	// Applied 10 days before the pinned "now" — outside a 7d window.
	old := app("acme", named("applied", "2025-01-05T10:00:00"))
	recent := app("globex", named("applied", "2025-01-12T10:00:00"))

	got := p.FilterJobs([]domain.TrackedApplication{old, recent}, domain.AnalyticsFilters{DateRange: domain.Range7d})

	assert.Len(t, got, 1)
	assert.Equal(t, "globex", got[0].CompanyID)
}

func TestFilterJobs_NoAppliedEventPassesDateFilterVacuously(t *testing.T) {
	p := newTestProcessor()
	// A job that was only saved and rejected cannot be excluded by date.
	job := app("acme",
		named("saved", "2024-06-01T10:00:00"),
		named("rejected", "2024-06-20T10:00:00"),
	)

	got := p.FilterJobs([]domain.TrackedApplication{job}, domain.AnalyticsFilters{DateRange: domain.Range7d})

	assert.Len(t, got, 1)
}

func TestFilterJobs_CustomRangeInclusiveBounds(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{
		app("early", named("applied", "2024-12-31T23:00:00")),
		app("onStart", named("applied", "2025-01-01T00:00:00")),
		app("onEnd", named("applied", "2025-01-10T12:00:00")),
		app("late", named("applied", "2025-01-11T00:00:00")),
	}
	f := domain.AnalyticsFilters{
		DateRange:       domain.RangeCustom,
		CustomStartDate: "2025-01-01",
		CustomEndDate:   "2025-01-10",
	}

	got := p.FilterJobs(jobs, f)

	ids := []string{}
	for _, j := range got {
		ids = append(ids, j.CompanyID)
	}
	assert.Equal(t, []string{"onStart", "onEnd"}, ids)
}

func TestFilterJobs_CustomRangeWithoutDatesIsInert(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{app("acme", named("applied", "2020-01-01T10:00:00"))}

	got := p.FilterJobs(jobs, domain.AnalyticsFilters{DateRange: domain.RangeCustom})

	assert.Len(t, got, 1)
}

// ── Company / location / salary / status clauses ───────────────────────────

func TestFilterJobs_CompanyAllowList(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{app("acme"), app("globex")}

	got := p.FilterJobs(jobs, domain.AnalyticsFilters{Companies: []string{"acme"}})

	assert.Len(t, got, 1)
	assert.Equal(t, "acme", got[0].CompanyID)
}

func TestFilterJobs_LocationSubstringCaseInsensitive(t *testing.T) {
	p := newTestProcessor()
	sf := app("a")
	sf.JobPostingLocation = "San Francisco, CA"
	ny := app("b")
	ny.JobPostingLocation = "New York, NY"
	none := app("c") // missing location fails every non-empty filter

	got := p.FilterJobs([]domain.TrackedApplication{sf, ny, none}, domain.AnalyticsFilters{Locations: []string{"san francisco"}})

	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].CompanyID)
}

func TestFilterJobs_SalaryBoundsSkipJobsWithoutSalary(t *testing.T) {
	p := newTestProcessor()
	low := salaried("low", 20, 6)
	high := salaried("high", 90, 6)
	unknown := app("unknown", named("applied", "2025-01-10T09:00:00"))

	got := p.FilterJobs([]domain.TrackedApplication{low, high, unknown}, domain.AnalyticsFilters{
		SalaryMin: f64(30),
		SalaryMax: f64(95),
	})

	ids := []string{}
	for _, j := range got {
		ids = append(ids, j.CompanyID)
	}
	// Jobs without a salary are never excluded by min/max.
	assert.Equal(t, []string{"high", "unknown"}, ids)
}

func TestFilterJobs_StatusAllowListUsesNormalizedEvents(t *testing.T) {
	p := newTestProcessor()
	rejected := app("a", coded(2, "2025-01-02T10:00:00"), coded(23, "2025-01-09T10:00:00"))
	appliedOnly := app("b", named("Applied", "2025-01-02T10:00:00"))

	got := p.FilterJobs([]domain.TrackedApplication{rejected, appliedOnly}, domain.AnalyticsFilters{Statuses: []string{"rejected"}})

	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].CompanyID)
}
