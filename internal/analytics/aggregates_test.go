package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// ── Salary distribution ────────────────────────────────────────────────────

func TestDistributeSalaries_BucketBoundaries(t *testing.T) {
	p := newTestProcessor()
	cases := []struct {
		salary float64
		bucket string
	}{
		{20, "0-20"},
		{21, "21-30"},
		{30, "21-30"},
		{80, "71-80"},
		{81, "81-100"},
		{100, "81-100"},
		{101, "100+"},
	}
	for _, c := range cases {
		dist := p.DistributeSalaries([]domain.TrackedApplication{salaried("a", c.salary, 6)})
		assert.Equal(t, 1, dist.All[c.bucket], "salary %v should land in %s", c.salary, c.bucket)
		assert.Equal(t, 1, dist.TotalAll)
	}
}

func TestDistributeSalaries_HourlyCut(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{
		salaried("hourly", 25, 1),
		salaried("weekly", 30, 3),
		salaried("yearly", 90, 6),
		app("none", named("applied", "2025-01-10T09:00:00")), // no salary: ignored entirely
	}

	dist := p.DistributeSalaries(jobs)

	assert.Equal(t, 3, dist.TotalAll)
	assert.Equal(t, 2, dist.TotalHourly)
	assert.Equal(t, 1, dist.Hourly["21-30"])
	assert.Equal(t, 0, dist.Hourly["81-100"])
}

// ── Status distribution ────────────────────────────────────────────────────

func TestDistributeStatuses_CurrentStatusFromUnsortedEvents(t *testing.T) {
	p := newTestProcessor()
	// Latest event (offer) listed first to prove sorting is by timestamp,
	// not slice order.
	job := app("acme",
		named("offer", "2025-01-10T09:00:00"),
		named("applied", "2025-01-01T09:00:00"),
		named("interviewing", "2025-01-05T09:00:00"),
	)

	dist := p.DistributeStatuses([]domain.TrackedApplication{job})

	assert.Equal(t, 1, dist.Offer)
	assert.Equal(t, 0, dist.Interviewing)
}

func TestDistributeStatuses_BucketsArePartition(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{
		app("a", named("applied", "2025-01-01T09:00:00")), // lone applied → pending
		app("b", named("applied", "2025-01-01T09:00:00"), named("rejected", "2025-01-05T09:00:00")),
		app("c", named("applied", "2025-01-01T09:00:00"), named("phone screen", "2025-01-05T09:00:00")),
		app("d", named("applied", "2025-01-01T09:00:00"), named("declined", "2025-01-05T09:00:00")), // offer stage
		app("e", named("applied", "2025-01-01T09:00:00"), named("accepted", "2025-01-05T09:00:00")),
		app("f", named("applied", "2025-01-01T09:00:00"), named("withdrawn", "2025-01-05T09:00:00")),
		app("g", named("unknown_77", "2025-01-05T09:00:00")), // unrecognized → pending
		app("h"), // no events: not classified at all
	}

	dist := p.DistributeStatuses(jobs)

	withEvents := 7
	total := dist.Pending + dist.Rejected + dist.Interviewing + dist.Offer + dist.Accepted + dist.Withdrawn
	assert.Equal(t, withEvents, total)
	assert.Equal(t, 2, dist.Pending)
	assert.Equal(t, 1, dist.Offer) // declined counts under offer
	assert.Equal(t, 1, dist.Accepted)
}

// ── Location stats ─────────────────────────────────────────────────────────

func TestAggregateLocations(t *testing.T) {
	p := newTestProcessor()

	remote := app("a")
	remote.JobPostingLocation = "Remote - US"
	remote.Coordinates = []domain.Coordinate{{Lat: 40, Lng: -74, Name: "NYC"}}

	hybrid := app("b")
	hybrid.JobPostingLocation = "Hybrid (Austin, TX)"

	multi := app("c")
	multi.JobPostingLocation = "New York | Seattle"
	multi.Coordinates = []domain.Coordinate{
		{Lat: 40.71, Lng: -74.01, Name: "New York"},
		{Lat: 47.61, Lng: -122.33, Name: "Seattle"},
		{Lat: 999, Lng: 999, Name: "remote"}, // legacy placeholder: dropped by range check
	}

	again := app("d")
	again.JobPostingLocation = "New York"
	again.Coordinates = []domain.Coordinate{{Lat: 40.71, Lng: -74.01, Name: "New York"}}

	stats := p.AggregateLocations([]domain.TrackedApplication{remote, hybrid, multi, again})

	assert.Equal(t, 1, stats.Remote)
	assert.Equal(t, 1, stats.Hybrid)
	// Remote jobs never reach the coordinate map, even with coordinates.
	assert.Len(t, stats.Points, 2)
	assert.Equal(t, 2, stats.Points["40.71,-74.01"].Count)
	assert.Equal(t, 1, stats.Points["47.61,-122.33"].Count)
}

// ── Company stats ──────────────────────────────────────────────────────────

func TestAggregateCompanies_CurrentStatusSemantics(t *testing.T) {
	p := newTestProcessor()
	// Interview happened, but the latest event is an offer: only Offers moves.
	job := domain.TrackedApplication{
		CompanyID:   "acme",
		CompanyName: "Acme Corp",
		StatusEvents: []domain.StatusEvent{
			named("applied", "2025-01-01T09:00:00"),
			named("interviewing", "2025-01-06T09:00:00"),
			named("offer", "2025-01-11T09:00:00"),
		},
	}

	stats := p.AggregateCompanies([]domain.TrackedApplication{job})

	assert.Len(t, stats, 1)
	acme := stats[0]
	assert.Equal(t, "Acme Corp", acme.CompanyName)
	assert.Equal(t, 1, acme.TotalApplications)
	assert.Equal(t, 0, acme.Interviews)
	assert.Equal(t, 1, acme.Offers)
	assert.Equal(t, 0, acme.Rejections)
	assert.InDelta(t, 10, acme.AvgResponseTime, 0.001)
	assert.Equal(t, float64(100), acme.SuccessRate)
}

func TestAggregateCompanies_SkipsAndSorts(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{
		app("", named("applied", "2025-01-01T09:00:00")), // no company_id: skipped
		app("small"),                                     // no events: skipped
		app("big", named("applied", "2025-01-02T09:00:00")),
		app("big", named("applied", "2025-01-03T09:00:00")),
		app("one", named("applied", "2025-01-04T09:00:00")),
	}

	stats := p.AggregateCompanies(jobs)

	assert.Len(t, stats, 2)
	assert.Equal(t, "big", stats[0].CompanyID)
	assert.Equal(t, 2, stats[0].TotalApplications)
	assert.Equal(t, "one", stats[1].CompanyID)
}

// ── Day of week ────────────────────────────────────────────────────────────

func TestCountByDayOfWeek(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{
		app("a", named("applied", "2025-01-06T09:00:00")), // Monday
		app("b", named("applied", "2025-01-07T09:00:00")), // Tuesday
		app("c", named("applied", "2025-01-13T09:00:00")), // Monday
		app("d", named("rejected", "2025-01-08T09:00:00")), // no applied event: skipped
	}

	counts := p.CountByDayOfWeek(jobs)

	assert.Len(t, counts, 7) // all weekday keys always present
	assert.Equal(t, 2, counts["Monday"])
	assert.Equal(t, 1, counts["Tuesday"])
	assert.Equal(t, 0, counts["Sunday"])
}

// ── Response-time distribution ─────────────────────────────────────────────

func TestDistributeResponseTimes_RejectionAfterTenDays(t *testing.T) {
	p := newTestProcessor()
	job := app("acme",
		named("applied", "2025-01-01T09:00:00"),
		named("rejected", "2025-01-11T09:00:00"),
	)

	counts := p.DistributeResponseTimes([]domain.TrackedApplication{job})

	assert.Equal(t, 1, counts["8-14"])
	assert.Equal(t, 0, counts["No Response"])
}

func TestDistributeResponseTimes_NoResponse(t *testing.T) {
	p := newTestProcessor()
	jobs := []domain.TrackedApplication{
		app("a", named("applied", "2025-01-01T09:00:00")),
		// Earlier non-applied events don't count as responses.
		app("b", named("saved", "2024-12-25T09:00:00"), named("applied", "2025-01-01T09:00:00")),
	}

	counts := p.DistributeResponseTimes(jobs)

	assert.Equal(t, 2, counts["No Response"])
}

func TestDistributeResponseTimes_EarliestSubsequentEventWins(t *testing.T) {
	p := newTestProcessor()
	job := app("acme",
		named("applied", "2025-01-01T09:00:00"),
		named("rejected", "2025-03-20T09:00:00"),
		named("phone screen", "2025-01-05T09:00:00"),
	)

	counts := p.DistributeResponseTimes([]domain.TrackedApplication{job})

	assert.Equal(t, 1, counts["0-7"])
	assert.Equal(t, 0, counts["60+"])
}
