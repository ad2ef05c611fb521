package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/go-tracker/internal/analytics"
)

func TestWeeklyTrend_BucketsBySundayStart(t *testing.T) {
	p := newTestProcessor()
	daily := map[string]analytics.DailyStat{
		"2025-01-06": {TotalApplications: 2}, // Monday, week of Jan 5
		"2025-01-08": {TotalApplications: 1}, // Wednesday, same week
		"2025-01-13": {TotalApplications: 4}, // Monday, week of Jan 12
	}

	trend := p.WeeklyTrend(daily)

	assert.Equal(t, []analytics.TrendPoint{
		{Date: "2025-01-05", Value: 3, Label: "Jan 5"},
		{Date: "2025-01-12", Value: 4, Label: "Jan 12"},
	}, trend)
}

func TestMonthlyTrend(t *testing.T) {
	p := newTestProcessor()
	daily := map[string]analytics.DailyStat{
		"2024-12-30": {TotalApplications: 1},
		"2025-01-02": {TotalApplications: 2},
		"2025-01-20": {TotalApplications: 3},
	}

	trend := p.MonthlyTrend(daily)

	assert.Equal(t, []analytics.TrendPoint{
		{Date: "2024-12-01", Value: 1, Label: "Dec 2024"},
		{Date: "2025-01-01", Value: 5, Label: "Jan 2025"},
	}, trend)
}

func TestSuccessRateTrend(t *testing.T) {
	p := newTestProcessor()
	daily := map[string]analytics.DailyStat{
		"2025-01-06": {TotalApplications: 3, Interviews: 1},            // week of Jan 5
		"2025-01-07": {TotalApplications: 1, Offers: 1},                // same week: 2/4 → 50
		"2025-01-13": {TotalApplications: 0, Interviews: 0, Offers: 0}, // no apps → 0
	}

	trend := p.SuccessRateTrend(daily)

	assert.Equal(t, []analytics.TrendPoint{
		{Date: "2025-01-05", Value: 50, Label: "Jan 5"},
		{Date: "2025-01-12", Value: 0, Label: "Jan 12"},
	}, trend)
}
