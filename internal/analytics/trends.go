package analytics

import (
	"math"
	"sort"
	"time"
)

// TrendPoint is one bucket of a derived time series.
type TrendPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Trend derivers operate only on the dense daily map, never on raw jobs.

// WeeklyTrend sums daily application totals per week (weeks start Sunday),
// sorted ascending by week start.
func (p *Processor) WeeklyTrend(daily map[string]DailyStat) []TrendPoint {
	sums := map[string]int{}
	for date, stat := range daily {
		week, ok := startOfWeek(date)
		if !ok {
			continue
		}
		sums[week] += stat.TotalApplications
	}
	return toTrendPoints(sums, "Jan 2")
}

// MonthlyTrend sums daily application totals per calendar month.
func (p *Processor) MonthlyTrend(daily map[string]DailyStat) []TrendPoint {
	sums := map[string]int{}
	for date, stat := range daily {
		t, ok := parseDate(date)
		if !ok {
			continue
		}
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		sums[month] += stat.TotalApplications
	}
	return toTrendPoints(sums, "Jan 2006")
}

// SuccessRateTrend emits, per week, the percentage of that week's applications
// that drew an interview or offer (0 for weeks with no applications).
func (p *Processor) SuccessRateTrend(daily map[string]DailyStat) []TrendPoint {
	type pair struct{ apps, success int }
	weeks := map[string]*pair{}
	for date, stat := range daily {
		week, ok := startOfWeek(date)
		if !ok {
			continue
		}
		w, ok := weeks[week]
		if !ok {
			w = &pair{}
			weeks[week] = w
		}
		w.apps += stat.TotalApplications
		w.success += stat.Interviews + stat.Offers
	}

	points := make([]TrendPoint, 0, len(weeks))
	for week, w := range weeks {
		value := 0
		if w.apps > 0 {
			value = int(math.Round(100 * float64(w.success) / float64(w.apps)))
		}
		points = append(points, TrendPoint{Date: week, Value: value, Label: trendLabel(week, "Jan 2")})
	}
	sortTrendPoints(points)
	return points
}

// startOfWeek truncates a date to its week's Sunday.
func startOfWeek(date string) (string, bool) {
	t, ok := parseDate(date)
	if !ok {
		return "", false
	}
	return t.AddDate(0, 0, -int(t.Weekday())).Format(dateLayout), true
}

func toTrendPoints(sums map[string]int, labelLayout string) []TrendPoint {
	points := make([]TrendPoint, 0, len(sums))
	for date, value := range sums {
		points = append(points, TrendPoint{Date: date, Value: value, Label: trendLabel(date, labelLayout)})
	}
	sortTrendPoints(points)
	return points
}

func trendLabel(date, layout string) string {
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	return t.Format(layout)
}

func sortTrendPoints(points []TrendPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
}
