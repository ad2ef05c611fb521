package analytics

import "github.com/project-tktt/go-tracker/internal/domain"

// ProcessedAnalyticsData is the complete aggregate snapshot the dashboard
// renders. It is freshly allocated on every call and never mutated after
// construction; nothing is cached between calls.
type ProcessedAnalyticsData struct {
	Summary                  SummaryStats         `json:"summary"`
	SalaryDistribution       SalaryDistribution   `json:"salaryDistribution"`
	DailyStats               map[string]DailyStat `json:"dailyStats"`
	LocationStats            LocationStats        `json:"locationStats"`
	StatusDistribution       StatusDistribution   `json:"statusDistribution"`
	CompanyStats             []CompanyStat        `json:"companyStats"`
	DayOfWeekStats           map[string]int       `json:"dayOfWeekStats"`
	ResponseTimeDistribution map[string]int       `json:"responseTimeDistribution"`
	WeeklyTrend              []TrendPoint         `json:"weeklyTrend"`
	MonthlyTrend             []TrendPoint         `json:"monthlyTrend"`
	SuccessRateTrend         []TrendPoint         `json:"successRateTrend"`
}

// Process runs the whole pipeline: filter once, build the daily map once,
// then fan out to every aggregator. Pure and total: identical input under an
// identical injected clock yields a deep-equal result, and no input shape can
// make it fail.
func (p *Processor) Process(jobs []domain.TrackedApplication, filters domain.AnalyticsFilters) *ProcessedAnalyticsData {
	if len(jobs) == 0 {
		return emptyResult()
	}

	filtered := p.FilterJobs(jobs, filters)
	daily := p.BuildDailyStats(filtered, filters)

	return &ProcessedAnalyticsData{
		Summary:                  p.SummarizeJobs(filtered),
		SalaryDistribution:       p.DistributeSalaries(filtered),
		DailyStats:               daily,
		LocationStats:            p.AggregateLocations(filtered),
		StatusDistribution:       p.DistributeStatuses(filtered),
		CompanyStats:             p.AggregateCompanies(filtered),
		DayOfWeekStats:           p.CountByDayOfWeek(filtered),
		ResponseTimeDistribution: p.DistributeResponseTimes(filtered),
		WeeklyTrend:              p.WeeklyTrend(daily),
		MonthlyTrend:             p.MonthlyTrend(daily),
		SuccessRateTrend:         p.SuccessRateTrend(daily),
	}
}

// emptyResult is the all-zero snapshot for an empty input list: every count
// zero, every histogram zero-filled, every trend series empty.
func emptyResult() *ProcessedAnalyticsData {
	return &ProcessedAnalyticsData{
		SalaryDistribution: SalaryDistribution{
			All:    emptyBuckets(salaryBuckets),
			Hourly: emptyBuckets(salaryBuckets),
		},
		DailyStats:               map[string]DailyStat{},
		LocationStats:            LocationStats{Points: map[string]LocationPoint{}},
		CompanyStats:             []CompanyStat{},
		DayOfWeekStats:           emptyBuckets(weekdayNames),
		ResponseTimeDistribution: emptyBuckets(responseTimeBuckets),
		WeeklyTrend:              []TrendPoint{},
		MonthlyTrend:             []TrendPoint{},
		SuccessRateTrend:         []TrendPoint{},
	}
}
