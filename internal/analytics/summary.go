package analytics

import (
	"math"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// SummaryStats are the headline dashboard KPIs.
//
// Interview and offer figures feeding SuccessRate count individual events, not
// distinct jobs: a job that interviewed twice contributes twice. The company
// and status-distribution aggregators intentionally use latest-event-only
// semantics instead; the two views are kept distinct on purpose.
type SummaryStats struct {
	TotalApps       int     `json:"totalApps"`
	TodayApps       int     `json:"todayApps"`
	TotalCompanies  int     `json:"totalCompanies"`
	TodayCompanies  int     `json:"todayCompanies"`
	TotalRejections int     `json:"totalRejections"`
	TodayRejections int     `json:"todayRejections"`
	SuccessRate     float64 `json:"successRate"`
	AvgResponseTime int     `json:"avgResponseTime"`
}

// SummarizeJobs computes SummaryStats over the filtered list.
func (p *Processor) SummarizeJobs(jobs []domain.TrackedApplication) SummaryStats {
	var s SummaryStats
	today := p.today()
	companies := map[string]struct{}{}
	todayCompanies := map[string]struct{}{}
	var interviewEvents, offerEvents int
	var responseSamples []int

	for _, job := range jobs {
		applied, hasApplied := appliedEvent(job)
		appliedDate := ""
		if hasApplied {
			appliedDate = p.localDate(applied.Timestamp)
			s.TotalApps++
			if job.CompanyID != "" {
				companies[job.CompanyID] = struct{}{}
			}
			if appliedDate == today {
				s.TodayApps++
				if job.CompanyID != "" {
					todayCompanies[job.CompanyID] = struct{}{}
				}
			}
		}

		for _, ev := range job.StatusEvents {
			switch Classify(NormalizeStatus(ev.Status)) {
			case StageRejected:
				s.TotalRejections++
				d := p.localDate(ev.Timestamp)
				if d == today {
					s.TodayRejections++
				}
				if hasApplied {
					if days, ok := daysBetween(appliedDate, d); ok {
						responseSamples = append(responseSamples, days)
					}
				}
			case StageInterview:
				interviewEvents++
			case StageOffer:
				offerEvents++
			}
		}
	}

	s.TotalCompanies = len(companies)
	s.TodayCompanies = len(todayCompanies)
	if s.TotalApps > 0 {
		rate := 100 * float64(interviewEvents+offerEvents) / float64(s.TotalApps)
		s.SuccessRate = math.Round(rate*10) / 10
	}
	if len(responseSamples) > 0 {
		sum := 0
		for _, d := range responseSamples {
			sum += d
		}
		s.AvgResponseTime = int(math.Round(float64(sum) / float64(len(responseSamples))))
	}
	return s
}
