package analytics

import (
	"time"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// DailyStat is one day's activity. The map of these is dense: every calendar
// day in the window is present, zero-filled, so trend derivation never has to
// reason about gaps. UniqueCompanies is exported as a plain count; the
// accumulating set stays private to the builder.
type DailyStat struct {
	TotalApplications int `json:"totalApplications"`
	UniqueCompanies   int `json:"uniqueCompanies"`
	Rejections        int `json:"rejections"`
	Interviews        int `json:"interviews"`
	Offers            int `json:"offers"`
}

type dailyAccum struct {
	stat      DailyStat
	companies map[string]struct{}
}

// BuildDailyStats produces the dense date→stats map for the window implied by
// the filters: custom bounds when set, today-minus-N for relative ranges, and
// for "all" the earliest tracked_date in the input (today when the list is
// empty).
func (p *Processor) BuildDailyStats(jobs []domain.TrackedApplication, f domain.AnalyticsFilters) map[string]DailyStat {
	start, end := p.dailyWindow(jobs, f)

	accum := map[string]*dailyAccum{}
	var order []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		accum[key] = &dailyAccum{companies: map[string]struct{}{}}
		order = append(order, key)
	}

	for _, job := range jobs {
		for _, ev := range job.StatusEvents {
			date := p.localDate(ev.Timestamp)
			if date == "" {
				continue
			}
			day, ok := accum[date]
			if !ok {
				continue // outside the window
			}
			switch Classify(NormalizeStatus(ev.Status)) {
			case StageApplied:
				day.stat.TotalApplications++
				if job.CompanyID != "" {
					day.companies[job.CompanyID] = struct{}{}
				}
			case StageRejected:
				day.stat.Rejections++
			case StageInterview:
				day.stat.Interviews++
			case StageOffer:
				day.stat.Offers++
			}
		}
	}

	out := make(map[string]DailyStat, len(order))
	for _, key := range order {
		day := accum[key]
		day.stat.UniqueCompanies = len(day.companies)
		out[key] = day.stat
	}
	return out
}

func (p *Processor) dailyWindow(jobs []domain.TrackedApplication, f domain.AnalyticsFilters) (time.Time, time.Time) {
	today, _ := parseDate(p.today())

	end := today
	if f.DateRange == domain.RangeCustom && f.CustomEndDate != "" {
		if t, ok := parseDate(f.CustomEndDate); ok {
			end = t
		}
	}

	start := end
	switch {
	case f.DateRange == domain.RangeCustom && f.CustomStartDate != "":
		if t, ok := parseDate(f.CustomStartDate); ok {
			start = t
		}
	default:
		if days, ok := f.DateRange.RelativeDays(); ok {
			start = end.AddDate(0, 0, -days)
			break
		}
		// "all": earliest tracked_date, defaulting to today.
		start = today
		for _, job := range jobs {
			d := p.localDate(job.TrackedDate)
			if d == "" {
				continue
			}
			if t, ok := parseDate(d); ok && t.Before(start) {
				start = t
			}
		}
	}

	if start.After(end) {
		start = end
	}
	return start, end
}
