package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// LocationPoint is one coordinate bucket on the map view.
type LocationPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
}

// LocationStats groups jobs by geocoded point. Remote and hybrid postings are
// tallied separately and never reach the coordinate map; a multi-city posting
// contributes to every coordinate it carries.
type LocationStats struct {
	Remote int                      `json:"remote"`
	Hybrid int                      `json:"hybrid"`
	Points map[string]LocationPoint `json:"points"`
}

// AggregateLocations builds the geographic rollup. Coordinates outside
// [-90,90]x[-180,180] are dropped.
func (p *Processor) AggregateLocations(jobs []domain.TrackedApplication) LocationStats {
	stats := LocationStats{Points: map[string]LocationPoint{}}
	for _, job := range jobs {
		loc := strings.ToLower(job.JobPostingLocation)
		if strings.Contains(loc, "remote") {
			stats.Remote++
			continue
		}
		if strings.Contains(loc, "hybrid") {
			stats.Hybrid++
			continue
		}
		for _, c := range job.Coordinates {
			if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
				continue
			}
			key := formatCoord(c.Lat) + "," + formatCoord(c.Lng)
			point, ok := stats.Points[key]
			if !ok {
				point = LocationPoint{Lat: c.Lat, Lng: c.Lng, Name: c.Name}
			}
			point.Count++
			stats.Points[key] = point
		}
	}
	return stats
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StatusDistribution counts jobs by their current (latest-event) status. The
// six buckets are exhaustive and mutually exclusive over jobs with at least
// one event; anything unrecognized, including a lone or re-surfaced
// "applied", lands in Pending. Declined offers count under Offer, matching
// the offer-stage grouping.
type StatusDistribution struct {
	Pending      int `json:"pending"`
	Rejected     int `json:"rejected"`
	Interviewing int `json:"interviewing"`
	Offer        int `json:"offer"`
	Accepted     int `json:"accepted"`
	Withdrawn    int `json:"withdrawn"`
}

// DistributeStatuses classifies each job with events by current status.
func (p *Processor) DistributeStatuses(jobs []domain.TrackedApplication) StatusDistribution {
	var dist StatusDistribution
	for _, job := range jobs {
		ev, ok := currentEvent(job)
		if !ok {
			continue
		}
		status := NormalizeStatus(ev.Status)
		if status == "accepted" {
			dist.Accepted++
			continue
		}
		switch Classify(status) {
		case StageRejected:
			dist.Rejected++
		case StageInterview:
			dist.Interviewing++
		case StageOffer:
			dist.Offer++
		case StageWithdrawn:
			dist.Withdrawn++
		default:
			dist.Pending++
		}
	}
	return dist
}

// CompanyStat is the per-company rollup. Rejections, Interviews and Offers
// use current-status semantics: only the latest event of each job counts,
// unlike SummaryStats which counts every qualifying event.
type CompanyStat struct {
	CompanyID         string  `json:"companyId"`
	CompanyName       string  `json:"companyName"`
	TotalApplications int     `json:"totalApplications"`
	Rejections        int     `json:"rejections"`
	Interviews        int     `json:"interviews"`
	Offers            int     `json:"offers"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
	SuccessRate       float64 `json:"successRate"`
}

const companyStatsLimit = 20

// AggregateCompanies rolls jobs up by company_id, sorted descending by total
// applications and truncated to the top 20. Jobs without a company_id or
// without events are skipped.
func (p *Processor) AggregateCompanies(jobs []domain.TrackedApplication) []CompanyStat {
	byID := map[string]*CompanyStat{}
	var order []string

	for _, job := range jobs {
		if job.CompanyID == "" || len(job.StatusEvents) == 0 {
			continue
		}
		entry, ok := byID[job.CompanyID]
		if !ok {
			name := job.CompanyName
			if name == "" {
				name = job.CompanyID
			}
			entry = &CompanyStat{CompanyID: job.CompanyID, CompanyName: name}
			byID[job.CompanyID] = entry
			order = append(order, job.CompanyID)
		}

		applied, hasApplied := appliedEvent(job)
		if hasApplied {
			entry.TotalApplications++
		}

		current, _ := currentEvent(job)
		counted := false
		switch Classify(NormalizeStatus(current.Status)) {
		case StageRejected:
			entry.Rejections++
			counted = true
		case StageInterview:
			entry.Interviews++
			counted = true
		case StageOffer:
			entry.Offers++
			counted = true
		}
		if counted && hasApplied {
			if days, ok := daysBetween(p.localDate(applied.Timestamp), p.localDate(current.Timestamp)); ok {
				// Incremental mean over the running response count.
				n := float64(entry.Rejections + entry.Interviews + entry.Offers)
				entry.AvgResponseTime = (entry.AvgResponseTime*(n-1) + float64(days)) / n
			}
		}
	}

	stats := make([]CompanyStat, 0, len(order))
	for _, id := range order {
		entry := byID[id]
		if entry.TotalApplications > 0 {
			entry.SuccessRate = math.Round(100 * float64(entry.Interviews+entry.Offers) / float64(entry.TotalApplications))
		}
		stats = append(stats, *entry)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalApplications > stats[j].TotalApplications
	})
	if len(stats) > companyStatsLimit {
		stats = stats[:companyStatsLimit]
	}
	return stats
}

// weekdayNames indexed by time.Weekday.
var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// CountByDayOfWeek buckets jobs by the weekday of their applied-event local
// date. All seven keys are always present.
func (p *Processor) CountByDayOfWeek(jobs []domain.TrackedApplication) map[string]int {
	counts := emptyBuckets(weekdayNames)
	for _, job := range jobs {
		ev, ok := appliedEvent(job)
		if !ok {
			continue
		}
		date, ok := parseDate(p.localDate(ev.Timestamp))
		if !ok {
			continue
		}
		counts[weekdayNames[date.Weekday()]]++
	}
	return counts
}

// responseTimeBuckets in display order.
var responseTimeBuckets = []string{"0-7", "8-14", "15-30", "31-60", "60+", "No Response"}

// DistributeResponseTimes buckets, for each applied job, the day span to the
// earliest subsequent non-applied event; jobs that never heard back land in
// "No Response".
func (p *Processor) DistributeResponseTimes(jobs []domain.TrackedApplication) map[string]int {
	counts := emptyBuckets(responseTimeBuckets)
	for _, job := range jobs {
		applied, ok := appliedEvent(job)
		if !ok {
			continue
		}
		appliedAt, ok := parseUTC(applied.Timestamp)
		if !ok {
			continue
		}

		var first *domain.StatusEvent
		var firstAt int64
		for i, ev := range job.StatusEvents {
			if NormalizeStatus(ev.Status) == "applied" {
				continue
			}
			at, ok := parseUTC(ev.Timestamp)
			if !ok || !at.After(appliedAt) {
				continue
			}
			if first == nil || at.Unix() < firstAt {
				first = &job.StatusEvents[i]
				firstAt = at.Unix()
			}
		}

		if first == nil {
			counts["No Response"]++
			continue
		}
		days, ok := daysBetween(p.localDate(applied.Timestamp), p.localDate(first.Timestamp))
		if !ok {
			continue
		}
		counts[responseTimeBucket(days)]++
	}
	return counts
}

func responseTimeBucket(days int) string {
	switch {
	case days <= 7:
		return "0-7"
	case days <= 14:
		return "8-14"
	case days <= 30:
		return "15-30"
	case days <= 60:
		return "31-60"
	default:
		return "60+"
	}
}
