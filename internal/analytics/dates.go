package analytics

import (
	"sort"
	"time"

	"github.com/project-tktt/go-tracker/internal/domain"
)

const dateLayout = "2006-01-02"

// Processor runs the aggregation pipeline. The clock and the viewer's time
// zone are explicit so "today" and all day/week/month bucketing are
// deterministic in tests and follow the end user rather than the server.
type Processor struct {
	now func() time.Time
	loc *time.Location
}

// NewProcessor returns a Processor. A nil now defaults to time.Now, a nil loc
// to the process-local zone.
func NewProcessor(now func() time.Time, loc *time.Location) *Processor {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Processor{now: now, loc: loc}
}

// timestampLayouts covers the naive ISO forms the tracker emits. Zoned forms
// are accepted too so re-parsed snapshots round-trip.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// parseUTC interprets a naive timestamp as UTC. ok is false for empty or
// unparseable input; callers skip the sample rather than fail.
func parseUTC(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// localDate renders a naive-UTC timestamp as the viewer's calendar date
// (YYYY-MM-DD). Empty string means missing/unparseable.
func (p *Processor) localDate(ts string) string {
	t, ok := parseUTC(ts)
	if !ok {
		return ""
	}
	return t.In(p.loc).Format(dateLayout)
}

// today is the viewer's current calendar date.
func (p *Processor) today() string {
	return p.now().In(p.loc).Format(dateLayout)
}

// parseDate parses a YYYY-MM-DD string.
func parseDate(d string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, d)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// daysBetween is the signed calendar-day span from date a to date b. Negative
// when b precedes a; samples from mis-ordered events are not clamped.
func daysBetween(a, b string) (int, bool) {
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if !okA || !okB {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}

// appliedEvent returns the job's "applied" event: first match in event order,
// mirroring how the tracker records were consumed historically. ok is false
// when the job has none.
func appliedEvent(job domain.TrackedApplication) (domain.StatusEvent, bool) {
	for _, ev := range job.StatusEvents {
		if NormalizeStatus(ev.Status) == "applied" {
			return ev, true
		}
	}
	return domain.StatusEvent{}, false
}

// currentEvent is the latest event by timestamp. Events are not guaranteed
// sorted, so this sorts a copy descending and takes the head; unparseable
// timestamps sort last.
func currentEvent(job domain.TrackedApplication) (domain.StatusEvent, bool) {
	if len(job.StatusEvents) == 0 {
		return domain.StatusEvent{}, false
	}
	events := make([]domain.StatusEvent, len(job.StatusEvents))
	copy(events, job.StatusEvents)
	sort.SliceStable(events, func(i, j int) bool {
		ti, _ := parseUTC(events[i].Timestamp)
		tj, _ := parseUTC(events[j].Timestamp)
		return ti.After(tj)
	})
	return events[0], true
}
