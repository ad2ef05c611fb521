// Package analytics turns a list of tracked applications into every aggregate
// the dashboard renders: summary KPIs, salary histograms, a dense daily stats
// map, location/company/status rollups and time-bucketed trend series.
//
// Everything in this package is pure computation. It never touches storage,
// never logs, and never panics on malformed records: unparseable timestamps
// and missing optional fields degrade to skipped samples, and divisions guard
// against zero denominators. The wall clock and the viewer's time zone are
// injected through the Processor so results are deterministic under test.
package analytics

import (
	"fmt"
	"strings"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// legacyStatusNames translates the upstream tracker's numeric status codes to
// canonical lowercase names. The table is fixed; codes outside it produce
// "unknown_<code>" rather than an error.
var legacyStatusNames = map[int]string{
	1:  "saved",
	2:  "applied",
	3:  "phone screen",
	4:  "technical screen",
	5:  "onsite",
	6:  "offer",
	7:  "accepted",
	8:  "declined",
	9:  "withdrawn",
	11: "screen",
	12: "interviewing",
	23: "rejected",
}

// NormalizeStatus maps a wire status to its canonical lowercase string.
// String statuses are lowercased as-is; synonym folding happens in Classify.
// Total over its domain: never errors.
func NormalizeStatus(s domain.Status) string {
	if s.Coded {
		if name, ok := legacyStatusNames[s.Code]; ok {
			return name
		}
		return fmt.Sprintf("unknown_%d", s.Code)
	}
	return strings.ToLower(s.Name)
}

// Stage is the coarse lifecycle bucket shared by every aggregator. Finer
// synonyms ("phone screen", "onsite", ...) fold into one interview stage so
// the grouping cannot drift between call sites.
type Stage int

const (
	StagePending Stage = iota
	StageApplied
	StageInterview
	StageOffer
	StageRejected
	StageWithdrawn
)

var stageByStatus = map[string]Stage{
	"applied":          StageApplied,
	"phone screen":     StageInterview,
	"technical screen": StageInterview,
	"onsite":           StageInterview,
	"screen":           StageInterview,
	"interviewing":     StageInterview,
	"offer":            StageOffer,
	"accepted":         StageOffer,
	"declined":         StageOffer,
	"rejected":         StageRejected,
	"withdrawn":        StageWithdrawn,
}

// Classify maps a canonical status string to its lifecycle stage. Anything
// unrecognized (including "saved" and "unknown_<code>") is pending.
func Classify(status string) Stage {
	if st, ok := stageByStatus[status]; ok {
		return st
	}
	return StagePending
}
