package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/go-tracker/internal/analytics"
	"github.com/project-tktt/go-tracker/internal/domain"
)

// ── NormalizeStatus ────────────────────────────────────────────────────────

func TestNormalizeStatus_LegacyCodes(t *testing.T) {
	want := map[int]string{
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
	for code, name := range want {
		assert.Equal(t, name, analytics.NormalizeStatus(domain.StatusCoded(code)), "code %d", code)
	}
}

func TestNormalizeStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, "unknown_99", analytics.NormalizeStatus(domain.StatusCoded(99)))
	assert.Equal(t, "unknown_0", analytics.NormalizeStatus(domain.StatusCoded(0)))
}

func TestNormalizeStatus_StringsLowercased(t *testing.T) {
	assert.Equal(t, "rejected", analytics.NormalizeStatus(domain.StatusNamed("Rejected")))
	assert.Equal(t, "phone screen", analytics.NormalizeStatus(domain.StatusNamed("Phone Screen")))
	assert.Equal(t, "", analytics.NormalizeStatus(domain.StatusNamed("")))
}

// ── Classify ───────────────────────────────────────────────────────────────

func TestClassify_Stages(t *testing.T) {
	cases := []struct {
		status string
		want   analytics.Stage
	}{
		{"applied", analytics.StageApplied},
		{"phone screen", analytics.StageInterview},
		{"technical screen", analytics.StageInterview},
		{"onsite", analytics.StageInterview},
		{"screen", analytics.StageInterview},
		{"interviewing", analytics.StageInterview},
		{"offer", analytics.StageOffer},
		{"accepted", analytics.StageOffer},
		{"declined", analytics.StageOffer},
		{"rejected", analytics.StageRejected},
		{"withdrawn", analytics.StageWithdrawn},
		{"saved", analytics.StagePending},
		{"unknown_42", analytics.StagePending},
		{"", analytics.StagePending},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, analytics.Classify(c.status), "status %q", c.status)
	}
}
