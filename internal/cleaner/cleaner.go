package cleaner

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner sanitizes text coming from job postings. Titles, company names
// and locations are rendered verbatim in the dashboard, so anything
// resembling markup is stripped rather than escaped.
type Cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner creates a cleaner that strips all HTML
func NewCleaner() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// CleanToText strips markup and collapses the leftover whitespace.
func (c *Cleaner) CleanToText(s string) string {
	text := c.policy.Sanitize(s)
	text = strings.Join(strings.Fields(text), " ")
	return text
}

// CleanAll sanitizes each string in a slice.
func (c *Cleaner) CleanAll(values []string) []string {
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = c.CleanToText(v)
	}
	return result
}
