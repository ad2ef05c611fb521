package domain

// DateRange selects the analytics window.
type DateRange string

const (
	RangeAll    DateRange = "all"
	Range7d     DateRange = "7d"
	Range14d    DateRange = "14d"
	Range30d    DateRange = "30d"
	Range60d    DateRange = "60d"
	Range90d    DateRange = "90d"
	RangeCustom DateRange = "custom"
)

// RelativeDays returns the window size for relative ranges and false for
// "all", "custom", empty, or anything unrecognized.
func (r DateRange) RelativeDays() (int, bool) {
	switch r {
	case Range7d:
		return 7, true
	case Range14d:
		return 14, true
	case Range30d:
		return 30, true
	case Range60d:
		return 60, true
	case Range90d:
		return 90, true
	}
	return 0, false
}

// AnalyticsFilters narrows the tracked-application list before aggregation.
// Zero values mean "clause inactive": a partially populated filter set (e.g.
// custom range selected with no dates chosen yet) is valid and simply skips
// the missing clauses.
type AnalyticsFilters struct {
	DateRange       DateRange `json:"date_range,omitempty"`
	CustomStartDate string    `json:"custom_start_date,omitempty"` // YYYY-MM-DD
	CustomEndDate   string    `json:"custom_end_date,omitempty"`   // YYYY-MM-DD
	Companies       []string  `json:"companies,omitempty"`
	Locations       []string  `json:"locations,omitempty"`
	Statuses        []string  `json:"statuses,omitempty"`
	SalaryMin       *float64  `json:"salary_min,omitempty"`
	SalaryMax       *float64  `json:"salary_max,omitempty"`
}

// FilterPreference is the user's saved default analytics window.
type FilterPreference struct {
	DateRange       string `json:"date_range"`
	CustomStartDate string `json:"custom_start_date,omitempty"`
	CustomEndDate   string `json:"custom_end_date,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}
