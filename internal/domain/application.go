package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TrackedApplication represents one job posting the user has interacted with,
// as parsed from the upstream tracker. Optional fields may be absent in older
// records; consumers must tolerate zero values.
type TrackedApplication struct {
	ID                 string        `json:"id,omitempty"`
	JobPostingID       string        `json:"job_posting_id,omitempty"`
	CompanyID          string        `json:"company_id"`
	CompanyName        string        `json:"company_name,omitempty"`
	JobPostingTitle    string        `json:"job_posting_title,omitempty"`
	JobPostingLocation string        `json:"job_posting_location,omitempty"`
	Coordinates        []Coordinate  `json:"coordinates"`
	Salary             *float64      `json:"salary,omitempty"`
	SalaryLow          *float64      `json:"salary_low,omitempty"`
	SalaryHigh         *float64      `json:"salary_high,omitempty"`
	SalaryPeriod       int           `json:"salary_period,omitempty"`
	TrackedDate        string        `json:"tracked_date,omitempty"`
	StatusEvents       []StatusEvent `json:"status_events"`
}

// StatusEvent is one timestamped lifecycle transition. Timestamp is an ISO
// string without a zone suffix and must be interpreted as UTC. Events are not
// guaranteed to be sorted.
type StatusEvent struct {
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Status is a lifecycle status as it appears on the wire: either a canonical
// string ("applied", "rejected", ...) or a legacy numeric code.
type Status struct {
	Name  string
	Code  int
	Coded bool
}

// StatusNamed builds a string-valued status.
func StatusNamed(name string) Status { return Status{Name: name} }

// StatusCoded builds a legacy numeric status.
func StatusCoded(code int) Status { return Status{Code: code, Coded: true} }

// UnmarshalJSON accepts both string and numeric encodings.
func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Status{Name: str}
		return nil
	}
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*s = Status{Code: int(num), Coded: true}
		return nil
	}
	return fmt.Errorf("status must be a string or a number, got %s", b)
}

// MarshalJSON writes the status back in its wire form.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Coded {
		return json.Marshal(s.Code)
	}
	return json.Marshal(s.Name)
}

// Coordinate is one geocoded point for a job's location, serialized upstream
// as a [latitude, longitude, place_name] triple.
type Coordinate struct {
	Lat  float64
	Lng  float64
	Name string
}

// UnmarshalJSON parses the triple form. Legacy caches hold placeholder triples
// like ["remote","remote","remote"]; non-numeric lat/lng parse to out-of-range
// values so downstream range checks drop them.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("coordinate must be an array: %w", err)
	}
	c.Lat, c.Lng = 999, 999
	if len(raw) > 0 {
		c.Lat = coordNumber(raw[0])
	}
	if len(raw) > 1 {
		c.Lng = coordNumber(raw[1])
	}
	if len(raw) > 2 {
		if s, ok := raw[2].(string); ok {
			c.Name = s
		}
	}
	return nil
}

// MarshalJSON writes the triple form back.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Lat, c.Lng, c.Name})
}

func coordNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 999
}
