package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/go-tracker/internal/domain"
)

func TestStatus_UnmarshalStringAndNumber(t *testing.T) {
	var app domain.TrackedApplication
	raw := `{
		"company_id": "acme",
		"status_events": [
			{"status": "applied", "timestamp": "2025-01-02T10:00:00"},
			{"status": 23, "timestamp": "2025-01-09T10:00:00"}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &app))

	require.Len(t, app.StatusEvents, 2)
	assert.Equal(t, domain.StatusNamed("applied"), app.StatusEvents[0].Status)
	assert.Equal(t, domain.StatusCoded(23), app.StatusEvents[1].Status)
}

func TestStatus_RoundTrip(t *testing.T) {
	events := []domain.StatusEvent{
		{Status: domain.StatusNamed("applied"), Timestamp: "2025-01-02T10:00:00"},
		{Status: domain.StatusCoded(11), Timestamp: "2025-01-03T10:00:00"},
	}
	data, err := json.Marshal(events)
	require.NoError(t, err)

	var back []domain.StatusEvent
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, events, back)
}

func TestCoordinate_UnmarshalTriple(t *testing.T) {
	var coords []domain.Coordinate
	raw := `[[40.71, -74.01, "New York, NY"], ["remote", "remote", "remote"]]`
	require.NoError(t, json.Unmarshal([]byte(raw), &coords))

	require.Len(t, coords, 2)
	assert.Equal(t, 40.71, coords[0].Lat)
	assert.Equal(t, -74.01, coords[0].Lng)
	assert.Equal(t, "New York, NY", coords[0].Name)
	// Placeholder triples parse to out-of-range values so aggregation drops them.
	assert.Greater(t, coords[1].Lat, 90.0)
}

func TestDateRange_RelativeDays(t *testing.T) {
	days, ok := domain.Range30d.RelativeDays()
	assert.True(t, ok)
	assert.Equal(t, 30, days)

	_, ok = domain.RangeAll.RelativeDays()
	assert.False(t, ok)
	_, ok = domain.RangeCustom.RelativeDays()
	assert.False(t, ok)
	_, ok = domain.DateRange("2w").RelativeDays()
	assert.False(t, ok)
}
