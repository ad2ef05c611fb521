package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// GetFilterPreference returns the user's saved default analytics window.
// Users without a saved preference get the "all" default.
func (s *Store) GetFilterPreference(ctx context.Context, username string) (domain.FilterPreference, error) {
	pref := domain.FilterPreference{DateRange: string(domain.RangeAll)}

	var start, end sql.NullString
	var updated time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT date_range, custom_start_date, custom_end_date, updated_at
		FROM filter_preferences WHERE username = $1
	`, username).Scan(&pref.DateRange, &start, &end, &updated)
	if err == sql.ErrNoRows {
		return pref, nil
	}
	if err != nil {
		return pref, fmt.Errorf("get filter preference: %w", err)
	}

	pref.CustomStartDate = start.String
	pref.CustomEndDate = end.String
	pref.UpdatedAt = updated.UTC().Format(time.RFC3339)
	return pref, nil
}

// SaveFilterPreference upserts the user's default analytics window.
func (s *Store) SaveFilterPreference(ctx context.Context, username string, pref domain.FilterPreference) error {
	if pref.DateRange == "" {
		pref.DateRange = string(domain.RangeAll)
	}

	query := `
		INSERT INTO filter_preferences (username, date_range, custom_start_date, custom_end_date, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NOW())
		ON CONFLICT (username) DO UPDATE SET
			date_range = EXCLUDED.date_range,
			custom_start_date = EXCLUDED.custom_start_date,
			custom_end_date = EXCLUDED.custom_end_date,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query,
		username, pref.DateRange, pref.CustomStartDate, pref.CustomEndDate); err != nil {
		return fmt.Errorf("save filter preference: %w", err)
	}
	return nil
}
