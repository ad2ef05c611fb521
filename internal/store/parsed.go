package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// SaveParsed replaces the user's parsed application cache.
func (s *Store) SaveParsed(ctx context.Context, username string, apps []domain.TrackedApplication) error {
	if apps == nil {
		apps = []domain.TrackedApplication{}
	}
	data, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("marshal applications: %w", err)
	}

	query := `
		INSERT INTO parsed_applications (username, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (username) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, username, data); err != nil {
		return fmt.Errorf("save parsed: %w", err)
	}
	return nil
}

// GetParsed returns the user's parsed applications. Users who never
// refreshed get an empty slice, not an error.
func (s *Store) GetParsed(ctx context.Context, username string) ([]domain.TrackedApplication, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM parsed_applications WHERE username = $1`, username,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return []domain.TrackedApplication{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get parsed: %w", err)
	}

	var apps []domain.TrackedApplication
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("unmarshal applications: %w", err)
	}
	return apps, nil
}
