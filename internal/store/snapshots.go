package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// maxSnapshotsPerUser bounds how many frozen application sets one user can
// keep.
const maxSnapshotsPerUser = 5

// Snapshot freezes a user's application set (and the filters that were
// active) so past dashboards stay reproducible after later refreshes.
type Snapshot struct {
	ID          string                      `json:"id"`
	Username    string                      `json:"username"`
	Name        string                      `json:"name"`
	Description string                      `json:"description,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	Data        []domain.TrackedApplication `json:"data"`
	Filters     *domain.AnalyticsFilters    `json:"filters,omitempty"`
}

// SnapshotInfo is the listing form of a snapshot: metadata plus the job
// count, without the frozen data itself.
type SnapshotInfo struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	DataCount   int       `json:"data_count"`
}

// CreateSnapshot stores a new snapshot, enforcing the per-user limit.
func (s *Store) CreateSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analytics_snapshots WHERE username = $1`, snap.Username,
	).Scan(&count)
	if err != nil {
		return Snapshot{}, fmt.Errorf("count snapshots: %w", err)
	}
	if count >= maxSnapshotsPerUser {
		return Snapshot{}, ErrSnapshotLimit
	}

	if snap.Data == nil {
		snap.Data = []domain.TrackedApplication{}
	}
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal data: %w", err)
	}

	var filters []byte
	if snap.Filters != nil {
		if filters, err = json.Marshal(snap.Filters); err != nil {
			return Snapshot{}, fmt.Errorf("marshal filters: %w", err)
		}
	}

	snap.ID = uuid.NewString()
	snap.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO analytics_snapshots (id, username, name, description, data, filters, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
	`
	if _, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.Username, snap.Name, snap.Description, data, filters, snap.CreatedAt); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	return snap, nil
}

// ListSnapshots returns the user's snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, username string) ([]SnapshotInfo, error) {
	query := `
		SELECT id, username, name, COALESCE(description, ''), created_at, jsonb_array_length(data)
		FROM analytics_snapshots
		WHERE username = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	infos := []SnapshotInfo{}
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Username, &info.Name, &info.Description, &info.CreatedAt, &info.DataCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetSnapshot loads one snapshot with its frozen data. Snapshots are scoped
// to their owner; other users get ErrNotFound.
func (s *Store) GetSnapshot(ctx context.Context, username, id string) (Snapshot, error) {
	var snap Snapshot
	var description sql.NullString
	var data, filters []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, name, description, data, filters, created_at
		FROM analytics_snapshots
		WHERE id = $1 AND username = $2
	`, id, username).Scan(&snap.ID, &snap.Username, &snap.Name, &description, &data, &filters, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	snap.Description = description.String
	if err := json.Unmarshal(data, &snap.Data); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal data: %w", err)
	}
	if len(filters) > 0 {
		snap.Filters = &domain.AnalyticsFilters{}
		if err := json.Unmarshal(filters, snap.Filters); err != nil {
			return Snapshot{}, fmt.Errorf("unmarshal filters: %w", err)
		}
	}

	return snap, nil
}

// DeleteSnapshot removes one of the user's snapshots.
func (s *Store) DeleteSnapshot(ctx context.Context, username, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analytics_snapshots WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
