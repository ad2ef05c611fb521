package store

import (
	"context"
	"fmt"
)

// Valid mark lists.
const (
	ListApplied = "applied"
	ListHidden  = "hidden"
)

// ApplicationLists are the job-posting IDs a user has marked by hand.
type ApplicationLists struct {
	Applied []string `json:"applied"`
	Hidden  []string `json:"hidden"`
}

func validList(list string) error {
	if list != ListApplied && list != ListHidden {
		return fmt.Errorf("unknown list %q", list)
	}
	return nil
}

// GetLists returns the user's applied and hidden marks.
func (s *Store) GetLists(ctx context.Context, username string) (ApplicationLists, error) {
	lists := ApplicationLists{Applied: []string{}, Hidden: []string{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, list FROM application_marks WHERE username = $1 ORDER BY created_at`, username)
	if err != nil {
		return lists, fmt.Errorf("get lists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var jobID, list string
		if err := rows.Scan(&jobID, &list); err != nil {
			return lists, fmt.Errorf("scan mark: %w", err)
		}
		switch list {
		case ListApplied:
			lists.Applied = append(lists.Applied, jobID)
		case ListHidden:
			lists.Hidden = append(lists.Hidden, jobID)
		}
	}
	return lists, rows.Err()
}

// SetMark adds or removes one job from a list. Setting an existing mark or
// clearing a missing one is a no-op.
func (s *Store) SetMark(ctx context.Context, username, jobID, list string, value bool) error {
	return s.SetMarks(ctx, username, []string{jobID}, list, value)
}

// SetMarks applies one add/remove operation to many jobs in a single
// transaction, so the UI can sync a page of checkboxes without flooding the
// database.
func (s *Store) SetMarks(ctx context.Context, username string, jobIDs []string, list string, value bool) error {
	if err := validList(list); err != nil {
		return err
	}
	if len(jobIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var query string
	if value {
		query = `
			INSERT INTO application_marks (username, job_id, list)
			VALUES ($1, $2, $3)
			ON CONFLICT (username, job_id, list) DO NOTHING
		`
	} else {
		query = `DELETE FROM application_marks WHERE username = $1 AND job_id = $2 AND list = $3`
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, jobID := range jobIDs {
		if _, err := stmt.ExecContext(ctx, username, jobID, list); err != nil {
			return fmt.Errorf("set mark %s: %w", jobID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
