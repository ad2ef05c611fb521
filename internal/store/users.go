package store

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertCookie stores the user's Simplify session cookie, creating the user
// row on first contact.
func (s *Store) UpsertCookie(ctx context.Context, username, cookie string) error {
	query := `
		INSERT INTO users (username, simplify_cookie, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (username) DO UPDATE SET
			simplify_cookie = EXCLUDED.simplify_cookie,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, username, cookie); err != nil {
		return fmt.Errorf("upsert cookie: %w", err)
	}
	return nil
}

// GetCookie returns the user's stored cookie. ErrNotFound when the user has
// never stored one.
func (s *Store) GetCookie(ctx context.Context, username string) (string, error) {
	var cookie string
	err := s.db.QueryRowContext(ctx,
		`SELECT simplify_cookie FROM users WHERE username = $1`, username,
	).Scan(&cookie)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get cookie: %w", err)
	}
	return cookie, nil
}

// UsersWithCookie lists every user eligible for a scheduled refresh.
func (s *Store) UsersWithCookie(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username FROM users WHERE simplify_cookie <> '' ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, username)
	}
	return users, rows.Err()
}
