package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reventa/internal/core"
)

// UpsertUser creates or refreshes a user keyed by its external open id,
// bumping last_signed_in on every call.
func (r *Repository) UpsertUser(ctx context.Context, u core.User) (*core.User, error) {
	if u.Role == "" {
		u.Role = "user"
	}
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (open_id, name, email, login_method, role, created_at, last_signed_in)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(open_id) DO UPDATE SET
		    name           = excluded.name,
		    email          = excluded.email,
		    login_method   = excluded.login_method,
		    last_signed_in = excluded.last_signed_in`,
		u.OpenID, u.Name, u.Email, u.LoginMethod, u.Role, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return r.GetUserByOpenID(ctx, u.OpenID)
}

// GetUserByOpenID returns core.ErrNotFound for an unknown open id.
func (r *Repository) GetUserByOpenID(ctx context.Context, openID string) (*core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, open_id, name, email, login_method, role, created_at, last_signed_in
		 FROM users WHERE open_id = ?`, openID).
		Scan(&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod, &u.Role,
			&u.CreatedAt, &u.LastSignedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", openID, err)
	}
	return &u, nil
}
