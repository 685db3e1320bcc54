// Package postgres persists server-side token sessions in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"taskboard/internal/domain"
)

// SessionRepo implements domain.SessionRepository on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

// Put creates or replaces the session stored under id.
func (r *SessionRepo) Put(ctx context.Context, id string, sess domain.Session, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO client_sessions (id, access_token, refresh_token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET access_token = EXCLUDED.access_token,
		   refresh_token = EXCLUDED.refresh_token, expires_at = EXCLUDED.expires_at`,
		id, sess.AccessToken, sess.RefreshToken, expiresAt, time.Now(),
	)
	return err
}

// GetByID retrieves an unexpired session by id.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.StoredSession, error) {
	var s domain.StoredSession
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, access_token, refresh_token, expires_at, created_at FROM client_sessions WHERE id = $1 AND expires_at > $2",
		id, time.Now(),
	).Scan(&s.ID, &s.Session.AccessToken, &s.Session.RefreshToken, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a session by id.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM client_sessions WHERE id = $1", id)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM client_sessions WHERE expires_at < $1", time.Now())
	return err
}
