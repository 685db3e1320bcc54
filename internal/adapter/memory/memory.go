// Package memory implements an in-memory session repository for development
// and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"taskboard/internal/domain"
)

// SessionRepo keeps server-side token sessions in a map. Contents are lost
// on restart.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.StoredSession
	now      func() time.Time
}

// NewSessionRepo creates an empty repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[string]*domain.StoredSession),
		now:      time.Now,
	}
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

// Put creates or replaces the session stored under id.
func (r *SessionRepo) Put(ctx context.Context, id string, sess domain.Session, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := r.now().UTC()
	if old, ok := r.sessions[id]; ok {
		created = old.CreatedAt
	}
	r.sessions[id] = &domain.StoredSession{
		ID:        id,
		Session:   sess,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: created,
	}
	return nil
}

// GetByID retrieves a session. Expired sessions are removed and reported as
// missing.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.StoredSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	if r.now().After(s.ExpiresAt) {
		delete(r.sessions, id)
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete removes a session. Deleting a missing id is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, v := range r.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.sessions, k)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
