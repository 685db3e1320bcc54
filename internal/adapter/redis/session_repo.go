// Package redis persists server-side token sessions in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard/internal/domain"
)

const keyPrefix = "taskboard:session:"

// NewClient parses a redis:// URL and returns a client after a ping.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// SessionRepo implements domain.SessionRepository on Redis. Expiry is left
// to the key TTL.
type SessionRepo struct {
	rdb redis.Cmdable
	now func() time.Time
}

// NewSessionRepo wraps a Redis client as a SessionRepository.
func NewSessionRepo(rdb redis.Cmdable) *SessionRepo {
	return &SessionRepo{rdb: rdb, now: time.Now}
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

type record struct {
	AccessToken  string    `json:"access"`
	RefreshToken string    `json:"refresh,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func key(id string) string { return keyPrefix + id }

// Put creates or replaces the session stored under id. A session that is
// already expired is deleted instead.
func (r *SessionRepo) Put(ctx context.Context, id string, sess domain.Session, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, id)
	}
	b, err := json.Marshal(record{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    expiresAt.UTC(),
		CreatedAt:    r.now().UTC(),
	})
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(id), b, ttl).Err()
}

// GetByID retrieves a session by id. A missing key is reported as nil.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.StoredSession, error) {
	b, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &domain.StoredSession{
		ID:        id,
		Session:   domain.Session{AccessToken: rec.AccessToken, RefreshToken: rec.RefreshToken},
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Delete removes a session.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, key(id)).Err()
}

// DeleteExpired is a no-op: Redis evicts keys when their TTL ends.
func (r *SessionRepo) DeleteExpired(context.Context) error {
	return nil
}
