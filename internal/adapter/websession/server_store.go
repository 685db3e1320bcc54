package websession

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"taskboard/internal/domain"
)

// ServerStore is a sessions.Store that keeps only a signed session ID in the
// cookie and persists the tokens through a domain.SessionRepository.
type ServerStore struct {
	repo    domain.SessionRepository
	codecs  []securecookie.Codec
	Options *sessions.Options
	now     func() time.Time
}

// NewServerStore creates a ServerStore. Session records expire after ttl.
func NewServerStore(repo domain.SessionRepository, secret string, ttl time.Duration, secure bool) (*ServerStore, error) {
	hashKey, blockKey, err := DeriveKeys(secret, "server-session")
	if err != nil {
		return nil, err
	}
	codecs := securecookie.CodecsFromPairs(hashKey, blockKey)
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(int(ttl.Seconds()))
		}
	}
	return &ServerStore{
		repo:    repo,
		codecs:  codecs,
		Options: Options(ttl, secure),
		now:     time.Now,
	}, nil
}

var _ sessions.Store = (*ServerStore)(nil)

// Get returns the session cached in the request registry.
func (s *ServerStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie, or returns an empty one.
// A cookie whose record is gone yields an empty session without error.
func (s *ServerStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return sess, err
	}
	stored, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		return sess, err
	}
	if stored == nil {
		return sess, nil
	}
	sess.ID = stored.ID
	sess.Values[KeyAccessToken] = stored.Session.AccessToken
	if stored.Session.RefreshToken != "" {
		sess.Values[KeyRefreshToken] = stored.Session.RefreshToken
	}
	sess.IsNew = false
	return sess, nil
}

// Save persists the tokens and writes the ID cookie. A session without an
// access token, or with a negative MaxAge, is deleted.
func (s *ServerStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	access, _ := sess.Values[KeyAccessToken].(string)
	if sess.Options.MaxAge < 0 || access == "" {
		if sess.ID != "" {
			if err := s.repo.Delete(r.Context(), sess.ID); err != nil {
				return err
			}
		}
		opts := *sess.Options
		opts.MaxAge = -1
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", &opts))
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	refresh, _ := sess.Values[KeyRefreshToken].(string)
	expires := s.now().Add(time.Duration(sess.Options.MaxAge) * time.Second)
	if err := s.repo.Put(r.Context(), sess.ID, domain.Session{AccessToken: access, RefreshToken: refresh}, expires); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), encoded, sess.Options))
	return nil
}
