package websession

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"taskboard/internal/domain"
)

// Session value keys of the token session.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// Options returns the cookie options shared by every session cookie.
func Options(ttl time.Duration, secure bool) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieStore returns a gorilla CookieStore keyed from secret. Tokens
// live inside the authenticated, encrypted cookie.
func NewCookieStore(secret, purpose string, ttl time.Duration, secure bool) (*sessions.CookieStore, error) {
	hashKey, blockKey, err := DeriveKeys(secret, purpose)
	if err != nil {
		return nil, err
	}
	cs := sessions.NewCookieStore(hashKey, blockKey)
	cs.Options = Options(ttl, secure)
	cs.MaxAge(cs.Options.MaxAge)
	return cs, nil
}

// TokenStore is a domain.TokenStore bound to one request/response pair.
// Writes set a cookie, so they must happen before the response body.
type TokenStore struct {
	store sessions.Store
	name  string
	r     *http.Request
	w     http.ResponseWriter
}

// NewTokenStore binds store to r and w under the cookie name.
func NewTokenStore(store sessions.Store, name string, r *http.Request, w http.ResponseWriter) *TokenStore {
	return &TokenStore{store: store, name: name, r: r, w: w}
}

var _ domain.TokenStore = (*TokenStore)(nil)

// session returns the gorilla session. A cookie that fails to decode is
// replaced by a fresh session.
func (s *TokenStore) session() (*sessions.Session, error) {
	sess, err := s.store.Get(s.r, s.name)
	if err != nil {
		if sess == nil {
			return nil, err
		}
		log.Printf("websession: discarding unreadable %s cookie: %v", s.name, err)
	}
	return sess, nil
}

// Save stores both tokens.
func (s *TokenStore) Save(_ context.Context, t domain.Session) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	sess.Values[KeyAccessToken] = t.AccessToken
	if t.RefreshToken != "" {
		sess.Values[KeyRefreshToken] = t.RefreshToken
	} else {
		delete(sess.Values, KeyRefreshToken)
	}
	return sess.Save(s.r, s.w)
}

// Read returns the stored tokens, or nil when no access token is held.
func (s *TokenStore) Read(context.Context) (*domain.Session, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	access, _ := sess.Values[KeyAccessToken].(string)
	if access == "" {
		return nil, nil
	}
	refresh, _ := sess.Values[KeyRefreshToken].(string)
	return &domain.Session{AccessToken: access, RefreshToken: refresh}, nil
}

// Clear removes both tokens and expires the cookie.
func (s *TokenStore) Clear(context.Context) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	delete(sess.Values, KeyAccessToken)
	delete(sess.Values, KeyRefreshToken)
	sess.Options.MaxAge = -1
	return sess.Save(s.r, s.w)
}
