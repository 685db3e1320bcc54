// Package domain contains the core client entities and the ports to the
// upstream API and session storage.
package domain

import (
	"context"
	"strings"
	"time"
)

// Session is the pair of credentials a browsing context holds after login.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// StoredSession is a Session persisted server-side under a random ID.
type StoredSession struct {
	ID        string
	Session   Session
	ExpiresAt time.Time
	CreatedAt time.Time
}

// DecodedToken is a read-only view of an access token's claims.
type DecodedToken struct {
	Expiry   time.Time
	UserID   string
	Username string
}

// Expired reports whether the token expiry lies before now.
func (t DecodedToken) Expired(now time.Time) bool {
	return t.Expiry.Before(now)
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are filled in.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return &ValidationError{Field: "username", Message: "Username is required."}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required."}
	}
	return nil
}

// Registration is the signup form payload. PasswordConfirm never leaves the
// client.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"-"`
}

// Validate checks required fields and that both passwords match.
func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return &ValidationError{Field: "username", Message: "Username is required."}
	case strings.TrimSpace(r.Email) == "":
		return &ValidationError{Field: "email", Message: "Email is required."}
	case r.Password == "":
		return &ValidationError{Field: "password", Message: "Password is required."}
	case r.Password != r.PasswordConfirm:
		return &ValidationError{Field: "password2", Message: "Please make sure your passwords match."}
	}
	return nil
}

// TokenStore persists the Session of one browsing context.
// Read returns nil when no session is stored.
type TokenStore interface {
	Save(ctx context.Context, s Session) error
	Read(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// SessionRepository defines the port for server-side session persistence.
// GetByID returns nil when the record is missing or expired.
type SessionRepository interface {
	Put(ctx context.Context, id string, s Session, expiresAt time.Time) error
	GetByID(ctx context.Context, id string) (*StoredSession, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

// TokenDecoder derives a DecodedToken from a raw access token.
type TokenDecoder interface {
	Decode(ctx context.Context, token string) (*DecodedToken, error)
}

// AuthAPI is the port for the upstream authentication endpoints.
type AuthAPI interface {
	ObtainToken(ctx context.Context, c Credentials) (Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Register(ctx context.Context, r Registration) error
}
