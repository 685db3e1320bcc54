// Package app holds the client use cases: session lifecycle, route guarding,
// and the task and profile flows.
package app

import (
	"context"
	"log"
	"time"

	"taskboard/internal/domain"
)

// AuthService manages the session lifecycle of one browsing context at a time.
type AuthService struct {
	api     domain.AuthAPI
	decoder domain.TokenDecoder
	now     func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(api domain.AuthAPI, decoder domain.TokenDecoder) *AuthService {
	return &AuthService{
		api:     api,
		decoder: decoder,
		now:     time.Now,
	}
}

// Login validates the credentials, obtains a token pair and stores it.
func (s *AuthService) Login(ctx context.Context, store domain.TokenStore, c domain.Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	sess, err := s.api.ObtainToken(ctx, c)
	if err != nil {
		return err
	}
	return store.Save(ctx, sess)
}

// Signup validates the registration form and creates the account upstream.
// It does not sign the user in.
func (s *AuthService) Signup(ctx context.Context, r domain.Registration) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.api.Register(ctx, r)
}

// Logout destroys the stored session.
func (s *AuthService) Logout(ctx context.Context, store domain.TokenStore) error {
	return store.Clear(ctx)
}

// HasSession reports whether an access token is stored, without checking it.
func (s *AuthService) HasSession(ctx context.Context, store domain.TokenStore) bool {
	sess, err := store.Read(ctx)
	return err == nil && sess != nil && sess.AccessToken != ""
}

// GetValidToken returns a usable access token, refreshing it once when the
// stored one is expired or unreadable. ok is false when the caller must treat
// the user as logged out.
func (s *AuthService) GetValidToken(ctx context.Context, store domain.TokenStore) (token string, ok bool) {
	sess, err := store.Read(ctx)
	if err != nil {
		log.Printf("token store read: %v", err)
		return "", false
	}
	if sess == nil || sess.AccessToken == "" {
		return "", false
	}

	decoded, err := s.decoder.Decode(ctx, sess.AccessToken)
	if err == nil && !decoded.Expired(s.now()) {
		return sess.AccessToken, true
	}
	return s.refresh(ctx, store, *sess)
}

func (s *AuthService) refresh(ctx context.Context, store domain.TokenStore, sess domain.Session) (string, bool) {
	if sess.RefreshToken == "" {
		return "", false
	}
	access, err := s.api.RefreshToken(ctx, sess.RefreshToken)
	if err != nil {
		log.Printf("refresh token: %v", err)
		return "", false
	}

	sess.AccessToken = access
	if err := store.Save(ctx, sess); err != nil {
		log.Printf("token store save after refresh: %v", err)
	}
	return access, true
}
