package app

import (
	"context"
	"log"

	"taskboard/internal/domain"
)

// GuardState is the outcome of a route guard check.
type GuardState int

const (
	// GuardChecking is the state before a check has completed.
	GuardChecking GuardState = iota
	// GuardAuthenticated lets the protected view render.
	GuardAuthenticated
	// GuardUnauthenticated renders nothing and redirects to the login screen.
	GuardUnauthenticated
)

func (s GuardState) String() string {
	switch s {
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "checking"
	}
}

// GuardMode selects how a protected page verifies the session.
type GuardMode string

const (
	// GuardLive confirms the session with the upstream profile endpoint on
	// every protected page, catching server-side revocation.
	GuardLive GuardMode = "live"
	// GuardLocal trusts the locally decoded token expiry.
	GuardLocal GuardMode = "local"
)

// GuardResult carries the state and, when authenticated, the token and the
// profile fetched during a live check.
type GuardResult struct {
	State   GuardState
	Token   string
	Profile *domain.UserProfile
}

// Guard decides whether a protected view may render.
type Guard struct {
	auth     *AuthService
	profiles domain.ProfileAPI
	mode     GuardMode
}

// NewGuard creates a route guard. An unknown mode falls back to GuardLive.
func NewGuard(auth *AuthService, profiles domain.ProfileAPI, mode GuardMode) *Guard {
	if mode != GuardLocal {
		mode = GuardLive
	}
	return &Guard{auth: auth, profiles: profiles, mode: mode}
}

// Mode returns the effective guard mode.
func (g *Guard) Mode() GuardMode { return g.mode }

// Check verifies the session held in store. Any failure clears the store.
func (g *Guard) Check(ctx context.Context, store domain.TokenStore) GuardResult {
	token, ok := g.auth.GetValidToken(ctx, store)
	if !ok {
		return g.reject(ctx, store)
	}
	if g.mode == GuardLocal {
		return GuardResult{State: GuardAuthenticated, Token: token}
	}

	profile, err := g.profiles.Profile(ctx, token)
	if err != nil {
		log.Printf("route guard: %v", err)
		return g.reject(ctx, store)
	}
	return GuardResult{State: GuardAuthenticated, Token: token, Profile: profile}
}

func (g *Guard) reject(ctx context.Context, store domain.TokenStore) GuardResult {
	if err := store.Clear(ctx); err != nil {
		log.Printf("route guard: clear token store: %v", err)
	}
	return GuardResult{State: GuardUnauthenticated}
}
