package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskboard/internal/domain"
)

func newTestGuard(profiles *mockProfileAPI, mode GuardMode) *Guard {
	auth := NewAuthService(&mockAuthAPI{}, decoderWithExpiry(time.Now().Add(time.Hour)))
	return NewGuard(auth, profiles, mode)
}

func TestGuard_ZeroStateIsChecking(t *testing.T) {
	var r GuardResult
	if r.State != GuardChecking {
		t.Fatalf("expected checking, got %v", r.State)
	}
}

func TestGuard_LiveAuthenticated(t *testing.T) {
	g := newTestGuard(&mockProfileAPI{
		profileFn: func(ctx context.Context, token string) (*domain.UserProfile, error) {
			if token != "tok" {
				t.Errorf("expected current token, got %q", token)
			}
			return &domain.UserProfile{Username: "ann"}, nil
		},
	}, GuardLive)
	store := &memStore{sess: &domain.Session{AccessToken: "tok", RefreshToken: "r"}}

	res := g.Check(context.Background(), store)
	if res.State != GuardAuthenticated {
		t.Fatalf("expected authenticated, got %v", res.State)
	}
	if res.Profile == nil || res.Profile.Username != "ann" {
		t.Errorf("expected profile, got %+v", res.Profile)
	}
	if store.cleared {
		t.Error("store must not be cleared")
	}
}

func TestGuard_LiveFailuresClearStore(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unauthorized", fmt.Errorf("%w: %w", domain.ErrAuthExpired, &domain.RejectionError{Status: 401})},
		{"server error", &domain.RejectionError{Status: 500}},
		{"network", &domain.NetworkError{Op: "fetch profile", Err: errors.New("timeout")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGuard(&mockProfileAPI{
				profileFn: func(ctx context.Context, token string) (*domain.UserProfile, error) {
					return nil, tc.err
				},
			}, GuardLive)
			store := &memStore{sess: &domain.Session{AccessToken: "tok", RefreshToken: "r"}}

			res := g.Check(context.Background(), store)
			if res.State != GuardUnauthenticated {
				t.Fatalf("expected unauthenticated, got %v", res.State)
			}
			if !store.cleared || store.sess != nil {
				t.Error("expected token store cleared")
			}
		})
	}
}

func TestGuard_NoToken(t *testing.T) {
	g := newTestGuard(&mockProfileAPI{
		profileFn: func(ctx context.Context, token string) (*domain.UserProfile, error) {
			t.Error("profile must not be fetched without a token")
			return nil, nil
		},
	}, GuardLive)

	if res := g.Check(context.Background(), &memStore{}); res.State != GuardUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", res.State)
	}
}

func TestGuard_LocalModeSkipsRoundTrip(t *testing.T) {
	g := newTestGuard(&mockProfileAPI{
		profileFn: func(ctx context.Context, token string) (*domain.UserProfile, error) {
			t.Error("local mode must not call the profile endpoint")
			return nil, nil
		},
	}, GuardLocal)

	res := g.Check(context.Background(), &memStore{sess: &domain.Session{AccessToken: "tok"}})
	if res.State != GuardAuthenticated || res.Token != "tok" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNewGuard_UnknownModeIsLive(t *testing.T) {
	if g := newTestGuard(&mockProfileAPI{}, GuardMode("bogus")); g.Mode() != GuardLive {
		t.Fatalf("expected live mode, got %q", g.Mode())
	}
}
