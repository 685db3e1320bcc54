package jwtdecode

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

func hsToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestDecode_Unverified(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	tok := hsToken(t, jwt.MapClaims{"exp": exp.Unix(), "user_id": 42, "username": "ann"})

	got, err := New().Decode(context.Background(), tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Expiry.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, got.Expiry)
	}
	if got.UserID != "42" {
		t.Errorf("expected user id 42, got %q", got.UserID)
	}
	if got.Username != "ann" {
		t.Errorf("expected username ann, got %q", got.Username)
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"no expiry", hsToken(t, jwt.MapClaims{"user_id": "1"})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New().Decode(context.Background(), tc.token); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := New().Decode(context.Background(), hsToken(t, jwt.MapClaims{"username": "x"}))
	if !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
}

func TestDecode_VerifiesSignature(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix(), "user_id": "7", "username": "bob"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}

	good := NewVerifying(&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}})
	got, err := good.Decode(context.Background(), tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.UserID != "7" || got.Username != "bob" {
		t.Errorf("unexpected claims %+v", got)
	}

	bad := NewVerifying(&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{other.Public()}})
	if _, err := bad.Decode(context.Background(), tok); err == nil {
		t.Fatal("expected signature error for foreign key")
	}
}
