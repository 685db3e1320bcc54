// Package jwtdecode reads expiry and identity claims out of access tokens.
package jwtdecode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"taskboard/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned for tokens without an "exp" claim.
var ErrNoExpiry = errors.New("token has no expiry")

// Decoder implements domain.TokenDecoder. Without a key set it decodes claims
// without checking the signature, like a browser-side jwt-decode would.
type Decoder struct {
	keys   oidc.KeySet
	parser *jwt.Parser
}

var _ domain.TokenDecoder = (*Decoder)(nil)

// New returns a decoder that trusts the token payload as-is.
func New() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// NewVerifying returns a decoder that checks signatures against keys before
// reading claims.
func NewVerifying(keys oidc.KeySet) *Decoder {
	return &Decoder{keys: keys, parser: jwt.NewParser()}
}

// NewRemote returns a verifying decoder backed by the JWKS document at
// jwksURL. ctx bounds the lifetime of background key fetches.
func NewRemote(ctx context.Context, jwksURL string) *Decoder {
	return NewVerifying(oidc.NewRemoteKeySet(ctx, jwksURL))
}

// Decode implements domain.TokenDecoder.
func (d *Decoder) Decode(ctx context.Context, token string) (*domain.DecodedToken, error) {
	claims := jwt.MapClaims{}
	if d.keys != nil {
		payload, err := d.keys.VerifySignature(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("verify token signature: %w", err)
		}
		if err := json.Unmarshal(payload, &claims); err != nil {
			return nil, fmt.Errorf("decode token claims: %w", err)
		}
	} else if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return fromClaims(claims)
}

func fromClaims(claims jwt.MapClaims) (*domain.DecodedToken, error) {
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if exp == nil {
		return nil, ErrNoExpiry
	}
	username, _ := claims["username"].(string)
	return &domain.DecodedToken{
		Expiry:   exp.Time,
		UserID:   stringClaim(claims["user_id"]),
		Username: username,
	}, nil
}

// stringClaim renders a numeric or string claim as a string.
func stringClaim(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}
