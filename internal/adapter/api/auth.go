package api

import (
	"context"
	"errors"
	"net/http"

	"taskboard/internal/domain"
)

// ObtainToken exchanges credentials for an access/refresh token pair.
func (c *Client) ObtainToken(ctx context.Context, cred domain.Credentials) (domain.Session, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.endpoint("/api/token/", nil), cred)
	if err != nil {
		return domain.Session{}, err
	}
	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := c.do(c.http, req, "obtain token", &out); err != nil {
		return domain.Session{}, err
	}
	if out.Access == "" || out.Refresh == "" {
		return domain.Session{}, errors.New("obtain token: response is missing a token")
	}
	return domain.Session{AccessToken: out.Access, RefreshToken: out.Refresh}, nil
}

// RefreshToken mints a new access token from a refresh token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}
	req, err := newJSONRequest(ctx, http.MethodPost, c.endpoint("/api/token/refresh/", nil), body)
	if err != nil {
		return "", err
	}
	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(c.http, req, "refresh token", &out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", errors.New("refresh token: response is missing the access token")
	}
	return out.Access, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, r domain.Registration) error {
	req, err := newJSONRequest(ctx, http.MethodPost, c.endpoint("/api/register/", nil), r)
	if err != nil {
		return err
	}
	return c.do(c.http, req, "register", nil)
}
