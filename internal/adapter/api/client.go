// Package api implements the domain ports against the upstream REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"taskboard/internal/domain"

	"golang.org/x/oauth2"
)

const maxErrorBody = 64 << 10

// Client talks to the upstream API. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

var (
	_ domain.AuthAPI    = (*Client)(nil)
	_ domain.TaskAPI    = (*Client)(nil)
	_ domain.ProfileAPI = (*Client)(nil)
)

// New creates a Client for the API rooted at baseURL. A nil hc uses
// http.DefaultClient.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: u, http: hc}, nil
}

// BaseURL returns the root the client resolves endpoints against.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// resolve turns a possibly relative media path into an absolute URL.
func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// bearer returns a copy of the configured HTTP client whose transport
// attaches token as a bearer credential.
func (c *Client) bearer(token string) *http.Client {
	hc := *c.http
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   c.http.Transport,
	}
	return &hc
}

func newJSONRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a JSON answer into out when out is non-nil.
func (c *Client) do(hc *http.Client, req *http.Request, op string, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rej := &domain.RejectionError{Op: op, Status: resp.StatusCode, Detail: errorDetail(resp.Body)}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", domain.ErrAuthExpired, rej)
		}
		return rej
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorDetail extracts a presentable message from an error body. It prefers
// "detail" and otherwise takes the first field error in key order.
func errorDetail(r io.Reader) string {
	var body map[string]any
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return ""
	}
	if d, ok := body["detail"].(string); ok {
		return d
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := body[k].(type) {
		case string:
			return v
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}
