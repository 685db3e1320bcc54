package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"taskboard/internal/domain"
)

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context, token string) (*domain.UserProfile, error) {
	req, err := newJSONRequest(ctx, http.MethodGet, c.endpoint("/api/profile/", nil), nil)
	if err != nil {
		return nil, err
	}
	var p domain.UserProfile
	if err := c.do(c.bearer(token), req, "fetch profile", &p); err != nil {
		return nil, err
	}
	if p.ProfilePictureURL != nil {
		if *p.ProfilePictureURL == "" {
			p.ProfilePictureURL = nil
		} else {
			abs := c.resolve(*p.ProfilePictureURL)
			p.ProfilePictureURL = &abs
		}
	}
	return &p, nil
}

// UploadProfilePicture posts pic as multipart field "profile_picture" and
// returns the absolute URL of the stored picture.
func (c *Client) UploadProfilePicture(ctx context.Context, token string, pic domain.Picture) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_picture"; filename=%q`, pic.Filename))
	ct := pic.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, pic.Body); err != nil {
		return "", fmt.Errorf("upload profile picture: read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/upload-profile-picture/", nil), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out struct {
		ProfilePicture string `json:"profile_picture"`
	}
	if err := c.do(c.bearer(token), req, "upload profile picture", &out); err != nil {
		return "", err
	}
	if out.ProfilePicture == "" {
		return "", errors.New("upload profile picture: response is missing the picture url")
	}
	return c.resolve(out.ProfilePicture), nil
}
