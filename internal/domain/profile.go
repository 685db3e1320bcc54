package domain

import (
	"context"
	"io"
)

// UserProfile is the signed-in user's account data.
type UserProfile struct {
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	ProfilePictureURL *string `json:"profile_picture"`
}

// Picture is an image file selected for upload.
type Picture struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProfileAPI is the port for the upstream profile endpoints.
type ProfileAPI interface {
	Profile(ctx context.Context, token string) (*UserProfile, error)
	UploadProfilePicture(ctx context.Context, token string, pic Picture) (string, error)
}
