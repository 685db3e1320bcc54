package app

import (
	"context"
	"strings"

	"taskboard/internal/domain"
)

// ProfileService encapsulates profile viewing and avatar upload.
type ProfileService struct {
	api domain.ProfileAPI
}

// NewProfileService creates a ProfileService backed by the given API.
func NewProfileService(api domain.ProfileAPI) *ProfileService {
	return &ProfileService{api: api}
}

// Get returns the signed-in user's profile.
func (s *ProfileService) Get(ctx context.Context, token string) (*domain.UserProfile, error) {
	return s.api.Profile(ctx, token)
}

// UploadPicture uploads pic and returns the new picture URL. A nil pic means
// no file was selected: nothing is sent and the URL is empty.
func (s *ProfileService) UploadPicture(ctx context.Context, token string, pic *domain.Picture) (string, error) {
	if pic == nil || pic.Body == nil {
		return "", nil
	}
	if pic.ContentType != "" && !strings.HasPrefix(pic.ContentType, "image/") {
		return "", &domain.ValidationError{Field: "profile_picture", Message: "Please choose an image file."}
	}
	return s.api.UploadProfilePicture(ctx, token, *pic)
}
