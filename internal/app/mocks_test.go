package app

import (
	"context"
	"errors"

	"taskboard/internal/domain"
)

type mockAuthAPI struct {
	obtainFn   func(ctx context.Context, c domain.Credentials) (domain.Session, error)
	refreshFn  func(ctx context.Context, refreshToken string) (string, error)
	registerFn func(ctx context.Context, r domain.Registration) error
}

func (m *mockAuthAPI) ObtainToken(ctx context.Context, c domain.Credentials) (domain.Session, error) {
	if m.obtainFn != nil {
		return m.obtainFn(ctx, c)
	}
	return domain.Session{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return "", errors.New("refresh not configured")
}

func (m *mockAuthAPI) Register(ctx context.Context, r domain.Registration) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, r)
	}
	return nil
}

type mockDecoder struct {
	decodeFn func(ctx context.Context, token string) (*domain.DecodedToken, error)
}

func (m *mockDecoder) Decode(ctx context.Context, token string) (*domain.DecodedToken, error) {
	if m.decodeFn != nil {
		return m.decodeFn(ctx, token)
	}
	return nil, errors.New("cannot decode")
}

type mockTaskAPI struct {
	listFn   func(ctx context.Context, token string, completed bool) ([]domain.Task, error)
	createFn func(ctx context.Context, token, title string) (*domain.Task, error)
	updateFn func(ctx context.Context, token string, id int64, patch domain.TaskPatch) error
	deleteFn func(ctx context.Context, token string, id int64) error
}

func (m *mockTaskAPI) ListTasks(ctx context.Context, token string, completed bool) ([]domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, token, completed)
	}
	return []domain.Task{}, nil
}

func (m *mockTaskAPI) CreateTask(ctx context.Context, token, title string) (*domain.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, token, title)
	}
	return &domain.Task{ID: 1, Title: title}, nil
}

func (m *mockTaskAPI) UpdateTask(ctx context.Context, token string, id int64, patch domain.TaskPatch) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, token, id, patch)
	}
	return nil
}

func (m *mockTaskAPI) DeleteTask(ctx context.Context, token string, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token, id)
	}
	return nil
}

type mockProfileAPI struct {
	profileFn func(ctx context.Context, token string) (*domain.UserProfile, error)
	uploadFn  func(ctx context.Context, token string, pic domain.Picture) (string, error)
}

func (m *mockProfileAPI) Profile(ctx context.Context, token string) (*domain.UserProfile, error) {
	if m.profileFn != nil {
		return m.profileFn(ctx, token)
	}
	return &domain.UserProfile{Username: "ann"}, nil
}

func (m *mockProfileAPI) UploadProfilePicture(ctx context.Context, token string, pic domain.Picture) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, token, pic)
	}
	return "http://api.test/media/pic.png", nil
}

// memStore is a TokenStore held in a struct field.
type memStore struct {
	sess    *domain.Session
	saves   int
	cleared bool
	readErr error
}

func (s *memStore) Save(_ context.Context, sess domain.Session) error {
	s.sess = &sess
	s.saves++
	return nil
}

func (s *memStore) Read(context.Context) (*domain.Session, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.sess == nil {
		return nil, nil
	}
	cp := *s.sess
	return &cp, nil
}

func (s *memStore) Clear(context.Context) error {
	s.sess = nil
	s.cleared = true
	return nil
}
