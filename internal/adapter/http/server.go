// Package adapthttp serves the server-rendered task board.
package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/app"
	"taskboard/internal/events"
)

// Cookie names of the token session and the UI session.
const (
	TokenCookie = "tb_session"
	UICookie    = "tb_ui"
)

const defaultUploadMax = 10 << 20

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth      *app.AuthService
	guard     *app.Guard
	boards    *app.Boards
	profiles  *app.ProfileService
	bus       *events.Bus
	tokens    sessions.Store
	ui        *websession.UI
	views     *views
	uploadMax int64
}

// New creates a Server wired to the given application services. tokens holds
// the token session; ui holds toasts and the browsing-context ID.
func New(auth *app.AuthService, guard *app.Guard, boards *app.Boards, profiles *app.ProfileService, bus *events.Bus, tokens sessions.Store, ui *websession.UI) *Server {
	return &Server{
		auth:      auth,
		guard:     guard,
		boards:    boards,
		profiles:  profiles,
		bus:       bus,
		tokens:    tokens,
		ui:        ui,
		views:     mustParseViews(),
		uploadMax: defaultUploadMax,
	}
}

// WithUploadLimit caps the size of a profile picture upload.
func (s *Server) WithUploadLimit(n int64) *Server {
	if n > 0 {
		s.uploadMax = n
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(withNoCache)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.redirectSignedIn)
		r.Get("/", s.handleLoginPage)
		r.Get("/signup", s.handleSignupPage)
	})
	r.Post("/", s.handleLogin)
	r.Post("/signup", s.handleSignup)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/profile", s.handleProfile)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/dashboard/tasks", s.handleTaskList)
		r.Get("/dashboard/events", s.handleEvents)
		r.Post("/tasks", s.handleCreateTask)
		r.Post("/tasks/{id}/toggle", s.handleToggleTask)
		r.Post("/tasks/{id}/rename", s.handleRenameTask)
		r.Post("/tasks/{id}/delete", s.handleDeleteTask)
		r.Post("/profile/picture", s.handleUploadPicture)
	})

	return r
}
