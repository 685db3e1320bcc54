package adapthttp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/app"
	"taskboard/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// dashboardURL returns the dashboard with the tab the form was posted from.
func dashboardURL(r *http.Request) string {
	if r.FormValue("tab") == "completed" {
		return "/dashboard?tab=completed"
	}
	return "/dashboard"
}

// board returns the dashboard of the requesting browsing context.
func (s *Server) board(w http.ResponseWriter, r *http.Request) *app.Board {
	return s.boards.Open(s.ui.ContextID(r, w))
}

// closeBoard drops the cached dashboard of the requesting browsing context so
// no tasks outlive the token session that loaded them.
func (s *Server) closeBoard(r *http.Request) {
	if id := s.ui.PeekContextID(r); id != "" {
		s.boards.Close(id)
	}
}

func (s *Server) toast(w http.ResponseWriter, r *http.Request, kind, title, msg string) {
	s.ui.Toast(r, w, websession.Toast{Kind: kind, Title: title, Message: msg})
}

func (s *Server) toastSessionExpired(w http.ResponseWriter, r *http.Request) {
	s.toast(w, r, websession.ToastError, "Session expired", "Please log in again.")
}

// endSession clears the token store after the upstream API stopped accepting
// the token and sends the visitor to the login page.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tokenStore(w, r).Clear(r.Context()); err != nil {
		log.Printf("clear token store: %v", err)
	}
	s.closeBoard(r)
	s.toastSessionExpired(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail reports err as a toast and redirects to next. An expired session ends
// instead.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, title, fallback, next string) {
	if errors.Is(err, domain.ErrAuthExpired) {
		s.endSession(w, r)
		return
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	s.toast(w, r, websession.ToastError, title, domain.UserMessage(err, fallback))
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) succeed(w http.ResponseWriter, r *http.Request, title, msg, next string) {
	s.toast(w, r, websession.ToastSuccess, title, msg)
	http.Redirect(w, r, next, http.StatusSeeOther)
}
