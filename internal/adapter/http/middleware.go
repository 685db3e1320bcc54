package adapthttp

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/app"
	"taskboard/internal/domain"
)

type contextKey string

const (
	tokenContextKey   contextKey = "token"
	profileContextKey contextKey = "profile"
)

func (s *Server) tokenStore(w http.ResponseWriter, r *http.Request) *websession.TokenStore {
	return websession.NewTokenStore(s.tokens, TokenCookie, r, w)
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenContextKey).(string)
	return t
}

func profileFrom(ctx context.Context) *domain.UserProfile {
	p, _ := ctx.Value(profileContextKey).(*domain.UserProfile)
	return p
}

// requireSession renders a protected page only when the route guard
// authenticates the session. Otherwise the store is cleared and the visitor
// is sent to the login page.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := s.tokenStore(w, r)
		had := s.auth.HasSession(r.Context(), store)

		res := s.guard.Check(r.Context(), store)
		if res.State != app.GuardAuthenticated {
			s.closeBoard(r)
			if had {
				s.toastSessionExpired(w, r)
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), tokenContextKey, res.Token)
		if res.Profile != nil {
			ctx = context.WithValue(ctx, profileContextKey, res.Profile)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireToken attaches a valid access token without the profile round trip.
// Partials and streams answer 401; form posts redirect to the login page.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := s.tokenStore(w, r)
		token, ok := s.auth.GetValidToken(r.Context(), store)
		if !ok {
			if err := store.Clear(r.Context()); err != nil {
				log.Printf("clear token store: %v", err)
			}
			s.closeBoard(r)
			if r.Method == http.MethodGet {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			s.toastSessionExpired(w, r)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// redirectSignedIn sends a visitor that already holds a token to the
// dashboard.
func (s *Server) redirectSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth.HasSession(r.Context(), s.tokenStore(w, r)) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %d %s %s", r.Method, r.URL.Path, status, time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
