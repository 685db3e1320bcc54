package adapthttp

import (
	"errors"
	"log"
	"net/http"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/domain"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", pageData{Title: "Log in"})
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup", pageData{Title: "Sign up"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds := domain.Credentials{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	err := s.auth.Login(r.Context(), s.tokenStore(w, r), creds)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		s.render(w, r, http.StatusUnprocessableEntity, "login", pageData{
			Title:    "Log in",
			Error:    ve.Message,
			Username: creds.Username,
		})
		return
	}
	if err != nil {
		log.Printf("login %q: %v", creds.Username, err)
		s.toast(w, r, websession.ToastError, "Login failed", "Please check your credentials and try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.closeBoard(r)
	s.succeed(w, r, "Login successful", "Welcome back!", "/dashboard")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	reg := domain.Registration{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password2"),
	}
	retry := pageData{Title: "Sign up", Username: reg.Username, Email: reg.Email}

	err := s.auth.Signup(r.Context(), reg)
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve) && ve.Field == "password2":
		s.toast(w, r, websession.ToastError, "Passwords don't match", "Please make sure your passwords match.")
		s.render(w, r, http.StatusUnprocessableEntity, "signup", retry)
		return
	case errors.As(err, &ve):
		retry.Error = ve.Message
		s.render(w, r, http.StatusUnprocessableEntity, "signup", retry)
		return
	case err != nil:
		log.Printf("signup %q: %v", reg.Username, err)
		s.toast(w, r, websession.ToastError, "Registration failed", domain.UserMessage(err, "Please try again."))
		s.render(w, r, http.StatusOK, "signup", retry)
		return
	}

	s.succeed(w, r, "Account created", "Your account has been created successfully.", "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.closeBoard(r)
	if err := s.auth.Logout(r.Context(), s.tokenStore(w, r)); err != nil {
		log.Printf("logout: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
