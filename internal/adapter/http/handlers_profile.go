package adapthttp

import (
	"errors"
	"log"
	"net/http"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/domain"
)

// profileNext limits where an upload may return to.
func profileNext(r *http.Request) string {
	if r.FormValue("next") == "/dashboard" {
		return "/dashboard"
	}
	return "/profile"
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile := profileFrom(r.Context())
	if profile == nil {
		p, err := s.profiles.Get(r.Context(), tokenFrom(r.Context()))
		if errors.Is(err, domain.ErrAuthExpired) {
			s.endSession(w, r)
			return
		}
		if err != nil {
			log.Printf("load profile: %v", err)
			s.toast(w, r, websession.ToastError, "Error", "Failed to load profile data")
		}
		profile = p
	}
	s.render(w, r, http.StatusOK, "profile", pageData{Title: "Profile", Profile: profile, Next: "/profile"})
}

func (s *Server) handleUploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMax)
	if err := r.ParseMultipartForm(s.uploadMax); err != nil {
		log.Printf("parse upload: %v", err)
		s.toast(w, r, websession.ToastError, "Upload failed", "Failed to upload profile picture. Please try again.")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	next := profileNext(r)

	file, hdr, err := r.FormFile("profile_picture")
	if errors.Is(err, http.ErrMissingFile) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if err != nil {
		s.fail(w, r, err, "Upload failed", "Failed to upload profile picture. Please try again.", next)
		return
	}
	defer file.Close()

	pic := &domain.Picture{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Body:        file,
	}
	if _, err := s.profiles.UploadPicture(r.Context(), tokenFrom(r.Context()), pic); err != nil {
		s.fail(w, r, err, "Upload failed", "Failed to upload profile picture. Please try again.", next)
		return
	}
	s.succeed(w, r, "Profile picture updated", "Your profile picture has been updated successfully.", next)
}
