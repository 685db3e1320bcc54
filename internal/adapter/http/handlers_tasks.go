package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/domain"
)

const failedUpdate = "Failed to update task"

func tabOf(r *http.Request) string {
	if r.URL.Query().Get("tab") == "completed" {
		return "completed"
	}
	return ""
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	token := tokenFrom(r.Context())
	b := s.board(w, r)
	b.Reload()
	tab := tabOf(r)
	data := pageData{
		Title:     "Dashboard",
		Profile:   profileFrom(r.Context()),
		Tab:       tab,
		Next:      "/dashboard",
		Current:   listData{Completed: false, Tab: tab},
		Completed: listData{Completed: true, Tab: tab},
	}

	for _, l := range []*listData{&data.Current, &data.Completed} {
		tasks, err := b.List(l.Completed).Tasks(r.Context(), token)
		if errors.Is(err, domain.ErrAuthExpired) {
			s.endSession(w, r)
			return
		}
		if err != nil {
			log.Printf("load tasks completed=%v: %v", l.Completed, err)
			s.toast(w, r, websession.ToastError, "Failed to load tasks", "Please try again later.")
			continue
		}
		l.Tasks = tasks
	}

	s.render(w, r, http.StatusOK, "dashboard", data)
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	completed := r.URL.Query().Get("completed") == "true"
	tasks, err := s.board(w, r).List(completed).Tasks(r.Context(), tokenFrom(r.Context()))
	if errors.Is(err, domain.ErrAuthExpired) {
		if cerr := s.tokenStore(w, r).Clear(r.Context()); cerr != nil {
			log.Printf("clear token store: %v", cerr)
		}
		s.closeBoard(r)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("load tasks completed=%v: %v", completed, err)
		http.Error(w, "Failed to load tasks", http.StatusBadGateway)
		return
	}
	s.renderList(w, listData{Completed: completed, Tasks: tasks, Tab: tabOf(r)})
}

// handleEvents streams the refresh events of the requesting browsing context.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	topic := s.ui.ContextID(r, w)
	stream, cancel := s.bus.Stream(topic, 16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	for {
		select {
		case ev, ok := <-stream:
			if !ok {
				return
			}
			data, _ := json.Marshal(ev)
			if _, err := fmt.Fprintf(w, "event: refresh\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	next := dashboardURL(r)
	if _, err := s.board(w, r).Create(r.Context(), tokenFrom(r.Context()), r.FormValue("title")); err != nil {
		s.fail(w, r, err, "Failed to create task", "Please try again later.", next)
		return
	}
	s.succeed(w, r, "Task created", "Your task has been created successfully.", next)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	next := dashboardURL(r)
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err, failedUpdate, "Please try again later.", next)
		return
	}
	completed := r.FormValue("completed") == "true"
	if err := s.board(w, r).SetCompleted(r.Context(), tokenFrom(r.Context()), id, completed); err != nil {
		s.fail(w, r, err, failedUpdate, "Please try again later.", next)
		return
	}
	if completed {
		s.succeed(w, r, "Task completed", "The task has been marked as completed.", next)
		return
	}
	s.succeed(w, r, "Task marked as incomplete", "The task has been marked as incomplete.", next)
}

func (s *Server) handleRenameTask(w http.ResponseWriter, r *http.Request) {
	next := dashboardURL(r)
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err, failedUpdate, "Please try again later.", next)
		return
	}
	if err := s.board(w, r).Rename(r.Context(), tokenFrom(r.Context()), id, r.FormValue("title")); err != nil {
		s.fail(w, r, err, failedUpdate, "Please try again later.", next)
		return
	}
	s.succeed(w, r, "Task updated", "The task has been updated successfully.", next)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	next := dashboardURL(r)
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err, "Failed to delete task", "Please try again later.", next)
		return
	}
	if err := s.board(w, r).Remove(r.Context(), tokenFrom(r.Context()), id); err != nil {
		s.fail(w, r, err, "Failed to delete task", "Please try again later.", next)
		return
	}
	s.succeed(w, r, "Task deleted", "The task has been deleted successfully.", next)
}
