package adapthttp

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/adapter/websession"
	"taskboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "Jan 2, 2006"

var pages = []string{"login", "signup", "dashboard", "profile"}

type views struct {
	pages map[string]*template.Template
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Local().Format(dateLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Local().Format(dateLayout)
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func mustParseViews() *views {
	funcs := template.FuncMap{
		"formatDate": formatDate,
		"deref":      deref,
		"initial":    initial,
	}
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		v.pages[p] = template.Must(template.New(p).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/header.html",
			"templates/tasks.html",
			"templates/"+p+".html",
		))
	}
	return v
}

// pageData is the model of every full page.
type pageData struct {
	Title     string
	Toasts    []websession.Toast
	Profile   *domain.UserProfile
	Error     string
	Username  string
	Email     string
	Tab       string
	Current   listData
	Completed listData
	Next      string
}

// listData is the model of one task list partial.
type listData struct {
	Completed bool
	Tasks     []domain.Task
	Tab       string
}

// render executes a full page. Pending toasts are consumed here, so the UI
// cookie is written before the body.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.Toasts = append(data.Toasts, s.ui.Toasts(r, w)...)
	s.execute(w, status, page, "layout", data)
}

// renderList executes the task list partial.
func (s *Server) renderList(w http.ResponseWriter, data listData) {
	s.execute(w, http.StatusOK, "dashboard", "tasks", data)
}

func (s *Server) execute(w http.ResponseWriter, status int, page, name string, data any) {
	t, ok := s.views.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render %s/%s: %v", page, name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
