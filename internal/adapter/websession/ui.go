package websession

import (
	"encoding/gob"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// KeyContextID names the browsing-context ID in the UI session.
const KeyContextID = "contextId"

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a transient notification shown on the next rendered page.
type Toast struct {
	Kind    string
	Title   string
	Message string
}

func init() {
	gob.Register(Toast{})
}

// UI is the per-browser UI session: toasts and the browsing-context ID.
type UI struct {
	store sessions.Store
	name  string
}

// NewUI wraps store as the UI session under the cookie name.
func NewUI(store sessions.Store, name string) *UI {
	return &UI{store: store, name: name}
}

func (u *UI) session(r *http.Request) *sessions.Session {
	sess, err := u.store.Get(r, u.name)
	if err != nil {
		log.Printf("websession: discarding unreadable %s cookie: %v", u.name, err)
	}
	if sess == nil {
		sess = sessions.NewSession(u.store, u.name)
		sess.Options = &sessions.Options{Path: "/", HttpOnly: true}
	}
	return sess
}

// ContextID returns the browsing-context ID, creating and saving one on first
// use.
func (u *UI) ContextID(r *http.Request, w http.ResponseWriter) string {
	sess := u.session(r)
	if id, ok := sess.Values[KeyContextID].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Values[KeyContextID] = id
	if err := sess.Save(r, w); err != nil {
		log.Printf("websession: save context id: %v", err)
	}
	return id
}

// PeekContextID returns the browsing-context ID without creating one.
func (u *UI) PeekContextID(r *http.Request) string {
	id, _ := u.session(r).Values[KeyContextID].(string)
	return id
}

// Toast queues t for the next page render.
func (u *UI) Toast(r *http.Request, w http.ResponseWriter, t Toast) {
	sess := u.session(r)
	sess.AddFlash(t)
	if err := sess.Save(r, w); err != nil {
		log.Printf("websession: save toast: %v", err)
	}
}

// Toasts pops all queued toasts.
func (u *UI) Toasts(r *http.Request, w http.ResponseWriter) []Toast {
	sess := u.session(r)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		log.Printf("websession: save toasts: %v", err)
	}
	out := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		if t, ok := f.(Toast); ok {
			out = append(out, t)
		}
	}
	return out
}
