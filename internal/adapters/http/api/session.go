package api

import (
	"net/http"

	"github.com/vocalis/intake/internal/domain/session"
)

// SessionHandler reports and clears the browser session.
type SessionHandler struct {
	codec *session.Codec
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(codec *session.Codec) *SessionHandler {
	return &SessionHandler{codec: codec}
}

type sessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	UserEmail     string            `json:"user_email,omitempty"`
	UserData      *session.UserData `json:"user_data,omitempty"`
}

// HandleSession handles GET /session requests. It never errors: a
// missing or undecodable cookie is simply unauthenticated.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	data, err := h.codec.Read(r)
	if err != nil || data.Email == "" {
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		UserEmail:     data.Email,
		UserData:      &data.User,
	})
}

// HandleLogout handles GET /logout requests with a redirect to the root.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	h.codec.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleClearSession handles POST /clear-session requests.
func (h *SessionHandler) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	h.codec.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Session cleared"})
}
