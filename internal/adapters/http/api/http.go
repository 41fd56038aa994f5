// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vocalis/intake/internal/adapters/backend"
	"github.com/vocalis/intake/internal/adapters/storage"
	"github.com/vocalis/intake/internal/domain/allowlist"
	"github.com/vocalis/intake/internal/domain/audio"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// IngestAudio transcodes an uploaded container and persists the result.
	IngestAudio(ctx context.Context, c audio.Container) (storage.Asset, error)

	// OpenAudio returns the stored bytes for filename.
	OpenAudio(ctx context.Context, filename string) ([]byte, error)

	// RemoveAudio deletes filename. Absent files are a success.
	RemoveAudio(ctx context.Context, filename string) error

	// SweepAudio deletes stored files older than maxAge.
	SweepAudio(ctx context.Context, maxAge time.Duration) (storage.SweepResult, error)

	// Authenticate resolves email against the allow-list.
	Authenticate(ctx context.Context, email string) (allowlist.Member, error)

	// RelaySubmission proxies sub to the processing backend.
	RelaySubmission(ctx context.Context, sub model.Submission) (backend.Result, error)
}

// Server wires HTTP routes for the intake API.
type Server struct {
	codec         *session.Codec
	publicBaseURL string

	healthHandler  *HealthHandler
	uploadHandler  *UploadHandler
	serveHandler   *ServeHandler
	deleteHandler  *DeleteHandler
	cleanupHandler *CleanupHandler
	submitHandler  *SubmitHandler
	loginHandler   *LoginHandler
	sessionHandler *SessionHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithPublicBaseURL overrides request-origin URL generation for uploaded
// recordings, for deployments behind a reverse proxy.
func WithPublicBaseURL(url string) Option {
	return func(s *Server) {
		s.publicBaseURL = url
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, codec *session.Codec, opts ...Option) *Server {
	s := &Server{codec: codec}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.uploadHandler = NewUploadHandler(deps, s.publicBaseURL)
	s.serveHandler = NewServeHandler(deps)
	s.deleteHandler = NewDeleteHandler(deps)
	s.cleanupHandler = NewCleanupHandler(deps)
	s.submitHandler = NewSubmitHandler(deps, codec)
	s.loginHandler = NewLoginHandler(deps, codec)
	s.sessionHandler = NewSessionHandler(codec)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	gate := RequireSession(s.codec)

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/login", MetricsMiddleware(s.loginHandler.HandleLogin, "login"))
	mux.HandleFunc("/logout", MetricsMiddleware(s.sessionHandler.HandleLogout, "logout"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))
	mux.HandleFunc("/clear-session", MetricsMiddleware(gate(s.sessionHandler.HandleClearSession), "clear_session"))
	mux.HandleFunc("/upload-audio", MetricsMiddleware(gate(s.uploadHandler.HandleUpload), "upload_audio"))
	mux.HandleFunc("/serve-audio/", MetricsMiddleware(s.serveHandler.HandleServe, "serve_audio"))
	mux.HandleFunc("/delete-audio/", MetricsMiddleware(s.deleteHandler.HandleDelete, "delete_audio"))
	mux.HandleFunc("/cleanup-old-audio", MetricsMiddleware(s.cleanupHandler.HandleCleanup, "cleanup_old_audio"))
	mux.HandleFunc("/submit-client", MetricsMiddleware(gate(s.submitHandler.HandleSubmit), "submit_client"))
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
