package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vocalis/intake/internal/domain/allowlist"
	"github.com/vocalis/intake/internal/domain/session"
	"github.com/vocalis/intake/pkg/logger"
	"github.com/vocalis/intake/pkg/metrics"
)

// LoginHandler authenticates emails against the allow-list and issues
// session cookies.
type LoginHandler struct {
	deps   Dependencies
	codec  *session.Codec
	logger logger.Logger
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(deps Dependencies, codec *session.Codec) *LoginHandler {
	return &LoginHandler{
		deps:   deps,
		codec:  codec,
		logger: logger.Get().Named("login"),
	}
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	UserData session.UserData `json:"user_data"`
}

// HandleLogin handles POST /login requests.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "Please enter your email"})
		return
	}

	member, err := h.deps.Authenticate(r.Context(), req.Email)
	if err != nil {
		metrics.RecordLoginRejected()
		status, msg := loginFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error(r.Context(), "login lookup failed", logger.Error(WrapKind(op, ErrInternal, err)))
		} else {
			h.logger.Warn(r.Context(), "login rejected", logger.Error(WrapKind(op, ErrUnauthorized, err)))
		}
		writeJSON(w, status, messageResponse{Success: false, Message: msg})
		return
	}

	user := session.UserData{Name: member.Name, Email: member.Email, Date: member.Date}
	if err := h.codec.Issue(w, session.Data{Email: member.Email, User: user}); err != nil {
		h.logger.Error(r.Context(), "session issue failed", logger.Error(WrapKind(op, ErrInternal, err)))
		writeJSON(w, http.StatusInternalServerError, messageResponse{Success: false, Message: "An error occurred. Please try again."})
		return
	}

	metrics.RecordLoginGranted()
	h.logger.Info(r.Context(), "login granted", logger.String("email", member.Email))
	writeJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Message:  "Access granted",
		UserData: user,
	})
}

// loginFailure maps allow-list errors to the user-readable responses the
// form displays.
func loginFailure(err error) (int, string) {
	switch {
	case errors.Is(err, allowlist.ErrExpired):
		return http.StatusUnauthorized, "Your access has expired. Please contact support to renew."
	case errors.Is(err, allowlist.ErrNotFound):
		return http.StatusUnauthorized, "Email not found. Please check your email or contact support."
	case errors.Is(err, allowlist.ErrBadRow):
		return http.StatusUnauthorized, "Invalid expiration status in database"
	default:
		return http.StatusInternalServerError, "An error occurred. Please try again."
	}
}
