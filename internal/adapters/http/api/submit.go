package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vocalis/intake/internal/adapters/backend"
	"github.com/vocalis/intake/internal/domain/guard"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/internal/domain/session"
	"github.com/vocalis/intake/pkg/logger"
)

// SubmitHandler proxies completed intake forms to the processing backend.
type SubmitHandler struct {
	deps   Dependencies
	codec  *session.Codec
	logger logger.Logger
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps Dependencies, codec *session.Codec) *SubmitHandler {
	return &SubmitHandler{
		deps:   deps,
		codec:  codec,
		logger: logger.Get().Named("submit"),
	}
}

// HandleSubmit handles POST /submit-client requests. The downstream
// status and body are relayed verbatim; the session is invalidated after
// a successful relay so the same browser tab cannot resubmit.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_client"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(sub.AudioURL) == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "Missing audio_url"})
		return
	}

	result, err := h.deps.RelaySubmission(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, guard.ErrInFlight):
			writeJSON(w, http.StatusConflict, messageResponse{Success: false, Message: "Submission already in progress"})
		case errors.Is(err, backend.ErrUnreachable):
			h.logger.Error(r.Context(), "backend unreachable", logger.Error(WrapKind(op, ErrInternal, err)))
			writeJSON(w, http.StatusInternalServerError, messageResponse{Success: false, Message: "Failed to connect to backend server"})
		default:
			h.logger.Error(r.Context(), "submission relay failed", logger.Error(WrapKind(op, ErrInternal, err)))
			writeJSON(w, http.StatusInternalServerError, messageResponse{Success: false, Message: "Failed to submit client data"})
		}
		return
	}

	if result.OK() {
		h.codec.Clear(w)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(result.Status)
	_, _ = w.Write(result.Body)
}
