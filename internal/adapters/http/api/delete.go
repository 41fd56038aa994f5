package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vocalis/intake/internal/adapters/storage"
)

// DeleteHandler removes stored recordings on request.
type DeleteHandler struct {
	deps Dependencies
}

// NewDeleteHandler creates a new delete handler.
func NewDeleteHandler(deps Dependencies) *DeleteHandler {
	return &DeleteHandler{deps: deps}
}

type deleteResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
}

// HandleDelete handles DELETE /delete-audio/{filename} requests.
// Deleting an absent file succeeds so retries are harmless.
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/delete-audio/")
	if err := h.deps.RemoveAudio(r.Context(), filename); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, "Invalid filename")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting file")
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Success:  true,
		Message:  "Audio file deleted successfully",
		Filename: filename,
	})
}
