package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vocalis/intake/internal/adapters/storage"
)

// ServeHandler streams stored recordings back to the browser.
type ServeHandler struct {
	deps Dependencies
}

// NewServeHandler creates a new serve handler.
func NewServeHandler(deps Dependencies) *ServeHandler {
	return &ServeHandler{deps: deps}
}

// HandleServe handles GET /serve-audio/{filename} requests.
func (h *ServeHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/serve-audio/")
	data, err := h.deps.OpenAudio(r.Context(), filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidName):
			writeError(w, http.StatusBadRequest, "Invalid filename")
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "File not found")
		default:
			writeError(w, http.StatusInternalServerError, "Error reading file")
		}
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
