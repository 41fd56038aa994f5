package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vocalis/intake/pkg/logger"
)

const defaultMaxAgeHours = 24

// CleanupHandler triggers a retention sweep of the upload directory.
type CleanupHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewCleanupHandler creates a new cleanup handler.
func NewCleanupHandler(deps Dependencies) *CleanupHandler {
	return &CleanupHandler{
		deps:   deps,
		logger: logger.Get().Named("cleanup"),
	}
}

type cleanupRequest struct {
	MaxAgeHours float64 `json:"maxAgeHours"`
}

type cleanupResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	DeletedCount int      `json:"deletedCount"`
	ErrorCount   int      `json:"errorCount"`
	DeletedFiles []string `json:"deletedFiles"`
	MaxAgeHours  float64  `json:"maxAgeHours"`
}

// HandleCleanup handles POST /cleanup-old-audio requests. An absent or
// malformed body falls back to the 24-hour default.
func (h *CleanupHandler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	const op = "api.cleanup_old_audio"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MaxAgeHours <= 0 {
		req.MaxAgeHours = defaultMaxAgeHours
	}

	maxAge := time.Duration(req.MaxAgeHours * float64(time.Hour))
	result, err := h.deps.SweepAudio(r.Context(), maxAge)
	if err != nil {
		h.logger.Error(r.Context(), "cleanup failed", logger.Error(WrapKind(op, ErrInternal, err)))
		writeError(w, http.StatusInternalServerError, "Error during cleanup")
		return
	}

	deleted := result.Deleted
	if deleted == nil {
		deleted = []string{}
	}
	writeJSON(w, http.StatusOK, cleanupResponse{
		Success:      true,
		Message:      "Cleanup completed",
		DeletedCount: len(deleted),
		ErrorCount:   result.Errors,
		DeletedFiles: deleted,
		MaxAgeHours:  req.MaxAgeHours,
	})
}
