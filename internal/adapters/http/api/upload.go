// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/vocalis/intake/internal/domain/audio"
	"github.com/vocalis/intake/pkg/logger"
)

const maxUploadMemory = 32 << 20

// UploadHandler handles audio upload requests.
type UploadHandler struct {
	deps    Dependencies
	baseURL string
	logger  logger.Logger
}

// NewUploadHandler creates a new upload handler. A non-empty baseURL
// overrides request-origin URL generation, for reverse-proxy deployments.
func NewUploadHandler(deps Dependencies, baseURL string) *UploadHandler {
	return &UploadHandler{
		deps:    deps,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Get().Named("upload"),
	}
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	AudioURL string `json:"audio_url"`
}

// HandleUpload handles POST /upload-audio requests. The audio arrives as
// a base64 data URL in the multipart field "audio".
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_audio"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.logger.Warn(r.Context(), "upload rejected", logger.Error(WrapKind(op, ErrBadRequest, err)))
		writeError(w, http.StatusBadRequest, "No audio data provided")
		return
	}

	audioData := r.FormValue("audio")
	if audioData == "" {
		h.logger.Warn(r.Context(), "upload rejected", logger.Error(NewKind(op, ErrBadRequest)))
		writeError(w, http.StatusBadRequest, "No audio data provided")
		return
	}

	mime, payload := splitDataURL(audioData)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		h.logger.Warn(r.Context(), "upload rejected", logger.Error(WrapKind(op, ErrBadRequest, err)))
		writeError(w, http.StatusBadRequest, "Invalid audio data")
		return
	}

	asset, err := h.deps.IngestAudio(r.Context(), audio.Container{Data: data, MIME: mime})
	if err != nil {
		h.logger.Error(r.Context(), "audio ingest failed", logger.Error(WrapKind(op, ErrInternal, err)))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	origin := h.baseURL
	if origin == "" {
		origin = requestOrigin(r)
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Message:  "Audio uploaded successfully",
		Filename: asset.Filename,
		AudioURL: origin + "/serve-audio/" + asset.Filename,
	})
}

// splitDataURL separates an optional "data:<mime>;base64," prefix from
// the base64 payload.
func splitDataURL(s string) (mime, payload string) {
	mime = "audio/wav"
	payload = s
	if !strings.HasPrefix(s, "data:") {
		return mime, payload
	}
	comma := strings.Index(s, ",")
	if comma == -1 {
		return mime, payload
	}
	header := s[len("data:"):comma]
	payload = s[comma+1:]
	if semi := strings.Index(header, ";"); semi != -1 {
		header = header[:semi]
	}
	if header != "" {
		mime = header
	}
	return mime, payload
}

// requestOrigin reconstructs the scheme://host the client used, so the
// returned audio URL resolves from the same origin as the request.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
