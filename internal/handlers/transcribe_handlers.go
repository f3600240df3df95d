package handlers

import (
	"errors"
	"io"
	"net/http"

	"llmproxy-backend/internal/providers"
	"llmproxy-backend/internal/transcription"
	"llmproxy-backend/pkg/httputil"

	"github.com/sirupsen/logrus"
)

// maxUploadBytes bounds the in-memory portion of the multipart parse.
const maxUploadBytes = 32 << 20

// TranscribeHandlers handles the audio transcription endpoint.
type TranscribeHandlers struct {
	service *transcription.Service
}

// NewTranscribeHandlers creates a new TranscribeHandlers instance.
func NewTranscribeHandlers(service *transcription.Service) *TranscribeHandlers {
	return &TranscribeHandlers{
		service: service,
	}
}

// HandleTranscribe handles POST /transcribe. Expects a multipart form
// with a single "file" field; responds with the plain transcript text.
func (h *TranscribeHandlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	audioData, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	transcript, err := h.service.Transcribe(r.Context(), audioData, header.Filename)
	if err != nil {
		var credentialErr *providers.MissingCredentialError
		if errors.As(err, &credentialErr) {
			logrus.Errorf("Transcription rejected: %v", err)
			httputil.RespondError(w, http.StatusInternalServerError, credentialErr.Error())
			return
		}
		logrus.Errorf("Transcription failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.RespondText(w, http.StatusOK, transcript)
}
