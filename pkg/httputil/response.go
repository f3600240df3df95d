package httputil

import (
	"encoding/json"
	"net/http"

	api_models "llmproxy-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		logrus.Errorf("Error encoding JSON response: %v", err)
		// Can't write header again here, just log the error
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	resp := api_models.ErrorResponse{Error: message}
	RespondJSON(w, statusCode, resp)
}

// RespondUpstream relays an upstream provider failure verbatim: same
// status code, same body, same content type. The body is never
// reinterpreted into the API's own error shape.
func RespondUpstream(w http.ResponseWriter, statusCode int, contentType string, body []byte) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		logrus.Errorf("Error writing upstream response body: %v", err)
	}
}

// RespondText writes a plain-text response, used by the transcription endpoint.
func RespondText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(body)); err != nil {
		logrus.Errorf("Error writing text response body: %v", err)
	}
}
