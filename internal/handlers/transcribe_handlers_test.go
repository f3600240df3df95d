package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"llmproxy-backend/internal/config"
	"llmproxy-backend/internal/transcription"
)

func multipartUpload(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestHandleTranscribeNoFile(t *testing.T) {
	handler := NewTranscribeHandlers(transcription.NewService(&config.Config{OpenAIKey: "test-key"}))

	// Multipart body without the expected "file" field.
	body, contentType := multipartUpload(t, "attachment", "a.ogg", []byte("audio"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.HandleTranscribe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTranscribeNotMultipart(t *testing.T) {
	handler := NewTranscribeHandlers(transcription.NewService(&config.Config{OpenAIKey: "test-key"}))

	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader("not a form"))
	rec := httptest.NewRecorder()
	handler.HandleTranscribe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTranscribeMissingCredential(t *testing.T) {
	handler := NewTranscribeHandlers(transcription.NewService(&config.Config{}))

	body, contentType := multipartUpload(t, "file", "a.ogg", []byte("audio"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.HandleTranscribe(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "OPENAI_API_KEY") {
		t.Errorf("body = %s, want mention of the missing key", rec.Body.String())
	}
}

func TestHandleTranscribeUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"unsupported audio format"}}`))
	}))
	defer upstream.Close()

	handler := NewTranscribeHandlers(transcription.NewService(&config.Config{
		OpenAIKey:     "test-key",
		OpenAIBaseURL: upstream.URL,
	}))

	body, contentType := multipartUpload(t, "file", "a.ogg", []byte("audio"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.HandleTranscribe(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "transcription failed") {
		t.Errorf("body = %s, want transcription failed error", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "unsupported audio format") {
		t.Errorf("body = %s, want upstream message surfaced", rec.Body.String())
	}
}

func TestHandleTranscribeSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer upstream.Close()

	handler := NewTranscribeHandlers(transcription.NewService(&config.Config{
		OpenAIKey:     "test-key",
		OpenAIBaseURL: upstream.URL,
	}))

	body, contentType := multipartUpload(t, "file", "a.ogg", []byte("audio"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.HandleTranscribe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "hello world" {
		t.Errorf("transcript = %q, want %q", got, "hello world")
	}
}
