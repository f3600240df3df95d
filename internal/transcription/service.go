package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"llmproxy-backend/internal/config"
	"llmproxy-backend/internal/providers"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Service forwards uploaded audio to OpenAI's speech-to-text endpoint
// and returns the plain transcript text.
type Service struct {
	cfg *config.Config
}

// NewService creates a new transcription service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Transcribe stages the payload to a temporary file, runs one Whisper
// round trip and returns the transcript. The staged copy is removed on
// every exit path, success or failure.
func (s *Service) Transcribe(ctx context.Context, audioData []byte, filename string) (string, error) {
	if s.cfg.OpenAIKey == "" {
		return "", &providers.MissingCredentialError{EnvVar: "OPENAI_API_KEY"}
	}

	stagedPath := filepath.Join(os.TempDir(), "upload-"+uuid.NewString()+filepath.Ext(filename))
	if err := os.WriteFile(stagedPath, audioData, 0o600); err != nil {
		return "", fmt.Errorf("staging audio payload: %w", err)
	}
	defer func() {
		if err := os.Remove(stagedPath); err != nil {
			logrus.Warnf("Failed to remove staged audio file %s: %v", stagedPath, err)
		}
	}()

	clientConfig := openai.DefaultConfig(s.cfg.OpenAIKey)
	if s.cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = s.cfg.OpenAIBaseURL + "/v1"
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: stagedPath,
	})
	if err != nil {
		// Prefer the upstream error message when the API returned one.
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "", fmt.Errorf("transcription failed: %s", apiErr.Message)
		}
		return "", fmt.Errorf("transcription failed: %v", err)
	}

	return resp.Text, nil
}
