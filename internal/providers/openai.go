package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"llmproxy-backend/internal/config"
	"llmproxy-backend/internal/models"
)

const openaiDefaultBaseURL = "https://api.openai.com"

// Ensure OpenAIProvider implements the Provider interface.
var _ Provider = (*OpenAIProvider)(nil)

// OpenAIProvider translates requests into OpenAI's chat-completions
// wire format.
type OpenAIProvider struct {
	cfg    *config.Config
	client *http.Client
}

// NewOpenAIProvider creates a new OpenAI adapter.
func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	return &OpenAIProvider{cfg: cfg, client: http.DefaultClient}
}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) baseURL() string {
	if p.cfg.OpenAIBaseURL != "" {
		return p.cfg.OpenAIBaseURL
	}
	return openaiDefaultBaseURL
}

type openaiModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels returns all model IDs visible to the configured key,
// sorted ascending.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]models.ModelDescriptor, error) {
	if p.cfg.OpenAIKey == "" {
		return nil, &MissingCredentialError{EnvVar: "OPENAI_API_KEY"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL()+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("building model list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.OpenAIKey)

	var listing openaiModelList
	if err := doJSON(p.client, req, &listing); err != nil {
		return nil, err
	}

	descriptors := make([]models.ModelDescriptor, 0, len(listing.Data))
	for _, m := range listing.Data {
		descriptors = append(descriptors, models.ModelDescriptor{ID: m.ID})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].ID < descriptors[j].ID })
	return descriptors, nil
}

type openaiChatRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature *float64             `json:"temperature,omitempty"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat forwards the conversation unchanged. Temperature is the request's
// own value when present, 0.2 otherwise — except for gpt-5* models,
// which reject the parameter and get none at all.
func (p *OpenAIProvider) Chat(ctx context.Context, chatReq models.ChatRequest) (string, error) {
	if p.cfg.OpenAIKey == "" {
		return "", &MissingCredentialError{EnvVar: "OPENAI_API_KEY"}
	}

	payload := openaiChatRequest{
		Model:    chatReq.Model,
		Messages: chatReq.Messages,
	}
	if !strings.HasPrefix(chatReq.Model, "gpt-5") {
		temperature := DefaultTemperature
		if chatReq.Temperature != nil {
			temperature = *chatReq.Temperature
		}
		payload.Temperature = &temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL()+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.OpenAIKey)
	req.Header.Set("Content-Type", "application/json")

	var completion openaiChatResponse
	if err := doJSON(p.client, req, &completion); err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
