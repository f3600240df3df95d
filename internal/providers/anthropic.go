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

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	// anthropicMaxTokens caps the reply length. Fixed for all requests.
	anthropicMaxTokens = 800
)

// Ensure AnthropicProvider implements the Provider interface.
var _ Provider = (*AnthropicProvider)(nil)

// AnthropicProvider translates requests into Anthropic's messages API
// format. The system prompt travels in a dedicated field rather than in
// the message list.
type AnthropicProvider struct {
	cfg    *config.Config
	client *http.Client
}

// NewAnthropicProvider creates a new Anthropic adapter.
func NewAnthropicProvider(cfg *config.Config) *AnthropicProvider {
	return &AnthropicProvider{cfg: cfg, client: http.DefaultClient}
}

func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

func (p *AnthropicProvider) baseURL() string {
	if p.cfg.AnthropicBaseURL != "" {
		return p.cfg.AnthropicBaseURL
	}
	return anthropicDefaultBaseURL
}

func (p *AnthropicProvider) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", p.cfg.AnthropicKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")
}

type anthropicModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels returns the available model IDs, sorted ascending.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]models.ModelDescriptor, error) {
	if p.cfg.AnthropicKey == "" {
		return nil, &MissingCredentialError{EnvVar: "ANTHROPIC_API_KEY"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL()+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("building model list request: %w", err)
	}
	p.setHeaders(req)

	var listing anthropicModelList
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

type anthropicChatRequest struct {
	Model       string               `json:"model"`
	System      string               `json:"system,omitempty"`
	Messages    []models.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
}

type anthropicChatResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Chat moves the first system message into the dedicated system field
// and drops any later ones; only the first system prompt is honored.
// Temperature and max_tokens are fixed regardless of the request.
func (p *AnthropicProvider) Chat(ctx context.Context, chatReq models.ChatRequest) (string, error) {
	if p.cfg.AnthropicKey == "" {
		return "", &MissingCredentialError{EnvVar: "ANTHROPIC_API_KEY"}
	}

	payload := anthropicChatRequest{
		Model:       chatReq.Model,
		MaxTokens:   anthropicMaxTokens,
		Temperature: DefaultTemperature,
	}
	for _, msg := range chatReq.Messages {
		if msg.Role == models.RoleSystem {
			if payload.System == "" {
				payload.System = msg.Content
			}
			continue
		}
		payload.Messages = append(payload.Messages, msg)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL()+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	p.setHeaders(req)

	var completion anthropicChatResponse
	if err := doJSON(p.client, req, &completion); err != nil {
		return "", err
	}

	// Multi-segment replies are joined with no separator.
	var reply strings.Builder
	for _, segment := range completion.Content {
		if segment.Type == "text" {
			reply.WriteString(segment.Text)
		}
	}
	return reply.String(), nil
}
