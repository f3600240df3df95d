package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"llmproxy-backend/internal/config"
	"llmproxy-backend/internal/models"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// Ensure GeminiProvider implements the Provider interface.
var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider translates requests into the Gemini generateContent
// format. Gemini says "model" where the API says "assistant", and takes
// the system prompt as a separate instruction rather than a turn.
type GeminiProvider struct {
	cfg    *config.Config
	client *http.Client
}

// NewGeminiProvider creates a new Gemini adapter.
func NewGeminiProvider(cfg *config.Config) *GeminiProvider {
	return &GeminiProvider{cfg: cfg, client: http.DefaultClient}
}

func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

func (p *GeminiProvider) baseURL() string {
	if p.cfg.GeminiBaseURL != "" {
		return p.cfg.GeminiBaseURL
	}
	return geminiDefaultBaseURL
}

type geminiModelList struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the path-qualified model resource names (e.g.
// "models/gemini-2.0-flash"), sorted ascending.
func (p *GeminiProvider) ListModels(ctx context.Context) ([]models.ModelDescriptor, error) {
	if p.cfg.GeminiKey == "" {
		return nil, &MissingCredentialError{EnvVar: "GEMINI_API_KEY"}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models?key=%s", p.baseURL(), url.QueryEscape(p.cfg.GeminiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building model list request: %w", err)
	}

	var listing geminiModelList
	if err := doJSON(p.client, req, &listing); err != nil {
		return nil, err
	}

	descriptors := make([]models.ModelDescriptor, 0, len(listing.Models))
	for _, m := range listing.Models {
		descriptors = append(descriptors, models.ModelDescriptor{ID: m.Name})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].ID < descriptors[j].ID })
	return descriptors, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiChatRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiChatResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Chat renames assistant turns to "model", lifts the first system
// message into systemInstruction and keeps system entries out of the
// turn sequence entirely. Temperature is fixed.
func (p *GeminiProvider) Chat(ctx context.Context, chatReq models.ChatRequest) (string, error) {
	if p.cfg.GeminiKey == "" {
		return "", &MissingCredentialError{EnvVar: "GEMINI_API_KEY"}
	}

	payload := geminiChatRequest{
		GenerationConfig: geminiGenerationConfig{Temperature: DefaultTemperature},
	}
	for _, msg := range chatReq.Messages {
		switch msg.Role {
		case models.RoleSystem:
			if payload.SystemInstruction == nil {
				payload.SystemInstruction = &geminiContent{
					Parts: []geminiPart{{Text: msg.Content}},
				}
			}
		case models.RoleAssistant:
			payload.Contents = append(payload.Contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		default:
			payload.Contents = append(payload.Contents, geminiContent{
				Role:  msg.Role,
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL(), url.PathEscape(chatReq.Model), url.QueryEscape(p.cfg.GeminiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var completion geminiChatResponse
	if err := doJSON(p.client, req, &completion); err != nil {
		return "", err
	}

	if len(completion.Candidates) == 0 {
		return "", nil
	}
	// All text parts of the first candidate, joined with no separator.
	var reply strings.Builder
	for _, part := range completion.Candidates[0].Content.Parts {
		reply.WriteString(part.Text)
	}
	return reply.String(), nil
}
