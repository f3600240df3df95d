package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"llmproxy-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// Provider names accepted on the API surface.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DefaultTemperature is used whenever a request does not pin its own
// sampling temperature, and always for Anthropic and Gemini.
const DefaultTemperature = 0.2

// Provider is the common capability interface every LLM backend
// implements. Adapters are stateless; credentials are read from
// configuration at call time so an unused provider's missing key never
// affects the others.
type Provider interface {
	// Name returns the provider identifier, e.g. "openai".
	Name() string

	// ListModels returns the provider's available models, sorted
	// ascending by ID.
	ListModels(ctx context.Context) ([]models.ModelDescriptor, error)

	// Chat translates the request into the provider's wire format,
	// performs one completion round trip and returns the concatenated
	// assistant reply.
	Chat(ctx context.Context, req models.ChatRequest) (string, error)
}

// --- Error types ---

// MissingCredentialError indicates a required API key is not configured.
// It is raised before any network call is attempted.
type MissingCredentialError struct {
	EnvVar string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is not configured", e.EnvVar)
}

// UnknownProviderError indicates the request named a provider outside
// the supported set.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Name)
}

// UpstreamError carries a provider's non-success response untouched so
// the HTTP layer can relay it verbatim: same status, same body.
type UpstreamError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// --- Registry ---

// Registry holds the mapping between provider names and their adapter
// implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider adapter to the registry.
func (r *Registry) Register(p Provider) {
	if _, exists := r.providers[p.Name()]; exists {
		logrus.Warnf("[ProviderRegistry] Provider %q is already registered. Overwriting.", p.Name())
	}
	r.providers[p.Name()] = p
}

// Get retrieves a provider adapter by name.
func (r *Registry) Get(name string) (Provider, error) {
	p, exists := r.providers[name]
	if !exists {
		return nil, &UnknownProviderError{Name: name}
	}
	return p, nil
}

// --- Shared HTTP plumbing ---

// doJSON performs one upstream round trip. Non-2xx responses come back
// as *UpstreamError with the raw body preserved; success bodies are
// decoded into out when out is non-nil.
func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding upstream response: %w", err)
		}
	}
	return nil
}
