package models

// --- Request Structs ---

// ChatRequest defines the expected body for the chat endpoint.
// Provider and Model are both required; Temperature is optional and kept
// as a pointer so "absent" and "0" can be told apart.
type ChatRequest struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// --- Response Structs ---

// ChatResponse holds the single concatenated assistant reply.
type ChatResponse struct {
	Content string `json:"content"`
}

// ModelDescriptor is one entry of a provider's model listing. For Gemini
// the ID is the path-qualified resource name, not a bare name.
type ModelDescriptor struct {
	ID string `json:"id"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
