package models

// Message roles accepted on the chat endpoint. Providers that use a
// different vocabulary (Gemini's "model") translate in their adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
// Ordering matters: the slice preserves conversation order.
type ChatMessage struct {
	Role    string `json:"role"`    // "system", "user" or "assistant"
	Content string `json:"content"` // The text content of the message
}
