package handlers

import (
	"encoding/json"
	"net/http"

	"llmproxy-backend/internal/models"
	"llmproxy-backend/internal/providers"
	"llmproxy-backend/pkg/httputil"
)

// ChatHandlers handles the model-listing and chat-completion endpoints.
type ChatHandlers struct {
	registry *providers.Registry
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(registry *providers.Registry) *ChatHandlers {
	return &ChatHandlers{
		registry: registry,
	}
}

// HandleListModels handles GET /models?provider=...
func (h *ChatHandlers) HandleListModels(w http.ResponseWriter, r *http.Request) {
	providerName := r.URL.Query().Get("provider")
	if providerName == "" {
		httputil.RespondError(w, http.StatusBadRequest, "provider query parameter is required")
		return
	}

	provider, err := h.registry.Get(providerName)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	descriptors, err := provider.ListModels(r.Context())
	if err != nil {
		respondProviderError(w, err)
		return
	}

	// An empty upstream listing is a valid empty array, not an error.
	if descriptors == nil {
		descriptors = []models.ModelDescriptor{}
	}
	httputil.RespondJSON(w, http.StatusOK, descriptors)
}

// HandleChat handles POST /chat.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Provider == "" || req.Model == "" {
		httputil.RespondError(w, http.StatusBadRequest, "provider and model are required")
		return
	}

	provider, err := h.registry.Get(req.Provider)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := provider.Chat(r.Context(), req)
	if err != nil {
		respondProviderError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ChatResponse{Content: content})
}
