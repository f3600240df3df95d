package api

import (
	"net/http"
	"time"

	"llmproxy-backend/internal/auth"
	"llmproxy-backend/internal/handlers"
	"llmproxy-backend/internal/models"
	"llmproxy-backend/internal/quota"
	"llmproxy-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup.
type RouterDependencies struct {
	ChatHandlers       *handlers.ChatHandlers
	TranscribeHandlers *handlers.TranscribeHandlers

	// Verifier is nil on unauthenticated deployments.
	Verifier auth.TokenVerifier
	// QuotaGate is always non-nil; a gate built on a nil store admits
	// everything.
	QuotaGate *quota.Gate
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Public Routes (no auth, no quota) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{OK: true})
	})

	// --- Gated Routes ---
	// Fixed gate order: identity first, then quota, then the adapters.
	r.Group(func(r chi.Router) {
		r.Use(IdentityMiddleware(deps.Verifier))
		r.Use(QuotaMiddleware(deps.QuotaGate))

		r.Get("/models", deps.ChatHandlers.HandleListModels)
		r.Post("/chat", deps.ChatHandlers.HandleChat)
		r.Post("/transcribe", deps.TranscribeHandlers.HandleTranscribe)
	})

	return r
}
