package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llmproxy-backend/internal/api"
	"llmproxy-backend/internal/auth"
	"llmproxy-backend/internal/config"
	"llmproxy-backend/internal/handlers"
	"llmproxy-backend/internal/providers"
	"llmproxy-backend/internal/quota"
	"llmproxy-backend/internal/transcription"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Starting LLM proxy backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Identity Gate (only when an audience is configured)
	var verifier auth.TokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
		logrus.Info("Identity verification enabled.")
	} else {
		logrus.Warn("GOOGLE_CLIENT_ID not set, running unauthenticated.")
	}

	// 3. Quota Gate (fail-open when no counter store is configured)
	var store quota.Store
	if cfg.RedisAddr != "" {
		redisStore := quota.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		defer redisStore.Close()
		store = redisStore
		logrus.Infof("Quota enforcement enabled, daily limit %d.", cfg.DailyQuota)
	} else {
		logrus.Warn("REDIS_ADDR not set, quota enforcement disabled.")
	}
	quotaGate := quota.NewGate(store, cfg.DailyQuota)

	// 4. Provider Registry
	registry := providers.NewRegistry()
	registry.Register(providers.NewOpenAIProvider(cfg))
	registry.Register(providers.NewAnthropicProvider(cfg))
	registry.Register(providers.NewGeminiProvider(cfg))

	// 5. Services & Handlers
	transcriptionService := transcription.NewService(cfg)
	chatHandlers := handlers.NewChatHandlers(registry)
	transcribeHandlers := handlers.NewTranscribeHandlers(transcriptionService)

	// 6. Router
	router := api.NewRouter(api.RouterDependencies{
		ChatHandlers:       chatHandlers,
		TranscribeHandlers: transcribeHandlers,
		Verifier:           verifier,
		QuotaGate:          quotaGate,
	})

	// 7. HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Uploads and provider round trips need headroom; the router's
		// own 60s timeout bounds individual requests.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.Infof("Server listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Could not listen on %s: %v", cfg.HTTPPort, err)
		}
	}()

	<-stopChan
	logrus.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server graceful shutdown failed: %v", err)
	}

	logrus.Info("Server shutdown complete.")
}
