package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourhelpa/helpa/internal/channel"
	"github.com/yourhelpa/helpa/internal/classifier"
	"github.com/yourhelpa/helpa/internal/config"
	"github.com/yourhelpa/helpa/internal/engine"
	"github.com/yourhelpa/helpa/internal/handlers"
	"github.com/yourhelpa/helpa/internal/logger"
	"github.com/yourhelpa/helpa/internal/matching"
	"github.com/yourhelpa/helpa/internal/middleware"
	"github.com/yourhelpa/helpa/internal/services"
	"github.com/yourhelpa/helpa/internal/storage"
)

func main() {
	// Local development reads a .env file; absence is fine in production.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Helpa engine",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "openrouter":
		if cfg.OpenRouterAPIKey == "" {
			log.Error("OpenRouter API key is required when using openrouter provider")
			os.Exit(1)
		}
		llmService = services.NewOpenRouterService(cfg.OpenRouterAPIKey, cfg.ModelName)
		log.Info("Using OpenRouter LLM provider")
	case "mock":
		llmService = services.NewMockLLMAPI()
		log.Warn("Using mock LLM provider; free-text classification is disabled")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"openrouter", "mock"})
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	clf := classifier.New(llmService, cfg.ClassifierTimeout, log)
	matcher := matching.NewDirectoryProvider(cfg.DataDir, log)
	eng := engine.New(store, clf, matcher, cfg.StorageTimeout, cfg.MatchingTimeout, log)
	dispatcher := engine.NewDispatcher()
	sender := channel.NewWhatsAppSender(cfg.GraphAPIBaseURL, cfg.AccessToken, cfg.PhoneNumberID, log)

	mux := http.NewServeMux()

	webhookHandler := handlers.NewWebhookHandler(eng, dispatcher, sender, cfg.VerifyToken, log)
	mux.Handle("/webhook", webhookHandler)

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	chatHandler := handlers.NewChatHandler(eng, store, log)
	mux.Handle("/v1/chat", chatHandler)

	profileHandler := handlers.NewProfileHandler(store, log)
	mux.Handle("/v1/profiles/", profileHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Let in-flight turns finish before closing the store.
	dispatcher.Wait()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
