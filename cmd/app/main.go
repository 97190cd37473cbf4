package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courseapp/internal/api/v1/router"
	"courseapp/internal/config"
	"courseapp/internal/logger"
	"courseapp/internal/pubsub"
	"courseapp/internal/service"
	"courseapp/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load configuration
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("development")
		bootLogger.Fatal().Msgf("Error loading config: %v", err)
	}

	logger := logger.New(cfg.Environment)
	if envErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	ctx := context.Background()

	// 2. Resolve the admin credentials
	var secrets service.SecretManagerService
	if cfg.AdminPasswordSecret != "" {
		secrets, err = service.NewSecretManagerService(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		defer secrets.Close()
	}
	creds, err := service.ResolveAdminCredentials(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordSecret, secrets)
	if err != nil {
		logger.Fatal().Msgf("Failed to resolve admin credentials: %v", err)
	}

	// 3. Open the store
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	// 4. Registration events
	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
	}
	if cfg.PubSubRegistrationTopic != "" {
		logger.Info().Str("topic", cfg.PubSubRegistrationTopic).Msg("Publishing registration events")
	}
	defer publisher.Close()

	// 5. Build router
	r := router.New(cfg, router.Dependencies{
		Repositories:     store.Repositories,
		Publisher:        publisher,
		AdminCredentials: creds,
	}, logger)

	// 6. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("store", store.Driver).Msgf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}

// newPublisher returns a Pub/Sub publisher when a registration topic is configured
func newPublisher(ctx context.Context, cfg *config.Config) (pubsub.Publisher, error) {
	if cfg.PubSubRegistrationTopic == "" {
		return pubsub.NoopPublisher{}, nil
	}
	return pubsub.NewPublisher(ctx, cfg)
}
