package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"chat-relay/internal/config"
	"chat-relay/internal/infrastructure/agentclient"
	"chat-relay/internal/infrastructure/logger"
	"chat-relay/internal/infrastructure/observability"
	"chat-relay/internal/infrastructure/store"
	"chat-relay/internal/interfaces/httpserver"
)

// @title Chat Relay API
// @version 1.0
// @description Gateway in front of the AI agent plus server-hosted conversations.
// @BasePath /
type Application struct {
	httpServer *httpserver.HTTPServer
	reaper     *store.Reaper
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, reaper *store.Reaper, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		reaper:     reaper,
		log:        log,
	}
}

// Start runs the idle-conversation reaper and the HTTP server until ctx is done.
func (a *Application) Start(ctx context.Context) error {
	a.reaper.Start(ctx)
	defer a.reaper.Stop()
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	agent := agentclient.NewClient(cfg, log)
	relayService := provideRelayService(agent, storageClient, cfg, log)

	conversationStore := store.NewMemoryStore(log)
	conversationService := provideConversationService(conversationStore, relayService, log)

	httpServer := httpserver.New(cfg, log, relayService, conversationService)
	app := NewApplication(httpServer, provideReaper(conversationStore, cfg, log), log)

	log.Info().
		Str("agent_url", cfg.AgentURL).
		Str("storage", cfg.StorageBackend).
		Bool("breaker", cfg.AgentBreakerEnabled).
		Msg("starting chat relay")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
