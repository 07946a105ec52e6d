//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"chat-relay/internal/config"
	"chat-relay/internal/infrastructure/agentclient"
	"chat-relay/internal/infrastructure/logger"
	"chat-relay/internal/infrastructure/store"
	"chat-relay/internal/interfaces/httpserver"
)

var relaySet = wire.NewSet(
	agentclient.NewClient,
	provideStorage,
	provideRelayService,
)

var conversationSet = wire.NewSet(
	store.NewMemoryStore,
	provideConversationService,
	provideReaper,
)

// BuildApplication assembles the chat relay with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		relaySet,
		conversationSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
