package main

import (
	"context"

	"github.com/rs/zerolog"

	"chat-relay/internal/config"
	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/relay"
	"chat-relay/internal/infrastructure/agentclient"
	"chat-relay/internal/infrastructure/storage"
	"chat-relay/internal/infrastructure/store"
)

// provideStorage creates the storage backend selected by UPLOAD_STORAGE_BACKEND.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (relay.Storage, error) {
	if cfg.IsLocalStorage() {
		localStorage, err := storage.NewLocalStorage(cfg, log)
		if err != nil {
			return nil, err
		}
		return localStorage, nil
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return s3Storage, nil
}

func provideRelayService(agent *agentclient.Client, storageClient relay.Storage, cfg *config.Config, log zerolog.Logger) relay.Service {
	return relay.NewService(agent, storageClient, relay.Options{
		URLPrefix:     cfg.UploadURLPrefix,
		PublicBaseURL: cfg.UploadPublicBaseURL,
		MaxBytes:      cfg.UploadMaxBytes,
	}, log)
}

// provideConversationService hosts sessions that reach the relay in-process.
func provideConversationService(conversationStore *store.MemoryStore, relayService relay.Service, log zerolog.Logger) conversation.Service {
	return conversation.NewService(conversationStore, relay.NewLocalTransport(relayService), log)
}

func provideReaper(conversationStore *store.MemoryStore, cfg *config.Config, log zerolog.Logger) *store.Reaper {
	return store.NewReaper(conversationStore, cfg.ConversationIdleTTL, cfg.ConversationCleanupInterval, log)
}
