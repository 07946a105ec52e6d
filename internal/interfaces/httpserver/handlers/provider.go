package handlers

import (
	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/domain/relay"
)

// Provider wires HTTP handlers.
type Provider struct {
	AI           *AIHandler
	Conversation *ConversationHandler
}

func NewProvider(relayService relay.Service, conversationService conversation.Service, log zerolog.Logger) *Provider {
	return &Provider{
		AI:           NewAIHandler(relayService, log),
		Conversation: NewConversationHandler(conversationService, log),
	}
}
