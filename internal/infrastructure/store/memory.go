package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/infrastructure/metrics"
)

var (
	// ErrConversationNotFound is returned when a conversation is not found.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrConversationExists is returned when storing a conversation whose ID is taken.
	ErrConversationExists = errors.New("conversation already exists")
)

// MemoryStore is a mutex-based in-memory conversation store.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation.Session
	log           zerolog.Logger
}

// NewMemoryStore creates a new in-memory conversation store.
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*conversation.Session),
		log:           log.With().Str("component", "conversation-store").Logger(),
	}
}

// Create stores a new conversation.
func (s *MemoryStore) Create(ctx context.Context, sess *conversation.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[sess.ID()]; exists {
		return ErrConversationExists
	}
	s.conversations[sess.ID()] = sess
	metrics.RecordConversationCreated()
	return nil
}

// Get retrieves a conversation by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*conversation.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return sess, nil
}

// Delete removes a conversation by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrConversationNotFound
	}
	delete(s.conversations, id)
	metrics.RecordConversationDeleted()
	return nil
}

// List returns all conversations, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]*conversation.Session, error) {
	s.mu.RLock()
	result := make([]*conversation.Session, 0, len(s.conversations))
	for _, sess := range s.conversations {
		result = append(result, sess)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt().Equal(result[j].CreatedAt()) {
			return result[i].ID() < result[j].ID()
		}
		return result[i].CreatedAt().Before(result[j].CreatedAt())
	})
	return result, nil
}
