package conversation

import (
	"context"

	"github.com/rs/zerolog"

	"chat-relay/internal/utils/idgen"
)

// Service manages server-hosted conversations.
type Service interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id string) error
	Submit(ctx context.Context, id string, sub Submission) (*Result, error)
}

type service struct {
	store     Store
	transport Transport
	opts      []Option
	baseLog   zerolog.Logger
	log       zerolog.Logger
}

// NewService creates a conversation service. Every hosted session shares the
// given transport; opts are applied to each new session.
func NewService(store Store, transport Transport, log zerolog.Logger, opts ...Option) Service {
	return &service{
		store:     store,
		transport: transport,
		opts:      opts,
		baseLog:   log,
		log:       log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context) (*Session, error) {
	id, err := idgen.ConversationID()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate conversation ID")
		return nil, err
	}

	opts := append([]Option{WithID(id), WithLogger(s.baseLog)}, s.opts...)
	sess := NewSession(s.transport, opts...)

	if err := s.store.Create(ctx, sess); err != nil {
		s.log.Error().Err(err).Str("conversation_id", id).Msg("failed to store conversation")
		return nil, err
	}

	s.log.Info().Str("conversation_id", id).Msg("conversation created")
	return sess, nil
}

func (s *service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Session, error) {
	return s.store.List(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess.IsPending() {
		return ErrSubmissionPending
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("conversation_id", id).Msg("conversation deleted")
	return nil
}

func (s *service) Submit(ctx context.Context, id string, sub Submission) (*Result, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := sess.Submit(ctx, sub)
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", id).Msg("submission rejected")
		return nil, err
	}

	s.log.Info().
		Str("conversation_id", id).
		Int("user_index", res.User.SequenceIndex).
		Int("assistant_index", res.Assistant.SequenceIndex).
		Bool("degraded", res.Degraded).
		Msg("submission completed")
	return res, nil
}
