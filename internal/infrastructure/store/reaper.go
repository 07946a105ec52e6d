package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chat-relay/internal/domain/conversation"
)

// Reaper removes hosted conversations that have been idle longer than idleTTL.
// Conversations with a submission in flight are never removed.
type Reaper struct {
	store     conversation.Store
	idleTTL   time.Duration
	interval  time.Duration
	now       func() time.Time
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewReaper creates a new idle conversation reaper.
func NewReaper(store conversation.Store, idleTTL, interval time.Duration, log zerolog.Logger) *Reaper {
	return &Reaper{
		store:    store,
		idleTTL:  idleTTL,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("component", "conversation-reaper").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup loop in background.
// Only the first call starts the loop.
func (r *Reaper) Start(ctx context.Context) {
	if r.idleTTL <= 0 {
		r.log.Info().Msg("idle TTL disabled, reaper not started")
		return
	}
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.run(ctx)
		r.log.Info().Dur("idle_ttl", r.idleTTL).Dur("interval", r.interval).Msg("conversation reaper started")
	})
}

// Stop shuts the loop down and waits for it to exit.
// Only the first call has an effect.
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.log.Info().Msg("conversation reaper stopped")
	})
}

func (r *Reaper) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug().Msg("context cancelled, shutting down reaper")
			return
		case <-r.done:
			r.log.Debug().Msg("done signal received, shutting down reaper")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep deletes idle conversations once and returns how many were removed.
func (r *Reaper) Sweep(ctx context.Context) int {
	sessions, err := r.store.List(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list conversations")
		return 0
	}

	now := r.now()
	removed := 0
	for _, sess := range sessions {
		if sess.IsPending() {
			continue
		}
		idle := now.Sub(sess.LastActivity())
		if idle <= r.idleTTL {
			continue
		}
		if err := r.store.Delete(ctx, sess.ID()); err != nil {
			continue
		}
		removed++
		r.log.Info().
			Str("action", "deleted").
			Str("conversation_id", sess.ID()).
			Dur("idle", idle).
			Msg("conversation cleanup")
	}
	return removed
}
