package conversation

import "context"

// Store defines storage for hosted sessions.
// Cleanup of idle sessions lives in the store's reaper.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// List returns all sessions ordered by creation time.
	List(ctx context.Context) ([]*Session, error)
}
