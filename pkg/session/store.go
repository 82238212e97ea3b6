package session

import (
	"context"
	"time"
)

// Store persists editing sessions for their lifetime.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its cookie token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its token.
	Delete(ctx context.Context, token string) error

	// Touch extends a session's expiry without rewriting the draft.
	Touch(ctx context.Context, token string, lastActiveAt, expiresAt time.Time) error
}
