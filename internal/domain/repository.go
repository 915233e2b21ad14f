package domain

import "context"

// SessionRepository persists session snapshots. The core treats it as a
// simple get/put store and does not mandate a storage engine.
type SessionRepository interface {
	// Put stores or replaces the full session snapshot.
	Put(ctx context.Context, session *Session) error
	// Get loads a session by ID, or ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*Session, error)
	// Delete removes a session, or ErrSessionNotFound.
	Delete(ctx context.Context, sessionID string) error
}

// UsageRepository tracks the per-user cumulative slide count backing the
// quota. The counter is monotonically non-decreasing.
type UsageRepository interface {
	// Used returns the user's lifetime generated slide count.
	Used(ctx context.Context, userID string) (int, error)
	// Add increments the user's counter by n and returns the new total.
	Add(ctx context.Context, userID string, n int) (int, error)
}
