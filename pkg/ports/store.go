package ports

import (
	"context"

	"github.com/aretw0/orxa/pkg/domain"
)

// DriftStore defines the interface for persisting per-session drift state.
// Entries are created lazily by the caller and removed explicitly with Delete;
// stores must not expire them on their own unless configured to.
type DriftStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.DriftState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.DriftState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of all sessions with stored state.
	List(ctx context.Context) ([]string, error)
}
