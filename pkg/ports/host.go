package ports

import (
	"context"

	"github.com/aretw0/orxa/pkg/domain"
)

// SessionHost is the host's session-management surface used by the
// delegation orchestrator.
type SessionHost interface {
	// Create creates a new child session and returns its id.
	Create(ctx context.Context, req domain.CreateSessionRequest) (string, error)

	// Prompt dispatches text into a session. It returns once the host has
	// accepted the prompt, not when the session finished working on it.
	Prompt(ctx context.Context, req domain.PromptRequest) error

	// Messages returns the ordered message list of a session.
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// StatusReporter is an optional SessionHost capability reporting which
// sessions are still working.
type StatusReporter interface {
	Status(ctx context.Context) (map[string]domain.SessionStatus, error)
}

// DirectoryResolver is an optional SessionHost capability returning the
// working directory of a session.
type DirectoryResolver interface {
	Directory(ctx context.Context, sessionID string) (string, error)
}
