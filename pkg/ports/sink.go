package ports

import (
	"context"

	"github.com/aretw0/orxa/pkg/domain"
)

// EventSink receives observability events. Implementations must not block
// the caller for long and must not fail it: Emit has no error return.
type EventSink interface {
	Emit(ctx context.Context, event domain.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, event domain.Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(ctx context.Context, event domain.Event) { f(ctx, event) }
