package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/ports"
)

// LogSink writes every event to logger at info level.
func LogSink(logger *slog.Logger) ports.EventSink {
	return ports.EventSinkFunc(func(ctx context.Context, e domain.Event) {
		attrs := make([]any, 0, len(e.Metadata)*2)
		for k, v := range e.Metadata {
			attrs = append(attrs, k, v)
		}
		logger.InfoContext(ctx, e.Title, attrs...)
	})
}

// MultiSink fans every event out to each non-nil sink in order.
func MultiSink(sinks ...ports.EventSink) ports.EventSink {
	targets := make([]ports.EventSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			targets = append(targets, s)
		}
	}
	return ports.EventSinkFunc(func(ctx context.Context, e domain.Event) {
		for _, s := range targets {
			s.Emit(ctx, e)
		}
	})
}
