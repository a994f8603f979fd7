package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/domain"
)

// Evaluator binds a policy config to Evaluate and reports every decision to
// the configured logger and lifecycle hooks.
type Evaluator struct {
	config *domain.PolicyConfig
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithLogger configures a logger for decision auditing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Evaluator) {
		e.hooks = hooks
	}
}

// New creates an Evaluator for cfg. A nil cfg selects the default policy.
func New(cfg *domain.PolicyConfig, opts ...Option) *Evaluator {
	if cfg == nil {
		cfg = domain.DefaultPolicyConfig()
	}
	e := &Evaluator{
		config: cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the bound policy.
func (e *Evaluator) Config() *domain.PolicyConfig {
	return e.config
}

// Evaluate decides the call. Calls without their own config use the bound one.
func (e *Evaluator) Evaluate(ctx context.Context, call domain.CallContext) domain.Decision {
	if call.Config == nil {
		call.Config = e.config
	}
	d := Evaluate(call)

	if !d.Allow {
		e.logger.Info("Tool call denied",
			"session_id", call.SessionID,
			"agent", call.Agent,
			"tool", d.Metadata[domain.MetaTool],
			"rule", d.Rule(),
			"reason", d.Reason,
		)
	} else if len(d.Warnings) > 0 {
		e.logger.Debug("Tool call allowed with warnings",
			"session_id", call.SessionID,
			"agent", call.Agent,
			"tool", d.Metadata[domain.MetaTool],
			"warnings", d.Warnings,
		)
	}

	if e.hooks.OnDecision != nil {
		e.hooks.OnDecision(ctx, &domain.DecisionEvent{
			Timestamp: time.Now(),
			Tool:      ResolveTool(call.Tool, call.Config),
			Agent:     call.Agent,
			SessionID: call.SessionID,
			Decision:  d,
		})
	}
	return d
}
