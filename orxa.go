package orxa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/orxa/internal/config"
	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/adapters/memory"
	"github.com/aretw0/orxa/pkg/delegation"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/drift"
	"github.com/aretw0/orxa/pkg/observability"
	"github.com/aretw0/orxa/pkg/policy"
	"github.com/aretw0/orxa/pkg/ports"
	"github.com/aretw0/orxa/pkg/session"
)

// Governor is the high-level entry point of the governance layer.
// It wires the policy evaluator, the drift detector and the delegation
// orchestrator around one policy config and one drift store.
type Governor struct {
	config *domain.PolicyConfig
	store  ports.DriftStore
	locker ports.DistributedLocker
	host   ports.SessionHost
	sink   ports.EventSink

	metrics   *observability.Metrics
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	directory string

	sessions     *session.Manager
	evaluator    *policy.Evaluator
	detector     *drift.Detector
	orchestrator *delegation.Orchestrator
}

// Option defines a functional option for configuring the Governor.
type Option func(*Governor)

// WithConfig sets the policy. The default is domain.DefaultPolicyConfig().
func WithConfig(cfg *domain.PolicyConfig) Option {
	return func(g *Governor) {
		g.config = cfg
	}
}

// WithStore sets the drift state store. The default is in-memory.
func WithStore(store ports.DriftStore) Option {
	return func(g *Governor) {
		g.store = store
	}
}

// WithLocker enables distributed locking of drift state.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(g *Governor) {
		g.locker = locker
	}
}

// WithHost sets the session host used for delegation.
func WithHost(host ports.SessionHost) Option {
	return func(g *Governor) {
		g.host = host
	}
}

// WithSink sets the host's observability sink.
func WithSink(sink ports.EventSink) Option {
	return func(g *Governor) {
		g.sink = sink
	}
}

// WithMetrics records decisions, reminders and delegations in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Governor) {
		g.metrics = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Governor) {
		g.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Governor) {
		g.logger = logger
	}
}

// WithDirectory sets the fallback working directory for child sessions.
func WithDirectory(dir string) Option {
	return func(g *Governor) {
		g.directory = dir
	}
}

// New builds a Governor. It fails only when the policy config is invalid.
func New(opts ...Option) (*Governor, error) {
	g := &Governor{}
	for _, opt := range opts {
		opt(g)
	}

	if g.config == nil {
		g.config = domain.DefaultPolicyConfig()
	}
	if err := config.Validate(g.config); err != nil {
		return nil, err
	}
	if g.store == nil {
		g.store = memory.NewStore()
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}

	hooks := g.hooks
	if g.metrics != nil {
		hooks = observability.ChainHooks(hooks, g.metrics.Hooks())
	}

	sessionOpts := []session.Option{session.WithLogger(g.logger)}
	if g.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(g.locker))
	}
	g.sessions = session.NewManager(g.store, sessionOpts...)

	g.evaluator = policy.New(g.config,
		policy.WithLogger(g.logger),
		policy.WithLifecycleHooks(hooks),
	)
	g.detector = drift.New(g.sessions,
		drift.WithConfig(g.config),
		drift.WithLogger(g.logger),
		drift.WithLifecycleHooks(hooks),
	)
	if g.host != nil {
		g.orchestrator = delegation.New(g.host,
			delegation.WithLogger(g.logger),
			delegation.WithSink(g.sink),
			delegation.WithLifecycleHooks(hooks),
			delegation.WithDirectory(g.directory),
		)
	}
	return g, nil
}

// Evaluate decides an intercepted tool call. Calls without their own config
// are evaluated against the governor's.
func (g *Governor) Evaluate(ctx context.Context, call domain.CallContext) domain.Decision {
	return g.evaluator.Evaluate(ctx, call)
}

// DriftCheck advances the drift state of an orchestrator session and returns
// the reminder text when one is due.
func (g *Governor) DriftCheck(ctx context.Context, hc domain.HookContext) (string, bool) {
	return g.detector.Check(ctx, hc)
}

// Delegate runs a prompt in a subagent session on the host.
func (g *Governor) Delegate(ctx context.Context, req domain.DelegationRequest) (domain.DelegationResult, error) {
	if g.orchestrator == nil {
		return domain.DelegationResult{}, domain.ErrNoHost
	}
	return g.orchestrator.Delegate(ctx, req)
}

// EndSession forgets a session's drift state. Hosts call it when a session ends.
func (g *Governor) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidArgument)
	}
	if err := g.detector.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	g.logger.Debug("Session state cleared", "session_id", sessionID)
	return nil
}

// Sessions lists the sessions with tracked drift state.
func (g *Governor) Sessions(ctx context.Context) ([]string, error) {
	return g.sessions.List(ctx)
}

// Config returns the active policy.
func (g *Governor) Config() *domain.PolicyConfig {
	return g.config
}

// Metrics returns the metrics set with WithMetrics, or nil.
func (g *Governor) Metrics() *observability.Metrics {
	return g.metrics
}
