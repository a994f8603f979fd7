// Package drift detects an orchestrator that keeps working on its own instead
// of delegating, and nudges it once per uninterrupted run of self-work.
package drift

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/policy"
	"github.com/aretw0/orxa/pkg/session"
)

// Threshold is the number of consecutive self-work calls that triggers the reminder.
const Threshold = 3

// Reminder is the text injected into the orchestrator's context.
const Reminder = "Delegation reminder: you have been working directly for several tool calls. " +
	"You are the orchestrator; hand implementation and exploration to a subagent " +
	"with delegate_task instead of doing it yourself."

// Detector runs the drift state machine for orchestrator sessions.
type Detector struct {
	sessions *session.Manager
	config   *domain.PolicyConfig
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures the Detector.
type Option func(*Detector)

// WithConfig sets the policy used for role and alias resolution.
func WithConfig(cfg *domain.PolicyConfig) Option {
	return func(d *Detector) {
		if cfg != nil {
			d.config = cfg
		}
	}
}

// WithLogger configures a logger for the Detector.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Detector) {
		d.hooks = hooks
	}
}

// New creates a Detector keeping its state in the given session manager.
func New(sessions *session.Manager, opts ...Option) *Detector {
	d := &Detector{
		sessions: sessions,
		config:   domain.DefaultPolicyConfig(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Check advances the session's state for one intercepted call and returns the
// reminder text when it is due. It never fails: store errors are logged and
// treated as "no reminder".
func (d *Detector) Check(ctx context.Context, hc domain.HookContext) (string, bool) {
	if hc.SessionID == "" || !d.config.IsOrchestrator(strings.TrimSpace(hc.Agent)) {
		return "", false
	}

	tool := policy.ResolveTool(hc.Tool, d.config)
	switch {
	case domain.IsDelegationTool(tool):
		_, err := d.sessions.Update(ctx, hc.SessionID, func(s *domain.DriftState) error {
			s.SelfWorkCalls = 0
			s.ReminderShown = false
			return nil
		})
		if err != nil {
			d.logger.Warn("Failed to reset drift state", "session_id", hc.SessionID, "tool", tool, "err", err)
		}
		return "", false

	case domain.IsSelfWorkTool(tool):
		due := false
		state, err := d.sessions.Update(ctx, hc.SessionID, func(s *domain.DriftState) error {
			s.SelfWorkCalls++
			due = s.SelfWorkCalls >= Threshold && !s.ReminderShown
			if due {
				s.ReminderShown = true
			}
			return nil
		})
		if err != nil {
			d.logger.Warn("Failed to update drift state", "session_id", hc.SessionID, "tool", tool, "err", err)
			return "", false
		}
		if !due {
			return "", false
		}

		d.logger.Info("Drift reminder issued",
			"session_id", hc.SessionID,
			"agent", hc.Agent,
			"self_work_calls", state.SelfWorkCalls,
		)
		if d.hooks.OnReminder != nil {
			d.hooks.OnReminder(ctx, &domain.ReminderEvent{
				Timestamp:     time.Now(),
				SessionID:     hc.SessionID,
				SelfWorkCalls: state.SelfWorkCalls,
			})
		}
		return Reminder, true
	}
	return "", false
}

// Reset forgets a session's drift state, typically when the session ends.
func (d *Detector) Reset(ctx context.Context, sessionID string) error {
	return d.sessions.Clear(ctx, sessionID)
}
