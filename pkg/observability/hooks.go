package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/orxa/pkg/domain"
)

// LogHooks returns lifecycle hooks writing an audit trail to logger.
// Allowed decisions without warnings are logged at debug level.
//
// Components given a logger through orxa.WithLogger already log their own
// denials, reminders and delegations. Use LogHooks only when they are not.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			level := slog.LevelDebug
			if !e.Decision.Allow || len(e.Decision.Warnings) > 0 {
				level = slog.LevelInfo
			}
			logger.Log(ctx, level, "decision",
				"session_id", e.SessionID,
				"agent", e.Agent,
				"tool", e.Tool,
				"allow", e.Decision.Allow,
				"rule", e.Decision.Rule(),
				"recommended_agent", e.Decision.RecommendedAgent,
			)
		},
		OnReminder: func(ctx context.Context, e *domain.ReminderEvent) {
			logger.InfoContext(ctx, "drift_reminder",
				"session_id", e.SessionID,
				"self_work_calls", e.SelfWorkCalls,
			)
		},
		OnDelegation: func(ctx context.Context, e *domain.DelegationEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "delegation",
					"agent", e.Request.Agent,
					"task_id", e.Request.TaskID,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "delegation",
				"session_id", e.Result.SessionID,
				"agent", e.Result.Agent,
				"status", e.Result.Status,
				"duration", e.Duration,
			)
		},
	}
}

// ChainHooks merges several hook sets; each callback runs the non-nil
// callbacks of every set in order.
func ChainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var decisions []func(context.Context, *domain.DecisionEvent)
	var reminders []func(context.Context, *domain.ReminderEvent)
	var delegations []func(context.Context, *domain.DelegationEvent)
	for _, s := range sets {
		if s.OnDecision != nil {
			decisions = append(decisions, s.OnDecision)
		}
		if s.OnReminder != nil {
			reminders = append(reminders, s.OnReminder)
		}
		if s.OnDelegation != nil {
			delegations = append(delegations, s.OnDelegation)
		}
	}

	if len(decisions) > 0 {
		out.OnDecision = func(ctx context.Context, e *domain.DecisionEvent) {
			for _, fn := range decisions {
				fn(ctx, e)
			}
		}
	}
	if len(reminders) > 0 {
		out.OnReminder = func(ctx context.Context, e *domain.ReminderEvent) {
			for _, fn := range reminders {
				fn(ctx, e)
			}
		}
	}
	if len(delegations) > 0 {
		out.OnDelegation = func(ctx context.Context, e *domain.DelegationEvent) {
			for _, fn := range delegations {
				fn(ctx, e)
			}
		}
	}
	return out
}
