package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/observability"
	"github.com/aretw0/orxa/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	deny := domain.Decision{Allow: false, Metadata: map[string]any{domain.MetaRule: domain.RuleWriteRole}}
	warn := domain.Decision{Allow: true, Warnings: []string{"no summary"}, Metadata: map[string]any{}}

	hooks.OnDecision(ctx, &domain.DecisionEvent{Decision: deny})
	hooks.OnDecision(ctx, &domain.DecisionEvent{Decision: deny})
	hooks.OnDecision(ctx, &domain.DecisionEvent{Decision: warn})
	hooks.OnDecision(ctx, &domain.DecisionEvent{Decision: domain.Allowed()})
	hooks.OnReminder(ctx, &domain.ReminderEvent{SessionID: "ses_1", SelfWorkCalls: 3})
	hooks.OnDelegation(ctx, &domain.DelegationEvent{
		Result:   domain.DelegationResult{Status: domain.DelegationCompleted},
		Duration: 3 * time.Second,
	})

	body := scrape(t, m)
	assert.Contains(t, body, `orxa_decisions_total{outcome="deny",rule="write_role"} 2`)
	assert.Contains(t, body, `orxa_decisions_total{outcome="warn",rule="none"} 1`)
	assert.Contains(t, body, `orxa_decisions_total{outcome="allow",rule="none"} 1`)
	assert.Contains(t, body, `orxa_drift_reminders_total 1`)
	assert.Contains(t, body, `orxa_delegations_total{status="completed"} 1`)
	assert.Contains(t, body, `orxa_delegation_duration_seconds_count{status="completed"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_FailedDelegation(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnDelegation(context.Background(), &domain.DelegationEvent{
		Request:  domain.DelegationRequest{Agent: "coder"},
		Duration: time.Second,
		Err:      errors.New("connection refused"),
	})

	body := scrape(t, m)
	assert.Contains(t, body, `orxa_delegations_total{status="error"} 1`)
	assert.Contains(t, body, `orxa_delegation_duration_seconds_count{status="error"} 1`)
	assert.NotContains(t, body, `status="completed"`)
}

func TestChainHooks(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnDecision: func(context.Context, *domain.DecisionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnDecision: func(context.Context, *domain.DecisionEvent) { calls = append(calls, "b") },
		OnReminder: func(context.Context, *domain.ReminderEvent) { calls = append(calls, "b-reminder") },
	}

	chained := observability.ChainHooks(a, domain.LifecycleHooks{}, b)
	chained.OnDecision(context.Background(), &domain.DecisionEvent{})
	chained.OnReminder(context.Background(), &domain.ReminderEvent{})

	assert.Equal(t, []string{"a", "b", "b-reminder"}, calls)
	assert.Nil(t, chained.OnDelegation)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnDecision(ctx, &domain.DecisionEvent{Tool: "read", Decision: domain.Allowed()})
	assert.Empty(t, buf.String(), "plain allows are debug only")

	hooks.OnDecision(ctx, &domain.DecisionEvent{
		Tool:      "write",
		SessionID: "ses_1",
		Decision:  domain.Decision{Allow: false, Metadata: map[string]any{domain.MetaRule: domain.RuleWriteRole}},
	})
	assert.Contains(t, buf.String(), "session_id=ses_1")
	assert.Contains(t, buf.String(), "rule=write_role")

	buf.Reset()
	hooks.OnDelegation(ctx, &domain.DelegationEvent{
		Request: domain.DelegationRequest{Agent: "coder"},
		Err:     errors.New("connection refused"),
	})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `err="connection refused"`)
}

func TestSinks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seen []domain.Event
	recorder := ports.EventSinkFunc(func(_ context.Context, e domain.Event) { seen = append(seen, e) })

	sink := observability.MultiSink(observability.LogSink(logger), nil, recorder)
	sink.Emit(context.Background(), domain.Event{
		Title:    "delegate_task",
		Metadata: map[string]any{"sessionId": "ses_child"},
	})

	require.Len(t, seen, 1)
	assert.Contains(t, buf.String(), "delegate_task")
	assert.Contains(t, buf.String(), "sessionId=ses_child")
}
