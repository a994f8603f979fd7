package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decision outcomes used as metric labels.
const (
	OutcomeAllow = "allow"
	OutcomeWarn  = "warn"
	OutcomeDeny  = "deny"
)

// Metrics holds the governance collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	decisions          *prometheus.CounterVec
	reminders          prometheus.Counter
	delegations        *prometheus.CounterVec
	delegationDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orxa_decisions_total",
				Help: "Policy decisions by outcome and deciding rule",
			},
			[]string{"outcome", "rule"},
		),
		reminders: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orxa_drift_reminders_total",
				Help: "Drift reminders injected into orchestrator sessions",
			},
		),
		delegations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orxa_delegations_total",
				Help: "Finished delegations by status",
			},
			[]string{"status"},
		),
		delegationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orxa_delegation_duration_seconds",
				Help:    "Time from dispatch to result of a delegation",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 180},
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(
		m.decisions,
		m.reminders,
		m.delegations,
		m.delegationDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, e.g. to add host collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDecision records one policy decision.
func (m *Metrics) ObserveDecision(d domain.Decision) {
	outcome := OutcomeAllow
	switch {
	case !d.Allow:
		outcome = OutcomeDeny
	case len(d.Warnings) > 0:
		outcome = OutcomeWarn
	}
	rule := d.Rule()
	if rule == "" {
		rule = "none"
	}
	m.decisions.WithLabelValues(outcome, rule).Inc()
}

// ObserveReminder records one drift reminder.
func (m *Metrics) ObserveReminder() {
	m.reminders.Inc()
}

// ObserveDelegation records a finished delegation.
func (m *Metrics) ObserveDelegation(e *domain.DelegationEvent) {
	status := string(e.Result.Status)
	if e.Err != nil {
		status = "error"
	}
	m.delegations.WithLabelValues(status).Inc()
	m.delegationDuration.WithLabelValues(status).Observe(e.Duration.Seconds())
}

// Hooks returns lifecycle hooks feeding these metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			m.ObserveDecision(e.Decision)
		},
		OnReminder: func(_ context.Context, _ *domain.ReminderEvent) {
			m.ObserveReminder()
		},
		OnDelegation: func(_ context.Context, e *domain.DelegationEvent) {
			m.ObserveDelegation(e)
		},
	}
}
