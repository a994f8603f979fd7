package domain

import (
	"context"
	"time"
)

// Event is a fire-and-forget observability record handed to the host's sink.
type Event struct {
	Title    string         `json:"title"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DecisionEvent records one policy evaluation.
type DecisionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Agent     string    `json:"agent"`
	SessionID string    `json:"session_id"`
	Decision  Decision  `json:"decision"`
}

// ReminderEvent records a drift reminder being emitted.
type ReminderEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	SelfWorkCalls int       `json:"self_work_calls"`
}

// DelegationEvent records a finished delegation.
type DelegationEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	Request   DelegationRequest `json:"request"`
	Result    DelegationResult  `json:"result"`
	Duration  time.Duration     `json:"duration"`
	Err       error             `json:"-"`
}

// LifecycleHooks defines callbacks for governance observability.
// Every hook is optional.
type LifecycleHooks struct {
	OnDecision   func(context.Context, *DecisionEvent)
	OnReminder   func(context.Context, *ReminderEvent)
	OnDelegation func(context.Context, *DelegationEvent)
}
