package domain

import "time"

// DriftState tracks an orchestrator session's self-work since its last delegation.
type DriftState struct {
	SessionID     string    `json:"session_id"`
	SelfWorkCalls int       `json:"self_work_calls"`
	ReminderShown bool      `json:"reminder_shown"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDriftState creates a zeroed state for a session.
func NewDriftState(sessionID string) *DriftState {
	return &DriftState{SessionID: sessionID}
}

// Snapshot returns a copy of the state.
func (s *DriftState) Snapshot() *DriftState {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
