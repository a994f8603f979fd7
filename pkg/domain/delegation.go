package domain

import "strings"

// DelegationRequest asks the orchestrator to run a prompt in a subagent session.
type DelegationRequest struct {
	// ParentSessionID is the orchestrator session issuing the delegation.
	ParentSessionID string `json:"parent_session_id,omitempty" mapstructure:"parent_session_id"`

	// Agent is the target subagent. Required unless TaskID is set.
	Agent string `json:"agent,omitempty" mapstructure:"agent"`

	// Prompt is the work to hand over. Always required.
	Prompt string `json:"prompt" mapstructure:"prompt"`

	// Description is a short label used as the child session title.
	Description string `json:"description,omitempty" mapstructure:"description"`

	// Background returns right after dispatch instead of waiting.
	Background bool `json:"background,omitempty" mapstructure:"background"`

	// TaskID continues an existing child session instead of creating one.
	TaskID string `json:"task_id,omitempty" mapstructure:"task_id"`

	// Directory is the caller's default working directory, used when the
	// parent session's directory cannot be discovered.
	Directory string `json:"directory,omitempty" mapstructure:"directory"`
}

// Continuing reports whether the request targets an existing session.
func (r DelegationRequest) Continuing() bool {
	return strings.TrimSpace(r.TaskID) != ""
}

// DelegationStatus is how a delegation ended.
type DelegationStatus string

const (
	DelegationCompleted  DelegationStatus = "completed"
	DelegationTimeout    DelegationStatus = "timeout"
	DelegationBackground DelegationStatus = "background"
	DelegationAborted    DelegationStatus = "aborted"
)

// DelegationResult is returned to the orchestrator agent as the tool output.
type DelegationResult struct {
	SessionID string           `json:"session_id"`
	Agent     string           `json:"agent,omitempty"`
	Status    DelegationStatus `json:"status"`
	Text      string           `json:"text"`
}

// Message roles as reported by the host.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a session's message list.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SessionStatus is the activity state reported by a host for a session.
type SessionStatus string

const (
	SessionIdle  SessionStatus = "idle"
	SessionBusy  SessionStatus = "busy"
	SessionRetry SessionStatus = "retry"
)

// Active reports whether the session is still working.
func (s SessionStatus) Active() bool {
	return s == SessionBusy || s == SessionRetry
}

// PermissionRule is forwarded to the host when a child session is created.
type PermissionRule struct {
	Permission string `json:"permission"`
	Pattern    string `json:"pattern"`
	Action     string `json:"action"`
}

// CreateSessionRequest describes a child session to create on the host.
type CreateSessionRequest struct {
	ParentID   string           `json:"parentID,omitempty"`
	Title      string           `json:"title"`
	Directory  string           `json:"directory,omitempty"`
	Permission []PermissionRule `json:"permission,omitempty"`
}

// PromptRequest dispatches text into a host session.
type PromptRequest struct {
	SessionID string          `json:"session_id"`
	Agent     string          `json:"agent,omitempty"`
	Tools     map[string]bool `json:"tools,omitempty"`
	Text      string          `json:"text"`
}
