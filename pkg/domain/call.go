package domain

// CallContext is a single intercepted tool invocation.
// It is created by the host adapter per call and never mutated afterwards.
type CallContext struct {
	// Tool is the tool name as reported by the host (may be an alias).
	Tool string `json:"tool" mapstructure:"tool"`

	// Args is the opaque argument payload of the call.
	Args map[string]any `json:"args,omitempty" mapstructure:"args"`

	// Agent is the identity of the calling agent.
	Agent string `json:"agent" mapstructure:"agent"`

	// SessionID references the host session the call belongs to.
	SessionID string `json:"session_id" mapstructure:"session_id"`

	// Directory is the working directory of the session, used to relativize
	// absolute write targets. Optional.
	Directory string `json:"directory,omitempty" mapstructure:"directory"`

	// Config is the active policy. Nil means DefaultPolicyConfig().
	Config *PolicyConfig `json:"-" mapstructure:"-"`

	// OverridePrompt is an explicit prompt supplied by the host, taking
	// precedence over the prompt found in Args.
	OverridePrompt string `json:"override_prompt,omitempty" mapstructure:"override_prompt"`
}

// HookContext is the subset of a call the drift detector looks at.
type HookContext struct {
	Tool      string `json:"tool" mapstructure:"tool"`
	Agent     string `json:"agent" mapstructure:"agent"`
	SessionID string `json:"session_id" mapstructure:"session_id"`
}

// Hook returns the HookContext view of the call.
func (c CallContext) Hook() HookContext {
	return HookContext{Tool: c.Tool, Agent: c.Agent, SessionID: c.SessionID}
}

// Policy returns the effective configuration for the call.
func (c CallContext) Policy() *PolicyConfig {
	if c.Config == nil {
		return DefaultPolicyConfig()
	}
	return c.Config
}
