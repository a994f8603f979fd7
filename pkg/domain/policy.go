package domain

// EnforcementMode controls whether would-be denials are enforced.
type EnforcementMode string

const (
	ModeOff   EnforcementMode = "off"
	ModeWarn  EnforcementMode = "warn"
	ModeBlock EnforcementMode = "block"
)

// Enforcing reports whether denials are real in this mode.
func (m EnforcementMode) Enforcing() bool { return m == ModeBlock }

// Valid reports whether m is a known mode.
func (m EnforcementMode) Valid() bool {
	return m == ModeOff || m == ModeWarn || m == ModeBlock
}

// Severity decides how a soft check (the prompt Summary section) is treated.
type Severity string

const (
	SeverityWarn Severity = "warn"
	SeverityDeny Severity = "deny"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool { return s == SeverityWarn || s == SeverityDeny }

// Roles names the agents that play the well-known roles.
type Roles struct {
	Orchestrator string `yaml:"orchestrator" json:"orchestrator"`
	Plan         string `yaml:"plan" json:"plan"`
	Build        string `yaml:"build" json:"build"`
}

// AgentRules restricts the tools a single agent may call.
// A non-empty Allow list is exclusive; Block always wins.
type AgentRules struct {
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty"`
	Block []string `yaml:"block,omitempty" json:"block,omitempty"`
}

// Limits holds the numeric budgets for delegation payloads.
// A value <= 0 disables the corresponding check.
type Limits struct {
	MaxToolOutputChars int `yaml:"max_tool_output_chars" json:"max_tool_output_chars"`
	MaxImages          int `yaml:"max_images" json:"max_images"`
}

// PolicyConfig is loaded once and shared read-only by every evaluation.
type PolicyConfig struct {
	Mode               EnforcementMode       `yaml:"mode" json:"mode"`
	SummarySeverity    Severity              `yaml:"summary_severity" json:"summary_severity"`
	Roles              Roles                 `yaml:"roles" json:"roles"`
	Agents             map[string]AgentRules `yaml:"agents,omitempty" json:"agents,omitempty"`
	PlanWriteAllowlist []string              `yaml:"plan_write_allowlist" json:"plan_write_allowlist"`
	Aliases            map[string]string     `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	MobileToolPrefixes []string              `yaml:"mobile_tool_prefixes,omitempty" json:"mobile_tool_prefixes,omitempty"`
	Limits             Limits                `yaml:"limits" json:"limits"`
}

// Default limits.
const (
	DefaultMaxToolOutputChars = 4000
	DefaultMaxImages          = 4
)

// DefaultPolicyConfig returns a fresh copy of the built-in policy.
func DefaultPolicyConfig() *PolicyConfig {
	return &PolicyConfig{
		Mode:            ModeBlock,
		SummarySeverity: SeverityWarn,
		Roles: Roles{
			Orchestrator: "orxa",
			Plan:         "plan",
			Build:        "build",
		},
		Agents:             map[string]AgentRules{},
		PlanWriteAllowlist: []string{".orxa/plans/*.md"},
		Aliases: map[string]string{
			"ls":                 ToolList,
			"multiedit":          ToolEdit,
			"patch":              ToolApplyPatch,
			"applypatch":         ToolApplyPatch,
			"delegate":           ToolDelegateTask,
			"shell":              ToolBash,
			"run_command":        ToolBash,
			"view_file":          ToolRead,
			"grep_search":        ToolGrep,
			"find_by_name":       ToolGlob,
			"list_dir":           ToolList,
			"multi_edit":         ToolEdit,
			"str_replace_editor": ToolEdit,
			"replace_in_file":    ToolReplaceFileContent,
			"multi_replace_file": ToolMultiReplaceFileContent,
			"create_file":        ToolWrite,
		},
		MobileToolPrefixes: []string{"ios-simulator", "mobile-mcp", "mobile_"},
		Limits: Limits{
			MaxToolOutputChars: DefaultMaxToolOutputChars,
			MaxImages:          DefaultMaxImages,
		},
	}
}

// IsOrchestrator reports whether agent plays the orchestrator role.
func (c *PolicyConfig) IsOrchestrator(agent string) bool {
	return agent != "" && agent == c.Roles.Orchestrator
}

// IsPlan reports whether agent plays the plan role.
func (c *PolicyConfig) IsPlan(agent string) bool {
	return agent != "" && agent == c.Roles.Plan
}
