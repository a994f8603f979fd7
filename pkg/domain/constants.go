package domain

// Metadata keys attached to decisions.
const (
	MetaTool             = "tool"
	MetaAgent            = "agent"
	MetaMode             = "mode"
	MetaRule             = "rule"
	MetaTargets          = "targets"
	MetaUnmatched        = "unmatched"
	MetaCurrentSessionID = "currentSessionId"
	MetaTargetSessionID  = "targetSessionId"
	MetaImageCount       = "imageCount"
	MetaMaxImages        = "maxImages"
	MetaToolOutputChars  = "toolOutputChars"
	MetaMaxToolOutput    = "maxToolOutputChars"
)

// Rule names, reported under MetaRule.
const (
	RuleAgentRestriction  = "agent_restriction"
	RuleMobileTooling     = "mobile_tooling"
	RuleWriteRole         = "write_role"
	RulePlanAllowlist     = "plan_allowlist"
	RuleSessionContinuity = "session_continuity"
	RulePromptShape       = "prompt_shape"
	RuleAttachmentBudget  = "attachment_budget"
	RuleOutputBudget      = "output_budget"
)
