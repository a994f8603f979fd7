package domain

import "slices"

// Canonical tool names, after alias resolution.
const (
	ToolTask                    = "task"
	ToolDelegateTask            = "delegate_task"
	ToolRead                    = "read"
	ToolGrep                    = "grep"
	ToolGlob                    = "glob"
	ToolList                    = "list"
	ToolBash                    = "bash"
	ToolWrite                   = "write"
	ToolEdit                    = "edit"
	ToolApplyPatch              = "apply_patch"
	ToolWriteToFile             = "write_to_file"
	ToolReplaceFileContent      = "replace_file_content"
	ToolMultiReplaceFileContent = "multi_replace_file_content"
)

// DelegationTools start or continue a subagent session.
var DelegationTools = []string{ToolTask, ToolDelegateTask}

// WriteTools modify files directly.
var WriteTools = []string{
	ToolWrite,
	ToolEdit,
	ToolApplyPatch,
	ToolWriteToFile,
	ToolReplaceFileContent,
	ToolMultiReplaceFileContent,
}

// ExplorationTools search the workspace.
var ExplorationTools = []string{ToolGrep, ToolGlob}

// SelfWorkTools are direct inspection/modification tools that count as drift
// when used by the orchestrator.
var SelfWorkTools = []string{
	ToolRead,
	ToolGrep,
	ToolGlob,
	ToolList,
	ToolBash,
	ToolEdit,
	ToolWrite,
	ToolApplyPatch,
	ToolWriteToFile,
	ToolReplaceFileContent,
	ToolMultiReplaceFileContent,
}

// ToolCategory groups tools for recommendation purposes.
type ToolCategory string

const (
	CategoryDelegation  ToolCategory = "delegation"
	CategoryExploration ToolCategory = "exploration"
	CategoryShell       ToolCategory = "shell"
	CategoryWrite       ToolCategory = "write"
	CategoryOther       ToolCategory = "other"
)

// IsDelegationTool reports whether a resolved tool name is a delegation tool.
func IsDelegationTool(name string) bool { return slices.Contains(DelegationTools, name) }

// IsWriteTool reports whether a resolved tool name is a write tool.
func IsWriteTool(name string) bool { return slices.Contains(WriteTools, name) }

// IsSelfWorkTool reports whether a resolved tool name is a self-work tool.
func IsSelfWorkTool(name string) bool { return slices.Contains(SelfWorkTools, name) }

// Categorize classifies a resolved tool name.
func Categorize(name string) ToolCategory {
	switch {
	case IsDelegationTool(name):
		return CategoryDelegation
	case slices.Contains(ExplorationTools, name):
		return CategoryExploration
	case name == ToolBash:
		return CategoryShell
	case IsWriteTool(name):
		return CategoryWrite
	default:
		return CategoryOther
	}
}
