package policy_test

import (
	"strings"
	"testing"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryPrompt = "## Summary\nFix the failing test in parser.go\n\n## Details\nRun go test ./..."

func newConfig() *domain.PolicyConfig {
	cfg := domain.DefaultPolicyConfig()
	cfg.Agents = map[string]domain.AgentRules{
		"explorer": {Allow: []string{"read", "grep", "glob"}},
		"reviewer": {Block: []string{"bash", "task"}},
	}
	return cfg
}

func TestEvaluate_DefaultAllow(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:      "read",
		Agent:     "build",
		SessionID: "ses_1",
		Args:      map[string]any{"filePath": "main.go"},
	})

	assert.True(t, d.Allow)
	assert.Empty(t, d.Reason)
	assert.Equal(t, "read", d.Metadata[domain.MetaTool])
	assert.Equal(t, "block", d.Metadata[domain.MetaMode])
}

func TestEvaluate_AliasResolvedBeforeChecks(t *testing.T) {
	cfg := newConfig()
	cfg.Aliases["Shell"] = "bash"

	d := policy.Evaluate(domain.CallContext{Tool: "  Shell ", Agent: "reviewer", Config: cfg})

	require.False(t, d.Allow)
	assert.Equal(t, "bash", d.Metadata[domain.MetaTool])
	assert.Equal(t, domain.RuleAgentRestriction, d.Rule())
}

func TestEvaluate_AgentAllowList(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		recommend string
	}{
		{name: "shell goes to build", tool: "bash", recommend: "build"},
		{name: "delegation goes to orchestrator", tool: "task", recommend: "orxa"},
		{name: "write goes to plan", tool: "write", recommend: "plan"},
		{name: "unclassified goes to build", tool: "webfetch", recommend: "build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Evaluate(domain.CallContext{Tool: tt.tool, Agent: "explorer", Config: newConfig()})

			require.False(t, d.Allow)
			assert.NotEmpty(t, d.Reason)
			assert.Equal(t, tt.recommend, d.RecommendedAgent)
		})
	}

	d := policy.Evaluate(domain.CallContext{Tool: "grep", Agent: "explorer", Config: newConfig()})
	assert.True(t, d.Allow, "tools on the allow-list pass")
}

func TestEvaluate_AgentBlockList(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{Tool: "bash", Agent: "reviewer", Config: newConfig()})

	require.False(t, d.Allow)
	assert.Contains(t, d.Reason, "blocked")
	assert.Equal(t, "build", d.RecommendedAgent)
}

func TestEvaluate_ExplorationRecommendsPlan(t *testing.T) {
	cfg := newConfig()
	cfg.Agents["writer"] = domain.AgentRules{Block: []string{"glob"}}

	d := policy.Evaluate(domain.CallContext{Tool: "glob", Agent: "writer", Config: cfg})

	require.False(t, d.Allow)
	assert.Equal(t, "plan", d.RecommendedAgent)
}

func TestEvaluate_MobileToolingDeniedForOrchestrator(t *testing.T) {
	call := domain.CallContext{Tool: "ios-simulator_tap", Agent: "orxa"}

	d := policy.Evaluate(call)
	require.False(t, d.Allow)
	assert.Equal(t, domain.RuleMobileTooling, d.Rule())
	assert.NotEmpty(t, d.Reason)

	call.Agent = "build"
	assert.True(t, policy.Evaluate(call).Allow, "other agents may drive the simulator")
}

func TestEvaluate_WriteToolRoleRestriction(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:  "write",
		Agent: "build",
		Args:  map[string]any{"filePath": "src/app.ts"},
	})

	require.False(t, d.Allow)
	assert.Equal(t, "plan", d.RecommendedAgent)
	assert.Equal(t, domain.RuleWriteRole, d.Rule())
	assert.Equal(t, []string{"src/app.ts"}, d.Metadata[domain.MetaTargets])
}

func TestEvaluate_WriteToolRoleRestriction_PluralTargets(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:  "multi_replace_file_content",
		Agent: "coder",
		Args: map[string]any{
			"paths": []any{"a.go", "b.go", 7, "a.go"},
		},
	})

	require.False(t, d.Allow)
	assert.Equal(t, []string{"a.go", "b.go"}, d.Metadata[domain.MetaTargets])
}

func TestEvaluate_WriteToolRoleRestriction_Patch(t *testing.T) {
	patch := strings.Join([]string{
		"*** Begin Patch",
		"*** Add File: docs/new.md",
		"+hello",
		"*** Update File: src/main.go",
		"@@",
		"-old",
		"+new",
		"*** Delete File: tmp/old.txt",
		"*** End Patch",
	}, "\n")

	d := policy.Evaluate(domain.CallContext{
		Tool:  "patch",
		Agent: "coder",
		Args:  map[string]any{"patchText": patch},
	})

	require.False(t, d.Allow)
	assert.Equal(t, "apply_patch", d.Metadata[domain.MetaTool])
	assert.Equal(t, []string{"docs/new.md", "src/main.go", "tmp/old.txt"}, d.Metadata[domain.MetaTargets])
}

func TestEvaluate_OrchestratorMayWrite(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:  "edit",
		Agent: "orxa",
		Args:  map[string]any{"filePath": "README.md"},
	})
	assert.True(t, d.Allow)
	assert.Equal(t, []string{"README.md"}, d.Metadata[domain.MetaTargets])
}

func TestEvaluate_PlanWriteAllowlist(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		dir     string
		allowed bool
	}{
		{name: "plan file", args: map[string]any{"filePath": ".orxa/plans/test.md"}, allowed: true},
		{name: "dot slash prefix", args: map[string]any{"filePath": "./.orxa/plans/test.md"}, allowed: true},
		{name: "absolute under workspace", args: map[string]any{"filePath": "/work/repo/.orxa/plans/x.md"}, dir: "/work/repo", allowed: true},
		{name: "nested plan file", args: map[string]any{"filePath": ".orxa/plans/sub/test.md"}, allowed: false},
		{name: "source file", args: map[string]any{"filePath": "src/main.go"}, allowed: false},
		{name: "one of many outside", args: map[string]any{"paths": []any{".orxa/plans/a.md", "go.mod"}}, allowed: false},
		{name: "no target", args: map[string]any{"content": "x"}, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Evaluate(domain.CallContext{
				Tool:      "write",
				Agent:     "plan",
				Args:      tt.args,
				Directory: tt.dir,
			})
			assert.Equal(t, tt.allowed, d.Allow, d.Reason)
			if !tt.allowed {
				assert.Equal(t, domain.RulePlanAllowlist, d.Rule())
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestEvaluate_PlanAllowlistReportsUnmatched(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:  "write",
		Agent: "plan",
		Args:  map[string]any{"paths": []any{".orxa/plans/a.md", "go.mod"}},
	})

	require.False(t, d.Allow)
	assert.Equal(t, []string{"go.mod"}, d.Metadata[domain.MetaUnmatched])
	assert.Equal(t, []string{".orxa/plans/a.md", "go.mod"}, d.Metadata[domain.MetaTargets])
}

func TestEvaluate_PlanPatchAfterLongLine(t *testing.T) {
	patch := "*** Begin Patch\n" +
		"*** Add File: .orxa/plans/a.md\n" +
		"+" + strings.Repeat("x", 5*1024*1024) + "\n" +
		"*** Update File: src/main.go\n" +
		"*** End Patch"

	d := policy.Evaluate(domain.CallContext{
		Tool:  "apply_patch",
		Agent: "plan",
		Args:  map[string]any{"patchText": patch},
	})

	require.False(t, d.Allow)
	assert.Equal(t, domain.RulePlanAllowlist, d.Rule())
	assert.Equal(t, []string{"src/main.go"}, d.Metadata[domain.MetaUnmatched])
}

func TestEvaluate_SessionContinuity(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "top level", args: map[string]any{"sessionID": "ses_other", "prompt": summaryPrompt}},
		{name: "nested", args: map[string]any{"session": map[string]any{"id": "ses_other"}, "prompt": summaryPrompt}},
		{name: "nested under args", args: map[string]any{"args": map[string]any{"session_id": "ses_other"}}},
		{name: "invalid prompt too", args: map[string]any{"sessionId": "ses_other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Evaluate(domain.CallContext{
				Tool:      "task",
				Agent:     "orxa",
				SessionID: "ses_current",
				Args:      tt.args,
			})

			require.False(t, d.Allow)
			assert.Equal(t, domain.RuleSessionContinuity, d.Rule())
			assert.Equal(t, "ses_current", d.Metadata[domain.MetaCurrentSessionID])
			assert.Equal(t, "ses_other", d.Metadata[domain.MetaTargetSessionID])
		})
	}

	d := policy.Evaluate(domain.CallContext{
		Tool:      "task",
		Agent:     "orxa",
		SessionID: "ses_current",
		Args:      map[string]any{"sessionID": "ses_current", "prompt": summaryPrompt},
	})
	assert.True(t, d.Allow, "the current session id is fine")
}

func TestEvaluate_SummarySectionIsAWarning(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:  "task",
		Agent: "orxa",
		Args:  map[string]any{"prompt": "just do it"},
	})

	assert.True(t, d.Allow)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "Summary")

	d = policy.Evaluate(domain.CallContext{
		Tool:  "task",
		Agent: "orxa",
		Args:  map[string]any{"prompt": summaryPrompt},
	})
	assert.True(t, d.Allow)
	assert.Empty(t, d.Warnings)
}

func TestEvaluate_SummarySeverityDeny(t *testing.T) {
	cfg := domain.DefaultPolicyConfig()
	cfg.SummarySeverity = domain.SeverityDeny

	call := domain.CallContext{Tool: "task", Agent: "orxa", Config: cfg, Args: map[string]any{"prompt": "just do it"}}

	d := policy.Evaluate(call)
	require.False(t, d.Allow)
	assert.Equal(t, domain.RulePromptShape, d.Rule())

	cfg.Mode = domain.ModeWarn
	d = policy.Evaluate(call)
	assert.True(t, d.Allow, "warn mode never blocks")
	assert.NotEmpty(t, d.Warnings)
}

func TestEvaluate_OverridePromptWins(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:           "task",
		Agent:          "orxa",
		Args:           map[string]any{"prompt": "no heading"},
		OverridePrompt: "**Summary:** done",
	})
	assert.Empty(t, d.Warnings)
}

func TestEvaluate_AttachmentBudget(t *testing.T) {
	cfg := domain.DefaultPolicyConfig()
	cfg.Limits.MaxImages = 2

	images := []any{
		map[string]any{"type": "image", "url": "a.png"},
		map[string]any{"mime": "image/png"},
		map[string]any{"mimeType": "IMAGE/jpeg"},
		map[string]any{"type": "file", "mime": "text/plain"},
		"not-an-object",
		42,
	}

	d := policy.Evaluate(domain.CallContext{
		Tool:   "task",
		Agent:  "orxa",
		Config: cfg,
		Args:   map[string]any{"prompt": summaryPrompt, "attachments": images},
	})

	require.False(t, d.Allow)
	assert.Equal(t, domain.RuleAttachmentBudget, d.Rule())
	assert.Equal(t, 3, d.Metadata[domain.MetaImageCount])

	d = policy.Evaluate(domain.CallContext{
		Tool:   "task",
		Agent:  "orxa",
		Config: cfg,
		Args:   map[string]any{"prompt": summaryPrompt, "attachments": images[:2]},
	})
	assert.True(t, d.Allow)
}

func TestEvaluate_AttachmentBudgetMalformedFields(t *testing.T) {
	images := make([]any, 0, 6)
	for i := 0; i < 6; i++ {
		images = append(images, map[string]any{"type": "image", "mime": 0})
	}

	d := policy.Evaluate(domain.CallContext{
		Tool:  "task",
		Agent: "orxa",
		Args:  map[string]any{"prompt": summaryPrompt, "attachments": images},
	})

	require.False(t, d.Allow)
	assert.Equal(t, domain.RuleAttachmentBudget, d.Rule())
	assert.Equal(t, 6, d.Metadata[domain.MetaImageCount])
}

func TestEvaluate_OutputBudget(t *testing.T) {
	call := func(output any) domain.CallContext {
		return domain.CallContext{
			Tool:  "task",
			Agent: "orxa",
			Args:  map[string]any{"prompt": summaryPrompt, "tool_output": output},
		}
	}

	d := policy.Evaluate(call(strings.Repeat("x", 4001)))
	require.False(t, d.Allow)
	assert.Equal(t, domain.RuleOutputBudget, d.Rule())
	assert.Equal(t, 4001, d.Metadata[domain.MetaToolOutputChars])

	d = policy.Evaluate(call(strings.Repeat("x", 3999)))
	assert.True(t, d.Allow)
	assert.Equal(t, 3999, d.Metadata[domain.MetaToolOutputChars])
}

func TestEvaluate_OutputBudgetShapesAgree(t *testing.T) {
	parts := []string{strings.Repeat("a", 2500), strings.Repeat("b", 2000)}

	asStrings := policy.Evaluate(domain.CallContext{
		Tool: "task", Agent: "orxa",
		Args: map[string]any{"prompt": summaryPrompt, "toolOutput": []any{parts[0], parts[1]}},
	})
	asObjects := policy.Evaluate(domain.CallContext{
		Tool: "task", Agent: "orxa",
		Args: map[string]any{"prompt": summaryPrompt, "toolOutput": []any{
			map[string]any{"content": parts[0]},
			map[string]any{"content": parts[1]},
			map[string]any{"content": 12},
			nil,
		}},
	})

	assert.Equal(t, 4500, asStrings.Metadata[domain.MetaToolOutputChars])
	assert.Equal(t, asStrings.Metadata[domain.MetaToolOutputChars], asObjects.Metadata[domain.MetaToolOutputChars])
	assert.False(t, asStrings.Allow)
	assert.False(t, asObjects.Allow)
}

func TestEvaluate_EnforcementModeDowngrades(t *testing.T) {
	for _, mode := range []domain.EnforcementMode{domain.ModeOff, domain.ModeWarn} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := newConfig()
			cfg.Mode = mode

			d := policy.Evaluate(domain.CallContext{
				Tool:   "write",
				Agent:  "build",
				Config: cfg,
				Args:   map[string]any{"filePath": "src/app.ts"},
			})

			assert.True(t, d.Allow)
			assert.Empty(t, d.Reason)
			require.Len(t, d.Warnings, 1)
			assert.Contains(t, d.Warnings[0], "write tool")
			assert.Equal(t, domain.RuleWriteRole, d.Rule())
		})
	}
}

func TestEvaluate_FirstDenialWins(t *testing.T) {
	d := policy.Evaluate(domain.CallContext{
		Tool:      "task",
		Agent:     "orxa",
		SessionID: "ses_a",
		Args: map[string]any{
			"sessionID":   "ses_b",
			"tool_output": strings.Repeat("x", 5000),
		},
	})

	require.False(t, d.Allow)
	assert.Equal(t, domain.RuleSessionContinuity, d.Rule())
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	call := domain.CallContext{
		Tool:  "write",
		Agent: "plan",
		Args:  map[string]any{"filePath": "src/x.go"},
	}
	first := policy.Evaluate(call)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, policy.Evaluate(call))
	}
}
