package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/orxa/internal/presentation/tui"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, tui.OutcomeAllow, tui.Outcome(domain.Allowed()))
	assert.Equal(t, tui.OutcomeWarn, tui.Outcome(domain.Decision{Allow: true, Warnings: []string{"x"}}))
	assert.Equal(t, tui.OutcomeDeny, tui.Outcome(domain.Decision{Reason: "no"}))
}

func TestDecisionMarkdown(t *testing.T) {
	call := domain.CallContext{Tool: "edit", Agent: "build"}
	d := domain.Decision{
		Reason:           "agent \"build\" may not use write tool \"edit\"",
		RecommendedAgent: "plan",
		Warnings:         []string{"delegation prompt has no Summary section"},
		Metadata:         map[string]any{"tool": "edit", "agent": "build"},
	}

	md := tui.DecisionMarkdown(call, d)
	assert.Contains(t, md, "# DENY `edit` by `build`")
	assert.Contains(t, md, "**Recommended agent:** `plan`")
	assert.Contains(t, md, "- delegation prompt has no Summary section")
	assert.Less(t, bytes.Index([]byte(md), []byte("| agent |")), bytes.Index([]byte(md), []byte("| tool |")))
}

func TestRenderDecision_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	call := domain.CallContext{Tool: "read", Agent: "build"}

	require.NoError(t, tui.RenderDecision(&buf, call, domain.Allowed()))
	assert.Equal(t, "# ALLOW `read` by `build`\n\n", buf.String())
	assert.False(t, tui.IsTerminal(&buf))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "\\___/")
}
