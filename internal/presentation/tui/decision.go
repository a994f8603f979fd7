package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/muesli/termenv"
)

// Outcome labels.
const (
	OutcomeAllow = "ALLOW"
	OutcomeWarn  = "WARN"
	OutcomeDeny  = "DENY"
)

// Outcome classifies a decision for display.
func Outcome(d domain.Decision) string {
	switch {
	case !d.Allow:
		return OutcomeDeny
	case len(d.Warnings) > 0:
		return OutcomeWarn
	default:
		return OutcomeAllow
	}
}

// Badge returns the outcome label colored for the terminal profile of w.
func Badge(w io.Writer, d domain.Decision) string {
	p := termenv.NewOutput(w).Profile
	label := Outcome(d)

	color := "#22c55e"
	switch label {
	case OutcomeWarn:
		color = "#eab308"
	case OutcomeDeny:
		color = "#ef4444"
	}
	return termenv.String(" " + label + " ").Bold().Foreground(p.Color(color)).String()
}

// DecisionMarkdown describes a decision as a markdown document.
func DecisionMarkdown(call domain.CallContext, d domain.Decision) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s `%s` by `%s`\n\n", Outcome(d), call.Tool, call.Agent)
	if d.Reason != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Reason)
	}
	if d.RecommendedAgent != "" {
		fmt.Fprintf(&b, "**Recommended agent:** `%s`\n\n", d.RecommendedAgent)
	}

	if len(d.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(d.Metadata) > 0 {
		keys := make([]string, 0, len(d.Metadata))
		for k := range d.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("## Details\n\n| key | value |\n|---|---|\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %v |\n", k, d.Metadata[k])
		}
	}
	return b.String()
}

// RenderDecision writes a decision to w, styled when w is a terminal.
func RenderDecision(w io.Writer, call domain.CallContext, d domain.Decision) error {
	out, err := NewRenderer(w)(DecisionMarkdown(call, d))
	if err != nil {
		return fmt.Errorf("failed to render decision: %w", err)
	}
	if IsTerminal(w) {
		fmt.Fprintln(w, Badge(w, d))
	}
	_, err = io.WriteString(w, out)
	return err
}
