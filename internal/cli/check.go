package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/orxa/internal/config"
	"github.com/aretw0/orxa/internal/presentation/tui"
	"github.com/aretw0/orxa/pkg/domain"
)

// Evaluator decides one call.
type Evaluator interface {
	Evaluate(ctx context.Context, call domain.CallContext) domain.Decision
}

// Check reads a CallContext as JSON from in, evaluates it and writes the
// decision to out, as JSON or rendered markdown.
func Check(ctx context.Context, gov Evaluator, in io.Reader, out io.Writer, asJSON bool) (domain.Decision, error) {
	var call domain.CallContext
	if err := json.NewDecoder(in).Decode(&call); err != nil {
		return domain.Decision{}, fmt.Errorf("failed to read call: %w", err)
	}
	call.Config = nil

	d := gov.Evaluate(ctx, call)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return d, enc.Encode(d)
	}
	return d, tui.RenderDecision(out, call, d)
}

// Validate loads the policy at path and prints a short summary of it.
func Validate(path string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	printSystemMessage(out, "Policy %s is valid.", path)
	printSystemMessage(out, "mode=%s summary_severity=%s", cfg.Mode, cfg.SummarySeverity)
	printSystemMessage(out, "roles: orchestrator=%s plan=%s build=%s",
		cfg.Roles.Orchestrator, cfg.Roles.Plan, cfg.Roles.Build)
	printSystemMessage(out, "%d agent rule sets, %d aliases, %d plan allowlist patterns",
		len(cfg.Agents), len(cfg.Aliases), len(cfg.PlanWriteAllowlist))
	return nil
}
