package policy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/orxa/pkg/domain"
)

// violation is a would-be denial produced by a rule.
type violation struct {
	rule      string
	reason    string
	recommend string
	meta      map[string]any

	// soft violations are warnings unless the config escalates them.
	soft bool
}

// evaluation is the working set shared by the rules of one Evaluate call.
type evaluation struct {
	call    domain.CallContext
	cfg     *domain.PolicyConfig
	tool    string
	agent   string
	targets []string

	// meta receives informational metadata regardless of the outcome.
	meta map[string]any
}

// rule inspects an evaluation and returns the violations it finds, in order.
type rule func(ev *evaluation) []violation

// chain is the fixed rule order; alias resolution happens before it runs.
var chain = []rule{
	agentRestriction,
	mobileTooling,
	writeRole,
	planAllowlist,
	delegationChecks,
}

// Evaluate decides whether an intercepted call may run.
// It never fails: every outcome, including a denial, is a Decision.
func Evaluate(call domain.CallContext) domain.Decision {
	cfg := call.Policy()
	mode := cfg.Mode
	if !mode.Valid() {
		mode = domain.ModeBlock
	}

	d := domain.Allowed()
	ev := &evaluation{
		call:  call,
		cfg:   cfg,
		tool:  ResolveTool(call.Tool, cfg),
		agent: strings.TrimSpace(call.Agent),
		meta:  d.Metadata,
	}
	d.Metadata[domain.MetaTool] = ev.tool
	d.Metadata[domain.MetaAgent] = ev.agent
	d.Metadata[domain.MetaMode] = string(mode)

	if domain.IsWriteTool(ev.tool) {
		ev.targets = ExtractWriteTargets(ev.tool, call.Args)
		d.Metadata[domain.MetaTargets] = ev.targets
	}

	for _, r := range chain {
		for _, v := range r(ev) {
			for k, val := range v.meta {
				d.Metadata[k] = val
			}

			if v.soft && cfg.SummarySeverity != domain.SeverityDeny {
				d.Warn(v.reason)
				continue
			}

			if !mode.Enforcing() {
				d.Metadata[domain.MetaRule] = v.rule
				d.Warn(fmt.Sprintf("%s (not enforced in %s mode)", v.reason, mode))
				continue
			}

			d.Allow = false
			d.Reason = v.reason
			d.RecommendedAgent = v.recommend
			d.Metadata[domain.MetaRule] = v.rule
			return d
		}
	}
	return d
}

// RecommendAgent picks the agent better suited for a tool the caller may not use.
func RecommendAgent(tool string, cfg *domain.PolicyConfig) string {
	switch domain.Categorize(tool) {
	case domain.CategoryDelegation:
		return cfg.Roles.Orchestrator
	case domain.CategoryExploration, domain.CategoryWrite:
		return cfg.Roles.Plan
	default:
		return cfg.Roles.Build
	}
}

func agentRestriction(ev *evaluation) []violation {
	rules, ok := ev.cfg.Agents[ev.agent]
	if !ok || ev.tool == "" {
		return nil
	}

	if allow := resolveAll(rules.Allow, ev.cfg); len(allow) > 0 && !slices.Contains(allow, ev.tool) {
		return []violation{{
			rule:      domain.RuleAgentRestriction,
			reason:    fmt.Sprintf("agent %q is not allowed to use tool %q", ev.agent, ev.tool),
			recommend: RecommendAgent(ev.tool, ev.cfg),
		}}
	}
	if slices.Contains(resolveAll(rules.Block, ev.cfg), ev.tool) {
		return []violation{{
			rule:      domain.RuleAgentRestriction,
			reason:    fmt.Sprintf("tool %q is blocked for agent %q", ev.tool, ev.agent),
			recommend: RecommendAgent(ev.tool, ev.cfg),
		}}
	}
	return nil
}

func mobileTooling(ev *evaluation) []violation {
	if !ev.cfg.IsOrchestrator(ev.agent) || !isMobileTool(ev.tool, ev.cfg.MobileToolPrefixes) {
		return nil
	}
	return []violation{{
		rule:      domain.RuleMobileTooling,
		reason:    fmt.Sprintf("mobile simulator tool %q cannot be used by the orchestrator; delegate the work to a subagent", ev.tool),
		recommend: ev.cfg.Roles.Build,
	}}
}

func isMobileTool(tool string, prefixes []string) bool {
	lower := strings.ToLower(tool)
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func writeRole(ev *evaluation) []violation {
	if !domain.IsWriteTool(ev.tool) || ev.cfg.IsOrchestrator(ev.agent) || ev.cfg.IsPlan(ev.agent) {
		return nil
	}
	return []violation{{
		rule:      domain.RuleWriteRole,
		reason:    fmt.Sprintf("agent %q may not use write tool %q; only the orchestrator and plan agents write directly", ev.agent, ev.tool),
		recommend: ev.cfg.Roles.Plan,
	}}
}

func planAllowlist(ev *evaluation) []violation {
	if !ev.cfg.IsPlan(ev.agent) || !domain.IsWriteTool(ev.tool) {
		return nil
	}
	if len(ev.targets) == 0 {
		return []violation{{
			rule:      domain.RulePlanAllowlist,
			reason:    fmt.Sprintf("could not determine the files written by %q; plan writes must target the allowlist", ev.tool),
			recommend: ev.cfg.Roles.Build,
		}}
	}

	var unmatched []string
	for _, t := range ev.targets {
		if !MatchAny(ev.cfg.PlanWriteAllowlist, NormalizeTarget(t, ev.call.Directory)) {
			unmatched = append(unmatched, t)
		}
	}
	if len(unmatched) == 0 {
		return nil
	}
	return []violation{{
		rule: domain.RulePlanAllowlist,
		reason: fmt.Sprintf("plan agent may only write to %s; outside allowlist: %s",
			strings.Join(ev.cfg.PlanWriteAllowlist, ", "), strings.Join(unmatched, ", ")),
		recommend: ev.cfg.Roles.Build,
		meta:      map[string]any{domain.MetaUnmatched: unmatched},
	}}
}

func delegationChecks(ev *evaluation) []violation {
	if !domain.IsDelegationTool(ev.tool) {
		return nil
	}
	var out []violation
	args := ev.call.Args

	if target, ok := TargetSessionID(args); ok && target != ev.call.SessionID {
		out = append(out, violation{
			rule:   domain.RuleSessionContinuity,
			reason: fmt.Sprintf("delegation targets session %q but was issued from session %q", target, ev.call.SessionID),
			meta: map[string]any{
				domain.MetaCurrentSessionID: ev.call.SessionID,
				domain.MetaTargetSessionID:  target,
			},
		})
	}

	prompt := ev.call.OverridePrompt
	if strings.TrimSpace(prompt) == "" {
		prompt, _ = LookupString(args, promptFields...)
	}
	if !HasSummarySection(prompt) {
		out = append(out, violation{
			rule:   domain.RulePromptShape,
			reason: "delegation prompt has no Summary section",
			soft:   true,
		})
	}

	images := CountImages(args)
	ev.meta[domain.MetaImageCount] = images
	if limit := ev.cfg.Limits.MaxImages; limit > 0 && images > limit {
		out = append(out, violation{
			rule:   domain.RuleAttachmentBudget,
			reason: fmt.Sprintf("delegation carries %d images, the limit is %d", images, limit),
			meta:   map[string]any{domain.MetaMaxImages: limit},
		})
	}

	chars := CountToolOutputChars(args)
	ev.meta[domain.MetaToolOutputChars] = chars
	if limit := ev.cfg.Limits.MaxToolOutputChars; limit > 0 && chars > limit {
		out = append(out, violation{
			rule:   domain.RuleOutputBudget,
			reason: fmt.Sprintf("delegation carries %d characters of tool output, the limit is %d; summarize it first", chars, limit),
			meta:   map[string]any{domain.MetaMaxToolOutput: limit},
		})
	}
	return out
}
