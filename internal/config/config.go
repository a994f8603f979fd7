// Package config loads and validates the governance policy.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/policy"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the config file.
const (
	EnvEnforcementMode    = "ORXA_ENFORCEMENT_MODE"
	EnvMaxToolOutputChars = "ORXA_MAX_TOOL_OUTPUT_CHARS"
	EnvMaxImages          = "ORXA_MAX_IMAGES"
)

// DefaultPath is where the CLI looks for a policy when none is given.
const DefaultPath = ".orxa/policy.yaml"

// Load reads a policy file (YAML, or JSON by extension), overlays it on the
// defaults, applies environment overrides and validates the result.
// A missing file yields the defaults.
func Load(path string) (*domain.PolicyConfig, error) {
	cfg := domain.DefaultPolicyConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read policy config: %w", err)
		default:
			if err := Decode(data, filepath.Ext(path), cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses data into cfg. Fields absent from data keep their current
// value; maps are merged key by key and lists are replaced.
func Decode(data []byte, ext string, cfg *domain.PolicyConfig) error {
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("%w: failed to parse json: %v", domain.ErrInvalidConfig, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: failed to parse yaml: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv applies the ORXA_* overrides found through lookup.
func ApplyEnv(cfg *domain.PolicyConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvEnforcementMode); ok && strings.TrimSpace(v) != "" {
		cfg.Mode = domain.EnforcementMode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvMaxToolOutputChars); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidConfig, EnvMaxToolOutputChars, v)
		}
		cfg.Limits.MaxToolOutputChars = n
	}
	if v, ok := lookup(EnvMaxImages); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidConfig, EnvMaxImages, v)
		}
		cfg.Limits.MaxImages = n
	}
	return nil
}

// Validate reports every problem in cfg at once, wrapped in domain.ErrInvalidConfig.
func Validate(cfg *domain.PolicyConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", domain.ErrInvalidConfig)
	}

	var problems []string
	if !cfg.Mode.Valid() {
		problems = append(problems, fmt.Sprintf("mode %q must be one of off, warn, block", cfg.Mode))
	}
	if !cfg.SummarySeverity.Valid() {
		problems = append(problems, fmt.Sprintf("summary_severity %q must be warn or deny", cfg.SummarySeverity))
	}
	if cfg.Limits.MaxToolOutputChars < 0 {
		problems = append(problems, "limits.max_tool_output_chars must not be negative")
	}
	if cfg.Limits.MaxImages < 0 {
		problems = append(problems, "limits.max_images must not be negative")
	}
	for role, name := range map[string]string{
		"orchestrator": cfg.Roles.Orchestrator,
		"plan":         cfg.Roles.Plan,
		"build":        cfg.Roles.Build,
	} {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("roles.%s is required", role))
		}
	}
	for _, p := range cfg.PlanWriteAllowlist {
		if strings.TrimSpace(p) == "" || !policy.ValidPattern(p) {
			problems = append(problems, fmt.Sprintf("plan_write_allowlist: invalid glob %q", p))
		}
	}
	for alias, target := range cfg.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(target) == "" {
			problems = append(problems, fmt.Sprintf("aliases: %q -> %q must both be non-empty", alias, target))
		}
	}
	for agent, rules := range cfg.Agents {
		for _, tool := range append(append([]string(nil), rules.Allow...), rules.Block...) {
			if strings.TrimSpace(tool) == "" {
				problems = append(problems, fmt.Sprintf("agents.%s: empty tool name", agent))
				break
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
}
