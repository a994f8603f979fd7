package policy

import (
	"strings"

	"github.com/aretw0/orxa/pkg/domain"
)

// ResolveTool normalizes a raw tool name: it trims whitespace and resolves it
// through the configured alias table (exact key first, then case-insensitive).
// Names without an alias are returned trimmed, case preserved.
func ResolveTool(raw string, cfg *domain.PolicyConfig) string {
	name := strings.TrimSpace(raw)
	if name == "" || cfg == nil || len(cfg.Aliases) == 0 {
		return name
	}
	if target, ok := cfg.Aliases[name]; ok {
		return strings.TrimSpace(target)
	}
	for alias, target := range cfg.Aliases {
		if strings.EqualFold(alias, name) {
			return strings.TrimSpace(target)
		}
	}
	return name
}

func resolveAll(names []string, cfg *domain.PolicyConfig) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if r := ResolveTool(n, cfg); r != "" {
			out = append(out, r)
		}
	}
	return out
}
