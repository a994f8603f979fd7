package policy

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchGlob reports whether target matches pattern using filename-glob
// semantics: "*" does not cross "/", dotfiles are matched like any other name
// and "**" spans directories. Invalid patterns never match.
func MatchGlob(pattern, target string) bool {
	pattern = strings.TrimPrefix(strings.TrimSpace(pattern), "./")
	if pattern == "" || target == "" {
		return false
	}
	ok, err := doublestar.Match(pattern, target)
	return err == nil && ok
}

// MatchAny reports whether target matches at least one pattern.
func MatchAny(patterns []string, target string) bool {
	for _, p := range patterns {
		if MatchGlob(p, target) {
			return true
		}
	}
	return false
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(strings.TrimPrefix(pattern, "./"))
}

// NormalizeTarget turns a raw write target into a clean slash-separated path,
// relative to dir when the target is absolute and lives under it.
func NormalizeTarget(raw, dir string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if dir != "" && path.IsAbs(p) {
		base := path.Clean(strings.ReplaceAll(dir, "\\", "/"))
		if rel, ok := strings.CutPrefix(path.Clean(p), base+"/"); ok {
			p = rel
		}
	}
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}
