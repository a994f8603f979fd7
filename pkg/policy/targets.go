package policy

import (
	"regexp"
	"strings"

	"github.com/aretw0/orxa/pkg/domain"
)

var (
	patchTextFields   = []string{"patchText", "patch_text", "patch", "input", "diff"}
	singlePathFields  = []string{"filePath", "file_path", "path", "target_file", "TargetFile"}
	pluralPathsFields = []string{"filePaths", "file_paths", "paths", "files"}
)

// patchDirective matches the file headers of an apply_patch envelope.
var patchDirective = regexp.MustCompile(`^\*{0,3}\s*(?:(?:Add|Update|Delete) File|Move to):\s*(.+?)\s*$`)

// ExtractWriteTargets returns the paths a write tool call would touch, in the
// order they appear, without duplicates. Paths are not normalized.
func ExtractWriteTargets(tool string, args map[string]any) []string {
	var raw []string
	if tool == domain.ToolApplyPatch {
		if text, ok := LookupString(args, patchTextFields...); ok {
			raw = ParsePatchTargets(text)
		}
	} else {
		if p, ok := LookupString(args, singlePathFields...); ok {
			raw = append(raw, p)
		}
		if v, ok := Lookup(args, pluralPathsFields...); ok {
			raw = append(raw, stringList(v)...)
		}
	}
	return dedupe(raw)
}

// ParsePatchTargets collects the paths named by "Add File", "Update File",
// "Delete File" and "Move to" directives in a patch text block.
func ParsePatchTargets(text string) []string {
	var targets []string
	// Lines are not length-capped: a directive after a huge line still counts.
	for line := range strings.Lines(text) {
		m := patchDirective.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		targets = append(targets, m[1])
	}
	return targets
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{list}
	}
	return nil
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
