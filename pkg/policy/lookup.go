package policy

import "strings"

// nestedContainers are the argument fields some hosts wrap the payload in.
var nestedContainers = []string{"args", "input", "params", "arguments"}

// Lookup returns the first present, non-empty value among the candidate
// fields, checking the top level first and then each nested container.
func Lookup(args map[string]any, candidates ...string) (any, bool) {
	if v, ok := lookupFlat(args, candidates); ok {
		return v, true
	}
	for _, container := range nestedContainers {
		nested, ok := args[container].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := lookupFlat(nested, candidates); ok {
			return v, true
		}
	}
	return nil, false
}

// LookupString is Lookup restricted to non-blank string values.
func LookupString(args map[string]any, candidates ...string) (string, bool) {
	if s, ok := lookupFlatString(args, candidates); ok {
		return s, true
	}
	for _, container := range nestedContainers {
		nested, ok := args[container].(map[string]any)
		if !ok {
			continue
		}
		if s, ok := lookupFlatString(nested, candidates); ok {
			return s, true
		}
	}
	return "", false
}

func lookupFlat(m map[string]any, candidates []string) (any, bool) {
	for _, key := range candidates {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func lookupFlatString(m map[string]any, candidates []string) (string, bool) {
	for _, key := range candidates {
		s, ok := m[key].(string)
		if ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}
