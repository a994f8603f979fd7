package policy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
)

var (
	promptFields      = []string{"prompt", "description", "message"}
	sessionIDFields   = []string{"sessionID", "sessionId", "session_id"}
	sessionContainers = []string{"session", "context", "metadata"}
	attachmentFields  = []string{"attachments", "images", "files"}
	toolOutputFields  = []string{"tool_output", "toolOutput", "tool_outputs", "toolOutputs"}
)

// summaryHeading matches a line opening a Summary section, e.g. "## Summary",
// "**Summary:**" or "Summary:".
var summaryHeading = regexp.MustCompile(`(?im)^[ \t]*(?:#{1,6}[ \t]*)?(?:\*\*|__)?summary\b`)

// HasSummarySection reports whether a delegation prompt contains a Summary section.
func HasSummarySection(prompt string) bool {
	return summaryHeading.MatchString(prompt)
}

// TargetSessionID returns the session id a delegation call explicitly names,
// either at the top level or nested under a session/context object.
func TargetSessionID(args map[string]any) (string, bool) {
	if id, ok := LookupString(args, sessionIDFields...); ok {
		return strings.TrimSpace(id), true
	}
	for _, key := range sessionContainers {
		nested, ok := args[key].(map[string]any)
		if !ok {
			continue
		}
		if id, ok := LookupString(nested, append([]string{"id"}, sessionIDFields...)...); ok {
			return strings.TrimSpace(id), true
		}
	}
	return "", false
}

type attachment struct {
	Type          string `mapstructure:"type"`
	Mime          string `mapstructure:"mime"`
	MimeType      string `mapstructure:"mimeType"`
	MimeTypeSnake string `mapstructure:"mime_type"`
	MediaType     string `mapstructure:"mediaType"`
}

func (a attachment) isImage() bool {
	if strings.EqualFold(strings.TrimSpace(a.Type), "image") {
		return true
	}
	for _, mime := range []string{a.Mime, a.MimeType, a.MimeTypeSnake, a.MediaType} {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/") {
			return true
		}
	}
	return false
}

// CountImages counts image-typed attachment entries. Entries that are not
// objects are ignored, as are type fields that are not strings.
func CountImages(args map[string]any) int {
	v, ok := Lookup(args, attachmentFields...)
	if !ok {
		return 0
	}
	var entries []any
	switch list := v.(type) {
	case []any:
		entries = list
	case []map[string]any:
		for _, m := range list {
			entries = append(entries, m)
		}
	default:
		return 0
	}

	count := 0
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		var a attachment
		if err := mapstructure.Decode(stringFields(obj), &a); err != nil {
			continue
		}
		if a.isImage() {
			count++
		}
	}
	return count
}

// stringFields keeps the string-valued keys of obj, so one malformed field
// cannot hide the type of an entry.
func stringFields(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// CountToolOutputChars sums the character length of prior tool output carried
// by a call. Accepted shapes are a string, an array of strings, or an array
// of objects with a string "content"; anything else contributes zero.
func CountToolOutputChars(args map[string]any) int {
	v, ok := Lookup(args, toolOutputFields...)
	if !ok {
		return 0
	}
	switch out := v.(type) {
	case string:
		return utf8.RuneCountInString(out)
	case []string:
		total := 0
		for _, s := range out {
			total += utf8.RuneCountInString(s)
		}
		return total
	case []map[string]any:
		total := 0
		for _, m := range out {
			total += contentChars(m)
		}
		return total
	case []any:
		total := 0
		for _, entry := range out {
			switch e := entry.(type) {
			case string:
				total += utf8.RuneCountInString(e)
			case map[string]any:
				total += contentChars(e)
			}
		}
		return total
	}
	return 0
}

func contentChars(m map[string]any) int {
	s, ok := m["content"].(string)
	if !ok {
		return 0
	}
	return utf8.RuneCountInString(s)
}
