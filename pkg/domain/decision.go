package domain

// Decision is the outcome of evaluating a CallContext.
// A denial always carries a non-empty Reason.
type Decision struct {
	Allow            bool           `json:"allow"`
	Reason           string         `json:"reason,omitempty"`
	RecommendedAgent string         `json:"recommended_agent,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Allowed builds an allowing decision with an initialized metadata map.
func Allowed() Decision {
	return Decision{Allow: true, Metadata: make(map[string]any)}
}

// Warn appends a warning to the decision.
func (d *Decision) Warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

// Rule returns the name of the rule that produced the denial (or the last
// downgraded denial), if any.
func (d Decision) Rule() string {
	if d.Metadata == nil {
		return ""
	}
	r, _ := d.Metadata[MetaRule].(string)
	return r
}
