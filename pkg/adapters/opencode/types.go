package opencode

import "github.com/aretw0/orxa/pkg/domain"

type createBody struct {
	ParentID   string                  `json:"parentID,omitempty"`
	Title      string                  `json:"title,omitempty"`
	Permission []domain.PermissionRule `json:"permission,omitempty"`
}

type sessionInfo struct {
	ID        string `json:"id"`
	ParentID  string `json:"parentID,omitempty"`
	Title     string `json:"title,omitempty"`
	Directory string `json:"directory,omitempty"`
}

type part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type promptBody struct {
	Agent string          `json:"agent,omitempty"`
	Tools map[string]bool `json:"tools,omitempty"`
	Parts []part          `json:"parts"`
}

type messageInfo struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type messageEnvelope struct {
	Info  messageInfo `json:"info"`
	Parts []part      `json:"parts"`
}

type statusInfo struct {
	Type string `json:"type"`
}
