package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/google/uuid"
)

// Responder produces an assistant reply for a prompt. An empty reply means
// the session stays silent.
type Responder func(req domain.PromptRequest) string

// hostSession is one session tracked by Host.
type hostSession struct {
	parentID   string
	title      string
	directory  string
	permission []domain.PermissionRule
	status     domain.SessionStatus
	messages   []domain.Message
}

// Host implements ports.SessionHost, ports.StatusReporter and
// ports.DirectoryResolver in memory. It backs local runs and tests.
// Safe for concurrent use.
type Host struct {
	mu        sync.Mutex
	sessions  map[string]*hostSession
	prompts   []domain.PromptRequest
	responder Responder
}

// HostOption configures the Host.
type HostOption func(*Host)

// WithResponder makes the host answer every prompt synchronously.
func WithResponder(r Responder) HostOption {
	return func(h *Host) {
		h.responder = r
	}
}

// NewHost creates an empty in-memory session host.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		sessions: make(map[string]*hostSession),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create registers a new idle session and returns its id.
func (h *Host) Create(ctx context.Context, req domain.CreateSessionRequest) (string, error) {
	id := "ses_" + uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = &hostSession{
		parentID:   req.ParentID,
		title:      req.Title,
		directory:  req.Directory,
		permission: append([]domain.PermissionRule(nil), req.Permission...),
		status:     domain.SessionIdle,
	}
	return id, nil
}

// AddSession registers a session under a fixed id, e.g. an orchestrator
// session whose directory the delegation orchestrator will look up.
func (h *Host) AddSession(id, directory string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		s.directory = directory
		return
	}
	h.sessions[id] = &hostSession{directory: directory, status: domain.SessionIdle}
}

// Prompt appends the prompt as a user message and, with a Responder, the reply.
func (h *Host) Prompt(ctx context.Context, req domain.PromptRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[req.SessionID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, req.SessionID)
	}
	h.prompts = append(h.prompts, req)
	s.messages = append(s.messages, domain.Message{Role: domain.RoleUser, Text: req.Text})

	if h.responder != nil {
		if reply := h.responder(req); reply != "" {
			s.messages = append(s.messages, domain.Message{Role: domain.RoleAssistant, Text: reply})
		}
	}
	return nil
}

// Messages returns a copy of the session's message list.
func (h *Host) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return append([]domain.Message(nil), s.messages...), nil
}

// Status reports every session that is not idle.
func (h *Host) Status(ctx context.Context) (map[string]domain.SessionStatus, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]domain.SessionStatus)
	for id, s := range h.sessions {
		if s.status != domain.SessionIdle {
			out[id] = s.status
		}
	}
	return out, nil
}

// Directory returns the working directory recorded for a session.
func (h *Host) Directory(ctx context.Context, sessionID string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return s.directory, nil
}

// Reply appends an assistant message, as if the session produced it.
func (h *Host) Reply(sessionID, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	s.messages = append(s.messages, domain.Message{Role: domain.RoleAssistant, Text: text})
	return nil
}

// SetStatus changes what Status reports for a session.
func (h *Host) SetStatus(sessionID string, status domain.SessionStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[sessionID]; ok {
		s.status = status
	}
}

// Prompts returns every prompt dispatched so far, in order.
func (h *Host) Prompts() []domain.PromptRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.PromptRequest(nil), h.prompts...)
}

// SessionInfo returns the creation request recorded for a session.
func (h *Host) SessionInfo(sessionID string) (domain.CreateSessionRequest, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return domain.CreateSessionRequest{}, false
	}
	return domain.CreateSessionRequest{
		ParentID:   s.parentID,
		Title:      s.title,
		Directory:  s.directory,
		Permission: append([]domain.PermissionRule(nil), s.permission...),
	}, true
}
