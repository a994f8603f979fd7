package delegation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/ports"
)

const (
	// PollInterval is the delay between two completion polls.
	PollInterval = time.Second

	// WaitBudget bounds how long a foreground delegation waits for the child.
	WaitBudget = 120 * time.Second

	// StablePolls is how many consecutive polls must see an unchanged message
	// count before the child is considered done.
	StablePolls = 2

	// MaxTitleRunes caps the child session title.
	MaxTitleRunes = 60
)

// EventTitle is the title of the observability event emitted on dispatch.
const EventTitle = "delegate_task"

// Orchestrator executes delegations against a session host.
type Orchestrator struct {
	host   ports.SessionHost
	sink   ports.EventSink
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	directory       string
	delegationTools []string

	pollInterval time.Duration
	waitBudget   time.Duration
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger configures a logger for the Orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSink sets the host's observability sink.
func WithSink(sink ports.EventSink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithDirectory sets the working directory used when neither the request nor
// the parent session provides one.
func WithDirectory(dir string) Option {
	return func(o *Orchestrator) {
		o.directory = dir
	}
}

// WithDelegationTools overrides the tools disabled in child sessions.
func WithDelegationTools(tools ...string) Option {
	return func(o *Orchestrator) {
		o.delegationTools = tools
	}
}

// New creates an Orchestrator for the given host.
func New(host ports.SessionHost, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		host:            host,
		logger:          logging.NewNop(),
		delegationTools: domain.DelegationTools,
		pollInterval:    PollInterval,
		waitBudget:      WaitBudget,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Delegate runs req and returns the child's answer, a background
// acknowledgement, or a timeout/abort notice. Only invalid requests and host
// failures while creating or prompting the session are errors.
func (o *Orchestrator) Delegate(ctx context.Context, req domain.DelegationRequest) (result domain.DelegationResult, err error) {
	start := time.Now()
	defer func() { o.report(ctx, req, result, err, start) }()

	if err := validate(req); err != nil {
		return domain.DelegationResult{}, err
	}
	agent := strings.TrimSpace(req.Agent)

	sessionID := strings.TrimSpace(req.TaskID)
	if sessionID == "" {
		id, err := o.createSession(ctx, req, agent)
		if err != nil {
			return domain.DelegationResult{}, err
		}
		sessionID = id
	}

	o.emit(ctx, domain.Event{
		Title: EventTitle,
		Metadata: map[string]any{
			"agent":           agent,
			"sessionId":       sessionID,
			"background":      req.Background,
			"parentSessionId": req.ParentSessionID,
		},
	})

	prompt := domain.PromptRequest{
		SessionID: sessionID,
		Tools:     o.disabledTools(),
		Text:      req.Prompt,
	}
	if !req.Continuing() {
		prompt.Agent = agent
	}
	if err := o.host.Prompt(ctx, prompt); err != nil {
		return domain.DelegationResult{}, fmt.Errorf("failed to dispatch prompt to session %s: %w", sessionID, err)
	}

	o.logger.Info("Delegation dispatched",
		"session_id", sessionID,
		"agent", agent,
		"parent_session_id", req.ParentSessionID,
		"background", req.Background,
	)

	result = domain.DelegationResult{SessionID: sessionID, Agent: agent}
	if req.Background {
		result.Status = domain.DelegationBackground
		result.Text = fmt.Sprintf("Delegated to %s in the background (session %s). Continue it later with task_id %q.",
			displayAgent(agent), sessionID, sessionID)
	} else {
		result.Status, result.Text = o.wait(ctx, sessionID)
	}
	return result, nil
}

// report logs a finished delegation and fires OnDelegation, failures included.
func (o *Orchestrator) report(ctx context.Context, req domain.DelegationRequest, result domain.DelegationResult, err error, start time.Time) {
	duration := time.Since(start)
	if err != nil {
		o.logger.Warn("Delegation failed",
			"session_id", result.SessionID,
			"agent", req.Agent,
			"parent_session_id", req.ParentSessionID,
			"err", err,
		)
	} else {
		o.logger.Info("Delegation finished",
			"session_id", result.SessionID,
			"agent", result.Agent,
			"status", result.Status,
			"duration", duration,
		)
	}

	if o.hooks.OnDelegation != nil {
		o.hooks.OnDelegation(ctx, &domain.DelegationEvent{
			Timestamp: time.Now(),
			Request:   req,
			Result:    result,
			Duration:  duration,
			Err:       err,
		})
	}
}

func validate(req domain.DelegationRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", domain.ErrInvalidArgument)
	}
	if !req.Continuing() && strings.TrimSpace(req.Agent) == "" {
		return fmt.Errorf("%w: agent is required unless task_id continues an existing session", domain.ErrInvalidArgument)
	}
	return nil
}

func (o *Orchestrator) createSession(ctx context.Context, req domain.DelegationRequest, agent string) (string, error) {
	id, err := o.host.Create(ctx, domain.CreateSessionRequest{
		ParentID:  req.ParentSessionID,
		Title:     Title(agent, req.Description, req.Prompt),
		Directory: o.resolveDirectory(ctx, req),
		Permission: []domain.PermissionRule{
			{Permission: "question", Pattern: "*", Action: "deny"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSessionCreate, err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: host returned no session id", domain.ErrSessionCreate)
	}
	return id, nil
}

// resolveDirectory inherits the parent session's directory when the host can
// tell it, falling back to the request and then the configured default.
func (o *Orchestrator) resolveDirectory(ctx context.Context, req domain.DelegationRequest) string {
	if resolver, ok := o.host.(ports.DirectoryResolver); ok && req.ParentSessionID != "" {
		dir, err := resolver.Directory(ctx, req.ParentSessionID)
		if err == nil && strings.TrimSpace(dir) != "" {
			return dir
		}
		if err != nil {
			o.logger.Debug("Parent directory lookup failed, using fallback",
				"session_id", req.ParentSessionID,
				"err", err,
			)
		}
	}
	if req.Directory != "" {
		return req.Directory
	}
	return o.directory
}

func (o *Orchestrator) disabledTools() map[string]bool {
	tools := make(map[string]bool, len(o.delegationTools))
	for _, t := range o.delegationTools {
		tools[t] = false
	}
	return tools
}

func (o *Orchestrator) emit(ctx context.Context, event domain.Event) {
	if o.sink == nil {
		return
	}
	o.sink.Emit(ctx, event)
}

// Title builds the child session title "<agent>: <label>", where label is the
// description or else the first non-blank prompt line.
func Title(agent, description, prompt string) string {
	label := firstLine(description)
	if label == "" {
		label = firstLine(prompt)
	}
	title := displayAgent(agent) + ": " + label
	if utf8.RuneCountInString(title) <= MaxTitleRunes {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:MaxTitleRunes-1])) + "…"
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "#*_- "))
		if line == "" || strings.EqualFold(strings.TrimSuffix(line, ":"), "summary") {
			continue
		}
		return line
	}
	return ""
}

func displayAgent(agent string) string {
	if agent == "" {
		return "subagent"
	}
	return agent
}
