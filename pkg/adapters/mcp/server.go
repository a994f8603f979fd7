package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/orxa"
	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// ConfigURI is the resource exposing the active policy.
const ConfigURI = "orxa://config"

// DriftResponse is the structured result of drift_check.
type DriftResponse struct {
	Due      bool   `json:"due" jsonschema_description:"Whether a reminder is due now"`
	Reminder string `json:"reminder,omitempty" jsonschema_description:"Text to inject into the orchestrator's context"`
}

// EndSessionResponse is the structured result of end_session.
type EndSessionResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

// Governor defines what the MCP server needs from the governance core.
type Governor interface {
	Evaluate(ctx context.Context, call domain.CallContext) domain.Decision
	DriftCheck(ctx context.Context, hc domain.HookContext) (string, bool)
	Delegate(ctx context.Context, req domain.DelegationRequest) (domain.DelegationResult, error)
	EndSession(ctx context.Context, sessionID string) error
	Config() *domain.PolicyConfig
}

// Server wraps a Governor and exposes it as an MCP Server.
type Server struct {
	gov       Governor
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(gov Governor, opts ...Option) *Server {
	s := &Server{
		gov:       gov,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("orxa-mcp", strings.TrimSpace(orxa.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	evaluateTool := mcp.NewTool("evaluate_call",
		mcp.WithDescription("Decide whether an agent's tool call may run under the active policy."),
		mcp.WithString("tool", mcp.Required(), mcp.Description("Tool name as reported by the host")),
		mcp.WithString("agent", mcp.Required(), mcp.Description("Calling agent")),
		mcp.WithString("session_id", mcp.Description("Host session of the call")),
		mcp.WithString("directory", mcp.Description("Session working directory, used to relativize write targets")),
		mcp.WithObject("args", mcp.Description("Tool call arguments")),
		mcp.WithString("override_prompt", mcp.Description("Explicit delegation prompt, takes precedence over args")),
		mcp.WithOutputSchema[domain.Decision](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	driftTool := mcp.NewTool("drift_check",
		mcp.WithDescription("Record a tool use by the orchestrator and return a reminder when it keeps working instead of delegating."),
		mcp.WithString("tool", mcp.Required(), mcp.Description("Tool that was just used")),
		mcp.WithString("agent", mcp.Required(), mcp.Description("Agent that used it")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Orchestrator session")),
		mcp.WithOutputSchema[DriftResponse](),
	)
	s.mcpServer.AddTool(driftTool, mcp.NewStructuredToolHandler(s.handleDrift))

	delegateTool := mcp.NewTool("delegate_task",
		mcp.WithDescription("Run a prompt in a subagent session and return its final reply."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Work to hand over")),
		mcp.WithString("agent", mcp.Description("Target subagent, required unless task_id is set")),
		mcp.WithString("description", mcp.Description("Short label used as the session title")),
		mcp.WithString("task_id", mcp.Description("Continue this existing subagent session")),
		mcp.WithString("parent_session_id", mcp.Description("Orchestrator session issuing the delegation")),
		mcp.WithString("directory", mcp.Description("Fallback working directory for a new session")),
		mcp.WithBoolean("background", mcp.Description("Return right after dispatch instead of waiting")),
		mcp.WithOutputSchema[domain.DelegationResult](),
	)
	s.mcpServer.AddTool(delegateTool, mcp.NewStructuredToolHandler(s.handleDelegate))

	endTool := mcp.NewTool("end_session",
		mcp.WithDescription("Forget the drift state of a finished session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to clear")),
		mcp.WithOutputSchema[EndSessionResponse](),
	)
	s.mcpServer.AddTool(endTool, mcp.NewStructuredToolHandler(s.handleEndSession))
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Decision, error) {
	var call domain.CallContext
	if err := mapstructure.Decode(args, &call); err != nil {
		return domain.Decision{}, fmt.Errorf("invalid arguments: %w", err)
	}
	call.Config = nil
	return s.gov.Evaluate(ctx, call), nil
}

func (s *Server) handleDrift(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (DriftResponse, error) {
	var hc domain.HookContext
	if err := mapstructure.Decode(args, &hc); err != nil {
		return DriftResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	reminder, due := s.gov.DriftCheck(ctx, hc)
	return DriftResponse{Due: due, Reminder: reminder}, nil
}

func (s *Server) handleDelegate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.DelegationResult, error) {
	var req domain.DelegationRequest
	if err := mapstructure.Decode(args, &req); err != nil {
		return domain.DelegationResult{}, fmt.Errorf("invalid arguments: %w", err)
	}
	res, err := s.gov.Delegate(ctx, req)
	if err != nil {
		s.logger.Warn("MCP Delegate failed", "agent", req.Agent, "error", err)
		return domain.DelegationResult{}, fmt.Errorf("delegation failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleEndSession(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EndSessionResponse, error) {
	id, _ := args["session_id"].(string)
	if err := s.gov.EndSession(ctx, id); err != nil {
		return EndSessionResponse{}, fmt.Errorf("end session failed: %w", err)
	}
	return EndSessionResponse{SessionID: id, Cleared: true}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ConfigURI, "Active Policy",
		mcp.WithMIMEType("application/json"),
	), s.readConfig)
}

func (s *Server) readConfig(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.gov.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to encode policy: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ConfigURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
