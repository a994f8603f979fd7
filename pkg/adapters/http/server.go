package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Governor is the governance core served over HTTP.
type Governor interface {
	Evaluate(ctx context.Context, call domain.CallContext) domain.Decision
	DriftCheck(ctx context.Context, hc domain.HookContext) (string, bool)
	Delegate(ctx context.Context, req domain.DelegationRequest) (domain.DelegationResult, error)
	EndSession(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
	Config() *domain.PolicyConfig
}

// DriftResponse is the body returned by POST /v1/drift.
type DriftResponse struct {
	Due      bool   `json:"due"`
	Reminder string `json:"reminder,omitempty"`
}

// SessionsResponse is the body returned by GET /v1/sessions.
type SessionsResponse struct {
	Sessions []string `json:"sessions"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes a Governor as a JSON API.
type Server struct {
	Governor Governor
	metrics  http.Handler
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the governor.
func NewHandler(gov Governor, opts ...Option) http.Handler {
	server := &Server{
		Governor: gov,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", server.Evaluate)
		r.Post("/drift", server.Drift)
		r.Post("/delegate", server.Delegate)
		r.Get("/sessions", server.ListSessions)
		r.Delete("/sessions/{id}", server.EndSession)
		r.Get("/config", server.GetConfig)
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Evaluate handles POST /v1/evaluate. The server's policy always applies.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var call domain.CallContext
	if !s.decode(w, r, "Evaluate", &call) {
		return
	}
	call.Config = nil
	s.write(w, http.StatusOK, s.Governor.Evaluate(r.Context(), call))
}

// Drift handles POST /v1/drift.
func (s *Server) Drift(w http.ResponseWriter, r *http.Request) {
	var hc domain.HookContext
	if !s.decode(w, r, "Drift", &hc) {
		return
	}
	reminder, due := s.Governor.DriftCheck(r.Context(), hc)
	s.write(w, http.StatusOK, DriftResponse{Due: due, Reminder: reminder})
}

// Delegate handles POST /v1/delegate. It blocks until the delegation ends
// unless the request asks for background mode.
func (s *Server) Delegate(w http.ResponseWriter, r *http.Request) {
	var req domain.DelegationRequest
	if !s.decode(w, r, "Delegate", &req) {
		return
	}
	res, err := s.Governor.Delegate(r.Context(), req)
	if err != nil {
		s.fail(w, "Delegate", err)
		return
	}
	s.write(w, http.StatusOK, res)
}

// ListSessions handles GET /v1/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Governor.Sessions(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.write(w, http.StatusOK, SessionsResponse{Sessions: ids})
}

// EndSession handles DELETE /v1/sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Governor.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "EndSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfig handles GET /v1/config.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, s.Governor.Config())
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn(op+": Invalid request body", "error", err)
		s.write(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	s.write(w, code, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoHost):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrSessionCreate):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) write(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}
