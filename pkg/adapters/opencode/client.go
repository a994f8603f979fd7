// Package opencode implements the session host ports against an
// opencode-style HTTP server.
package opencode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/orxa/internal/logging"
	"github.com/aretw0/orxa/pkg/domain"
)

// DefaultTimeout bounds each HTTP round trip.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is quoted back.
const maxErrorBody = 512

// Client implements ports.SessionHost, ports.StatusReporter and
// ports.DirectoryResolver over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures a logger for the Client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the server at baseURL, e.g. "http://127.0.0.1:4096".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid host url %q", domain.ErrInvalidArgument, baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Create creates a child session.
func (c *Client) Create(ctx context.Context, req domain.CreateSessionRequest) (string, error) {
	body := createBody{
		ParentID:   req.ParentID,
		Title:      req.Title,
		Permission: req.Permission,
	}
	query := url.Values{}
	if req.Directory != "" {
		query.Set("directory", req.Directory)
	}

	var out sessionInfo
	if err := c.do(ctx, http.MethodPost, "/session", query, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Prompt dispatches text without waiting for the session to answer.
func (c *Client) Prompt(ctx context.Context, req domain.PromptRequest) error {
	body := promptBody{
		Agent: req.Agent,
		Tools: req.Tools,
		Parts: []part{{Type: "text", Text: req.Text}},
	}
	return c.do(ctx, http.MethodPost, "/session/"+url.PathEscape(req.SessionID)+"/prompt_async", nil, body, nil)
}

// Messages returns the session's messages with their text parts joined.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	var raw []messageEnvelope
	if err := c.do(ctx, http.MethodGet, "/session/"+url.PathEscape(sessionID)+"/message", nil, nil, &raw); err != nil {
		return nil, err
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, m := range raw {
		var texts []string
		for _, p := range m.Parts {
			if p.Type == "text" && p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		msgs = append(msgs, domain.Message{Role: m.Info.Role, Text: strings.Join(texts, "\n")})
	}
	return msgs, nil
}

// Status reports the activity of the sessions the server knows about.
func (c *Client) Status(ctx context.Context) (map[string]domain.SessionStatus, error) {
	var raw map[string]statusInfo
	if err := c.do(ctx, http.MethodGet, "/session/status", nil, nil, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]domain.SessionStatus, len(raw))
	for id, s := range raw {
		out[id] = domain.SessionStatus(s.Type)
	}
	return out, nil
}

// Directory returns a session's working directory.
func (c *Client) Directory(ctx context.Context, sessionID string) (string, error) {
	var out sessionInfo
	if err := c.do(ctx, http.MethodGet, "/session/"+url.PathEscape(sessionID), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Directory, nil
}

// do sends one JSON request and decodes the response into out, if non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Host request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(snippet))
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s: %s", domain.ErrSessionNotFound, method, path, msg)
	}
	return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, msg)
}
