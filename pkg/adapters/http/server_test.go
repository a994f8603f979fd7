package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/orxa"
	httpadapter "github.com/aretw0/orxa/pkg/adapters/http"
	"github.com/aretw0/orxa/pkg/adapters/memory"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (http.Handler, *memory.Host) {
	t.Helper()
	host := memory.NewHost(memory.WithResponder(func(req domain.PromptRequest) string {
		return "ok"
	}))
	metrics := observability.NewMetrics()
	gov, err := orxa.New(orxa.WithHost(host), orxa.WithMetrics(metrics))
	require.NoError(t, err)
	return httpadapter.NewHandler(gov, httpadapter.WithMetricsHandler(metrics.Handler())), host
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Evaluate(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodPost, "/v1/evaluate",
		`{"tool":"write","agent":"build","session_id":"ses_1","args":{"filePath":"main.go"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var d domain.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.False(t, d.Allow)
	assert.Equal(t, "plan", d.RecommendedAgent)
	assert.Equal(t, domain.RuleWriteRole, d.Metadata[domain.MetaRule])
}

func TestServer_BadBody(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodPost, "/v1/evaluate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestServer_DriftAndSessions(t *testing.T) {
	h, _ := newServer(t)
	body := `{"tool":"grep","agent":"orxa","session_id":"ses_o"}`

	var last httpadapter.DriftResponse
	for i := 0; i < 3; i++ {
		w := do(t, h, http.MethodPost, "/v1/drift", body)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	}
	assert.True(t, last.Due)
	assert.Contains(t, last.Reminder, "delegate_task")

	w := do(t, h, http.MethodGet, "/v1/sessions", "")
	assert.JSONEq(t, `{"sessions":["ses_o"]}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/v1/sessions/ses_o", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/v1/sessions", "")
	assert.JSONEq(t, `{"sessions":[]}`, w.Body.String())
}

func TestServer_DelegateBackground(t *testing.T) {
	h, host := newServer(t)

	w := do(t, h, http.MethodPost, "/v1/delegate",
		`{"agent":"coder","prompt":"fix the bug","background":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res domain.DelegationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, domain.DelegationBackground, res.Status)
	assert.Len(t, host.Prompts(), 1)

	w = do(t, h, http.MethodPost, "/v1/delegate", `{"agent":"coder","prompt":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ConfigHealthMetrics(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodGet, "/v1/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"block"`)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodGet, "/healthz", "").Code)

	do(t, h, http.MethodPost, "/v1/evaluate", `{"tool":"read","agent":"build"}`)
	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "orxa_decisions_total")
}

func TestServer_CORS(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, http.MethodOptions, "/v1/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

type MockGovernor struct {
	mock.Mock
}

func (m *MockGovernor) Evaluate(ctx context.Context, call domain.CallContext) domain.Decision {
	return m.Called(ctx, call).Get(0).(domain.Decision)
}

func (m *MockGovernor) DriftCheck(ctx context.Context, hc domain.HookContext) (string, bool) {
	args := m.Called(ctx, hc)
	return args.String(0), args.Bool(1)
}

func (m *MockGovernor) Delegate(ctx context.Context, req domain.DelegationRequest) (domain.DelegationResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.DelegationResult), args.Error(1)
}

func (m *MockGovernor) EndSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockGovernor) Sessions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockGovernor) Config() *domain.PolicyConfig {
	return m.Called().Get(0).(*domain.PolicyConfig)
}

func TestServer_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no host", domain.ErrNoHost, http.StatusNotImplemented},
		{"create failed", errors.Join(domain.ErrSessionCreate, errors.New("boom")), http.StatusBadGateway},
		{"not found", domain.ErrSessionNotFound, http.StatusNotFound},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gov := new(MockGovernor)
			gov.On("Delegate", mock.Anything, mock.Anything).Return(domain.DelegationResult{}, tt.err)

			w := do(t, httpadapter.NewHandler(gov), http.MethodPost, "/v1/delegate", `{"agent":"a","prompt":"p"}`)
			assert.Equal(t, tt.want, w.Code)

			var body httpadapter.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

func TestServer_EvaluateIgnoresClientConfig(t *testing.T) {
	gov := new(MockGovernor)
	gov.On("Evaluate", mock.Anything, mock.MatchedBy(func(c domain.CallContext) bool {
		return c.Config == nil && c.Tool == "read"
	})).Return(domain.Allowed())

	w := do(t, httpadapter.NewHandler(gov), http.MethodPost, "/v1/evaluate", `{"tool":"read","agent":"build"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	gov.AssertExpectations(t)
}
