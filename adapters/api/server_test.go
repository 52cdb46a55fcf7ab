package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	quadengine "gointegral/adapters/quadrature"
	"gointegral/app"
	"gointegral/domain/catalog"
	"gointegral/domain/core"
	"gointegral/domain/quadrature"
	"gointegral/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockRunRepository stands in for the database
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Render(ctx context.Context, run *quadrature.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) Get(ctx context.Context, id core.RunID) (*quadrature.Run, error) {
	args := m.Called(ctx, id)
	if run, ok := args.Get(0).(*quadrature.Run); ok {
		return run, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRunRepository) List(ctx context.Context, function string, limit int) ([]*quadrature.Run, error) {
	args := m.Called(ctx, function, limit)
	return args.Get(0).([]*quadrature.Run), args.Error(1)
}

func newTestServer(opts Options) *Server {
	collector := metrics.NewCollector()
	if opts.Metrics == nil {
		opts.Metrics = collector.Handler()
	}
	engine := quadengine.NewEngine(quadengine.NewSeededMonteCarlo(17))
	service := app.NewComparisonService(engine, collector, nil)
	return NewServer(service, catalog.DefaultScenario(), opts)
}

func do(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(Options{}), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
}

func TestFunctions(t *testing.T) {
	rec := do(t, newTestServer(Options{}), http.MethodGet, "/api/functions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, int64(4), gjson.Get(body, "functions.#").Int())
	assert.Equal(t, "F1", gjson.Get(body, "functions.0.name").String())
	assert.InDelta(t, catalog.Build(0.5, 20.5)[0].Exact, gjson.Get(body, "functions.0.exact").Float(), 1e-9)
	assert.Equal(t, int64(10), gjson.Get(body, "scenario.n").Int())
	assert.Equal(t, "Monte Carlo", gjson.Get(body, "methods.3").String())
}

func TestCompareQuery_ReferenceScenario(t *testing.T) {
	rec := do(t, newTestServer(Options{}), http.MethodGet, "/api/compare/F1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, "F1", gjson.Get(body, "function").String())
	assert.Equal(t, 0.5, gjson.Get(body, "a").Float())
	assert.Equal(t, int64(10), gjson.Get(body, "n").Int())
	require.Equal(t, int64(4), gjson.Get(body, "results.#").Int())

	for i, method := range quadrature.MethodOrder {
		row := gjson.Get(body, "results."+string(rune('0'+i)))
		assert.Equal(t, method, row.Get("method").String())
		assert.True(t, row.Get("elapsed_seconds").Exists())
		assert.Equal(t, gjson.Number, row.Get("error").Type)
	}
}

func TestCompareQuery_CustomParameters(t *testing.T) {
	rec := do(t, newTestServer(Options{}), http.MethodGet, "/api/compare/f2?a=0&b=3.14159&n=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, "F2", gjson.Get(body, "function").String())
	assert.Equal(t, int64(7), gjson.Get(body, "n").Int())
	assert.InDelta(t, 2, gjson.Get(body, "results.2.value").Float(), 1e-2)
}

func TestCompareQuery_Errors(t *testing.T) {
	s := newTestServer(Options{})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/compare/F9", http.StatusNotFound, "NOT_FOUND"},
		{"/api/compare/F1?n=ten", http.StatusBadRequest, "INVALID_INPUT"},
		{"/api/compare/F1?a=x", http.StatusBadRequest, "INVALID_INPUT"},
		{"/api/compare/F1?n=0", http.StatusUnprocessableEntity, "COMPUTATION_FAILED"},
		{"/api/compare/F1?n=3000000000", http.StatusBadRequest, "INVALID_INPUT"},
		{"/api/compare/F1?n=10000001", http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, gjson.Get(rec.Body.String(), "code").String())
			assert.False(t, gjson.Get(rec.Body.String(), "results").Exists())
		})
	}
}

func TestCompareBody(t *testing.T) {
	s := newTestServer(Options{})

	rec := do(t, s, http.MethodPost, "/api/compare", []byte(`{"function":"F3","n":20}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(20), gjson.Get(rec.Body.String(), "n").Int())
	assert.Equal(t, 20.5, gjson.Get(rec.Body.String(), "b").Float())

	rec = do(t, s, http.MethodPost, "/api/compare", []byte(`{"n":20}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompare_RejectsPartitionsAboveLimit(t *testing.T) {
	s := newTestServer(Options{MaxPartitions: 100})

	rec := do(t, s, http.MethodPost, "/api/compare", []byte(`{"function":"F1","n":3000000000}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", gjson.Get(rec.Body.String(), "code").String())

	rec = do(t, s, http.MethodGet, "/api/compare/F1?n=101", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/compare/F1?n=100", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompare_StoresRunsWhenRepositoryConfigured(t *testing.T) {
	repo := &MockRunRepository{}
	repo.On("Render", mock.Anything, mock.MatchedBy(func(run *quadrature.Run) bool {
		return run.Function == "F4" && len(run.Results) == 4
	})).Return(nil).Once()

	rec := do(t, newTestServer(Options{Runs: repo}), http.MethodGet, "/api/compare/F4", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestRuns(t *testing.T) {
	repo := &MockRunRepository{}
	stored := &quadrature.Run{ID: core.NewRunID(), Function: "F1", N: 10}
	missing := core.NewRunID()

	repo.On("Get", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("Get", mock.Anything, missing).Return(nil, core.NewNotFoundError("run", missing.String()))
	repo.On("List", mock.Anything, "F1", 2).Return([]*quadrature.Run{stored}, nil)

	s := newTestServer(Options{Runs: repo})

	rec := do(t, s, http.MethodGet, "/api/runs/"+stored.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stored.ID.String(), gjson.Get(rec.Body.String(), "id").String())

	rec = do(t, s, http.MethodGet, "/api/runs/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/runs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/runs?function=F1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "runs.#").Int())
}

func TestRunsDisabledWithoutRepository(t *testing.T) {
	rec := do(t, newTestServer(Options{}), http.MethodGet, "/api/runs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(Options{})
	do(t, s, http.MethodGet, "/api/compare/F1", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gointegral_method_runs_total")
}

func TestWriteError_ComputationSentinelIsUnprocessable(t *testing.T) {
	s := newTestServer(Options{})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/compare/F1", nil)

	s.writeError(c, fmt.Errorf("kernel: %w", core.ErrNonFiniteResult))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "COMPUTATION_FAILED", gjson.Get(rec.Body.String(), "code").String())
}
