package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subtextlab/subtext/internal/analysis"
	"github.com/subtextlab/subtext/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(Config{RateLimitRPS: 1000, RateLimitBurst: 1000})
	t.Cleanup(s.Close)
	return s
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCreateAnalysis(t *testing.T) {
	s := newTestServer(t)

	body := `{"text": "You must believe this is the answer. Act now before it's too late."}`
	req := httptest.NewRequest("POST", "/api/analyses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID     *string          `json:"id"`
		Result *analysis.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.Result)
	assert.Nil(t, resp.ID, "no ID without persistence")
	assert.Equal(t, models.StatusFailed, resp.Result.Report.Status)
	assert.True(t, resp.Result.Report.CoercionDetected)
	assert.NotEmpty(t, resp.Result.Violations)
}

func TestCreateAnalysis_WithScalars(t *testing.T) {
	s := newTestServer(t)

	body := `{"text": "The train leaves at noon.", "compression_ratio": 0.4, "coherence_score": 0.9}`
	req := httptest.NewRequest("POST", "/api/analyses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Result *analysis.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.Result)
	assert.Equal(t, 0.4, resp.Result.Report.CompressionRatio)
	assert.Contains(t, resp.Result.Report.Diagnostics, models.DiagCompressionRatioLow)
}

func TestCreateAnalysis_BadRequests(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/analyses", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest("POST", "/api/analyses", strings.NewReader(`{"text": ""}`))
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAnalyses_NoPersistence(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/analyses", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetAnalysis_NoPersistence(t *testing.T) {
	s := NewServer(Config{})
	t.Cleanup(s.Close)

	req := httptest.NewRequest("GET", "/api/analyses/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/analyses", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := NewServer(Config{RateLimitRPS: 1, RateLimitBurst: 2})
	t.Cleanup(s.Close)

	var lastCode int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/api/analyses", strings.NewReader(`{"text": "Plain enough."}`))
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
