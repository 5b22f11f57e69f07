package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrofore/wellrisk/risk"
)

func newTestServer() *Server {
	return New(zerolog.Nop())
}

func postEvaluate(t *testing.T, s *Server, req EvaluateRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func validRequest() EvaluateRequest {
	predicted := make([]float64, 50)
	actual := make([]float64, 50)
	for i := range predicted {
		predicted[i] = float64(i)
		actual[i] = float64(i) * 1.1
	}
	return EvaluateRequest{
		Predicted: predicted,
		Actual:    actual,
		Config: risk.Config{
			Iterations:      100,
			WellsToSelect:   10,
			CostPerWell:     5,
			RevenuePerUnit:  1,
			ConfidenceLevel: 0.95,
			Seed:            42,
		},
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestEvaluate(t *testing.T) {
	s := newTestServer()

	w := postEvaluate(t, s, validRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.LessOrEqual(t, resp.Summary.LowerBound, resp.Summary.Mean)
	assert.LessOrEqual(t, resp.Summary.Mean, resp.Summary.UpperBound)
	assert.GreaterOrEqual(t, resp.Summary.LossProbability, 0.0)
	assert.LessOrEqual(t, resp.Summary.LossProbability, 1.0)
}

func TestEvaluateDeterministic(t *testing.T) {
	s := newTestServer()
	req := validRequest()

	first := postEvaluate(t, s, req)
	second := postEvaluate(t, s, req)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestEvaluateBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EvaluateRequest)
	}{
		{
			name:   "length mismatch",
			mutate: func(r *EvaluateRequest) { r.Actual = r.Actual[:10] },
		},
		{
			name:   "wells exceed sample",
			mutate: func(r *EvaluateRequest) { r.Config.WellsToSelect = 1000 },
		},
		{
			name:   "zero iterations",
			mutate: func(r *EvaluateRequest) { r.Config.Iterations = 0 },
		},
		{
			name:   "negative volume",
			mutate: func(r *EvaluateRequest) { r.Actual[3] = -5 },
		},
		{
			name:   "empty dataset",
			mutate: func(r *EvaluateRequest) { r.Predicted = nil; r.Actual = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			req := validRequest()
			tt.mutate(&req)

			w := postEvaluate(t, s, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestEvaluateMalformedBody(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateMethodNotAllowed(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest(http.MethodGet, "/v1/evaluate", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
