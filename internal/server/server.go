// Package server exposes the profit-risk estimator over HTTP.
//
// The surface is deliberately thin: one health probe and one evaluation
// endpoint that accepts a region's paired volumes plus the run parameters
// and returns the profit summary. The server owns no wire format beyond
// plain JSON.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/petrofore/wellrisk/pkg/errors"
	"github.com/petrofore/wellrisk/risk"
)

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	Predicted []float64   `json:"predicted"`
	Actual    []float64   `json:"actual"`
	Config    risk.Config `json:"config"`
}

// EvaluateResponse wraps the profit summary returned to the caller.
type EvaluateResponse struct {
	Region  string       `json:"region,omitempty"`
	Summary risk.Summary `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes evaluation requests to the risk estimator.
type Server struct {
	logger zerolog.Logger
	mux    *http.ServeMux
}

// New builds a Server with its routes registered.
func New(logger zerolog.Logger) *Server {
	s := &Server{
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	return s
}

// Handler returns the server's HTTP handler with request logging attached.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}

	dataset, err := risk.NewDataset(req.Predicted, req.Actual)
	if err != nil {
		s.writeError(w, err)
		return
	}

	dist, err := risk.Run(dataset, req.Config)
	if err != nil {
		s.writeError(w, err)
		return
	}

	summary, err := risk.Summarize(dist, req.Config.ConfidenceLevel)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info().
		Int("wells", len(dataset)).
		Int("iterations", req.Config.Iterations).
		Int64("seed", req.Config.Seed).
		Float64("mean_profit", summary.Mean).
		Float64("loss_probability", summary.LossProbability).
		Msg("evaluation complete")

	writeJSON(w, http.StatusOK, EvaluateResponse{Summary: summary})
}

// writeError maps the estimator's error taxonomy onto HTTP statuses.
// Configuration and data errors are the caller's fault; anything else is a
// server failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var cfgErr *errors.ConfigurationError
	var dataErr *errors.DataError
	var dimErr *errors.DimensionError

	switch {
	case errors.As(err, &cfgErr), errors.As(err, &dataErr), errors.As(err, &dimErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Msg("evaluation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
