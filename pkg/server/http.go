// Package server exposes the runtime over HTTP: run triggers, chat and
// search, plus health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/runtime"
)

// Server wraps the runtime behind an HTTP API.
type Server struct {
	rt   *runtime.Runtime
	http *http.Server
}

// New creates a server listening on addr.
func New(rt *runtime.Runtime, addr string) *Server {
	s := &Server{rt: rt}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/runs", s.handleRun)
		r.Post("/chat", s.handleChat)
		r.Get("/search", s.handleSearch)
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	slog.Info("HTTP server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type runRequest struct {
	Input string `json:"input"`
}

type runResponse struct {
	State *graph.ExecutionState `json:"state"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
		writeError(w, http.StatusBadRequest, "body must be a JSON object with a non-empty 'input'")
		return
	}

	state, err := s.rt.Run(r.Context(), req.Input)
	if err != nil {
		// Only context cancellation reaches here; the state still carries
		// the partial history.
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	runsTotal.WithLabelValues(string(state.Cause)).Inc()
	stepsTotal.Add(float64(state.Steps))
	writeJSON(w, http.StatusOK, runResponse{State: state})
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "body must be a JSON object with a non-empty 'question'")
		return
	}

	answer, err := s.rt.Answer(r.Context(), req.Question)
	if err != nil {
		questionsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	questionsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	k := 5
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "query parameter 'k' must be a positive integer")
			return
		}
		k = parsed
	}

	var filter map[string]interface{}
	if t := r.URL.Query().Get("type"); t != "" {
		filter = map[string]interface{}{"type": t}
	}

	result := s.rt.Search(r.Context(), query, k, filter)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
