// Package http exposes the compiler over a small REST surface: trigger a
// compile, inspect findings, fetch the flow chart, browse run history.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/internal/presentation/graph"
	"github.com/espalier-dev/espalier/pkg/domain"
	"github.com/espalier-dev/espalier/pkg/ports"
)

// Pipeline is the slice of the compiler the server drives.
type Pipeline interface {
	Compile(ctx context.Context) (*espalier.Result, error)
	Validate(ctx context.Context) (*espalier.Result, error)
	Graph(ctx context.Context) (*domain.Graph, error)
	Source() string
	Recorder() ports.RunRecorder
}

// Server handles the REST routes.
type Server struct {
	pipe    Pipeline
	logger  *slog.Logger
	metrics *metrics
}

type metrics struct {
	registry    *prometheus.Registry
	compiles    *prometheus.CounterVec
	duration    prometheus.Histogram
	diagnostics prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_compiles_total",
				Help: "Total number of compile runs",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "espalier_compile_seconds",
				Help: "Duration of compile runs",
			},
		),
		diagnostics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "espalier_diagnostics_total",
				Help: "Total findings reported by compile runs",
			},
		),
	}
	m.registry.MustRegister(m.compiles, m.duration, m.diagnostics)
	return m
}

func (m *metrics) observe(res *espalier.Result, err error) {
	if err != nil {
		m.compiles.WithLabelValues("error").Inc()
		return
	}
	m.compiles.WithLabelValues("ok").Inc()
	m.duration.Observe(res.Duration.Seconds())
	m.diagnostics.Add(float64(res.Diagnostics))
}

// NewHandler builds the HTTP handler for the pipeline.
func NewHandler(pipe Pipeline, logger *slog.Logger) http.Handler {
	s := &Server{pipe: pipe, logger: logger, metrics: newMetrics()}

	r := chi.NewRouter()
	r.Post("/compile", s.PostCompile)
	r.Post("/validate", s.PostValidate)
	r.Get("/report", s.GetReport)
	r.Get("/graph.mmd", s.GetGraph)
	r.Get("/runs", s.GetRuns)
	r.Get("/healthz", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostCompile handles POST /compile: a full run, writing the target tree.
func (s *Server) PostCompile(w http.ResponseWriter, r *http.Request) {
	res, err := s.pipe.Compile(r.Context())
	s.metrics.observe(res, err)
	if err != nil {
		s.logger.Error("compile failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PostValidate handles POST /validate: a dry run, nothing written.
func (s *Server) PostValidate(w http.ResponseWriter, r *http.Request) {
	res, err := s.pipe.Validate(r.Context())
	if err != nil {
		s.logger.Error("validate failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetReport handles GET /report: the findings log a dry run would write.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	res, err := s.pipe.Validate(r.Context())
	if err != nil {
		s.logger.Error("report failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(res.Report))
}

// GetGraph handles GET /graph.mmd: the flow rendered as a Mermaid chart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.pipe.Graph(r.Context())
	if err != nil {
		s.logger.Error("graph failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.Mermaid(g)))
}

// GetRuns handles GET /runs?limit=N: recent run records, newest first.
func (s *Server) GetRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive number"})
			return
		}
		limit = n
	}
	runs, err := s.pipe.Recorder().Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("run history failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []ports.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     "espalier",
		"version": strings.TrimSpace(espalier.Version),
		"source":  s.pipe.Source(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
