// Package server exposes the analysis pipeline over a small HTTP API:
// POST /api/analyze runs a complete analysis on an uploaded dataset,
// GET /healthz reports liveness, GET /metrics serves Prometheus metrics.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qpcrcli/internal/config"
	"qpcrcli/internal/qpcr"
	"qpcrcli/internal/stats"
)

// Server wires the HTTP surface around the pipeline. Each request builds a
// fresh Analyzer, so concurrent requests share no mutable state.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics
	router  chi.Router
}

// New creates a server for the given configuration. A nil logger falls back
// to slog.Default().
func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: newMetrics(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(rateLimiter(s.cfg.Server))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// analyzeRequest is the POST /api/analyze body: the dataset plus optional
// overrides of the server's analysis defaults.
type analyzeRequest struct {
	Measurements     []qpcr.Measurement `json:"measurements"`
	ReferenceGene    string             `json:"reference_gene,omitempty"`
	ControlCondition string             `json:"control_condition,omitempty"`
	Alpha            float64            `json:"alpha,omitempty"`
	TestMode         string             `json:"test_mode,omitempty"`
}

// Bind implements render.Binder.
func (req *analyzeRequest) Bind(r *http.Request) error {
	if len(req.Measurements) == 0 {
		return newAPIError(http.StatusBadRequest, "EMPTY_DATASET", "measurements must not be empty")
	}
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := &analyzeRequest{}
	if err := render.Bind(r, req); err != nil {
		if apiErr, ok := err.(*APIError); ok {
			_ = render.Render(w, r, apiErr)
			return
		}
		_ = render.Render(w, r, errInvalidRequest)
		return
	}

	analysisCfg := s.analysisConfig(req)
	analyzer, err := qpcr.NewAnalyzer(analysisCfg, s.logger)
	if err != nil {
		_ = render.Render(w, r, &APIError{
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "INVALID_ANALYSIS_CONFIG",
			Message:    err.Error(),
		})
		return
	}

	start := time.Now()
	bundle, err := analyzer.Run(r.Context(), req.Measurements)
	if err != nil {
		s.metrics.analysesFailed.Inc()
		_ = render.Render(w, r, analysisError(err))
		return
	}

	s.metrics.analysesTotal.Inc()
	s.metrics.rowsRejected.Add(float64(bundle.Validation.RejectedRows))
	s.metrics.analysisDuration.Observe(time.Since(start).Seconds())

	render.JSON(w, r, bundle)
}

// analysisConfig merges request overrides onto the configured defaults.
func (s *Server) analysisConfig(req *analyzeRequest) qpcr.Config {
	cfg := qpcr.Config{
		ReferenceGene:    s.cfg.Analysis.ReferenceGene,
		ControlCondition: s.cfg.Analysis.ControlCondition,
		Alpha:            s.cfg.Analysis.Alpha,
		TestMode:         stats.TestMode(s.cfg.Analysis.TestMode),
	}
	if req.ReferenceGene != "" {
		cfg.ReferenceGene = req.ReferenceGene
	}
	if req.ControlCondition != "" {
		cfg.ControlCondition = req.ControlCondition
	}
	if req.Alpha != 0 {
		cfg.Alpha = req.Alpha
	}
	if req.TestMode != "" {
		cfg.TestMode = stats.TestMode(req.TestMode)
	}
	return cfg
}
