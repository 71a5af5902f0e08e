package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/presentation/graph"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// Server implements the generated ServerInterface over a report service.
type Server struct {
	Reports  ports.ReportService
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	// Options apply to on-demand concurrent space queries.
	Options []interleave.Option
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves the gathered metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithAnalyzeOptions sets the options of concurrent space queries.
func WithAnalyzeOptions(opts ...interleave.Option) Option {
	return func(s *Server) {
		s.Options = append(s.Options, opts...)
	}
}

// NewHandler creates a new HTTP handler over a report manager.
func NewHandler(reports ports.ReportService, opts ...Option) http.Handler {
	s := &Server{
		Reports: reports,
		Logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			s.fail(w, "OpenAPI", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(spec)
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.invalidParam,
	})
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, Info{
		App:        "interleave-http",
		Version:    strings.TrimSpace(interleave.Version),
		ApiVersion: apiVersion,
	})
}

// ListModels handles the GET /models request.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	names, err := s.Reports.Models(r.Context())
	if err != nil {
		s.fail(w, "ListModels", err)
		return
	}
	writeJSON(w, http.StatusOK, ModelList{Models: names})
}

// GetReport handles the GET /models/{name}/report request.
// ?refresh=true forces a new analysis; ?format=markdown renders for humans.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request, name ModelName, params GetReportParams) {
	refresh := params.Refresh != nil && *params.Refresh

	report, cached, err := s.Reports.Report(r.Context(), name, refresh)
	if err != nil {
		s.fail(w, "GetReport", err)
		return
	}
	w.Header().Set("X-Report-Cache", cacheStatus(cached))

	if params.Format != nil && *params.Format == Markdown {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report.Markdown()))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteReport handles the DELETE /models/{name}/report request.
func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request, name ModelName) {
	if err := s.Reports.Invalidate(r.Context(), name); err != nil {
		s.fail(w, "DeleteReport", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConcurrentSpace handles the GET /models/{name}/space?process=P&node=N request.
func (s *Server) GetConcurrentSpace(w http.ResponseWriter, r *http.Request, name ModelName, params GetConcurrentSpaceParams) {
	model, err := s.Reports.Model(r.Context(), name)
	if err != nil {
		s.fail(w, "GetConcurrentSpace", err)
		return
	}
	space, err := interleave.ConcurrentSpaceOf(r.Context(), model.Set, params.Process, params.Node, s.Options...)
	if err != nil {
		s.fail(w, "GetConcurrentSpace", err)
		return
	}
	writeJSON(w, http.StatusOK, ConcurrentSpace{
		Process:    space.Process,
		Node:       space.Node,
		Concurrent: space.Concurrent,
	})
}

// GetGraph handles the GET /models/{name}/graph request, rendering Mermaid.
// ?overlay=true colors the mutual exclusion segments of the model's report.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, name ModelName, params GetGraphParams) {
	model, err := s.Reports.Model(r.Context(), name)
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}

	var overlay *graph.GraphOverlay
	if params.Overlay != nil && *params.Overlay {
		report, _, err := s.Reports.Report(r.Context(), name, false)
		if err != nil {
			s.fail(w, "GetGraph", err)
			return
		}
		overlay = graph.OverlayFromReport(report)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(model.Set, overlay)))
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Warn(op+" rejected", "error", err)
	}
	writeJSON(w, status, Error{Error: err.Error()})
}

// invalidParam answers requests whose parameters do not bind.
func (s *Server) invalidParam(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Warn("invalid request", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusBadRequest, Error{Error: err.Error()})
}

func statusOf(err error) int {
	var nonTermination *domain.NonTerminationError
	var unknownNode *domain.UnknownNodeError
	switch {
	case errors.Is(err, domain.ErrModelNotFound),
		errors.As(err, &unknownNode),
		errors.Is(err, domain.ErrProcessNotFound),
		errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrModel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStateLimit), errors.As(err, &nonTermination):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func cacheStatus(cached bool) string {
	if cached {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
