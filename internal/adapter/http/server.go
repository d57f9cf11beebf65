package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wildfire-dashboard/internal/chart"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
)

const (
	routeFireAreaChart   = "/charts/fire-area.svg"
	routePixelCountChart = "/charts/pixel-count.svg"
)

// Dashboard evaluates selections against the loaded dataset.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Summarize(ctx context.Context, sel domain.Selection) domain.Report
	Evaluate(sel domain.Selection) domain.Report
	Years() []int
	Regions() []domain.Region
	DefaultSelection() domain.Selection
}

// Server exposes the dashboard page, chart and JSON routes plus health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	charts     chart.Options
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the dashboard routes registered.
func NewServer(addr string, dash Dashboard, charts chart.Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dash,
		charts:    charts,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET "+routeFireAreaChart, s.handleChart("fire_area", func(w io.Writer, r domain.Report, o chart.Options) (chart.Outcome, error) {
		return chart.Pie(w, r.FireAreaTitle, r.FireArea, o)
	}))
	mux.HandleFunc("GET "+routePixelCountChart, s.handleChart("pixel_count", func(w io.Writer, r domain.Report, o chart.Options) (chart.Outcome, error) {
		return chart.Bar(w, r.PixelCountTitle, r.PixelCount, o)
	}))
	mux.HandleFunc("GET /api/aggregates", s.handleAggregates)
	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	def := s.dashboard.DefaultSelection()
	q := r.URL.Query()

	region, year := q.Get("region"), q.Get("year")
	if !q.Has("region") {
		region = def.Region
	}
	if !q.Has("year") {
		year = strconv.Itoa(def.Year)
	}

	sel, err := domain.ParseSelection(region, year)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report := s.dashboard.Summarize(r.Context(), sel)
	data := newPageData(s.dashboard.Regions(), s.dashboard.Years(), report)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render dashboard page", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("render page failed"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

type renderFunc func(w io.Writer, report domain.Report, opts chart.Options) (chart.Outcome, error)

func (s *Server) handleChart(name string, render renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, ok := parseSelection(w, r)
		if !ok {
			return
		}

		report := s.dashboard.Evaluate(sel)

		var buf bytes.Buffer
		outcome, err := render(&buf, report, s.charts)
		if err != nil {
			s.metrics.ChartRenders.WithLabelValues(name, "error").Inc()
			s.logger.Error("render chart", "chart", name, "selection", sel.Key(), "error", err)
			writeError(w, http.StatusInternalServerError, errors.New("render chart failed"))
			return
		}
		s.metrics.ChartRenders.WithLabelValues(name, string(outcome)).Inc()

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
	}
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	sel, ok := parseSelection(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Summarize(r.Context(), sel))
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Years())
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Regions())
}

// parseSelection reads region and year from the query string, writing a 400
// response when either is missing or malformed.
func parseSelection(w http.ResponseWriter, r *http.Request) (domain.Selection, bool) {
	q := r.URL.Query()
	sel, err := domain.ParseSelection(q.Get("region"), q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.Selection{}, false
	}
	return sel, true
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
