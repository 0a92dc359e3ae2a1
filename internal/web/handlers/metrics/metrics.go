package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/thomiceli/gistgrep/internal/search"
	"github.com/thomiceli/gistgrep/internal/web/context"
)

// Metrics holds the collectors of one server. Each server gets its own
// registry so several servers can live in the same process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	searchesTotal     *prometheus.CounterVec
	gistsScannedTotal prometheus.Counter
	gistsFailedTotal  prometheus.Counter
	matchesTotal      prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gistgrep_searches_total",
				Help: "Total number of searches, by status",
			},
			[]string{"status"},
		),
		gistsScannedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gistgrep_gists_scanned_total",
				Help: "Total number of gists fetched and tested",
			},
		),
		gistsFailedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gistgrep_gists_failed_total",
				Help: "Total number of gists that could not be fetched or tested",
			},
		),
		matchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gistgrep_matches_total",
				Help: "Total number of matching gists returned",
			},
		),
	}
}

// Middleware records request counts and latencies for every route but
// /metrics itself.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "gistgrep",
		Subsystem:  "http",
		Registerer: m.registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

func (m *Metrics) Handler(ctx *context.Context) error {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: m.registry,
	})(ctx)
}

func (m *Metrics) ObserveSearch(res *search.Result) {
	if m == nil || res == nil {
		return
	}

	m.searchesTotal.WithLabelValues(string(res.Status)).Inc()
	m.gistsScannedTotal.Add(float64(res.Scanned))
	m.gistsFailedTotal.Add(float64(res.Failed))
	m.matchesTotal.Add(float64(len(res.Matches)))
}

// ObserveSearchError records a search that failed as a whole, e.g. when the
// gists of the user could not be listed.
func (m *Metrics) ObserveSearchError() {
	if m == nil {
		return
	}

	m.searchesTotal.WithLabelValues("error").Inc()
}
