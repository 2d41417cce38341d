// Package api serves demographic reports over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/monitoring"
)

// Reporter returns the report for a city. demographics.Service satisfies it.
type Reporter interface {
	Report(ctx context.Context, key model.CityKey, refresh bool) (*model.DemographicReport, error)
}

// Options configures the router.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// RateLimitPerMin caps requests per client IP. Zero disables the limit.
	RateLimitPerMin int
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	// Circuits reports upstream breaker states on /health. May be nil.
	Circuits monitoring.CircuitReporter
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(reporter Reporter, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	h := &handler{reporter: reporter, circuits: opts.Circuits}

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitPerMin, time.Minute)) // protect upstream quota
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/demographics/{state}/{city}", h.report)
	})

	return r
}
