package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/demographics"
	"github.com/sells-group/demographics-cli/internal/fetcher"
	"github.com/sells-group/demographics-cli/internal/monitoring"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/store"
	"github.com/sells-group/demographics-cli/pkg/bls"
	"github.com/sells-group/demographics-cli/pkg/census"
	"github.com/sells-group/demographics-cli/pkg/education"
)

// appEnv holds the clients, cache and report service needed by the report,
// batch and serve commands.
type appEnv struct {
	Store    store.Store // nil when caching is disabled
	Service  *demographics.Service
	Breakers *resilience.Breakers
	Metrics  *monitoring.Metrics
	Registry *prometheus.Registry
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates the config for mode, opens the cache and builds the
// report service. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.Cache.Enabled {
		var err error
		st, err = openStore(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		zap.L().Info("report cache disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)
	breakers := resilience.NewBreakers(resilience.FromCircuitConfig(cfg.Resilience.FailureThreshold, cfg.Resilience.ResetTimeoutSecs))

	gen := newGenerator(breakers, metrics)

	// A nil *store value must not become a non-nil interface.
	var cache demographics.ReportCache
	if st != nil {
		cache = st
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour

	return &appEnv{
		Store:    st,
		Service:  demographics.NewService(gen, cache, ttl, metrics),
		Breakers: breakers,
		Metrics:  metrics,
		Registry: reg,
	}, nil
}

// newGenerator wires the upstream clients into the three adapters. Sources
// without credentials are left nil so their adapters serve estimates.
func newGenerator(breakers *resilience.Breakers, metrics *monitoring.Metrics) *demographics.Generator {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      time.Duration(cfg.HTTP.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.HTTP.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	censusClient := census.NewClient(f, cfg.Census.APIKey, census.WithBaseURL(cfg.Census.BaseURL))
	if cfg.Census.APIKey == "" {
		zap.L().Warn("DEMOGRAPHICS_CENSUS_API_KEY not set, census queries are anonymous and rate limited")
	}

	var blsClient bls.Client
	if cfg.BLS.APIKey != "" {
		blsClient = bls.NewClient(f, cfg.BLS.APIKey, bls.WithBaseURL(cfg.BLS.BaseURL))
	} else {
		zap.L().Warn("DEMOGRAPHICS_BLS_API_KEY not set, employment data will be estimated")
	}

	var eduClient education.Client
	if cfg.Education.APIKey != "" {
		eduClient = education.NewClient(f, cfg.Education.APIKey,
			education.WithScorecardURL(cfg.Education.ScorecardBaseURL),
			education.WithCCDURL(cfg.Education.CCDBaseURL),
			education.WithMaxPages(cfg.Education.MaxPages),
		)
	} else {
		zap.L().Warn("DEMOGRAPHICS_EDUCATION_API_KEY not set, education data will be estimated")
	}

	return demographics.NewGenerator(
		demographics.NewCensusAdapter(censusClient, cfg.Census.ACSYear, breakers),
		demographics.NewEducationAdapter(eduClient, cfg.Education.CCDYear, breakers, metrics),
		demographics.NewEmploymentAdapter(blsClient, censusClient, cfg.Census.CBPYear, breakers, metrics),
		demographics.WithAdapterTimeout(time.Duration(cfg.Demographics.AdapterTimeoutSecs)*time.Second),
		demographics.WithHistoricalYears(cfg.Census.HistoricalYears),
		demographics.WithMetrics(metrics),
		demographics.WithTracer(otel.Tracer("github.com/sells-group/demographics-cli")),
	)
}

// openStore opens the configured cache backend and migrates it.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, store.Options{
		Driver:      cfg.Cache.Driver,
		DatabaseURL: cfg.Cache.DatabaseURL,
		SQLitePath:  cfg.Cache.SQLitePath,
		RedisAddr:   cfg.Cache.RedisAddr,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("report cache opened", zap.String("driver", cfg.Cache.Driver))
	return st, nil
}
