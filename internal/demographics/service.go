package demographics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/monitoring"
)

// limitedTTLDivisor shortens the cache lifetime of reports with limited data
// so a recovered upstream is picked up sooner.
const limitedTTLDivisor = 4

// ReportGenerator builds a fresh report.
type ReportGenerator interface {
	Generate(ctx context.Context, key model.CityKey) (*model.DemographicReport, error)
}

// ReportCache stores reports by cache key. GetReport returns nil, nil on a
// miss or an expired entry.
type ReportCache interface {
	GetReport(ctx context.Context, cacheKey string) (*model.DemographicReport, error)
	SetReport(ctx context.Context, cacheKey string, key model.CityKey, report *model.DemographicReport, ttl time.Duration) error
}

// Service serves reports from the cache when possible and generates them
// otherwise. Cache failures are logged and never fail a request.
type Service struct {
	gen     ReportGenerator
	cache   ReportCache
	ttl     time.Duration
	metrics *monitoring.Metrics
}

// NewService creates a Service. cache may be nil to disable caching.
func NewService(gen ReportGenerator, cache ReportCache, ttl time.Duration, metrics *monitoring.Metrics) *Service {
	return &Service{gen: gen, cache: cache, ttl: ttl, metrics: metrics}
}

// Report returns the report for key. refresh skips the cache lookup but still
// stores the new report.
func (s *Service) Report(ctx context.Context, key model.CityKey, refresh bool) (*model.DemographicReport, error) {
	key = key.Normalized()
	cacheKey := key.CacheKey()
	log := zap.L().With(zap.String("city", key.String()))

	if s.cache != nil && !refresh {
		cached, err := s.cache.GetReport(ctx, cacheKey)
		switch {
		case err != nil:
			s.metrics.CacheLookup(monitoring.CacheError)
			log.Warn("demographics: cache lookup failed", zap.Error(err))
		case cached != nil:
			s.metrics.CacheLookup(monitoring.CacheHit)
			log.Debug("demographics: cache hit")
			return cached, nil
		default:
			s.metrics.CacheLookup(monitoring.CacheMiss)
		}
	} else {
		s.metrics.CacheLookup(monitoring.CacheBypass)
	}

	report, err := s.gen.Generate(ctx, key)
	if err != nil {
		return nil, err
	}

	s.store(ctx, log, cacheKey, key, report)
	return report, nil
}

func (s *Service) store(ctx context.Context, log *zap.Logger, cacheKey string, key model.CityKey, report *model.DemographicReport) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if report.DataQuality.Confidence == 0 {
		log.Debug("demographics: not caching report without measured data")
		return
	}
	if err := ValidateReport(report); err != nil {
		log.Warn("demographics: report failed schema check, not cached", zap.Error(err))
		return
	}
	ttl := s.ttl
	if report.DataQuality.Limited() {
		ttl /= limitedTTLDivisor
	}
	if err := s.cache.SetReport(ctx, cacheKey, key, report, ttl); err != nil {
		log.Warn("demographics: cache write failed", zap.Error(err))
	}
}
