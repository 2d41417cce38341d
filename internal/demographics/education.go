package demographics

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/monitoring"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/pkg/education"
)

// EducationAdapter reads K-12 enrollment from the CCD school directory and
// college enrollment from College Scorecard. Without a client every lookup
// returns static estimates.
type EducationAdapter struct {
	client   education.Client
	ccdYear  string
	breakers *resilience.Breakers
	metrics  *monitoring.Metrics
}

// NewEducationAdapter creates an EducationAdapter. client is nil when no API
// key is configured.
func NewEducationAdapter(client education.Client, ccdYear string, breakers *resilience.Breakers, metrics *monitoring.Metrics) *EducationAdapter {
	return &EducationAdapter{client: client, ccdYear: ccdYear, breakers: breakers, metrics: metrics}
}

// K12Data returns public school counts and enrollment for the city.
func (a *EducationAdapter) K12Data(ctx context.Context, key model.CityKey) model.Sourced[model.K12Stats] {
	key = key.Normalized()
	if a.client == nil {
		return a.estimateK12(key, ReasonNoCredentials, nil)
	}

	schools, err := resilience.Guard(ctx, a.breakers, UpstreamCCD, func(ctx context.Context) ([]education.School, error) {
		return a.client.Schools(ctx, a.ccdYear, key.CityName, key.StateCode)
	})
	if err != nil {
		return a.estimateK12(key, ReasonUpstream, err)
	}
	if len(schools) == 0 {
		return a.estimateK12(key, ReasonNoData, nil)
	}

	stats := model.K12Stats{Schools: len(schools)}
	for _, s := range schools {
		if s.Enrollment > 0 {
			stats.Students += s.Enrollment
		}
	}
	return model.Measured(stats)
}

// CollegeData returns degree-granting institutions in the city, largest
// first. A city with no institutions is a measured zero.
func (a *EducationAdapter) CollegeData(ctx context.Context, key model.CityKey) model.Sourced[model.CollegeStats] {
	key = key.Normalized()
	if a.client == nil {
		return a.estimateCollege(key, ReasonNoCredentials, nil)
	}

	colleges, err := resilience.Guard(ctx, a.breakers, UpstreamScorecard, func(ctx context.Context) ([]education.College, error) {
		return a.client.Colleges(ctx, key.CityName, key.StateCode)
	})
	if err != nil {
		return a.estimateCollege(key, ReasonUpstream, err)
	}

	stats := model.CollegeStats{Universities: make([]model.University, 0, len(colleges))}
	for _, c := range colleges {
		enrollment := max(c.Enrollment, 0)
		stats.Universities = append(stats.Universities, model.University{
			Name:       c.Name,
			Enrollment: enrollment,
			Type:       c.Ownership.String(),
		})
		stats.TotalEnrollment += enrollment
	}
	sort.SliceStable(stats.Universities, func(i, j int) bool {
		return stats.Universities[i].Enrollment > stats.Universities[j].Enrollment
	})
	return model.Measured(stats)
}

func (a *EducationAdapter) estimateK12(key model.CityKey, reason string, err error) model.Sourced[model.K12Stats] {
	logFallback(AdapterK12, key, reason, err)
	a.metrics.Fallback(AdapterK12, reason)
	return model.Estimated(EstimatedK12(key.CityName))
}

func (a *EducationAdapter) estimateCollege(key model.CityKey, reason string, err error) model.Sourced[model.CollegeStats] {
	logFallback(AdapterCollege, key, reason, err)
	a.metrics.Fallback(AdapterCollege, reason)
	return model.Estimated(EstimatedCollege(key.CityName))
}

func logFallback(source string, key model.CityKey, reason string, err error) {
	fields := []zap.Field{
		zap.String("source", source),
		zap.String("city", key.String()),
		zap.String("reason", reason),
	}
	if err != nil {
		zap.L().Warn("demographics: using estimated data", append(fields, zap.Error(err))...)
		return
	}
	zap.L().Debug("demographics: using estimated data", fields...)
}
