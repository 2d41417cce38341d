package demographics

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/monitoring"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/transform"
	"github.com/sells-group/demographics-cli/pkg/bls"
	"github.com/sells-group/demographics-cli/pkg/census"
)

// EmploymentAdapter combines BLS Local Area Unemployment Statistics with
// County Business Patterns industry counts.
type EmploymentAdapter struct {
	bls      bls.Client
	census   census.Client
	cbpYear  string
	breakers *resilience.Breakers
	metrics  *monitoring.Metrics
	now      func() time.Time
}

// NewEmploymentAdapter creates an EmploymentAdapter. blsClient is nil when no
// BLS registration key is configured.
func NewEmploymentAdapter(blsClient bls.Client, censusClient census.Client, cbpYear string, breakers *resilience.Breakers, metrics *monitoring.Metrics) *EmploymentAdapter {
	return &EmploymentAdapter{
		bls:      blsClient,
		census:   censusClient,
		cbpYear:  cbpYear,
		breakers: breakers,
		metrics:  metrics,
		now:      time.Now,
	}
}

// area is the geography an employment lookup resolves to.
type area struct {
	series func(measure string) string
	geo    census.Geography
}

func resolveArea(stateFIPS, code string) area {
	kind, norm := transform.ClassifyArea(code)
	switch kind {
	case transform.AreaCounty:
		return area{
			series: func(m string) string { return bls.LAUSCountySeries(stateFIPS, norm, m) },
			geo:    census.CountyGeography(stateFIPS, norm),
		}
	case transform.AreaMetro:
		return area{
			series: func(m string) string { return bls.LAUSMetroSeries(stateFIPS, norm, m) },
			geo:    census.MetroGeography(norm),
		}
	default:
		return area{
			series: func(m string) string { return bls.LAUSStateSeries(stateFIPS, m) },
			geo:    census.StateGeography(stateFIPS),
		}
	}
}

// EmploymentData returns labor force figures and food-demand industry counts
// for the county or metro in key, or the whole state when key has no code.
// Any failure yields the static estimate.
func (a *EmploymentAdapter) EmploymentData(ctx context.Context, key model.CityKey) model.Sourced[model.EmploymentRecord] {
	key = key.Normalized()
	if a.bls == nil {
		return a.estimate(key, ReasonNoCredentials, nil)
	}
	fips, ok := transform.StateFIPS(key.StateCode)
	if !ok {
		return a.estimate(key, ReasonUnknownRegion, nil)
	}
	ar := resolveArea(fips, key.CountyCode)

	var (
		rate, employed, labor float64
		industries            map[string]model.IndustryStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := a.latest(gctx, ar.series(bls.MeasureUnemploymentRate))
		rate = v
		return err
	})
	g.Go(func() error {
		v, err := a.latest(gctx, ar.series(bls.MeasureEmployment))
		employed = v
		return err
	})
	g.Go(func() error {
		v, err := a.latest(gctx, ar.series(bls.MeasureLaborForce))
		labor = v
		return err
	})
	g.Go(func() error {
		v, err := a.industries(gctx, ar.geo)
		industries = v
		return err
	})
	if err := g.Wait(); err != nil {
		return a.estimate(key, ReasonUpstream, err)
	}

	return model.Measured(model.EmploymentRecord{
		LaborForce:       int(math.Round(labor)),
		Employed:         int(math.Round(employed)),
		UnemploymentRate: rate,
		Industries:       industries,
	})
}

func (a *EmploymentAdapter) latest(ctx context.Context, seriesID string) (float64, error) {
	end := a.now().Year()
	series, err := resilience.Guard(ctx, a.breakers, UpstreamBLS, func(ctx context.Context) (*bls.Series, error) {
		return a.bls.Series(ctx, seriesID, end-1, end)
	})
	if err != nil {
		return 0, &UpstreamUnavailableError{Source: UpstreamBLS, Err: err}
	}
	obs, ok := series.Latest()
	if !ok {
		return 0, eris.Errorf("demographics: series %s has no observations", seriesID)
	}
	return obs.Float()
}

// industries sums County Business Patterns rows by allow-listed sector.
// Unlisted codes are dropped. A 2-digit sector row already includes its
// subsectors, so subsector rows count only when the sector row is absent.
func (a *EmploymentAdapter) industries(ctx context.Context, geo census.Geography) (map[string]model.IndustryStats, error) {
	table, err := resilience.Guard(ctx, a.breakers, UpstreamCensusCBP, func(ctx context.Context) (*census.Table, error) {
		return a.census.BusinessPatterns(ctx, a.cbpYear, geo, transform.FoodDemandSectorCodes())
	})
	if err != nil {
		return nil, &UpstreamUnavailableError{Source: UpstreamCensusCBP, Err: err}
	}

	naicsVar := census.NAICSVariable(a.cbpYear)
	sectors := make(map[string]model.IndustryStats)
	subsectors := make(map[string]model.IndustryStats)
	for i := 0; i < table.Len(); i++ {
		code := strings.TrimSpace(table.Get(i, naicsVar))
		label, ok := transform.IndustryLabel(code)
		if !ok {
			continue
		}
		dst := subsectors
		if code == transform.NAICSToSector(code) {
			dst = sectors
		}
		s := dst[label]
		s.Employees += parseCount(table.Get(i, "EMP"))
		s.Establishments += parseCount(table.Get(i, "ESTAB"))
		dst[label] = s
	}
	for label, s := range subsectors {
		if _, ok := sectors[label]; !ok {
			sectors[label] = s
		}
	}
	return sectors, nil
}

func (a *EmploymentAdapter) estimate(key model.CityKey, reason string, err error) model.Sourced[model.EmploymentRecord] {
	logFallback(AdapterEmployment, key, reason, err)
	a.metrics.Fallback(AdapterEmployment, reason)
	return model.Estimated(EstimatedEmployment())
}
