package demographics

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/monitoring"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/transform"
)

const defaultAdapterTimeout = 8 * time.Second

// DefaultHistoricalYears are the ACS vintages compared for growth trends.
var DefaultHistoricalYears = []string{"2019", "2020", "2021", "2022"}

// Generator builds a DemographicReport by querying every source
// concurrently. A failing source never fails the report; it lowers the
// report's confidence instead.
type Generator struct {
	census     CensusSource
	education  EducationSource
	employment EmploymentSource

	years   []string
	timeout time.Duration
	metrics *monitoring.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithAdapterTimeout bounds each source call. A call that times out counts as
// a failure.
func WithAdapterTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithHistoricalYears sets the years requested for trends.
func WithHistoricalYears(years []string) GeneratorOption {
	return func(g *Generator) {
		g.years = years
	}
}

// WithMetrics records adapter outcomes and report confidence.
func WithMetrics(m *monitoring.Metrics) GeneratorOption {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) GeneratorOption {
	return func(g *Generator) {
		g.tracer = t
	}
}

// WithClock overrides the clock used for LastUpdated.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator over the three sources.
func NewGenerator(c CensusSource, ed EducationSource, em EmploymentSource, opts ...GeneratorOption) *Generator {
	g := &Generator{
		census:     c,
		education:  ed,
		employment: em,
		years:      DefaultHistoricalYears,
		timeout:    defaultAdapterTimeout,
		tracer:     otel.Tracer("github.com/sells-group/demographics-cli/internal/demographics"),
		now:        time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// outcome is the settled result of one source call.
type outcome[T any] struct {
	val      T
	err      error
	panicked bool
}

// settle runs fn with its own timeout and captures the result. Errors,
// timeouts and panics are returned as values so sibling calls keep running.
func settle[T any](ctx context.Context, g *Generator, adapter string, fn func(ctx context.Context) (T, error)) outcome[T] {
	ctx, span := g.tracer.Start(ctx, "demographics."+adapter,
		trace.WithAttributes(attribute.String("adapter", adapter)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	ch := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome[T]{err: eris.Errorf("demographics: %s panicked: %v", adapter, r), panicked: true}
			}
		}()
		v, err := fn(ctx)
		ch <- outcome[T]{val: v, err: err}
	}()

	var res outcome[T]
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = outcome[T]{err: eris.Wrapf(ctx.Err(), "demographics: %s", adapter)}
	}

	result := monitoring.OutcomeOK
	switch {
	case res.panicked:
		result = monitoring.OutcomePanic
	case res.err != nil && ctx.Err() == context.DeadlineExceeded:
		result = monitoring.OutcomeTimeout
	case res.err != nil:
		result = monitoring.OutcomeError
	}
	g.metrics.ObserveAdapter(adapter, result, time.Since(start))

	if res.err != nil {
		span.RecordError(res.err)
		span.SetStatus(codes.Error, result)
		zap.L().Warn("demographics: source failed",
			zap.String("adapter", adapter),
			zap.String("outcome", result),
			zap.String("class", resilience.Classify(res.err)),
			zap.Error(res.err),
		)
	}
	return res
}

// sourced adapts an always-succeeding source call to settle.
func sourced[T any](fn func(ctx context.Context) model.Sourced[T]) func(ctx context.Context) (model.Sourced[T], error) {
	return func(ctx context.Context) (model.Sourced[T], error) {
		return fn(ctx), nil
	}
}

// Generate builds the report for key. It fails only for invalid input or an
// internal error while assembling the report.
func (g *Generator) Generate(ctx context.Context, key model.CityKey) (report *model.DemographicReport, err error) {
	key = key.Normalized()
	if key.CityName == "" {
		return nil, ErrInvalidCity
	}
	fips, ok := transform.StateFIPS(key.StateCode)
	if !ok {
		return nil, &UnknownRegionError{StateCode: key.StateCode}
	}

	ctx, span := g.tracer.Start(ctx, "demographics.Generate",
		trace.WithAttributes(
			attribute.String("city", key.CityName),
			attribute.String("state", key.StateCode),
		))
	defer span.End()

	var (
		census     outcome[*model.CensusRecord]
		historical outcome[[]model.HistoricalPoint]
		k12        outcome[model.Sourced[model.K12Stats]]
		college    outcome[model.Sourced[model.CollegeStats]]
		employment outcome[model.Sourced[model.EmploymentRecord]]
		eg         errgroup.Group
	)
	eg.Go(func() error {
		census = settle(ctx, g, AdapterCensus, func(ctx context.Context) (*model.CensusRecord, error) {
			return g.census.CityDemographics(ctx, key)
		})
		return nil
	})
	eg.Go(func() error {
		historical = settle(ctx, g, AdapterHistorical, func(ctx context.Context) ([]model.HistoricalPoint, error) {
			return g.census.HistoricalData(ctx, key, g.years)
		})
		return nil
	})
	eg.Go(func() error {
		k12 = settle(ctx, g, AdapterK12, sourced(func(ctx context.Context) model.Sourced[model.K12Stats] {
			return g.education.K12Data(ctx, key)
		}))
		return nil
	})
	eg.Go(func() error {
		college = settle(ctx, g, AdapterCollege, sourced(func(ctx context.Context) model.Sourced[model.CollegeStats] {
			return g.education.CollegeData(ctx, key)
		}))
		return nil
	})
	eg.Go(func() error {
		employment = settle(ctx, g, AdapterEmployment, sourced(func(ctx context.Context) model.Sourced[model.EmploymentRecord] {
			return g.employment.EmploymentData(ctx, key)
		}))
		return nil
	})
	_ = eg.Wait()

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("demographics: report assembly panicked",
				zap.String("city", key.String()),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			report, err = nil, eris.Errorf("demographics: build report for %s: %v", key, r)
			span.SetStatus(codes.Error, "assembly panicked")
		}
	}()

	in := reportInputs{
		key:       key,
		stateName: transform.StateName(fips),
		census:    census.val,
	}
	if census.err != nil {
		in.census = nil
	}
	if historical.err == nil {
		in.historical = historical.val
	}
	in.k12 = settledOrUnavailable(k12)
	in.college = settledOrUnavailable(college)
	in.employment = settledOrUnavailable(employment)

	report = g.assemble(in)
	g.metrics.ObserveConfidence(report.DataQuality.Confidence)
	span.SetAttributes(attribute.Int("confidence", report.DataQuality.Confidence))
	return report, nil
}

func settledOrUnavailable[T any](o outcome[model.Sourced[T]]) model.Sourced[T] {
	if o.err != nil {
		return model.Unavailable[T]()
	}
	return o.val
}

type reportInputs struct {
	key        model.CityKey
	stateName  string
	census     *model.CensusRecord
	historical []model.HistoricalPoint
	k12        model.Sourced[model.K12Stats]
	college    model.Sourced[model.CollegeStats]
	employment model.Sourced[model.EmploymentRecord]
}

// assemble folds the settled source results into a report. Derived scores
// use estimated data; confidence counts measured data only.
func (g *Generator) assemble(in reportInputs) *model.DemographicReport {
	k12 := in.k12.Get()
	college := in.college.Get()
	emp := in.employment.Get()
	totalStudents := TotalStudents(k12, college)

	report := &model.DemographicReport{
		CityName:    in.key.CityName,
		State:       in.stateName,
		LastUpdated: g.now().UTC(),
		Overview:    GenerateOverview(in.key.CityName, in.stateName, in.census, emp, totalStudents),
		Residents:   residents(in.census, in.historical),
		Workers: model.Workers{
			Industries:          map[string]model.IndustryStats{},
			Provenance:          in.employment.Provenance,
			BusinessOpportunity: AssessBusinessOpportunity(emp),
		},
		Students: model.Students{
			K12:           k12,
			College:       college,
			TotalStudents: totalStudents,
			Provenance:    studentProvenance(in.k12, in.college),
			Market:        AssessStudentMarket(k12, college),
		},
		MarketAnalysis: GenerateMarketAnalysis(in.census, college),
	}
	if emp != nil {
		report.Workers.LaborForce = emp.LaborForce
		report.Workers.Employed = emp.Employed
		report.Workers.UnemploymentRate = emp.UnemploymentRate
		for label, s := range emp.Industries {
			report.Workers.Industries[label] = s
		}
	}

	report.DataQuality = model.DataQuality{
		Census:     in.census != nil,
		Employment: in.employment.IsMeasured(),
		Education:  in.k12.IsMeasured() && in.college.IsMeasured(),
		Confidence: CalculateConfidence(in.census, in.employment.MeasuredOnly(), in.k12.MeasuredOnly(), in.college.MeasuredOnly()),
		Estimated:  estimatedSources(in),
	}
	return report
}

func residents(c *model.CensusRecord, historical []model.HistoricalPoint) model.Residents {
	r := model.Residents{
		PercentRenters:   "0.0",
		Trends:           CalculateTrends(historical),
		MarketIndicators: CalculateMarketIndicators(c),
	}
	if c == nil {
		return r
	}
	r.TotalPopulation = c.TotalPopulation
	r.MedianIncome = c.MedianIncome
	r.Age25To44 = c.Age25To44
	r.PercentRenters = c.PercentRenters
	r.Housing = model.Housing{
		Total:          c.TotalHousing,
		OwnerOccupied:  c.OwnerOccupied,
		RenterOccupied: c.RenterOccupied,
	}
	r.Commuting = c.Commuting
	return r
}

// studentProvenance is the weakest provenance of the two education parts.
func studentProvenance(k12 model.Sourced[model.K12Stats], college model.Sourced[model.CollegeStats]) model.Provenance {
	switch {
	case k12.IsMeasured() && college.IsMeasured():
		return model.ProvenanceMeasured
	case k12.Get() == nil && college.Get() == nil:
		return model.ProvenanceUnavailable
	default:
		return model.ProvenanceEstimated
	}
}

func estimatedSources(in reportInputs) []string {
	var out []string
	if in.k12.IsEstimate() {
		out = append(out, AdapterK12)
	}
	if in.college.IsEstimate() {
		out = append(out, AdapterCollege)
	}
	if in.employment.IsEstimate() {
		out = append(out, AdapterEmployment)
	}
	return out
}

