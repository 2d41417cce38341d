package batch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/demographics-cli/internal/model"
)

// Reporter returns the report for a city. demographics.Service satisfies it.
type Reporter interface {
	Report(ctx context.Context, key model.CityKey, refresh bool) (*model.DemographicReport, error)
}

// Result is the outcome for one city.
type Result struct {
	Key      model.CityKey
	Report   *model.DemographicReport
	Err      error
	Duration time.Duration
}

// Summary is the outcome of a batch run. Results keep input order.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Results   []Result
	Succeeded int
	Failed    int
}

// Runner generates reports for a list of cities with bounded concurrency.
type Runner struct {
	reporter    Reporter
	concurrency int
	refresh     bool
}

// NewRunner creates a Runner. concurrency below 1 is treated as 1.
func NewRunner(reporter Reporter, concurrency int, refresh bool) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{reporter: reporter, concurrency: concurrency, refresh: refresh}
}

// Run generates a report per key. A failed city is recorded on its Result and
// never aborts the batch; only cancellation of ctx stops it early.
func (r *Runner) Run(ctx context.Context, keys []model.CityKey) *Summary {
	sum := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Results:   make([]Result, len(keys)),
	}
	log := zap.L().With(zap.String("run_id", sum.RunID))
	log.Info("batch: starting", zap.Int("cities", len(keys)), zap.Int("concurrency", r.concurrency))

	var succeeded, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, key := range keys {
		g.Go(func() error {
			start := time.Now()
			res := Result{Key: key}
			if err := gCtx.Err(); err != nil {
				res.Err = err
			} else {
				res.Report, res.Err = r.reporter.Report(gCtx, key, r.refresh)
			}
			res.Duration = time.Since(start)
			sum.Results[i] = res

			if res.Err != nil {
				failed.Add(1)
				log.Error("batch: city failed", zap.Stringer("city", key), zap.Error(res.Err))
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)
			log.Info("batch: city complete",
				zap.Stringer("city", key),
				zap.Int("confidence", res.Report.DataQuality.Confidence),
				zap.Duration("elapsed", res.Duration),
			)
			return nil
		})
	}
	_ = g.Wait()

	sum.Elapsed = time.Since(sum.StartedAt)
	sum.Succeeded = int(succeeded.Load())
	sum.Failed = int(failed.Load())

	log.Info("batch: complete",
		zap.Int("total", len(keys)),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum
}
