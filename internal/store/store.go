// Package store caches demographic reports keyed by city.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/demographics-cli/internal/model"
)

// Store defines the persistence interface for cached reports.
type Store interface {
	// GetReport returns the cached report for cacheKey, or nil, nil when the
	// key is missing or expired.
	GetReport(ctx context.Context, cacheKey string) (*model.DemographicReport, error)
	// SetReport stores report under cacheKey for ttl, replacing any previous
	// entry.
	SetReport(ctx context.Context, cacheKey string, key model.CityKey, report *model.DemographicReport, ttl time.Duration) error
	// DeleteExpired removes expired entries and returns how many were removed.
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Options selects and configures a Store driver.
type Options struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	RedisAddr   string
}

// Open creates the Store for opts.Driver and runs its migration.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Driver {
	case "sqlite":
		dsn := opts.SQLitePath
		if dsn == "" {
			dsn = "demographics.db"
		}
		s, err = NewSQLite(dsn)
	case "postgres":
		s, err = NewPostgres(ctx, opts.DatabaseURL, nil)
	case "redis":
		s, err = NewRedis(ctx, opts.RedisAddr)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
