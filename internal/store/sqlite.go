package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/demographics-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Expiry is stored as unix seconds so comparisons do not depend on how the
// driver formats timestamps.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS report_cache (
	id          TEXT PRIMARY KEY,
	cache_key   TEXT NOT NULL UNIQUE,
	city_name   TEXT NOT NULL,
	state_code  TEXT NOT NULL,
	county_code TEXT NOT NULL DEFAULT '',
	report      TEXT NOT NULL,
	cached_at   INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_report_cache_expires_at ON report_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetReport(ctx context.Context, cacheKey string) (*model.DemographicReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT report FROM report_cache WHERE cache_key = ? AND expires_at > ?`,
		cacheKey, s.now().Unix(),
	)

	var reportJSON string
	err := row.Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get report")
	}
	return decodeReport([]byte(reportJSON), "sqlite")
}

func (s *SQLiteStore) SetReport(ctx context.Context, cacheKey string, key model.CityKey, report *model.DemographicReport, ttl time.Duration) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}
	now := s.now()
	key = key.Normalized()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO report_cache (id, cache_key, city_name, state_code, county_code, report, cached_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (cache_key) DO UPDATE SET report = excluded.report, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		uuid.New().String(), cacheKey, key.CityName, key.StateCode, key.CountyCode,
		string(reportJSON), now.Unix(), now.Add(ttl).Unix(),
	)
	return eris.Wrap(err, "sqlite: set report")
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM report_cache WHERE expires_at <= ?`, s.now().Unix(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired reports")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func decodeReport(data []byte, driver string) (*model.DemographicReport, error) {
	var r model.DemographicReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrapf(err, "%s: unmarshal report", driver)
	}
	return &r, nil
}
