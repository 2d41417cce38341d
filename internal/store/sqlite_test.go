package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/model"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, *time.Time) {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Migrate(context.Background()))
	return s, &now
}

func TestSQLiteStore_Migrate_Idempotent(t *testing.T) {
	s, _ := newTestSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteStore_GetReport_Miss(t *testing.T) {
	s, _ := newTestSQLite(t)

	got, err := s.GetReport(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()
	key := model.CityKey{CityName: "Austin", StateCode: "tx", CountyCode: "453"}
	want := testReport("Austin")

	require.NoError(t, s.SetReport(ctx, key.CacheKey(), key, want, 24*time.Hour))

	got, err := s.GetReport(ctx, key.CacheKey())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.CityName, got.CityName)
	assert.Equal(t, want.LastUpdated, got.LastUpdated.UTC())
	assert.Equal(t, want.MarketAnalysis, got.MarketAnalysis)
	assert.Equal(t, want.DataQuality, got.DataQuality)

	var state, county string
	require.NoError(t, s.db.QueryRow(`SELECT state_code, county_code FROM report_cache WHERE cache_key = ?`, key.CacheKey()).Scan(&state, &county))
	assert.Equal(t, "TX", state)
	assert.Equal(t, "453", county)
}

func TestSQLiteStore_SetReport_Replaces(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()
	key := model.CityKey{CityName: "Austin", StateCode: "TX"}

	require.NoError(t, s.SetReport(ctx, key.CacheKey(), key, testReport("Austin"), time.Hour))
	updated := testReport("Austin")
	updated.DataQuality.Confidence = 100
	require.NoError(t, s.SetReport(ctx, key.CacheKey(), key, updated, time.Hour))

	got, err := s.GetReport(ctx, key.CacheKey())
	require.NoError(t, err)
	assert.Equal(t, 100, got.DataQuality.Confidence)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM report_cache`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_Expiry(t *testing.T) {
	s, now := newTestSQLite(t)
	ctx := context.Background()
	austin := model.CityKey{CityName: "Austin", StateCode: "TX"}
	dallas := model.CityKey{CityName: "Dallas", StateCode: "TX"}

	require.NoError(t, s.SetReport(ctx, austin.CacheKey(), austin, testReport("Austin"), time.Hour))
	require.NoError(t, s.SetReport(ctx, dallas.CacheKey(), dallas, testReport("Dallas"), 48*time.Hour))

	*now = now.Add(2 * time.Hour)

	got, err := s.GetReport(ctx, austin.CacheKey())
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries are misses")

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = s.GetReport(ctx, dallas.CacheKey())
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSQLiteStore_DeleteExpired_Empty(t *testing.T) {
	s, _ := newTestSQLite(t)
	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteStore_CorruptRow(t *testing.T) {
	s, now := newTestSQLite(t)
	_, err := s.db.Exec(
		`INSERT INTO report_cache (id, cache_key, city_name, state_code, report, cached_at, expires_at) VALUES ('x', 'bad', 'A', 'TX', '{not json', ?, ?)`,
		now.Unix(), now.Add(time.Hour).Unix(),
	)
	require.NoError(t, err)

	_, err = s.GetReport(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: unmarshal report")
}
