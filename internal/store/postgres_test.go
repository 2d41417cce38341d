package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS report_cache`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT report FROM report_cache WHERE cache_key = \$1 AND expires_at > now\(\)`).
		WithArgs("abc").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetReport(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReport_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT report FROM report_cache`).
		WithArgs("abc").
		WillReturnRows(pgxmock.NewRows([]string{"report"}).
			AddRow([]byte(`{"city_name":"Austin","state":"Texas","data_quality":{"confidence":85}}`)))

	got, err := s.GetReport(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Austin", got.CityName)
	assert.Equal(t, 85, got.DataQuality.Confidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReport_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT report FROM report_cache`).
		WithArgs("abc").
		WillReturnError(eris.New("connection reset"))

	_, err := s.GetReport(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: get report")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetReport_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	key := model.CityKey{CityName: "Austin", StateCode: "tx"}

	mock.ExpectExec(`ON CONFLICT \(cache_key\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), key.CacheKey(), "Austin", "TX", "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetReport(context.Background(), key.CacheKey(), key, testReport("Austin"), 24*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM report_cache WHERE expires_at <= now\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM report_cache`).
		WillReturnError(eris.New("timeout"))

	_, err := s.DeleteExpired(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: delete expired reports")
}

func TestPostgresStore_CloseWithoutPool(t *testing.T) {
	s := &PostgresStore{}
	assert.NoError(t, s.Close())
}
