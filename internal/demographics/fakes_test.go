package demographics

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/pkg/bls"
	"github.com/sells-group/demographics-cli/pkg/census"
	"github.com/sells-group/demographics-cli/pkg/education"
)

// mustTable builds a census.Table from a header and rows.
func mustTable(t *testing.T, rows ...[]string) *census.Table {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	table, err := census.ParseTable(data)
	require.NoError(t, err)
	return table
}

type placesCall struct {
	Year  string
	State string
	Vars  []string
}

type fakeCensusClient struct {
	mu         sync.Mutex
	places     func(year, state string, vars []string) (*census.Table, error)
	cbp        func(year string, geo census.Geography, sectors []string) (*census.Table, error)
	placeCalls []placesCall
	cbpGeos    []census.Geography
}

func (f *fakeCensusClient) Places(_ context.Context, year, stateFIPS string, vars []string) (*census.Table, error) {
	f.mu.Lock()
	f.placeCalls = append(f.placeCalls, placesCall{Year: year, State: stateFIPS, Vars: vars})
	f.mu.Unlock()
	return f.places(year, stateFIPS, vars)
}

func (f *fakeCensusClient) BusinessPatterns(_ context.Context, year string, geo census.Geography, sectors []string) (*census.Table, error) {
	f.mu.Lock()
	f.cbpGeos = append(f.cbpGeos, geo)
	f.mu.Unlock()
	return f.cbp(year, geo, sectors)
}

type fakeBLSClient struct {
	mu     sync.Mutex
	series map[string]*bls.Series
	err    error
	calls  []string
}

func (f *fakeBLSClient) Series(_ context.Context, seriesID string, _, _ int) (*bls.Series, error) {
	f.mu.Lock()
	f.calls = append(f.calls, seriesID)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.series[seriesID]
	if !ok {
		return &bls.Series{SeriesID: seriesID}, nil
	}
	return s, nil
}

func latestSeries(id, value string) *bls.Series {
	return &bls.Series{
		SeriesID: id,
		Data: []bls.Observation{
			{Year: "2025", Period: "M07", PeriodName: "July", Latest: "true", Value: value},
			{Year: "2025", Period: "M06", PeriodName: "June", Value: "0"},
		},
	}
}

type fakeEducationClient struct {
	schools  []education.School
	colleges []education.College
	err      error
}

func (f *fakeEducationClient) Colleges(_ context.Context, _, _ string) ([]education.College, error) {
	return f.colleges, f.err
}

func (f *fakeEducationClient) Schools(_ context.Context, _, _, _ string) ([]education.School, error) {
	return f.schools, f.err
}
