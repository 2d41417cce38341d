package demographics

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/transform"
	"github.com/sells-group/demographics-cli/pkg/bls"
	"github.com/sells-group/demographics-cli/pkg/census"
)

func cbpTable(t *testing.T) *census.Table {
	return mustTable(t,
		[]string{"NAICS2017", "NAICS2017_LABEL", "EMP", "ESTAB", "state"},
		[]string{"72", "Accommodation and food services", "95000", "4100", "48"},
		[]string{"54", "Professional, scientific, and technical services", "110000", "9800", "48"},
		[]string{"52", "Finance and insurance", "42000", "3100", "48"},
		[]string{"51", "Information", "38000", "1500", "48"},
		[]string{"62", "Health care and social assistance", "120000", "5200", "48"},
		[]string{"23", "Construction", "60000", "4000", "48"},
		[]string{"722", "Food services and drinking places", "5000", "100", "48"},
	)
}

func newTestEmploymentAdapter(b bls.Client, c census.Client) *EmploymentAdapter {
	a := NewEmploymentAdapter(b, c, "2021", nil, nil)
	a.now = func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }
	return a
}

func stateSeries() map[string]*bls.Series {
	return map[string]*bls.Series{
		"LAUST480000000000003": latestSeries("LAUST480000000000003", "4.1"),
		"LAUST480000000000005": latestSeries("LAUST480000000000005", "14500000"),
		"LAUST480000000000006": latestSeries("LAUST480000000000006", "15120000"),
	}
}

func TestEmployment_StateLevel(t *testing.T) {
	b := &fakeBLSClient{series: stateSeries()}
	c := &fakeCensusClient{cbp: func(year string, _ census.Geography, sectors []string) (*census.Table, error) {
		assert.Equal(t, "2021", year)
		assert.ElementsMatch(t, []string{"72", "54", "52", "51", "62"}, sectors)
		return cbpTable(t), nil
	}}
	a := newTestEmploymentAdapter(b, c)

	rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
	require.True(t, rec.IsMeasured())
	assert.Equal(t, 15120000, rec.Value.LaborForce)
	assert.Equal(t, 14500000, rec.Value.Employed)
	assert.InDelta(t, 4.1, rec.Value.UnemploymentRate, 0.001)

	ind := rec.Value.Industries
	assert.Len(t, ind, 5)
	assert.Equal(t, model.IndustryStats{Employees: 95000, Establishments: 4100}, ind[transform.IndustryFoodService], "sector row already covers 722")
	assert.Equal(t, 38000, ind[transform.IndustryTechnology].Employees)
	assert.Equal(t, 42000, ind[transform.IndustryFinance].Employees)

	require.Len(t, c.cbpGeos, 1)
	assert.Equal(t, census.StateGeography("48"), c.cbpGeos[0])
}

func TestEmployment_SubsectorsWithoutSectorRow(t *testing.T) {
	b := &fakeBLSClient{series: stateSeries()}
	c := &fakeCensusClient{cbp: func(string, census.Geography, []string) (*census.Table, error) {
		return mustTable(t,
			[]string{"NAICS2017", "NAICS2017_LABEL", "EMP", "ESTAB", "state"},
			[]string{"721", "Accommodation", "7000", "300", "48"},
			[]string{"722", "Food services and drinking places", "5000", "100", "48"},
			[]string{"51", "Information", "38000", "1500", "48"},
			[]string{"511", "Publishing industries", "9000", "200", "48"},
		), nil
	}}
	a := newTestEmploymentAdapter(b, c)

	rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
	require.True(t, rec.IsMeasured())

	ind := rec.Value.Industries
	assert.Equal(t, model.IndustryStats{Employees: 12000, Establishments: 400}, ind[transform.IndustryFoodService])
	assert.Equal(t, model.IndustryStats{Employees: 38000, Establishments: 1500}, ind[transform.IndustryTechnology])
}

func TestEmployment_CountyAndMetroSeries(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		series string
		geo    census.Geography
	}{
		{"county", "453", "LAUCN484530000000003", census.CountyGeography("48", "453")},
		{"metro", "12420", "LAUMT481242000000003", census.MetroGeography("12420")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBLSClient{}
			c := &fakeCensusClient{cbp: func(string, census.Geography, []string) (*census.Table, error) {
				return cbpTable(t), nil
			}}
			a := newTestEmploymentAdapter(b, c)

			// Series without observations force the fallback, but the requested
			// IDs are still recorded.
			rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX", CountyCode: tt.code})
			assert.True(t, rec.IsEstimate())
			assert.Contains(t, b.calls, tt.series)
			for _, id := range b.calls {
				assert.Len(t, id, 20)
			}
		})
	}
}

func TestEmployment_CountyGeographyForCBP(t *testing.T) {
	series := map[string]*bls.Series{}
	for _, m := range []string{bls.MeasureUnemploymentRate, bls.MeasureEmployment, bls.MeasureLaborForce} {
		id := bls.LAUSCountySeries("48", "453", m)
		series[id] = latestSeries(id, "1000")
	}
	c := &fakeCensusClient{cbp: func(string, census.Geography, []string) (*census.Table, error) {
		return cbpTable(t), nil
	}}
	a := newTestEmploymentAdapter(&fakeBLSClient{series: series}, c)

	rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX", CountyCode: "453"})
	require.True(t, rec.IsMeasured())
	require.Len(t, c.cbpGeos, 1)
	assert.Equal(t, census.CountyGeography("48", "453"), c.cbpGeos[0])
}

func TestEmployment_NoKeyUsesEstimate(t *testing.T) {
	a := newTestEmploymentAdapter(nil, &fakeCensusClient{})

	rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
	require.True(t, rec.IsEstimate())
	assert.Equal(t, 500000, rec.Value.LaborForce)
	assert.Equal(t, 475000, rec.Value.Employed)
	assert.InDelta(t, 5.0, rec.Value.UnemploymentRate, 0.001)
	assert.Len(t, rec.Value.Industries, 3)
}

func TestEmployment_FailuresUseEstimate(t *testing.T) {
	okCBP := func(string, census.Geography, []string) (*census.Table, error) { return cbpTable(t), nil }

	t.Run("bls error", func(t *testing.T) {
		a := newTestEmploymentAdapter(&fakeBLSClient{err: eris.New("REQUEST_NOT_PROCESSED")}, &fakeCensusClient{cbp: okCBP})
		rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
		assert.True(t, rec.IsEstimate())
	})

	t.Run("cbp error", func(t *testing.T) {
		c := &fakeCensusClient{cbp: func(string, census.Geography, []string) (*census.Table, error) {
			return nil, eris.New("http 500")
		}}
		a := newTestEmploymentAdapter(&fakeBLSClient{series: stateSeries()}, c)
		rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
		assert.True(t, rec.IsEstimate())
	})

	t.Run("unparseable value", func(t *testing.T) {
		series := stateSeries()
		series["LAUST480000000000003"] = latestSeries("LAUST480000000000003", "-")
		a := newTestEmploymentAdapter(&fakeBLSClient{series: series}, &fakeCensusClient{cbp: okCBP})
		rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
		assert.True(t, rec.IsEstimate())
	})

	t.Run("unknown region", func(t *testing.T) {
		b := &fakeBLSClient{series: stateSeries()}
		a := newTestEmploymentAdapter(b, &fakeCensusClient{cbp: okCBP})
		rec := a.EmploymentData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "ZZ"})
		assert.True(t, rec.IsEstimate())
		assert.Empty(t, b.calls)
	})
}

func TestEstimatedEmploymentIsCopy(t *testing.T) {
	a := EstimatedEmployment()
	a.Industries["Other"] = model.IndustryStats{}
	assert.Len(t, EstimatedEmployment().Industries, 3)
}
