package demographics

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/pkg/census"
)

var acsHeader = []string{
	"NAME", "B01003_001E", "B19013_001E", "B25001_001E", "B25003_002E", "B25003_003E",
	"B08301_001E", "B08301_010E", "B08301_021E",
	"B01001_011E", "B01001_012E", "B01001_013E", "B01001_014E",
	"B01001_035E", "B01001_036E", "B01001_037E", "B01001_038E",
	"state", "place",
}

func texasPlaces(t *testing.T) *census.Table {
	return mustTable(t,
		acsHeader,
		[]string{"North Austin CDP, Texas", "20000", "55000", "8000", "3000", "4000", "9000", "500", "900",
			"1000", "1000", "1000", "1000", "1000", "1000", "1000", "1000", "48", "52000"},
		[]string{"Austin city, Texas", "965872", "80954", "430000", "180000", "220000", "520000", "20000", "90000",
			"45000", "45000", "44000", "41000", "44000", "44000", "43000", "40000", "48", "05000"},
		[]string{"Houston city, Texas", "2302878", "56019", "1000000", "400000", "560000", "1100000", "40000", "80000",
			"-666666666", "", "null", "12.5", "0", "0", "0", "0", "48", "35000"},
	)
}

func TestCityDemographics_ExactMatch(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return texasPlaces(t), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	rec, err := a.CityDemographics(context.Background(), model.CityKey{CityName: " austin ", StateCode: "tx"})
	require.NoError(t, err)

	assert.Equal(t, "Austin city, Texas", rec.PlaceName)
	assert.Equal(t, model.MatchExact, rec.MatchKind)
	assert.Equal(t, 965872, rec.TotalPopulation)
	assert.Equal(t, 80954, rec.MedianIncome)
	assert.Equal(t, 430000, rec.TotalHousing)
	assert.Equal(t, 180000, rec.OwnerOccupied)
	assert.Equal(t, 220000, rec.RenterOccupied)
	assert.Equal(t, 346000, rec.Age25To44)
	assert.Equal(t, "55.0", rec.PercentRenters)
	assert.Equal(t, model.Commuting{TotalCommuters: 520000, PublicTransport: 20000, WorkFromHome: 90000}, rec.Commuting)

	require.Len(t, client.placeCalls, 1)
	assert.Equal(t, "2022", client.placeCalls[0].Year)
	assert.Equal(t, "48", client.placeCalls[0].State)
	assert.Equal(t, acsVariables, client.placeCalls[0].Vars)
}

func TestCityDemographics_SubstringFallback(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return mustTable(t,
			[]string{"NAME", "B01003_001E"},
			[]string{"North Austin CDP, Texas", "20000"},
			[]string{"Austinville town, Texas", "900"},
			[]string{"Dallas city, Texas", "1300000"},
		), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	rec, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
	require.NoError(t, err)
	assert.Equal(t, "North Austin CDP, Texas", rec.PlaceName)
	assert.Equal(t, model.MatchSubstring, rec.MatchKind)
	assert.Equal(t, 20000, rec.TotalPopulation)
}

func TestCityDemographics_AccentInsensitive(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return mustTable(t,
			[]string{"NAME", "B01003_001E"},
			[]string{"San José city, California", "971233"},
		), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	rec, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "San Jose", StateCode: "CA"})
	require.NoError(t, err)
	assert.Equal(t, model.MatchExact, rec.MatchKind)
	assert.Equal(t, 971233, rec.TotalPopulation)
}

func TestCityDemographics_LossyNumbers(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return texasPlaces(t), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	rec, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "Houston", StateCode: "TX"})
	require.NoError(t, err)
	// -666666666, "", "null" become 0; "12.5" truncates to 12.
	assert.Equal(t, 12, rec.Age25To44)
}

func TestCityDemographics_ClampsHousing(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return mustTable(t,
			[]string{"NAME", "B01003_001E", "B25001_001E", "B25003_002E", "B25003_003E"},
			[]string{"Smallville city, Kansas", "5000", "100", "80", "60"},
		), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	rec, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "Smallville", StateCode: "KS"})
	require.NoError(t, err)
	assert.Equal(t, 140, rec.TotalHousing)
	assert.LessOrEqual(t, rec.OwnerOccupied+rec.RenterOccupied, rec.TotalHousing)
	assert.Equal(t, "42.9", rec.PercentRenters)
}

func TestCityDemographics_NotFound(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return texasPlaces(t), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	_, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "Springfield", StateCode: "TX"})
	var nf *CityNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Springfield", nf.City)
	assert.Equal(t, "TX", nf.State)
}

func TestCityDemographics_UnknownRegion(t *testing.T) {
	client := &fakeCensusClient{}
	a := NewCensusAdapter(client, "2022", nil)

	_, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "Austin", StateCode: "ZZ"})
	var ur *UnknownRegionError
	require.True(t, errors.As(err, &ur))
	assert.Equal(t, "ZZ", ur.StateCode)
	assert.Empty(t, client.placeCalls)
}

func TestCityDemographics_UpstreamFailure(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return nil, eris.New("http 503")
	}}
	a := NewCensusAdapter(client, "2022", nil)

	_, err := a.CityDemographics(context.Background(), model.CityKey{CityName: "Austin", StateCode: "TX"})
	var up *UpstreamUnavailableError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, UpstreamCensusACS, up.Source)
	assert.Contains(t, err.Error(), "http 503")
}

func TestHistoricalData_OmitsFailedYears(t *testing.T) {
	client := &fakeCensusClient{places: func(year, _ string, vars []string) (*census.Table, error) {
		if year == "2021" {
			return nil, eris.New("timeout")
		}
		pop := map[string]string{"2019": "950807", "2020": "961855", "2022": "965872"}[year]
		return mustTable(t,
			[]string{"NAME", "B01003_001E", "B19013_001E"},
			[]string{"Austin city, Texas", pop, "75000"},
		), nil
	}}
	a := NewCensusAdapter(client, "2022", nil)

	points, err := a.HistoricalData(context.Background(),
		model.CityKey{CityName: "Austin", StateCode: "TX"}, []string{"2022", "2019", "2021", "2020"})
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2019", points[0].Year)
	assert.Equal(t, 950807, points[0].Population)
	assert.Equal(t, "2020", points[1].Year)
	assert.Equal(t, "2022", points[2].Year)
	assert.Len(t, client.placeCalls, 4)
	assert.Equal(t, historicalVariables, client.placeCalls[0].Vars)
}

func TestHistoricalData_AllYearsFail(t *testing.T) {
	client := &fakeCensusClient{places: func(string, string, []string) (*census.Table, error) {
		return nil, eris.New("down")
	}}
	a := NewCensusAdapter(client, "2022", nil)

	points, err := a.HistoricalData(context.Background(),
		model.CityKey{CityName: "Austin", StateCode: "TX"}, []string{"2019", "2020"})
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestHistoricalData_UnknownRegion(t *testing.T) {
	a := NewCensusAdapter(&fakeCensusClient{}, "2022", nil)
	_, err := a.HistoricalData(context.Background(), model.CityKey{CityName: "Austin", StateCode: "ZZ"}, []string{"2020"})
	var ur *UnknownRegionError
	assert.True(t, errors.As(err, &ur))
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"965872", 965872},
		{" 42 ", 42},
		{"12.9", 12},
		{"", 0},
		{"null", 0},
		{"-666666666", 0},
		{"-1", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCount(tt.in), "in: %q", tt.in)
	}
}

func TestPercentRenters(t *testing.T) {
	assert.Equal(t, "55.0", PercentRenters(180000, 220000))
	assert.Equal(t, "33.3", PercentRenters(2, 1))
	assert.Equal(t, "0.0", PercentRenters(0, 0))
	assert.Equal(t, "100.0", PercentRenters(0, 10))
}
