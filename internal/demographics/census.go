package demographics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/transform"
	"github.com/sells-group/demographics-cli/pkg/census"
)

// ACS 5-year variables requested for every place.
const (
	varName           = "NAME"
	varPopulation     = "B01003_001E"
	varMedianIncome   = "B19013_001E"
	varHousingUnits   = "B25001_001E"
	varOwnerOccupied  = "B25003_002E"
	varRenterOccupied = "B25003_003E"
	varCommuters      = "B08301_001E"
	varPublicTransit  = "B08301_010E"
	varWorkFromHome   = "B08301_021E"
)

// age25To44Vars are the male (011-014) and female (035-038) 25 to 44 year
// age bands of table B01001.
var age25To44Vars = []string{
	"B01001_011E", "B01001_012E", "B01001_013E", "B01001_014E",
	"B01001_035E", "B01001_036E", "B01001_037E", "B01001_038E",
}

var acsVariables = append([]string{
	varName, varPopulation, varMedianIncome, varHousingUnits,
	varOwnerOccupied, varRenterOccupied, varCommuters, varPublicTransit, varWorkFromHome,
}, age25To44Vars...)

var historicalVariables = []string{varName, varPopulation, varMedianIncome}

// CensusAdapter reads American Community Survey place figures.
type CensusAdapter struct {
	client   census.Client
	year     string
	breakers *resilience.Breakers
}

// NewCensusAdapter creates a CensusAdapter querying the ACS vintage year.
// breakers may be nil.
func NewCensusAdapter(client census.Client, year string, breakers *resilience.Breakers) *CensusAdapter {
	return &CensusAdapter{client: client, year: year, breakers: breakers}
}

// CityDemographics returns the latest ACS figures for the city.
func (a *CensusAdapter) CityDemographics(ctx context.Context, key model.CityKey) (*model.CensusRecord, error) {
	key = key.Normalized()
	fips, ok := transform.StateFIPS(key.StateCode)
	if !ok {
		return nil, &UnknownRegionError{StateCode: key.StateCode}
	}
	if key.CountyCode != "" {
		// ACS places are not nested in counties, so the code cannot narrow the query.
		zap.L().Debug("census: county code ignored for place lookup",
			zap.String("city", key.CityName),
			zap.String("county_code", key.CountyCode),
		)
	}

	table, err := a.places(ctx, a.year, fips, acsVariables)
	if err != nil {
		return nil, err
	}

	row, kind, ok := matchPlace(table, key.CityName)
	if !ok {
		return nil, &CityNotFoundError{City: key.CityName, State: key.StateCode}
	}

	rec := &model.CensusRecord{
		PlaceName:       table.Get(row, varName),
		MatchKind:       kind,
		TotalPopulation: parseCount(table.Get(row, varPopulation)),
		MedianIncome:    parseCount(table.Get(row, varMedianIncome)),
		TotalHousing:    parseCount(table.Get(row, varHousingUnits)),
		OwnerOccupied:   parseCount(table.Get(row, varOwnerOccupied)),
		RenterOccupied:  parseCount(table.Get(row, varRenterOccupied)),
		Commuting: model.Commuting{
			TotalCommuters:  parseCount(table.Get(row, varCommuters)),
			PublicTransport: parseCount(table.Get(row, varPublicTransit)),
			WorkFromHome:    parseCount(table.Get(row, varWorkFromHome)),
		},
	}
	for _, v := range age25To44Vars {
		rec.Age25To44 += parseCount(table.Get(row, v))
	}

	if rec.Clamp() {
		zap.L().Warn("census: clamped inconsistent housing counts",
			zap.String("place", rec.PlaceName),
			zap.Int("total_housing", rec.TotalHousing),
			zap.Int("owner_occupied", rec.OwnerOccupied),
			zap.Int("renter_occupied", rec.RenterOccupied),
		)
	}
	rec.PercentRenters = PercentRenters(rec.OwnerOccupied, rec.RenterOccupied)

	return rec, nil
}

// HistoricalData returns population and income for each year. Years that
// fail are logged and left out; the result is sorted by year.
func (a *CensusAdapter) HistoricalData(ctx context.Context, key model.CityKey, years []string) ([]model.HistoricalPoint, error) {
	key = key.Normalized()
	fips, ok := transform.StateFIPS(key.StateCode)
	if !ok {
		return nil, &UnknownRegionError{StateCode: key.StateCode}
	}

	var (
		mu     sync.Mutex
		points = make([]model.HistoricalPoint, 0, len(years))
		g      errgroup.Group
	)
	for _, year := range years {
		g.Go(func() error {
			p, err := a.yearPoint(ctx, fips, key, year)
			if err != nil {
				zap.L().Warn("census: historical year unavailable",
					zap.String("city", key.CityName),
					zap.String("year", year),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			points = append(points, p)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	model.SortHistorical(points)
	return points, nil
}

func (a *CensusAdapter) yearPoint(ctx context.Context, fips string, key model.CityKey, year string) (model.HistoricalPoint, error) {
	table, err := a.places(ctx, year, fips, historicalVariables)
	if err != nil {
		return model.HistoricalPoint{}, err
	}
	row, _, ok := matchPlace(table, key.CityName)
	if !ok {
		return model.HistoricalPoint{}, &CityNotFoundError{City: key.CityName, State: key.StateCode}
	}
	return model.HistoricalPoint{
		Year:         year,
		Population:   parseCount(table.Get(row, varPopulation)),
		MedianIncome: parseCount(table.Get(row, varMedianIncome)),
	}, nil
}

func (a *CensusAdapter) places(ctx context.Context, year, fips string, vars []string) (*census.Table, error) {
	table, err := resilience.Guard(ctx, a.breakers, UpstreamCensusACS, func(ctx context.Context) (*census.Table, error) {
		return a.client.Places(ctx, year, fips, vars)
	})
	if err != nil {
		return nil, &UpstreamUnavailableError{Source: UpstreamCensusACS, Err: err}
	}
	return table, nil
}

// matchPlace finds the row for city. An exact match on the normalized place
// name wins; otherwise the most populous place whose name contains the city
// is used. Returns the row, the match kind and whether any row matched.
func matchPlace(t *census.Table, city string) (int, string, bool) {
	want := transform.FoldName(city)
	if want == "" || t == nil {
		return 0, "", false
	}

	exact, exactPop := -1, -1
	sub, subPop := -1, -1
	for i := 0; i < t.Len(); i++ {
		variants := transform.PlaceNameVariants(t.Get(i, varName))
		if len(variants) == 0 {
			continue
		}
		pop := parseCount(t.Get(i, varPopulation))
		for _, v := range variants {
			if v == want && pop > exactPop {
				exact, exactPop = i, pop
				break
			}
		}
		if strings.Contains(variants[0], want) && pop > subPop {
			sub, subPop = i, pop
		}
	}

	if exact >= 0 {
		return exact, model.MatchExact, true
	}
	if sub >= 0 {
		zap.L().Warn("census: no exact place match, using substring match",
			zap.String("city", city),
			zap.String("place", t.Get(sub, varName)),
		)
		return sub, model.MatchSubstring, true
	}
	return 0, "", false
}

// parseCount converts a Census cell to a non-negative count. Missing values,
// annotations such as "-666666666" and unparseable cells become 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

// PercentRenters returns the renter share of occupied housing with one
// decimal, or "0.0" when no occupied units are reported.
func PercentRenters(owner, renter int) string {
	occupied := owner + renter
	if occupied <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(renter)/float64(occupied)*100)
}
