package bls

// LAUS measure codes, the last two characters of a series ID.
const (
	MeasureUnemploymentRate = "03"
	MeasureUnemployment     = "04"
	MeasureEmployment       = "05"
	MeasureLaborForce       = "06"
)

// LAUSStateSeries returns the not-seasonally-adjusted LAUS series ID for a
// state, e.g. LAUST480000000000003.
func LAUSStateSeries(stateFIPS, measure string) string {
	return "LAUST" + stateFIPS + "00000000000" + measure
}

// LAUSCountySeries returns the LAUS series ID for a county given its 2-digit
// state and 3-digit county FIPS codes.
func LAUSCountySeries(stateFIPS, countyFIPS, measure string) string {
	return "LAUCN" + stateFIPS + countyFIPS + "00000000" + measure
}

// LAUSMetroSeries returns the LAUS series ID for a metropolitan area given the
// state FIPS code of its principal city and its 5-digit CBSA code.
func LAUSMetroSeries(stateFIPS, cbsa, measure string) string {
	return "LAUMT" + stateFIPS + cbsa + "000000" + measure
}
