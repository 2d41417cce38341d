// Package demographics assembles city demographic reports from the Census,
// education and employment sources.
package demographics

import (
	"context"

	"github.com/sells-group/demographics-cli/internal/model"
)

// Adapter names used for metrics, spans and logs.
const (
	AdapterCensus     = "census"
	AdapterHistorical = "census_historical"
	AdapterK12        = "k12"
	AdapterCollege    = "college"
	AdapterEmployment = "employment"
)

// Upstream names used for circuit breakers.
const (
	UpstreamCensusACS = "census_acs"
	UpstreamCensusCBP = "census_cbp"
	UpstreamBLS       = "bls"
	UpstreamScorecard = "college_scorecard"
	UpstreamCCD       = "ccd"
)

// Fallback reasons.
const (
	ReasonNoCredentials = "no_credentials"
	ReasonUpstream      = "upstream_error"
	ReasonNoData        = "no_data"
	ReasonUnknownRegion = "unknown_region"
)

// CensusSource provides ACS figures for a city.
type CensusSource interface {
	CityDemographics(ctx context.Context, key model.CityKey) (*model.CensusRecord, error)
	HistoricalData(ctx context.Context, key model.CityKey, years []string) ([]model.HistoricalPoint, error)
}

// EducationSource provides enrollment figures. It never fails; degraded
// results carry an estimated or unavailable provenance.
type EducationSource interface {
	K12Data(ctx context.Context, key model.CityKey) model.Sourced[model.K12Stats]
	CollegeData(ctx context.Context, key model.CityKey) model.Sourced[model.CollegeStats]
}

// EmploymentSource provides labor market figures. It never fails.
type EmploymentSource interface {
	EmploymentData(ctx context.Context, key model.CityKey) model.Sourced[model.EmploymentRecord]
}
