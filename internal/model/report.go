package model

import "time"

// Literal used for growth figures when fewer than two historical points exist.
const DataNotAvailable = "Data not available"

// DemographicReport is the assembled output for one city. It is built once per
// request and never mutated afterwards.
type DemographicReport struct {
	CityName       string         `json:"city_name"`
	State          string         `json:"state"`
	LastUpdated    time.Time      `json:"last_updated"`
	Overview       string         `json:"overview"`
	Residents      Residents      `json:"residents"`
	Workers        Workers        `json:"workers"`
	Students       Students       `json:"students"`
	MarketAnalysis MarketAnalysis `json:"market_analysis"`
	DataQuality    DataQuality    `json:"data_quality"`
}

// Residents describes the resident population.
type Residents struct {
	TotalPopulation  int              `json:"total_population"`
	MedianIncome     int              `json:"median_income"`
	Age25To44        int              `json:"age_25_to_44"`
	PercentRenters   string           `json:"percent_renters"`
	Housing          Housing          `json:"housing"`
	Commuting        Commuting        `json:"commuting"`
	Trends           Trends           `json:"trends"`
	MarketIndicators MarketIndicators `json:"market_indicators"`
}

// Housing holds housing unit counts.
type Housing struct {
	Total          int `json:"total"`
	OwnerOccupied  int `json:"owner_occupied"`
	RenterOccupied int `json:"renter_occupied"`
}

// Trends holds growth between the earliest and latest historical points.
// Values are percentages formatted with one decimal, or DataNotAvailable.
type Trends struct {
	PopulationGrowth string `json:"population_growth"`
	IncomeGrowth     string `json:"income_growth"`
}

// MarketIndicators are simple resident-side heuristics.
type MarketIndicators struct {
	HighRenterShare    bool    `json:"high_renter_share"`
	HighIncome         bool    `json:"high_income"`
	YoungProfessionals bool    `json:"young_professionals"`
	MarketScore        float64 `json:"market_score"`
}

// Workers describes the local labor market.
type Workers struct {
	LaborForce          int                      `json:"labor_force"`
	Employed            int                      `json:"employed"`
	UnemploymentRate    float64                  `json:"unemployment_rate"`
	Industries          map[string]IndustryStats `json:"industries"`
	Provenance          Provenance               `json:"provenance"`
	BusinessOpportunity BusinessOpportunity      `json:"business_opportunity"`
}

// BusinessOpportunity is the 0-10 opportunity score and the factors behind it.
type BusinessOpportunity struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors"`
}

// Students describes the student population.
type Students struct {
	K12           *K12Stats     `json:"k12"`
	College       *CollegeStats `json:"college"`
	TotalStudents int           `json:"total_students"`
	Provenance    Provenance    `json:"provenance"`
	Market        StudentMarket `json:"market"`
}

// StudentMarket buckets the student population.
type StudentMarket struct {
	Tier              string `json:"tier"`
	LateNightDelivery bool   `json:"late_night_delivery"`
	FamilyMeals       bool   `json:"family_meals"`
}

// MarketAnalysis lists opportunities and challenges with a coarse 0-10 score.
type MarketAnalysis struct {
	Opportunities []string `json:"opportunities"`
	Challenges    []string `json:"challenges"`
	OverallScore  float64  `json:"overall_score"`
}

// DataQuality reports which sources contributed measured data. Confidence is
// 0-100; Estimated lists sources that were replaced by fallback data.
type DataQuality struct {
	Census     bool     `json:"census"`
	Employment bool     `json:"employment"`
	Education  bool     `json:"education"`
	Confidence int      `json:"confidence"`
	Estimated  []string `json:"estimated,omitempty"`
}

// Limited reports whether the report should carry a limited-data disclaimer.
func (q DataQuality) Limited() bool {
	return q.Confidence < 70
}
