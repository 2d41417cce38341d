package model

import (
	"sort"
)

// Place match kinds reported on a CensusRecord.
const (
	MatchExact     = "exact"
	MatchSubstring = "substring"
)

// CensusRecord holds American Community Survey figures for one place.
// Missing or suppressed numeric cells are stored as 0.
type CensusRecord struct {
	PlaceName       string    `json:"place_name"`
	MatchKind       string    `json:"match_kind"`
	TotalPopulation int       `json:"total_population"`
	MedianIncome    int       `json:"median_income"`
	TotalHousing    int       `json:"total_housing"`
	OwnerOccupied   int       `json:"owner_occupied"`
	RenterOccupied  int       `json:"renter_occupied"`
	Age25To44       int       `json:"age_25_to_44"`
	PercentRenters  string    `json:"percent_renters"`
	Commuting       Commuting `json:"commuting"`
}

// Commuting holds journey-to-work counts.
type Commuting struct {
	TotalCommuters  int `json:"total_commuters"`
	PublicTransport int `json:"public_transport"`
	WorkFromHome    int `json:"work_from_home"`
}

// Clamp zeroes negative counts and raises TotalHousing when the occupied
// units exceed it. Returns true if any value was adjusted.
func (r *CensusRecord) Clamp() bool {
	adjusted := false
	for _, v := range []*int{
		&r.TotalPopulation, &r.MedianIncome, &r.TotalHousing, &r.OwnerOccupied,
		&r.RenterOccupied, &r.Age25To44, &r.Commuting.TotalCommuters,
		&r.Commuting.PublicTransport, &r.Commuting.WorkFromHome,
	} {
		if *v < 0 {
			*v = 0
			adjusted = true
		}
	}
	if occupied := r.OwnerOccupied + r.RenterOccupied; occupied > r.TotalHousing {
		r.TotalHousing = occupied
		adjusted = true
	}
	return adjusted
}

// HistoricalPoint is one year of population and income.
type HistoricalPoint struct {
	Year         string `json:"year"`
	Population   int    `json:"population"`
	MedianIncome int    `json:"median_income"`
}

// SortHistorical sorts points ascending by year in place.
func SortHistorical(points []HistoricalPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		if len(points[i].Year) != len(points[j].Year) {
			return len(points[i].Year) < len(points[j].Year)
		}
		return points[i].Year < points[j].Year
	})
}

// K12Stats summarizes primary and secondary schools in a city.
type K12Stats struct {
	Schools  int `json:"schools"`
	Students int `json:"students"`
}

// University is a post-secondary institution.
type University struct {
	Name       string `json:"name"`
	Enrollment int    `json:"enrollment"`
	Type       string `json:"type,omitempty"`
}

// CollegeStats summarizes post-secondary enrollment in a city.
type CollegeStats struct {
	Universities    []University `json:"universities"`
	TotalEnrollment int          `json:"total_enrollment"`
}

// EducationRecord combines K-12 and college data, each with its own provenance.
type EducationRecord struct {
	K12     Sourced[K12Stats]     `json:"k12"`
	College Sourced[CollegeStats] `json:"college"`
}

// IsEstimate reports whether any part of the record is fallback data.
func (e EducationRecord) IsEstimate() bool {
	return e.K12.IsEstimate() || e.College.IsEstimate()
}

// IndustryStats holds employment for one industry sector.
type IndustryStats struct {
	Employees      int `json:"employees"`
	Establishments int `json:"establishments"`
}

// EmploymentRecord holds labor force figures and per-industry counts keyed by
// industry label.
type EmploymentRecord struct {
	LaborForce       int                      `json:"labor_force"`
	Employed         int                      `json:"employed"`
	UnemploymentRate float64                  `json:"unemployment_rate"`
	Industries       map[string]IndustryStats `json:"industries"`
}
