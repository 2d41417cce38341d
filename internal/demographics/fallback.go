package demographics

import (
	"strings"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/transform"
)

type educationEstimate struct {
	k12     model.K12Stats
	college model.CollegeStats
}

// educationEstimates holds approximate enrollment for large cities, keyed by
// lower-cased city name.
var educationEstimates = map[string]educationEstimate{
	"austin": {
		k12: model.K12Stats{Schools: 130, Students: 73000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "The University of Texas at Austin", Enrollment: 51000, Type: "public"},
				{Name: "Austin Community College District", Enrollment: 41000, Type: "public"},
				{Name: "Texas State University", Enrollment: 38000, Type: "public"},
			},
			TotalEnrollment: 130000,
		},
	},
	"houston": {
		k12: model.K12Stats{Schools: 274, Students: 187000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "University of Houston", Enrollment: 47000, Type: "public"},
				{Name: "Houston Community College", Enrollment: 57000, Type: "public"},
				{Name: "Rice University", Enrollment: 8000, Type: "private nonprofit"},
			},
			TotalEnrollment: 112000,
		},
	},
	"dallas": {
		k12: model.K12Stats{Schools: 230, Students: 141000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "Dallas College", Enrollment: 70000, Type: "public"},
				{Name: "Southern Methodist University", Enrollment: 12000, Type: "private nonprofit"},
			},
			TotalEnrollment: 82000,
		},
	},
	"new york": {
		k12: model.K12Stats{Schools: 1800, Students: 900000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "New York University", Enrollment: 59000, Type: "private nonprofit"},
				{Name: "Columbia University in the City of New York", Enrollment: 36000, Type: "private nonprofit"},
				{Name: "CUNY Hunter College", Enrollment: 23000, Type: "public"},
			},
			TotalEnrollment: 118000,
		},
	},
	"los angeles": {
		k12: model.K12Stats{Schools: 1000, Students: 430000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "University of California-Los Angeles", Enrollment: 47000, Type: "public"},
				{Name: "University of Southern California", Enrollment: 49000, Type: "private nonprofit"},
			},
			TotalEnrollment: 96000,
		},
	},
	"chicago": {
		k12: model.K12Stats{Schools: 630, Students: 322000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "University of Illinois Chicago", Enrollment: 33000, Type: "public"},
				{Name: "DePaul University", Enrollment: 21000, Type: "private nonprofit"},
				{Name: "Loyola University Chicago", Enrollment: 17000, Type: "private nonprofit"},
			},
			TotalEnrollment: 71000,
		},
	},
	"seattle": {
		k12: model.K12Stats{Schools: 105, Students: 50000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "University of Washington-Seattle Campus", Enrollment: 52000, Type: "public"},
				{Name: "Seattle University", Enrollment: 7000, Type: "private nonprofit"},
			},
			TotalEnrollment: 59000,
		},
	},
	"denver": {
		k12: model.K12Stats{Schools: 200, Students: 89000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "Metropolitan State University of Denver", Enrollment: 17000, Type: "public"},
				{Name: "University of Denver", Enrollment: 13000, Type: "private nonprofit"},
			},
			TotalEnrollment: 30000,
		},
	},
	"boston": {
		k12: model.K12Stats{Schools: 120, Students: 46000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "Boston University", Enrollment: 37000, Type: "private nonprofit"},
				{Name: "Northeastern University", Enrollment: 30000, Type: "private nonprofit"},
			},
			TotalEnrollment: 67000,
		},
	},
	"phoenix": {
		k12: model.K12Stats{Schools: 330, Students: 200000},
		college: model.CollegeStats{
			Universities: []model.University{
				{Name: "Grand Canyon University", Enrollment: 100000, Type: "private for-profit"},
				{Name: "Phoenix College", Enrollment: 11000, Type: "public"},
			},
			TotalEnrollment: 111000,
		},
	},
}

// Defaults for cities missing from educationEstimates.
var (
	defaultK12Estimate     = model.K12Stats{Schools: 25, Students: 35000}
	defaultCollegeEstimate = model.CollegeStats{Universities: []model.University{}, TotalEnrollment: 0}
)

func lookupEducationEstimate(city string) (educationEstimate, bool) {
	est, ok := educationEstimates[strings.ToLower(strings.TrimSpace(city))]
	return est, ok
}

// EstimatedK12 returns the static K-12 estimate for a city.
func EstimatedK12(city string) model.K12Stats {
	if est, ok := lookupEducationEstimate(city); ok {
		return est.k12
	}
	return defaultK12Estimate
}

// EstimatedCollege returns the static college estimate for a city. The
// returned universities slice is a copy.
func EstimatedCollege(city string) model.CollegeStats {
	src := defaultCollegeEstimate
	if est, ok := lookupEducationEstimate(city); ok {
		src = est.college
	}
	unis := make([]model.University, len(src.Universities))
	copy(unis, src.Universities)
	return model.CollegeStats{Universities: unis, TotalEnrollment: src.TotalEnrollment}
}

// EstimatedEmployment returns the static labor market estimate used when BLS
// or County Business Patterns cannot be reached.
func EstimatedEmployment() model.EmploymentRecord {
	return model.EmploymentRecord{
		LaborForce:       500000,
		Employed:         475000,
		UnemploymentRate: 5.0,
		Industries: map[string]model.IndustryStats{
			transform.IndustryFoodService:  {Employees: 45000, Establishments: 2500},
			transform.IndustryProfessional: {Employees: 60000, Establishments: 5000},
			transform.IndustryHealthcare:   {Employees: 75000, Establishments: 3000},
		},
	}
}
