package demographics

import (
	"fmt"
	"math"

	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/transform"
)

// Market indicator thresholds.
const (
	highRenterSharePct       = 40.0
	highIncomeThreshold      = 60000
	youngProfessionalShare   = 0.25
	lowUnemploymentRate      = 5.0
	strongTechEmployees      = 20000
	strongFinanceEmployees   = 15000
	youngProfessionalsMarket = 20000
	affluentIncome           = 70000
	collegeTownEnrollment    = 15000
	smallMarketPopulation    = 100000
	lateNightEnrollment      = 20000
	familyMealStudents       = 30000
)

// Business opportunity and confidence weights.
const (
	opportunityBaseline  = 5.0
	opportunityCap       = 10.0
	lowUnemploymentBonus = 1.0
	strongTechBonus      = 1.5
	strongFinanceBonus   = 1.0
	confidenceCensus     = 40
	confidenceEmployment = 30
	confidenceK12        = 15
	confidenceCollege    = 15
	maxConfidence        = 100
	strongMarketScore    = 8.0
	moderateMarketScore  = 6.0
)

// Student market tiers.
const (
	TierVeryHigh = "Very High"
	TierHigh     = "High"
	TierModerate = "Moderate"
	TierLow      = "Low"
)

// CalculateTrends compares the earliest and latest historical points. Fewer
// than two points, or a zero baseline, yields model.DataNotAvailable.
func CalculateTrends(points []model.HistoricalPoint) model.Trends {
	trends := model.Trends{
		PopulationGrowth: model.DataNotAvailable,
		IncomeGrowth:     model.DataNotAvailable,
	}
	if len(points) < 2 {
		return trends
	}

	sorted := make([]model.HistoricalPoint, len(points))
	copy(sorted, points)
	model.SortHistorical(sorted)
	first, last := sorted[0], sorted[len(sorted)-1]

	if g, ok := growth(first.Population, last.Population); ok {
		trends.PopulationGrowth = g
	}
	if g, ok := growth(first.MedianIncome, last.MedianIncome); ok {
		trends.IncomeGrowth = g
	}
	return trends
}

func growth(from, to int) (string, bool) {
	if from <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.1f%%", float64(to-from)/float64(from)*100), true
}

// CalculateMarketIndicators scores three resident heuristics: renter share
// above 40%, median income above 60000 and a 25 to 44 year old share above
// 25%. MarketScore is the share of true indicators on a 0-10 scale.
func CalculateMarketIndicators(c *model.CensusRecord) model.MarketIndicators {
	var mi model.MarketIndicators
	if c == nil {
		return mi
	}
	if occupied := c.OwnerOccupied + c.RenterOccupied; occupied > 0 {
		mi.HighRenterShare = float64(c.RenterOccupied)/float64(occupied)*100 > highRenterSharePct
	}
	mi.HighIncome = c.MedianIncome > highIncomeThreshold
	if c.TotalPopulation > 0 {
		mi.YoungProfessionals = float64(c.Age25To44)/float64(c.TotalPopulation) > youngProfessionalShare
	}

	count := 0
	for _, b := range []bool{mi.HighRenterShare, mi.HighIncome, mi.YoungProfessionals} {
		if b {
			count++
		}
	}
	mi.MarketScore = round1(float64(count) / 3 * 10)
	return mi
}

// AssessBusinessOpportunity starts from a baseline of 5 and adds bonuses for
// low unemployment and strong technology or finance employment, capped at 10.
func AssessBusinessOpportunity(e *model.EmploymentRecord) model.BusinessOpportunity {
	bo := model.BusinessOpportunity{Score: opportunityBaseline, Factors: []string{}}
	if e == nil {
		return bo
	}
	if e.UnemploymentRate < lowUnemploymentRate {
		bo.Score += lowUnemploymentBonus
		bo.Factors = append(bo.Factors, "Low unemployment rate")
	}
	if e.Industries[transform.IndustryTechnology].Employees > strongTechEmployees {
		bo.Score += strongTechBonus
		bo.Factors = append(bo.Factors, "Strong technology sector")
	}
	if e.Industries[transform.IndustryFinance].Employees > strongFinanceEmployees {
		bo.Score += strongFinanceBonus
		bo.Factors = append(bo.Factors, "Strong finance sector")
	}
	bo.Score = math.Min(bo.Score, opportunityCap)
	return bo
}

// TotalStudents sums K-12 and college enrollment. Nil parts count as zero.
func TotalStudents(k12 *model.K12Stats, college *model.CollegeStats) int {
	total := 0
	if k12 != nil {
		total += k12.Students
	}
	if college != nil {
		total += college.TotalEnrollment
	}
	return total
}

// AssessStudentMarket buckets the student population into a tier and flags
// late-night delivery and family meal demand.
func AssessStudentMarket(k12 *model.K12Stats, college *model.CollegeStats) model.StudentMarket {
	total := TotalStudents(k12, college)
	sm := model.StudentMarket{Tier: TierLow}
	switch {
	case total > 100000:
		sm.Tier = TierVeryHigh
	case total > 50000:
		sm.Tier = TierHigh
	case total > 25000:
		sm.Tier = TierModerate
	}
	sm.LateNightDelivery = college != nil && college.TotalEnrollment > lateNightEnrollment
	sm.FamilyMeals = k12 != nil && k12.Students > familyMealStudents
	return sm
}

// GenerateMarketAnalysis lists market opportunities and challenges. The
// overall score is 8 when opportunities outnumber challenges and 6 otherwise.
func GenerateMarketAnalysis(c *model.CensusRecord, college *model.CollegeStats) model.MarketAnalysis {
	ma := model.MarketAnalysis{Opportunities: []string{}, Challenges: []string{}}

	var population, income, young int
	if c != nil {
		population, income, young = c.TotalPopulation, c.MedianIncome, c.Age25To44
	}
	if young > youngProfessionalsMarket {
		ma.Opportunities = append(ma.Opportunities, "Large young professional population")
	}
	if income > affluentIncome {
		ma.Opportunities = append(ma.Opportunities, "High median household income")
	}
	if college != nil && college.TotalEnrollment > collegeTownEnrollment {
		ma.Opportunities = append(ma.Opportunities, "Significant college student population")
	}
	if population < smallMarketPopulation {
		ma.Challenges = append(ma.Challenges, "Smaller market size")
	}

	ma.OverallScore = moderateMarketScore
	if len(ma.Opportunities) > len(ma.Challenges) {
		ma.OverallScore = strongMarketScore
	}
	return ma
}

// CalculateConfidence weights the presence of each measured source: census
// 40, employment 30, K-12 15 and college 15.
func CalculateConfidence(c *model.CensusRecord, e *model.EmploymentRecord, k12 *model.K12Stats, college *model.CollegeStats) int {
	score := 0
	if c != nil {
		score += confidenceCensus
	}
	if e != nil {
		score += confidenceEmployment
	}
	if k12 != nil {
		score += confidenceK12
	}
	if college != nil {
		score += confidenceCollege
	}
	return min(score, maxConfidence)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
