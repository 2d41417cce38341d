package transform

import (
	"strings"
)

// Industry labels used as keys of model.EmploymentRecord.Industries.
const (
	IndustryFoodService  = "Food Service"
	IndustryProfessional = "Professional Services"
	IndustryFinance      = "Finance"
	IndustryTechnology   = "Technology"
	IndustryHealthcare   = "Healthcare"
)

// FoodDemandSectors maps the 2-digit NAICS sectors that drive shared-kitchen
// demand to their industry label.
var FoodDemandSectors = map[string]string{
	"72": IndustryFoodService,  // Accommodation and Food Services
	"54": IndustryProfessional, // Professional, Scientific, and Technical Services
	"52": IndustryFinance,      // Finance and Insurance
	"51": IndustryTechnology,   // Information
	"62": IndustryHealthcare,   // Health Care and Social Assistance
}

// FoodDemandSectorCodes returns the allow-listed sector codes in a stable order.
func FoodDemandSectorCodes() []string {
	return []string{"51", "52", "54", "62", "72"}
}

// IndustryLabel returns the label for a NAICS code by its first two digits.
// The second return is false for codes outside the allow-list.
func IndustryLabel(code string) (string, bool) {
	sector := NAICSToSector(code)
	label, ok := FoodDemandSectors[sector]
	return label, ok
}

// NAICSToSector returns the 2-digit sector code.
func NAICSToSector(code string) string {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}
