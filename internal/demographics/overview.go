package demographics

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/demographics-cli/internal/model"
)

// GenerateOverview writes the narrative summary of a report. Missing census
// data is rendered as zeros.
func GenerateOverview(city, state string, c *model.CensusRecord, e *model.EmploymentRecord, totalStudents int) string {
	p := message.NewPrinter(language.English)

	var population, income int
	renters := "0.0"
	if c != nil {
		population, income = c.TotalPopulation, c.MedianIncome
		if c.PercentRenters != "" {
			renters = c.PercentRenters
		}
	}

	var b strings.Builder
	b.WriteString(p.Sprintf("%s, %s is home to %d residents with a median household income of $%d. ",
		city, state, population, income))
	b.WriteString(p.Sprintf("About %s%% of households rent their homes.", renters))
	if e != nil && e.LaborForce > 0 {
		b.WriteString(p.Sprintf(" The local labor force numbers %d workers with an unemployment rate of %.1f%%.",
			e.LaborForce, e.UnemploymentRate))
	}
	if totalStudents > 0 {
		b.WriteString(p.Sprintf(" Local schools and colleges enroll %d students.", totalStudents))
	}
	return b.String()
}
