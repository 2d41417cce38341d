package batch

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet names in the summary workbook.
const (
	SheetReports = "Reports"
	SheetRun     = "Run"
)

var reportHeader = []string{
	"City", "State", "County", "Population", "Median Income", "Percent Renters",
	"Labor Force", "Unemployment Rate", "Total Students", "Student Tier",
	"Business Score", "Market Score", "Overall Score", "Confidence", "Estimated", "Error",
}

// WriteWorkbook writes sum to an .xlsx file at path: one row per city on the
// Reports sheet and run totals on the Run sheet.
func WriteWorkbook(path string, sum *Summary) error {
	f := xlsx.NewFile()

	reports, err := f.AddSheet(SheetReports)
	if err != nil {
		return eris.Wrap(err, "batch: add reports sheet")
	}
	addStrings(reports.AddRow(), reportHeader...)
	for _, res := range sum.Results {
		writeResult(reports.AddRow(), res)
	}

	run, err := f.AddSheet(SheetRun)
	if err != nil {
		return eris.Wrap(err, "batch: add run sheet")
	}
	addStrings(run.AddRow(), "Run ID", sum.RunID)
	addStrings(run.AddRow(), "Started At", sum.StartedAt.Format(time.RFC3339))
	addStrings(run.AddRow(), "Elapsed", sum.Elapsed.Round(time.Millisecond).String())
	addInt(run.AddRow(), "Cities", len(sum.Results))
	addInt(run.AddRow(), "Succeeded", sum.Succeeded)
	addInt(run.AddRow(), "Failed", sum.Failed)

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "batch: save workbook")
	}
	return nil
}

func writeResult(row *xlsx.Row, res Result) {
	addStrings(row, res.Key.CityName, res.Key.StateCode, res.Key.CountyCode)
	if res.Err != nil || res.Report == nil {
		// Pad the numeric columns so Error lines up.
		for range len(reportHeader) - 4 {
			row.AddCell()
		}
		msg := "no report"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		row.AddCell().SetString(msg)
		return
	}

	r := res.Report
	row.AddCell().SetInt(r.Residents.TotalPopulation)
	row.AddCell().SetInt(r.Residents.MedianIncome)
	row.AddCell().SetString(r.Residents.PercentRenters)
	row.AddCell().SetInt(r.Workers.LaborForce)
	row.AddCell().SetFloat(r.Workers.UnemploymentRate)
	row.AddCell().SetInt(r.Students.TotalStudents)
	row.AddCell().SetString(r.Students.Market.Tier)
	row.AddCell().SetFloat(r.Workers.BusinessOpportunity.Score)
	row.AddCell().SetFloat(r.Residents.MarketIndicators.MarketScore)
	row.AddCell().SetFloat(r.MarketAnalysis.OverallScore)
	row.AddCell().SetInt(r.DataQuality.Confidence)
	row.AddCell().SetString(strings.Join(r.DataQuality.Estimated, ", "))
	row.AddCell().SetString("")
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addInt(row *xlsx.Row, label string, v int) {
	row.AddCell().SetString(label)
	row.AddCell().SetInt(v)
}
