// Package batch generates reports for many cities at once and writes a
// summary workbook.
package batch

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/model"
)

// columns locates the city, state and county fields in an input row. county
// is -1 when the input has no county column.
type columns struct {
	city, state, county int
}

var positional = columns{city: 0, state: 1, county: 2}

// ReadCities loads a city list from a .csv or .xlsx file. A header row naming
// "city" and "state" columns is honored; otherwise columns are read as city,
// state, county. Blank rows and rows without a city or state are skipped.
func ReadCities(path string) ([]model.CityKey, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path, 0)
	default:
		return nil, eris.Errorf("batch: unsupported input %q (want .csv or .xlsx)", path)
	}
	if err != nil {
		return nil, err
	}
	return parseCities(rows), nil
}

func parseCities(rows [][]string) []model.CityKey {
	if len(rows) == 0 {
		return nil
	}
	cols, ok := headerColumns(rows[0])
	if ok {
		rows = rows[1:]
	} else {
		cols = positional
	}

	var keys []model.CityKey
	for i, row := range rows {
		key := model.CityKey{
			CityName:  cell(row, cols.city),
			StateCode: cell(row, cols.state),
		}
		if cols.county >= 0 {
			key.CountyCode = cell(row, cols.county)
		}
		key = key.Normalized()
		if key.CityName == "" && key.StateCode == "" {
			continue
		}
		if key.CityName == "" || key.StateCode == "" {
			zap.L().Warn("batch: skipping incomplete row",
				zap.Int("row", i+1),
				zap.Strings("values", row),
			)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func headerColumns(row []string) (columns, bool) {
	cols := columns{city: -1, state: -1, county: -1}
	for i, v := range row {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "city", "city_name", "city name":
			cols.city = i
		case "state", "state_code", "state code":
			cols.state = i
		case "county", "county_code", "county code", "cbsa":
			cols.county = i
		}
	}
	return cols, cols.city >= 0 && cols.state >= 0
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open csv")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // allow variable fields
	r.TrimLeadingSpace = true
	r.Comment = '#'

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "batch: read csv row")
		}
		rows = append(rows, record)
	}
}

func readXLSX(path string, sheetIndex int) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}
	if sheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("batch: sheet index %d out of range (file has %d sheets)", sheetIndex, len(f.Sheets))
	}

	var rows [][]string
	for _, row := range f.Sheets[sheetIndex].Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
