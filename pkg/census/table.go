package census

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// cell is a Census value that may arrive as a JSON string, number or null.
// Numbers keep their literal text and null becomes "".
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cell(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*c = cell(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return eris.Errorf("census: unsupported cell %s", data)
		}
		*c = cell(data)
	}
	return nil
}

// Table is a Census API response: a header row of variable names followed by
// one row per geography.
type Table struct {
	Header []string
	Rows   [][]string
	cols   map[string]int
}

// ParseTable decodes the Census array-of-arrays JSON format. An empty body
// (the API answers 204 when nothing matches) yields an empty table.
func ParseTable(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return newTable(nil, nil), nil
	}

	var raw [][]cell
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "census: unmarshal table")
	}
	if len(raw) == 0 {
		return newTable(nil, nil), nil
	}
	rows := make([][]string, len(raw)-1)
	for i, r := range raw[1:] {
		rows[i] = cellStrings(r)
	}
	return newTable(cellStrings(raw[0]), rows), nil
}

func cellStrings(r []cell) []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = string(c)
	}
	return out
}

func newTable(header []string, rows [][]string) *Table {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return &Table{Header: header, Rows: rows, cols: cols}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

// Get returns the cell at row for column col, or "" when either is missing.
func (t *Table) Get(row int, col string) string {
	i, ok := t.cols[col]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}
