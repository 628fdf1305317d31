package report

import (
	"strconv"
	"strings"
)

// Table is an in-memory view of one parsed export. Header names are
// normalized to lower case at construction so lookups match regardless of
// the casing seller central used that week.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func NewTable(header []string, rows [][]string) *Table {
	normalized := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeColumnName(h)
		normalized[i] = name
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return &Table{header: normalized, index: index, rows: rows}
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

func (t *Table) Header() []string { return t.header }

func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[normalizeColumnName(name)]
	return ok
}

// RequireColumns validates the table schema up front and reports every
// missing column in one SchemaError instead of failing one name at a time.
func (t *Table) RequireColumns(tableName string, names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Table: tableName, Missing: missing}
	}
	return nil
}

// Value returns the trimmed cell for a row/column pair, or "" when the
// column is unknown or the record is short.
func (t *Table) Value(row int, col string) string {
	if t == nil || row < 0 || row >= len(t.rows) {
		return ""
	}
	idx, ok := t.index[normalizeColumnName(col)]
	if !ok || idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

// Float coerces a cell to a non-negative number. Thousands separators are
// stripped; unparseable, blank and negative values all become 0.
func (t *Table) Float(row int, col string) float64 {
	f, ok := parseNumber(t.Value(row, col))
	if !ok || f < 0 {
		return 0
	}
	return f
}

// parseNumber reports whether the cell held something numeric at all, so
// callers can distinguish "blank" from "zero" where that matters.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
