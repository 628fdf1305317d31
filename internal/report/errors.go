package report

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError is a configuration failure: a source table is missing columns
// the pipeline was told to expect. It aborts the run; retrying without fixing
// the column configuration cannot help.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s is missing required columns: %s",
		e.Table, strings.Join(e.Missing, ", "))
}

// ErrEmptySKUUniverse signals that the forecast engine was handed no SKUs at
// all, which is indistinguishable from a broken listings export and therefore
// fatal rather than an empty success.
var ErrEmptySKUUniverse = errors.New("no SKUs in listing universe")
