// Package table provides the in-memory tabular structures shared by the
// lagged-table engine: raw input tables and the per-horizon output tables.
package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrColumnLengthMismatch is returned when columns have differing row counts
	ErrColumnLengthMismatch = errors.New("columns must all have the same number of rows")
	// ErrColumnNotFound is returned when a named column does not exist
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when the same column name is supplied twice
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrDateCountMismatch is returned when the date sequence length does not match the row count
	ErrDateCountMismatch = errors.New("date count does not match row count")
)

// Table is an ordered, column-major table of float64 values with an optional
// aligned date sequence. Categorical features must be numerically encoded by
// the caller before construction. A Table is immutable once built apart from
// SetDates; the engine treats all tables as read-only.
type Table struct {
	names []string
	cols  map[string][]float64
	dates []time.Time
}

// New creates a table from ordered column names and their data. Every column
// must have the same length, and every name must be unique and present in cols.
func New(names []string, cols map[string][]float64) (*Table, error) {
	t := &Table{
		names: make([]string, 0, len(names)),
		cols:  make(map[string][]float64, len(names)),
	}

	rows := -1
	for _, name := range names {
		if _, exists := t.cols[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}

		data, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}

		if rows == -1 {
			rows = len(data)
		} else if len(data) != rows {
			return nil, fmt.Errorf("%w: column %s has %d rows, expected %d", ErrColumnLengthMismatch, name, len(data), rows)
		}

		t.names = append(t.names, name)
		t.cols[name] = data
	}

	return t, nil
}

// SetDates attaches an aligned date sequence to the table. The sequence must
// have exactly one date per row; ordering and frequency validation is the
// dateseq package's responsibility.
func (t *Table) SetDates(dates []time.Time) error {
	if len(dates) != t.NumRows() {
		return fmt.Errorf("%w: %d dates for %d rows", ErrDateCountMismatch, len(dates), t.NumRows())
	}

	t.dates = dates

	return nil
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)

	return names
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if len(t.names) == 0 {
		return 0
	}

	return len(t.cols[t.names[0]])
}

// NumColumns returns the number of columns in the table.
func (t *Table) NumColumns() int {
	return len(t.names)
}

// Column returns the data for a named column.
func (t *Table) Column(name string) ([]float64, error) {
	data, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	return data, nil
}

// HasColumn reports whether a named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]

	return ok
}

// Dates returns the aligned date sequence, or nil if none was attached.
func (t *Table) Dates() []time.Time {
	return t.dates
}

// tableJSON is the wire shape used by the cache and the HTTP API.
type tableJSON struct {
	Columns []string             `json:"columns"`
	Data    map[string][]float64 `json:"data"`
	Dates   []time.Time          `json:"dates,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		Columns: t.names,
		Data:    t.cols,
		Dates:   t.dates,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Table) UnmarshalJSON(data []byte) error {
	var wire tableJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	built, err := New(wire.Columns, wire.Data)
	if err != nil {
		return err
	}

	*t = *built

	if wire.Dates != nil {
		return t.SetDates(wire.Dates)
	}

	return nil
}
