package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/forecastlab/lbt/pkg/dateseq"
	"github.com/forecastlab/lbt/pkg/table"
)

var (
	// ErrEmptyDataset is returned when the CSV has no data rows
	ErrEmptyDataset = errors.New("dataset has no data rows")
	// ErrDateColumnNotFound is returned when the configured date column is absent
	ErrDateColumnNotFound = errors.New("date column not found in dataset")
	// ErrBadValue is returned when a cell cannot be parsed as a number
	ErrBadValue = errors.New("dataset value is not numeric")
)

// Load reads the configured CSV into a table. When a date column is
// configured its values are parsed, validated against the stated frequency,
// and attached to the table as the aligned date sequence; the date column
// itself is not part of the feature columns. The dateseq validation error
// propagates unchanged.
func Load(cfg *Config) (*table.Table, *dateseq.Frequency, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(cfg.Path) //nolint:gosec // User-provided dataset path
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return nil, nil, ErrEmptyDataset
	}

	header := records[0]
	rows := records[1:]

	dateIdx := -1
	names := make([]string, 0, len(header))
	for i, name := range header {
		if name == cfg.DateColumn && cfg.DateColumn != "" {
			dateIdx = i
			continue
		}
		names = append(names, name)
	}

	if cfg.DateColumn != "" && dateIdx == -1 {
		return nil, nil, fmt.Errorf("%w: %q", ErrDateColumnNotFound, cfg.DateColumn)
	}

	cols := make(map[string][]float64, len(names))
	for _, name := range names {
		cols[name] = make([]float64, 0, len(rows))
	}

	dates := make([]time.Time, 0, len(rows))

	for rowNum, record := range rows {
		col := 0
		for i, cell := range record {
			if i == dateIdx {
				date, parseErr := time.Parse(cfg.DateFormat, cell)
				if parseErr != nil {
					return nil, nil, fmt.Errorf("row %d: %w", rowNum+2, parseErr)
				}
				dates = append(dates, date)
				continue
			}

			value, parseErr := strconv.ParseFloat(cell, 64)
			if parseErr != nil {
				return nil, nil, fmt.Errorf("%w: row %d column %q value %q", ErrBadValue, rowNum+2, names[col], cell)
			}

			cols[names[col]] = append(cols[names[col]], value)
			col++
		}
	}

	t, err := table.New(names, cols)
	if err != nil {
		return nil, nil, err
	}

	if dateIdx == -1 {
		return t, nil, nil
	}

	freq, err := dateseq.ParseFrequency(cfg.Frequency)
	if err != nil {
		return nil, nil, err
	}

	if err := dateseq.Validate(dates, freq); err != nil {
		return nil, nil, err
	}

	if err := t.SetDates(dates); err != nil {
		return nil, nil, err
	}

	return t, &freq, nil
}
