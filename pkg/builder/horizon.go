package builder

import (
	"fmt"
	"time"

	"github.com/forecastlab/lbt/pkg/dateseq"
	"github.com/forecastlab/lbt/pkg/lagspec"
	"github.com/forecastlab/lbt/pkg/table"
)

// buildHorizon materializes the lagged table for a single horizon. It is a
// pure function of its inputs; the raw table and resolved spec are read-only.
//
// Train tables drop the leading max-lag rows and the trailing h rows: row j
// holds predictors drawn from raw index i-k and the outcome from raw index
// i+h, where i = maxLag + j. Forecast tables hold a single row at the
// forecast origin: predictors from raw index n-1+h-k, no outcome columns,
// and dynamic features carried forward from the last observed row.
func buildHorizon(raw *table.Table, resolved *lagspec.Resolved, filters map[string]lagspec.FeatureFilter, horizon int, kind Kind, freq *dateseq.Frequency) (*table.Table, error) {
	if kind == KindForecast {
		return buildForecastHorizon(raw, resolved, filters, horizon, freq)
	}

	return buildTrainHorizon(raw, resolved, filters, horizon)
}

func buildTrainHorizon(raw *table.Table, resolved *lagspec.Resolved, filters map[string]lagspec.FeatureFilter, horizon int) (*table.Table, error) {
	n := raw.NumRows()
	maxLag := maxRetainedLag(filters)

	rows := n - maxLag - horizon
	if rows <= 0 {
		return nil, fmt.Errorf("%w: %d rows, max lag %d, horizon %d", ErrInsufficientRows, n, maxLag, horizon)
	}

	start := maxLag
	names := make([]string, 0)
	cols := make(map[string][]float64)

	// Outcome columns first, shifted forward by the horizon: row j holds the
	// value being predicted horizon steps ahead of raw index start+j.
	for _, outcome := range resolved.Outcomes {
		src, err := raw.Column(outcome)
		if err != nil {
			return nil, err
		}

		data := make([]float64, rows)
		for j := 0; j < rows; j++ {
			data[j] = src[start+j+horizon]
		}

		names = append(names, outcome)
		cols[outcome] = data
	}

	for _, feature := range resolved.Predictors {
		src, err := raw.Column(feature)
		if err != nil {
			return nil, err
		}

		for _, k := range filters[feature].Retained {
			name := feature
			if k > 0 {
				name = LagColumnName(feature, k)
			}

			data := make([]float64, rows)
			for j := 0; j < rows; j++ {
				data[j] = src[start+j-k]
			}

			names = append(names, name)
			cols[name] = data
		}
	}

	built, err := table.New(names, cols)
	if err != nil {
		return nil, err
	}

	if dates := raw.Dates(); dates != nil {
		aligned := make([]time.Time, rows)
		copy(aligned, dates[start:start+rows])

		if err := built.SetDates(aligned); err != nil {
			return nil, err
		}
	}

	return built, nil
}

func buildForecastHorizon(raw *table.Table, resolved *lagspec.Resolved, filters map[string]lagspec.FeatureFilter, horizon int, freq *dateseq.Frequency) (*table.Table, error) {
	n := raw.NumRows()

	// The single forecast row sits at future index n-1+horizon; a retained
	// lag k >= horizon always reads from an in-sample index.
	names := make([]string, 0)
	cols := make(map[string][]float64)

	for _, feature := range resolved.Predictors {
		src, err := raw.Column(feature)
		if err != nil {
			return nil, err
		}

		for _, k := range filters[feature].Retained {
			name := feature
			idx := n - 1

			if k > 0 {
				name = LagColumnName(feature, k)
				idx = n - 1 + horizon - k
			}
			// Dynamic features (k == 0) carry the last observed value
			// forward; callers supply true future values downstream.

			if idx < 0 {
				return nil, fmt.Errorf("%w: %d rows, lag %d, horizon %d", ErrInsufficientRows, n, k, horizon)
			}

			names = append(names, name)
			cols[name] = []float64{src[idx]}
		}
	}

	built, err := table.New(names, cols)
	if err != nil {
		return nil, err
	}

	// An all-filtered forecast horizon yields a zero-column table; there is
	// no row to date in that case.
	if dates := raw.Dates(); dates != nil && freq != nil && built.NumColumns() > 0 {
		forecastDate := freq.Add(dates[n-1], horizon)
		if err := built.SetDates([]time.Time{forecastDate}); err != nil {
			return nil, err
		}
	}

	return built, nil
}

func maxRetainedLag(filters map[string]lagspec.FeatureFilter) int {
	maxLag := 0
	for _, f := range filters {
		for _, k := range f.Retained {
			if k > maxLag {
				maxLag = k
			}
		}
	}

	return maxLag
}
