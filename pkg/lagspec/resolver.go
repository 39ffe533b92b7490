package lagspec

import (
	"fmt"
	"sort"
)

// Resolved is a fully explicit lag specification: every (horizon, feature)
// slot has an entry, offsets are sorted and de-duplicated, and dynamic
// overrides are applied. No implicit values remain.
type Resolved struct {
	// Horizons are the validated horizons, ascending
	Horizons []int
	// Predictors are the non-outcome columns in raw table order
	Predictors []string
	// Outcomes are the forecast target columns
	Outcomes []string
	// Dynamic are the contemporaneous features, forced to offset {0}
	Dynamic []string
	// Entries maps horizon to feature to its resolved entry
	Entries map[int]map[string]Entry
}

// IsDynamic reports whether a feature is a dynamic (offset-0) feature.
func (r *Resolved) IsDynamic(feature string) bool {
	for _, d := range r.Dynamic {
		if d == feature {
			return true
		}
	}

	return false
}

// IsOutcome reports whether a column is an outcome column.
func (r *Resolved) IsOutcome(column string) bool {
	for _, o := range r.Outcomes {
		if o == column {
			return true
		}
	}

	return false
}

// Resolve validates a raw spec against a table's column set and produces the
// fully explicit per-horizon, per-feature entries. All fatal validation
// happens here, before any table construction begins.
func Resolve(columns []string, spec *Spec) (*Resolved, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	outcome := make(map[string]bool, len(spec.Outcomes))
	for _, o := range spec.Outcomes {
		if !known[o] {
			return nil, fmt.Errorf("%w: outcome column %q not in table", ErrSpecMismatch, o)
		}
		outcome[o] = true
	}

	dynamic := make(map[string]bool, len(spec.Dynamic))
	for _, d := range spec.Dynamic {
		if !known[d] {
			return nil, fmt.Errorf("%w: dynamic feature %q not in table", ErrSpecMismatch, d)
		}
		if outcome[d] {
			return nil, fmt.Errorf("%w: dynamic feature %q is an outcome column", ErrSpecMismatch, d)
		}
		dynamic[d] = true
	}

	predictors := make([]string, 0, len(columns))
	for _, c := range columns {
		if !outcome[c] {
			predictors = append(predictors, c)
		}
	}

	horizons := uniqueSorted(spec.Horizons)

	resolved := &Resolved{
		Horizons:   horizons,
		Predictors: predictors,
		Outcomes:   spec.Outcomes,
		Dynamic:    spec.Dynamic,
		Entries:    make(map[int]map[string]Entry, len(horizons)),
	}

	for _, h := range horizons {
		entries, err := resolveHorizon(spec, h, predictors, dynamic)
		if err != nil {
			return nil, err
		}
		resolved.Entries[h] = entries
	}

	return resolved, nil
}

// resolveHorizon produces the explicit entry set for a single horizon.
func resolveHorizon(spec *Spec, horizon int, predictors []string, dynamic map[string]bool) (map[string]Entry, error) {
	var supplied map[string]Entry

	if spec.Lags.Global == nil {
		var ok bool
		supplied, ok = spec.Lags.PerHorizon[horizon]
		if !ok {
			return nil, fmt.Errorf("%w: no lag entries for horizon %d", ErrSpecMismatch, horizon)
		}

		predictorSet := make(map[string]bool, len(predictors))
		for _, p := range predictors {
			predictorSet[p] = true
		}
		for feature := range supplied {
			if !predictorSet[feature] {
				return nil, fmt.Errorf("%w: horizon %d references unknown predictor %q", ErrSpecMismatch, horizon, feature)
			}
		}
	}

	entries := make(map[string]Entry, len(predictors))

	for _, feature := range predictors {
		// Dynamic features are forced to exactly {0}, overriding any
		// user-supplied lags or removal for that feature.
		if dynamic[feature] {
			entries[feature] = Entry{Offsets: []int{0}}
			continue
		}

		var entry Entry
		if spec.Lags.Global != nil {
			entry = *spec.Lags.Global
		} else {
			var ok bool
			entry, ok = supplied[feature]
			if !ok {
				return nil, fmt.Errorf("%w: horizon %d has no entry for predictor %q", ErrSpecMismatch, horizon, feature)
			}
		}

		if entry.Removed {
			entries[feature] = Entry{Removed: true}
			continue
		}

		offsets, err := normalizeOffsets(horizon, feature, entry.Offsets)
		if err != nil {
			return nil, err
		}

		entries[feature] = Entry{Offsets: offsets}
	}

	return entries, nil
}

// normalizeOffsets sorts, de-duplicates, and validates a requested offset set.
func normalizeOffsets(horizon int, feature string, offsets []int) ([]int, error) {
	seen := make(map[int]bool, len(offsets))
	out := make([]int, 0, len(offsets))

	for _, k := range offsets {
		if k < 0 {
			return nil, fmt.Errorf("%w: horizon %d feature %q has negative lag %d", ErrSpecMismatch, horizon, feature, k)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	sort.Ints(out)

	return out, nil
}

func uniqueSorted(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))

	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	sort.Ints(out)

	return out
}
