package lagspec

// FeatureFilter is the horizon compatibility filter outcome for one feature:
// which requested offsets survive at the horizon and which were dropped.
type FeatureFilter struct {
	// Retained are the offsets usable for direct forecasting at the horizon
	Retained []int
	// Dropped are the offsets discarded because they fall short of the horizon
	Dropped []int
	// Removed indicates the slot was explicitly removed in the spec
	Removed bool
}

// Filter applies the horizon compatibility rule to a resolved spec for one
// horizon: an offset k survives when k == 0 (dynamic) or k >= h. A lag
// shorter than the horizon would need data unavailable at prediction time
// under direct forecasting, so such offsets are dropped silently. An emptied
// feature contributes zero columns; that is intended behavior, not an error.
func Filter(resolved *Resolved, horizon int) map[string]FeatureFilter {
	entries := resolved.Entries[horizon]
	out := make(map[string]FeatureFilter, len(entries))

	for feature, entry := range entries {
		if entry.Removed {
			out[feature] = FeatureFilter{Removed: true}
			continue
		}

		var result FeatureFilter
		for _, k := range entry.Offsets {
			if k == 0 || k >= horizon {
				result.Retained = append(result.Retained, k)
			} else {
				result.Dropped = append(result.Dropped, k)
			}
		}

		out[feature] = result
	}

	return out
}
