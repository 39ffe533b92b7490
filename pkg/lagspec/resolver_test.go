package lagspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastlab/lbt/pkg/lagspec"
)

//nolint:gochecknoglobals // Shared column fixture for resolver tests
var roadSafetyColumns = []string{"DriversKilled", "kms", "PetrolPrice", "law"}

func perHorizon(entries map[int]map[string]lagspec.Entry) lagspec.Lags {
	return lagspec.Lags{PerHorizon: entries}
}

func globalLags(offsets ...int) lagspec.Lags {
	return lagspec.Lags{Global: &lagspec.Entry{Offsets: offsets}}
}

func TestResolveGlobalShorthand(t *testing.T) {
	spec := &lagspec.Spec{
		Horizons: []int{6, 1, 12, 6}, // unsorted with a duplicate
		Outcomes: []string{"DriversKilled"},
		Dynamic:  []string{"law"},
		Lags:     globalLags(3, 1, 2, 2),
	}

	resolved, err := lagspec.Resolve(roadSafetyColumns, spec)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 6, 12}, resolved.Horizons)
	assert.Equal(t, []string{"kms", "PetrolPrice", "law"}, resolved.Predictors)

	for _, h := range resolved.Horizons {
		entries := resolved.Entries[h]
		require.Len(t, entries, 3)

		// Offsets come back sorted and de-duplicated
		assert.Equal(t, []int{1, 2, 3}, entries["kms"].Offsets)
		assert.Equal(t, []int{1, 2, 3}, entries["PetrolPrice"].Offsets)

		// Dynamic features are forced to {0} regardless of the shorthand
		assert.Equal(t, []int{0}, entries["law"].Offsets)
		assert.False(t, entries["law"].Removed)
	}
}

func TestResolvePerHorizon(t *testing.T) {
	spec := &lagspec.Spec{
		Horizons: []int{1, 12},
		Outcomes: []string{"DriversKilled"},
		Lags: perHorizon(map[int]map[string]lagspec.Entry{
			1: {
				"kms":         {Offsets: []int{1, 2, 3}},
				"PetrolPrice": {Offsets: []int{1, 2}},
				"law":         {Offsets: []int{1}},
			},
			12: {
				"kms":         {Offsets: []int{12}},
				"PetrolPrice": {Removed: true},
				"law":         {Offsets: []int{12}},
			},
		}),
	}

	resolved, err := lagspec.Resolve(roadSafetyColumns, spec)
	require.NoError(t, err)

	// Explicit removal survives resolution as a tagged entry, not an empty set
	assert.True(t, resolved.Entries[12]["PetrolPrice"].Removed)
	assert.Empty(t, resolved.Entries[12]["PetrolPrice"].Offsets)
	assert.False(t, resolved.Entries[1]["PetrolPrice"].Removed)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		spec    *lagspec.Spec
		wantErr error
	}{
		{
			name: "missing horizon entries",
			spec: &lagspec.Spec{
				Horizons: []int{1, 6},
				Outcomes: []string{"DriversKilled"},
				Lags: perHorizon(map[int]map[string]lagspec.Entry{
					1: {
						"kms":         {Offsets: []int{1}},
						"PetrolPrice": {Offsets: []int{1}},
						"law":         {Offsets: []int{1}},
					},
				}),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "missing predictor entry is an error, unlike explicit removal",
			spec: &lagspec.Spec{
				Horizons: []int{1},
				Outcomes: []string{"DriversKilled"},
				Lags: perHorizon(map[int]map[string]lagspec.Entry{
					1: {
						"kms": {Offsets: []int{1}},
						"law": {Offsets: []int{1}},
					},
				}),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "unknown predictor in spec",
			spec: &lagspec.Spec{
				Horizons: []int{1},
				Outcomes: []string{"DriversKilled"},
				Lags: perHorizon(map[int]map[string]lagspec.Entry{
					1: {
						"kms":         {Offsets: []int{1}},
						"PetrolPrice": {Offsets: []int{1}},
						"law":         {Offsets: []int{1}},
						"Congestion":  {Offsets: []int{1}},
					},
				}),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "unknown outcome column",
			spec: &lagspec.Spec{
				Horizons: []int{1},
				Outcomes: []string{"Fatalities"},
				Lags:     globalLags(1),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "unknown dynamic feature",
			spec: &lagspec.Spec{
				Horizons: []int{1},
				Outcomes: []string{"DriversKilled"},
				Dynamic:  []string{"weather"},
				Lags:     globalLags(1),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "dynamic outcome column",
			spec: &lagspec.Spec{
				Horizons: []int{1},
				Outcomes: []string{"DriversKilled"},
				Dynamic:  []string{"DriversKilled"},
				Lags:     globalLags(1),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "negative offset",
			spec: &lagspec.Spec{
				Horizons: []int{1},
				Outcomes: []string{"DriversKilled"},
				Lags:     globalLags(1, -2),
			},
			wantErr: lagspec.ErrSpecMismatch,
		},
		{
			name: "non-positive horizon",
			spec: &lagspec.Spec{
				Horizons: []int{-3},
				Outcomes: []string{"DriversKilled"},
				Lags:     globalLags(1),
			},
			wantErr: lagspec.ErrInvalidHorizon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lagspec.Resolve(roadSafetyColumns, tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveDynamicOverridesRemoval(t *testing.T) {
	spec := &lagspec.Spec{
		Horizons: []int{1},
		Outcomes: []string{"DriversKilled"},
		Dynamic:  []string{"law"},
		Lags: perHorizon(map[int]map[string]lagspec.Entry{
			1: {
				"kms":         {Offsets: []int{1}},
				"PetrolPrice": {Offsets: []int{1}},
				"law":         {Removed: true},
			},
		}),
	}

	resolved, err := lagspec.Resolve(roadSafetyColumns, spec)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, resolved.Entries[1]["law"].Offsets)
	assert.False(t, resolved.Entries[1]["law"].Removed)
}
