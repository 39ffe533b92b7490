package lagspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastlab/lbt/pkg/lagspec"
)

func TestFilterHorizonCompatibility(t *testing.T) {
	spec := &lagspec.Spec{
		Horizons: []int{1, 6, 12},
		Outcomes: []string{"DriversKilled"},
		Dynamic:  []string{"law"},
		Lags: perHorizon(map[int]map[string]lagspec.Entry{
			1:  {"kms": {Offsets: []int{1, 2, 3}}, "PetrolPrice": {Offsets: []int{1, 6, 12}}},
			6:  {"kms": {Offsets: []int{1, 2, 3}}, "PetrolPrice": {Offsets: []int{1, 6, 12}}},
			12: {"kms": {Offsets: []int{1, 2, 3}}, "PetrolPrice": {Offsets: []int{1, 6, 12}}},
		}),
	}

	resolved, err := lagspec.Resolve(roadSafetyColumns, spec)
	require.NoError(t, err)

	tests := []struct {
		horizon      int
		wantKms      []int
		wantKmsDrop  []int
		wantPetrol   []int
		wantPetDrops []int
	}{
		{horizon: 1, wantKms: []int{1, 2, 3}, wantKmsDrop: nil, wantPetrol: []int{1, 6, 12}, wantPetDrops: nil},
		{horizon: 6, wantKms: nil, wantKmsDrop: []int{1, 2, 3}, wantPetrol: []int{6, 12}, wantPetDrops: []int{1}},
		{horizon: 12, wantKms: nil, wantKmsDrop: []int{1, 2, 3}, wantPetrol: []int{12}, wantPetDrops: []int{1, 6}},
	}

	for _, tt := range tests {
		filters := lagspec.Filter(resolved, tt.horizon)

		assert.Equal(t, tt.wantKms, filters["kms"].Retained, "kms retained at horizon %d", tt.horizon)
		assert.Equal(t, tt.wantKmsDrop, filters["kms"].Dropped, "kms dropped at horizon %d", tt.horizon)
		assert.Equal(t, tt.wantPetrol, filters["PetrolPrice"].Retained, "PetrolPrice retained at horizon %d", tt.horizon)
		assert.Equal(t, tt.wantPetDrops, filters["PetrolPrice"].Dropped, "PetrolPrice dropped at horizon %d", tt.horizon)

		// Dynamic offset 0 is never filtered, at any horizon
		assert.Equal(t, []int{0}, filters["law"].Retained, "law retained at horizon %d", tt.horizon)
		assert.Empty(t, filters["law"].Dropped)
	}
}

func TestFilterRemovedSlot(t *testing.T) {
	spec := &lagspec.Spec{
		Horizons: []int{6},
		Outcomes: []string{"DriversKilled"},
		Lags: perHorizon(map[int]map[string]lagspec.Entry{
			6: {
				"kms":         {Offsets: []int{6}},
				"PetrolPrice": {Removed: true},
				"law":         {Offsets: []int{6}},
			},
		}),
	}

	resolved, err := lagspec.Resolve(roadSafetyColumns, spec)
	require.NoError(t, err)

	filters := lagspec.Filter(resolved, 6)

	// A removed slot is distinguishable from a slot emptied by filtering
	assert.True(t, filters["PetrolPrice"].Removed)
	assert.Empty(t, filters["PetrolPrice"].Retained)
	assert.Empty(t, filters["PetrolPrice"].Dropped)
	assert.False(t, filters["kms"].Removed)
}
