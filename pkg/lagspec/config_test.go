package lagspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/forecastlab/lbt/pkg/lagspec"
)

func TestEntryUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantOffsets []int
		wantRemoved bool
		wantErr     bool
	}{
		{
			name:        "single integer",
			yaml:        `3`,
			wantOffsets: []int{3},
		},
		{
			name:        "integer list",
			yaml:        `[1, 2, 3]`,
			wantOffsets: []int{1, 2, 3},
		},
		{
			name:        "range string",
			yaml:        `"1:4"`,
			wantOffsets: []int{1, 2, 3, 4},
		},
		{
			name:        "descending range normalizes",
			yaml:        `"4:1"`,
			wantOffsets: []int{1, 2, 3, 4},
		},
		{
			name:        "mixed list with ranges",
			yaml:        `["1:2", 6, "11:12"]`,
			wantOffsets: []int{1, 2, 6, 11, 12},
		},
		{
			name:        "removal marker",
			yaml:        `remove`,
			wantRemoved: true,
		},
		{
			name:    "mapping is invalid",
			yaml:    `{a: 1}`,
			wantErr: true,
		},
		{
			name:    "non-numeric scalar is invalid",
			yaml:    `soon`,
			wantErr: true,
		},
		{
			name:    "nested sequence is invalid",
			yaml:    `[[1, 2]]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry lagspec.Entry
			err := yaml.Unmarshal([]byte(tt.yaml), &entry)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, lagspec.ErrInvalidLagEntry)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, entry.Removed)
			assert.Equal(t, tt.wantOffsets, entry.Offsets)
		})
	}
}

func TestLagsUnmarshalYAML(t *testing.T) {
	t.Run("global shorthand", func(t *testing.T) {
		var lags lagspec.Lags
		require.NoError(t, yaml.Unmarshal([]byte(`"1:12"`), &lags))

		require.NotNil(t, lags.Global)
		assert.Len(t, lags.Global.Offsets, 12)
		assert.Nil(t, lags.PerHorizon)
	})

	t.Run("per-horizon mapping", func(t *testing.T) {
		input := `
1:
  kms: [1, 2, 3]
  PetrolPrice: "1:12"
12:
  kms: 12
  PetrolPrice: remove
`
		var lags lagspec.Lags
		require.NoError(t, yaml.Unmarshal([]byte(input), &lags))

		require.Nil(t, lags.Global)
		require.Len(t, lags.PerHorizon, 2)
		assert.Equal(t, []int{1, 2, 3}, lags.PerHorizon[1]["kms"].Offsets)
		assert.True(t, lags.PerHorizon[12]["PetrolPrice"].Removed)
		assert.Equal(t, []int{12}, lags.PerHorizon[12]["kms"].Offsets)
	})

	t.Run("global remove is invalid", func(t *testing.T) {
		var lags lagspec.Lags
		err := yaml.Unmarshal([]byte(`remove`), &lags)
		require.Error(t, err)
	})

	t.Run("non-integer horizon key is invalid", func(t *testing.T) {
		var lags lagspec.Lags
		err := yaml.Unmarshal([]byte("soon:\n  kms: [1]\n"), &lags)
		require.Error(t, err)
	})
}

func TestSpecValidate(t *testing.T) {
	valid := func() *lagspec.Spec {
		return &lagspec.Spec{
			Horizons: []int{1, 6, 12},
			Outcomes: []string{"DriversKilled"},
			Lags:     lagspec.Lags{Global: &lagspec.Entry{Offsets: []int{1, 2}}},
		}
	}

	t.Run("valid spec", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("no horizons", func(t *testing.T) {
		spec := valid()
		spec.Horizons = nil
		assert.ErrorIs(t, spec.Validate(), lagspec.ErrInvalidHorizon)
	})

	t.Run("non-positive horizon", func(t *testing.T) {
		spec := valid()
		spec.Horizons = []int{1, 0}
		assert.ErrorIs(t, spec.Validate(), lagspec.ErrInvalidHorizon)
	})

	t.Run("no outcomes", func(t *testing.T) {
		spec := valid()
		spec.Outcomes = nil
		assert.ErrorIs(t, spec.Validate(), lagspec.ErrOutcomeRequired)
	})

	t.Run("no lags", func(t *testing.T) {
		spec := valid()
		spec.Lags = lagspec.Lags{}
		assert.ErrorIs(t, spec.Validate(), lagspec.ErrSpecMismatch)
	})
}

func TestSpecRoundTripYAML(t *testing.T) {
	input := `
horizons: [1, 6, 12]
outcomes: [DriversKilled]
dynamic: [law]
lags:
  1:
    kms: [1, 2, 3]
    PetrolPrice: "1:12"
    law: 0
  6:
    kms: remove
    PetrolPrice: "6:12"
    law: 0
  12:
    kms: 12
    PetrolPrice: remove
    law: 0
`

	var spec lagspec.Spec
	require.NoError(t, yaml.Unmarshal([]byte(input), &spec))
	require.NoError(t, spec.Validate())

	out, err := yaml.Marshal(&spec)
	require.NoError(t, err)

	var again lagspec.Spec
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, spec, again)
}
