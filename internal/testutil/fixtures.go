package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/forecastlab/lbt/pkg/dateseq"
	"github.com/forecastlab/lbt/pkg/table"
)

// MonthlyFrequency is the sampling frequency of the road-safety fixture.
func MonthlyFrequency() dateseq.Frequency {
	return dateseq.Frequency{Count: 1, Unit: dateseq.UnitMonth}
}

// RoadSafetyTable builds a deterministic monthly fixture shaped like the UK
// road-safety dataset: an outcome (DriversKilled), two laggable predictors
// (kms, PetrolPrice), and a policy indicator (law) usable as a dynamic
// feature. Values are simple functions of the row index so lag alignment can
// be asserted exactly.
func RoadSafetyTable(t *testing.T, rows int) *table.Table {
	t.Helper()

	killed := make([]float64, rows)
	kms := make([]float64, rows)
	petrol := make([]float64, rows)
	law := make([]float64, rows)

	for i := 0; i < rows; i++ {
		killed[i] = 100 + float64(i)
		kms[i] = 1000 + 10*float64(i)
		petrol[i] = 0.1 + 0.001*float64(i)
		if i >= rows*3/4 {
			law[i] = 1
		}
	}

	tbl, err := table.New(
		[]string{"DriversKilled", "kms", "PetrolPrice", "law"},
		map[string][]float64{
			"DriversKilled": killed,
			"kms":           kms,
			"PetrolPrice":   petrol,
			"law":           law,
		},
	)
	require.NoError(t, err)

	start := time.Date(1969, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.SetDates(dateseq.Generate(start, rows, MonthlyFrequency())))

	return tbl
}
