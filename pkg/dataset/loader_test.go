package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastlab/lbt/pkg/dataset"
	"github.com/forecastlab/lbt/pkg/dateseq"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadWithDates(t *testing.T) {
	path := writeCSV(t, `date,DriversKilled,kms,PetrolPrice
1969-01-01,107,9059,0.10
1969-02-01,97,7685,0.10
1969-03-01,102,9963,0.11
`)

	cfg := &dataset.Config{
		Path:       path,
		DateColumn: "date",
		Frequency:  "1 month",
	}

	tbl, freq, err := dataset.Load(cfg)
	require.NoError(t, err)
	require.NotNil(t, freq)

	assert.Equal(t, dateseq.Frequency{Count: 1, Unit: dateseq.UnitMonth}, *freq)
	assert.Equal(t, []string{"DriversKilled", "kms", "PetrolPrice"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.NumRows())
	require.Len(t, tbl.Dates(), 3)

	kms, err := tbl.Column("kms")
	require.NoError(t, err)
	assert.Equal(t, []float64{9059, 7685, 9963}, kms)
}

func TestLoadWithoutDates(t *testing.T) {
	path := writeCSV(t, `y,x
1,2
3,4
`)

	tbl, freq, err := dataset.Load(&dataset.Config{Path: path})
	require.NoError(t, err)

	assert.Nil(t, freq)
	assert.Nil(t, tbl.Dates())
	assert.Equal(t, 2, tbl.NumRows())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, _, err := dataset.Load(&dataset.Config{})
		assert.ErrorIs(t, err, dataset.ErrPathRequired)
	})

	t.Run("date column without frequency", func(t *testing.T) {
		_, _, err := dataset.Load(&dataset.Config{Path: "x.csv", DateColumn: "date"})
		assert.ErrorIs(t, err, dataset.ErrFrequencyRequired)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "y,x\n")
		_, _, err := dataset.Load(&dataset.Config{Path: path})
		assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
	})

	t.Run("unknown date column", func(t *testing.T) {
		path := writeCSV(t, "y,x\n1,2\n")
		_, _, err := dataset.Load(&dataset.Config{Path: path, DateColumn: "when", Frequency: "1 day"})
		assert.ErrorIs(t, err, dataset.ErrDateColumnNotFound)
	})

	t.Run("non-numeric cell", func(t *testing.T) {
		path := writeCSV(t, "y,x\n1,lots\n")
		_, _, err := dataset.Load(&dataset.Config{Path: path})
		assert.ErrorIs(t, err, dataset.ErrBadValue)
	})

	t.Run("misaligned dates propagate unchanged", func(t *testing.T) {
		path := writeCSV(t, `date,y
2024-01-01,1
2024-03-01,2
`)
		_, _, err := dataset.Load(&dataset.Config{Path: path, DateColumn: "date", Frequency: "1 month"})
		assert.ErrorIs(t, err, dateseq.ErrDateAlignment)
	})
}
