package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/forecastlab/lbt/pkg/builder"
	"github.com/forecastlab/lbt/pkg/dataset"
	"github.com/forecastlab/lbt/pkg/table"
)

// buildCmd builds the per-horizon lagged tables
//
//nolint:gochecknoglobals // Cobra commands are typically global
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build per-horizon lagged tables from the configured dataset",
	Long: `Build one lagged predictor table per forecast horizon from the configured
dataset and lag specification, and print a per-horizon summary. With --output,
each horizon's table is also written as a CSV file.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("output", "", "directory to write one CSV per horizon")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	result, err := runConfiguredBuild(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	printBuildSummary(cmd, cfg, result)

	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if outputDir != "" {
		return writeTables(outputDir, cfg, result)
	}

	return nil
}

// runConfiguredBuild loads the dataset and runs one build from the config.
func runConfiguredBuild(ctx context.Context, cfg *Config) (*builder.Result, error) {
	raw, freq, err := dataset.Load(&cfg.Dataset)
	if err != nil {
		return nil, err
	}

	svc := builder.NewService(logger)

	return svc.Build(ctx, builder.Request{
		Table:     raw,
		Kind:      cfg.Kind,
		Spec:      &cfg.Spec,
		Frequency: freq,
	})
}

func printBuildSummary(cmd *cobra.Command, cfg *Config, result *builder.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "HORIZON\tROWS\tCOLUMNS\tPREDICTORS\tNOTE\n")

	for _, h := range result.Horizons {
		tbl := result.Tables[h]

		note := ""
		for _, warning := range result.Warnings {
			if warning.Horizon == h {
				note = warning.Message
			}
		}

		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\n",
			h, tbl.NumRows(), tbl.NumColumns(), countPredictors(tbl, cfg.Spec.Outcomes), note)
	}

	_ = w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\nBuild %s (%s) complete: %d horizons\n", result.ID, result.Kind, len(result.Horizons))
}

// countPredictors counts predictor columns, i.e. everything that is not a
// carried outcome column.
func countPredictors(tbl *table.Table, outcomes []string) int {
	count := tbl.NumColumns()
	for _, outcome := range outcomes {
		if tbl.HasColumn(outcome) {
			count--
		}
	}

	return count
}

// writeTables writes one CSV file per horizon into the output directory.
func writeTables(dir string, cfg *Config, result *builder.Result) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	horizons := append([]int(nil), result.Horizons...)
	sort.Ints(horizons)

	for _, h := range horizons {
		path := filepath.Join(dir, fmt.Sprintf("%s_h%d.csv", string(result.Kind), h))
		if err := writeTableCSV(path, result.Tables[h], cfg.Dataset.DateColumn); err != nil {
			return fmt.Errorf("horizon %d: %w", h, err)
		}

		logger.WithField("path", path).Info("Wrote lagged table")
	}

	return nil
}

func writeTableCSV(path string, tbl *table.Table, dateColumn string) error {
	f, err := os.Create(path) //nolint:gosec // User-provided output directory
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := tbl.ColumnNames()
	dates := tbl.Dates()

	header := names
	if dates != nil {
		if dateColumn == "" {
			dateColumn = "date"
		}
		header = append([]string{dateColumn}, names...)
	}

	if err := w.Write(header); err != nil {
		return err
	}

	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i], err = tbl.Column(name)
		if err != nil {
			return err
		}
	}

	for row := 0; row < tbl.NumRows(); row++ {
		record := make([]string, 0, len(header))
		if dates != nil {
			record = append(record, dates[row].Format(time.DateOnly))
		}
		for _, col := range cols {
			record = append(record, strconv.FormatFloat(col[row], 'g', -1, 64))
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
