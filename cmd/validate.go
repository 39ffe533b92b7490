package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forecastlab/lbt/pkg/dataset"
	"github.com/forecastlab/lbt/pkg/lagspec"
)

// validateCmd validates the lag specification against the dataset
//
//nolint:gochecknoglobals // Cobra commands are typically global
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the lag specification against the dataset columns",
	Long: `Resolve the lag specification against the dataset's columns and apply the
horizon compatibility filter, reporting per-horizon surviving column counts
without building any tables.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, _, err := dataset.Load(&cfg.Dataset)
	if err != nil {
		return err
	}

	resolved, err := lagspec.Resolve(raw.ColumnNames(), &cfg.Spec)
	if err != nil {
		return fmt.Errorf("spec validation failed: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "HORIZON\tRETAINED\tDROPPED\tREMOVED SLOTS\n")

	for _, h := range resolved.Horizons {
		filters := lagspec.Filter(resolved, h)

		retained, dropped, removed := 0, 0, 0
		for _, f := range filters {
			retained += len(f.Retained)
			dropped += len(f.Dropped)
			if f.Removed {
				removed++
			}
		}

		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", h, retained, dropped, removed)
	}

	_ = w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\nSpec is valid: %d predictors, %d horizons\n",
		len(resolved.Predictors), len(resolved.Horizons))

	return nil
}
