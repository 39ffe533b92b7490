package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// profileCmd prints per-feature lag profiles
//
//nolint:gochecknoglobals // Cobra commands are typically global
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show per-feature lag profiles across horizons",
	Long: `Build the configured tables and print, for each feature and horizon, which
requested lag offsets were retained and which were dropped by the horizon
compatibility filter.`,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().String("feature", "", "only show profiles for this feature")
}

func runProfile(cmd *cobra.Command, _ []string) error {
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

	only, err := cmd.Flags().GetString("feature")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FEATURE\tHORIZON\tREQUESTED\tRETAINED\tDROPPED\n")

	for _, p := range result.Profiles {
		if only != "" && p.Feature != only {
			continue
		}

		if p.Removed {
			fmt.Fprintf(w, "%s\t%d\tremoved\t-\t-\n", p.Feature, p.Horizon)
			continue
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			p.Feature, p.Horizon, formatOffsets(p.Requested), formatOffsets(p.Retained), formatOffsets(p.Dropped))
	}

	return w.Flush()
}

func formatOffsets(offsets []int) string {
	if len(offsets) == 0 {
		return "-"
	}

	parts := make([]string, len(offsets))
	for i, k := range offsets {
		parts[i] = strconv.Itoa(k)
	}

	return strings.Join(parts, ",")
}
