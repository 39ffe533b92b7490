package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forecastlab/lbt/pkg/server"
)

// serveCmd runs the HTTP API server
//
//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve built lagged tables and lag profiles over HTTP",
	Long: `Build the configured tables and serve them over a read-only HTTP API, with
Prometheus metrics and optional scheduled dataset refresh and Redis caching.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := server.New(logger, server.Options{
		Config:  &cfg.Server,
		Dataset: &cfg.Dataset,
		Spec:    &cfg.Spec,
		Kind:    cfg.Kind,
		Cache:   cfg.Cache,
	})
	if err != nil {
		return err
	}

	return svc.Start(cmd.Context())
}
