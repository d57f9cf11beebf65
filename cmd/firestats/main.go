// Command firestats summarizes the wildfire dataset from the terminal:
// monthly averages for a region and year, the available years, and
// offline SVG renders of both dashboard charts.
package main

import (
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/wildfire-dashboard/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	source  string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "firestats",
		Short: "Summarize Australian wildfire activity by region and year",
		Long: `firestats loads the historical wildfire CSV and prints the monthly
average estimated fire area and pixel count for a region and year.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.source, "source", "s", sharedcfg.EnvOrDefault("DATASET_SOURCE", config.DefaultDatasetSource), "Dataset file path or http(s) URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", config.DefaultDatasetTimeout, "Dataset fetch timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newYearsCmd(opts),
		newRegionsCmd(),
		newRenderCmd(opts),
	)
	return rootCmd
}

