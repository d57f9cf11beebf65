package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/wildfire-dashboard/internal/adapter/source"
	"github.com/couchcryptid/wildfire-dashboard/internal/chart"
	"github.com/couchcryptid/wildfire-dashboard/internal/config"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
	"github.com/couchcryptid/wildfire-dashboard/internal/pipeline"
)

// loadDataset runs the same load pipeline as the dashboard service.
func loadDataset(cmd *cobra.Command, opts *rootOptions) (*domain.Dataset, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	client := source.NewClient(opts.source, opts.timeout, logger)
	ds, err := pipeline.New(client, pipeline.DeriveCalendarFields, logger, observability.NewUnregisteredMetrics()).Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

func addSelectionFlags(cmd *cobra.Command, region *string, year *string) {
	cmd.Flags().StringVarP(region, "region", "r", config.DefaultRegion, "Region code (NSW, QL, SA, TA, VI, WA)")
	cmd.Flags().StringVarP(year, "year", "y", strconv.Itoa(config.DefaultYear), "Calendar year")
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var (
		region, year string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print monthly averages for a region and year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := domain.ParseSelection(region, year)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd, opts)
			if err != nil {
				return err
			}

			report := domain.NewReport(ds, sel)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return writeSummary(cmd.OutOrStdout(), report)
		},
	}
	addSelectionFlags(cmd, &region, &year)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func writeSummary(w io.Writer, report domain.Report) error {
	sel := report.Selection
	if report.Empty() {
		_, err := fmt.Fprintf(w, "No records for %s in %d.\n", sel.Region, sel.Year)
		return err
	}

	fmt.Fprintf(w, "%s %d: %d records\n\n", sel.Region, sel.Year, report.Records) //nolint:errcheck // checked on flush

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tAVG FIRE AREA (KM2)\tAVG PIXEL COUNT") //nolint:errcheck // checked on flush
	for _, e := range report.FireArea.Calendar().Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Month, formatMean(report.FireArea, e.Month), formatMean(report.PixelCount, e.Month)) //nolint:errcheck // checked on flush
	}
	return tw.Flush()
}

func formatMean(agg domain.MonthlyAggregate, month string) string {
	v, ok := agg.Get(month)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func newYearsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years present in the dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, y := range ds.Years() {
				fmt.Fprintln(out, y) //nolint:errcheck // terminal output
			}
			return nil
		},
	}
}

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the selectable regions",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, r := range domain.Regions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Code, r.Name) //nolint:errcheck // terminal output
			}
		},
	}
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		region, year string
		outDir       string
		width        int
		height       int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write both charts for a region and year as SVG files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := domain.ParseSelection(region, year)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd, opts)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			report := domain.NewReport(ds, sel)
			chartOpts := chart.Options{Width: width, Height: height}

			files := []struct {
				name   string
				render func(io.Writer) (chart.Outcome, error)
			}{
				{"fire-area-" + sel.Key() + ".svg", func(w io.Writer) (chart.Outcome, error) {
					return chart.Pie(w, report.FireAreaTitle, report.FireArea, chartOpts)
				}},
				{"pixel-count-" + sel.Key() + ".svg", func(w io.Writer) (chart.Outcome, error) {
					return chart.Bar(w, report.PixelCountTitle, report.PixelCount, chartOpts)
				}},
			}
			for _, f := range files {
				path := filepath.Join(outDir, f.name)
				outcome, err := writeChart(path, f.render)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, outcome) //nolint:errcheck // terminal output
			}
			return nil
		},
	}
	addSelectionFlags(cmd, &region, &year)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the SVG files")
	cmd.Flags().IntVar(&width, "width", config.DefaultChartWidth, "Chart width in pixels")
	cmd.Flags().IntVar(&height, "height", config.DefaultChartHeight, "Chart height in pixels")
	return cmd
}

func writeChart(path string, render func(io.Writer) (chart.Outcome, error)) (outcome chart.Outcome, err error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return render(f)
}
