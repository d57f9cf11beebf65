// Command genmock writes a synthetic Historical_Wildfires CSV for local runs
// and tests. Rows follow the published column layout and a southern-hemisphere
// fire season, and the output is read back through the real load pipeline so
// the fixture is guaranteed to load in the dashboard.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/wildfires.csv -from 2005 -to 2010 -seed 7
//	DATASET_SOURCE=data/mock/wildfires.csv go run ./cmd/dashboard
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/wildfire-dashboard/internal/adapter/source"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
	"github.com/couchcryptid/wildfire-dashboard/internal/pipeline"
)

var header = []string{
	"Region", "Date", "Estimated_fire_area", "Mean_estimated_fire_brightness",
	"Mean_estimated_fire_radiative_power", "Mean_confidence", "Std_confidence",
	"Var_confidence", "Count", "Replaced",
}

// regionScale sizes fire activity per region relative to NSW.
var regionScale = map[string]float64{
	"NSW": 1.0, "QL": 1.6, "SA": 0.5, "TA": 0.15, "VI": 0.45, "WA": 1.3,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	from := flag.Int("from", 2005, "first year to generate")
	to := flag.Int("to", 2010, "last year to generate")
	seed := flag.Uint64("seed", 1, "random seed; equal seeds give identical files")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *to < *from {
		return fmt.Errorf("-to (%d) must not be before -from (%d)", *to, *from)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	rows, err := generate(f, *from, *to, rand.New(rand.NewPCG(*seed, *seed))) //nolint:gosec // fixture data
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d rows to %s", rows, *out)

	// Load the file back exactly as the dashboard would.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := source.NewClient(*out, time.Minute, logger)
	ds, err := pipeline.New(client, pipeline.DeriveCalendarFields, logger, observability.NewUnregisteredMetrics()).Load(context.Background())
	if err != nil {
		return fmt.Errorf("reload fixture: %w", err)
	}

	printStats(ds)
	return nil
}

// generate writes the header and one row per region for each day on which
// that region has fire activity. It returns the number of data rows.
func generate(w io.Writer, from, to int, rng *rand.Rand) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	rows := 0
	start := time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		season := seasonality(day.Month())
		for _, r := range domain.Regions {
			if rng.Float64() > 0.35+0.6*season {
				continue
			}
			if err := cw.Write(row(r.Code, day, season*regionScale[r.Code], rng)); err != nil {
				return rows, err
			}
			rows++
		}
	}

	cw.Flush()
	return rows, cw.Error()
}

// seasonality peaks in the southern summer and bottoms out in July.
func seasonality(m time.Month) float64 {
	return 0.5 + 0.5*math.Cos(2*math.Pi*float64(m-time.January)/12)
}

func row(region string, day time.Time, intensity float64, rng *rand.Rand) []string {
	area := (1 + rng.ExpFloat64()*40) * (0.2 + intensity)
	count := max(1, math.Round(area/3+rng.Float64()*4))
	conf := 70 + rng.Float64()*25
	std := rng.Float64() * 10

	replaced := "R"
	if rng.Float64() < 0.1 {
		replaced = "N"
	}

	return []string{
		region,
		fmt.Sprintf("%d/%d/%d", day.Month(), day.Day(), day.Year()),
		ff(area),
		ff(305 + rng.Float64()*25),
		ff(20 + area*rng.Float64()),
		ff(conf),
		ff(std),
		ff(std * std),
		strconv.Itoa(int(count)),
		replaced,
	}
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func printStats(ds *domain.Dataset) {
	years := ds.Years()
	fmt.Println("\n=== Fixture stats ===")
	fmt.Printf("Records: %d\n", ds.Len())
	if len(years) > 0 {
		fmt.Printf("Years: %d-%d\n", years[0], years[len(years)-1])
	}

	counts := map[string]int{}
	for _, rec := range ds.Records() {
		counts[rec.Region]++
	}
	fmt.Print("By region:")
	for _, r := range domain.Regions {
		fmt.Printf(" %s=%d", r.Code, counts[r.Code])
	}
	fmt.Println()

	if len(years) == 0 {
		return
	}
	fireArea, pixels := domain.Compute(ds, "NSW", years[0])
	fmt.Printf("\nNSW %d monthly means:\n", years[0])
	pixelMap := pixels.Map()
	for _, e := range fireArea.Calendar().Entries {
		fmt.Printf("  %-10s area=%8.2f count=%6.2f days=%d\n", e.Month, e.Value, pixelMap[e.Month], e.Samples)
	}
}
