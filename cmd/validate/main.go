// Command validate performs data integrity checks on a wildfire dataset
// before it is pointed at by DATASET_SOURCE. It verifies the schema, that
// every date derives a month and year, that region codes are known, that
// measures are sane, and that every region/year aggregates to finite means
// bounded by the daily values.
//
// Usage:
//
//	go run ./cmd/validate -source data/mock/wildfires.csv
//	go run ./cmd/validate -source https://example.com/Historical_Wildfires.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/wildfire-dashboard/internal/adapter/source"
	"github.com/couchcryptid/wildfire-dashboard/internal/config"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
)

// maxReported caps the errors printed per phase.
const maxReported = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	src := flag.String("source", config.DefaultDatasetSource, "dataset file path or http(s) URL")
	timeout := flag.Duration("timeout", config.DefaultDatasetTimeout, "fetch timeout")
	flag.Parse()

	os.Exit(run(os.Stdout, *src, *timeout))
}

func run(w io.Writer, src string, timeout time.Duration) int {
	fmt.Fprintln(w, "=== Wildfire Dataset Integrity Validation ===")
	fmt.Fprintln(w)

	// Schema problems (missing columns, malformed CSV) surface here.
	client := source.NewClient(src, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
	raws, err := client.Extract(context.Background())
	if err != nil {
		fmt.Fprintf(w, "FATAL: load dataset: %v\n", err)
		return 1
	}

	dates, records := validateDates(raws)
	phases := []*phase{
		dates,
		validateRegions(records),
		validateMeasures(raws),
		validateAggregates(domain.NewDataset(records)),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d rows, %d with valid dates\n", len(raws), len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors[:min(len(p.errors), maxReported)] {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		if extra := len(p.errors) - maxReported; extra > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", extra)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Dates ──
// Every row must derive a month and year from its Date cell.

func validateDates(raws []domain.RawRecord) (*phase, []domain.Record) {
	p := &phase{name: "Phase 1: Date Derivation"}

	records := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := domain.ParseRecord(raw)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		records = append(records, rec)
	}
	return p, records
}

// ── Phase 2: Regions ──
// Unknown codes are loadable but can never be selected from the dashboard.

func validateRegions(records []domain.Record) *phase {
	p := &phase{name: "Phase 2: Region Codes"}

	known := make(map[string]bool, len(domain.Regions))
	for _, r := range domain.Regions {
		known[r.Code] = true
	}
	unknown := map[string]int{}
	for _, rec := range records {
		if !known[rec.Region] {
			unknown[rec.Region]++
		}
	}
	for code, n := range unknown {
		p.errorf("region %q is not selectable (%d rows)", code, n)
	}
	return p
}

// ── Phase 3: Measures ──
// Empty cells are tolerated; negative or infinite values are not.

func validateMeasures(raws []domain.RawRecord) *phase {
	p := &phase{name: "Phase 3: Measure Values"}

	for _, raw := range raws {
		checkMeasure(p, raw.Line, domain.MeasureFireArea, raw.EstimatedFireArea)
		checkMeasure(p, raw.Line, domain.MeasurePixelCount, raw.Count)
	}
	return p
}

func checkMeasure(p *phase, line int, name string, v float64) {
	switch {
	case math.IsNaN(v):
	case math.IsInf(v, 0):
		p.errorf("line %d: %s is infinite", line, name)
	case v < 0:
		p.errorf("line %d: %s is negative (%g)", line, name, v)
	}
}

// ── Phase 4: Aggregates ──
// Each monthly mean must be finite and lie within the daily values it averages.

func validateAggregates(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 4: Monthly Aggregates"}

	type bounds struct{ lo, hi float64 }
	type key struct {
		region, month string
		year          int
	}
	area := map[key]bounds{}
	count := map[key]bounds{}
	widen := func(m map[key]bounds, k key, v float64) {
		if math.IsNaN(v) {
			return
		}
		b, ok := m[k]
		if !ok {
			b = bounds{lo: v, hi: v}
		}
		m[k] = bounds{lo: math.Min(b.lo, v), hi: math.Max(b.hi, v)}
	}
	for _, rec := range ds.Records() {
		k := key{rec.Region, rec.Month, rec.Year}
		widen(area, k, rec.EstimatedFireArea)
		widen(count, k, rec.Count)
	}

	check := func(region string, year int, agg domain.MonthlyAggregate, limits map[key]bounds) {
		for _, e := range agg.Entries {
			if e.Missing() {
				continue
			}
			b, ok := limits[key{region, e.Month, year}]
			switch {
			case !ok:
				p.errorf("%s %d %s: %s has no source values", region, year, e.Month, agg.Measure)
			case math.IsNaN(e.Value) || math.IsInf(e.Value, 0):
				p.errorf("%s %d %s: %s mean is not finite", region, year, e.Month, agg.Measure)
			case e.Value < b.lo-1e-9 || e.Value > b.hi+1e-9:
				p.errorf("%s %d %s: %s mean %g outside [%g, %g]", region, year, e.Month, agg.Measure, e.Value, b.lo, b.hi)
			}
		}
	}

	for _, region := range ds.Regions() {
		for _, year := range ds.Years() {
			fireArea, pixelCount := domain.Compute(ds, region, year)
			check(region, year, fireArea, area)
			check(region, year, pixelCount, count)
		}
	}
	return p
}
