package domain

import (
	"math"
	"sort"
	"time"
)

// Measure column names, as they appear in the CSV header.
const (
	MeasureFireArea   = "Estimated_fire_area"
	MeasurePixelCount = "Count"
)

// MonthValue is the mean of one measure for one month. A month whose cells
// for the measure were all empty keeps its entry with Samples 0 and Value 0;
// see Missing.
type MonthValue struct {
	Month   string  `json:"month"`
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
}

// Missing reports whether no numeric value was available for the month.
func (v MonthValue) Missing() bool { return v.Samples == 0 }

// MonthlyAggregate maps month names to the mean of a single measure.
// Entries hold one item per month present in the filtered records.
type MonthlyAggregate struct {
	Measure string       `json:"measure"`
	Entries []MonthValue `json:"entries"`
}

// Len returns the number of months in the aggregate.
func (a MonthlyAggregate) Len() int { return len(a.Entries) }

// Get returns the mean for month, if present and not missing.
func (a MonthlyAggregate) Get(month string) (float64, bool) {
	for _, e := range a.Entries {
		if e.Month == month && !e.Missing() {
			return e.Value, true
		}
	}
	return 0, false
}

// Map returns the aggregate as a month → mean map. Missing months are left out.
func (a MonthlyAggregate) Map() map[string]float64 {
	m := make(map[string]float64, len(a.Entries))
	for _, e := range a.Entries {
		if e.Missing() {
			continue
		}
		m[e.Month] = e.Value
	}
	return m
}

// Calendar returns a copy with entries ordered January through December.
func (a MonthlyAggregate) Calendar() MonthlyAggregate {
	entries := make([]MonthValue, len(a.Entries))
	copy(entries, a.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return monthIndex(entries[i].Month) < monthIndex(entries[j].Month)
	})
	return MonthlyAggregate{Measure: a.Measure, Entries: entries}
}

var monthIndexes = func() map[string]int {
	m := make(map[string]int, 12)
	for mo := time.January; mo <= time.December; mo++ {
		m[mo.String()] = int(mo)
	}
	return m
}()

// monthIndex orders unknown names after December.
func monthIndex(name string) int {
	if i, ok := monthIndexes[name]; ok {
		return i
	}
	return 13
}

// Compute filters the dataset by region and then by year and returns the mean
// Estimated_fire_area and the mean Count per month. An unknown region or year
// yields two empty aggregates.
func Compute(ds *Dataset, region string, year int) (fireArea, pixelCount MonthlyAggregate) {
	fire := newAccumulator()
	pixels := newAccumulator()

	for _, r := range ds.Records() {
		if r.Region != region {
			continue
		}
		if r.Year != year {
			continue
		}
		fire.add(r.Month, r.EstimatedFireArea)
		pixels.add(r.Month, r.Count)
	}

	return fire.result(MeasureFireArea), pixels.result(MeasurePixelCount)
}

// accumulator groups running sums by month.
type accumulator struct {
	sums   map[string]float64
	counts map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		sums:   make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (a *accumulator) add(month string, v float64) {
	if _, ok := a.counts[month]; !ok {
		a.counts[month] = 0
	}
	if math.IsNaN(v) {
		return
	}
	a.sums[month] += v
	a.counts[month]++
}

func (a *accumulator) result(measure string) MonthlyAggregate {
	months := make([]string, 0, len(a.counts))
	for m := range a.counts {
		months = append(months, m)
	}
	sort.Strings(months)

	entries := make([]MonthValue, 0, len(months))
	for _, m := range months {
		n := a.counts[m]
		v := MonthValue{Month: m, Samples: n}
		if n > 0 {
			v.Value = a.sums[m] / float64(n)
		}
		entries = append(entries, v)
	}
	return MonthlyAggregate{Measure: measure, Entries: entries}
}
