package domain

import (
	"slices"
	"sort"
	"time"
)

// Region is a dataset region code with its display name.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Regions lists the region codes offered by the region selector, in display order.
var Regions = []Region{
	{Code: "NSW", Name: "New South Wales"},
	{Code: "QL", Name: "Queensland"},
	{Code: "SA", Name: "South Australia"},
	{Code: "TA", Name: "Tasmania"},
	{Code: "VI", Name: "Victoria"},
	{Code: "WA", Name: "Western Australia"},
}

// RawRecord is one decoded CSV row before any field is derived.
// Measures are NaN when the cell was empty or not numeric.
type RawRecord struct {
	Line              int // 1-based CSV line, header included
	Date              string
	Region            string
	EstimatedFireArea float64
	Count             float64
}

// Record is a dataset row with Month and Year derived from Date at load time.
type Record struct {
	Date              time.Time `json:"date"`
	Region            string    `json:"region"`
	EstimatedFireArea float64   `json:"estimated_fire_area"`
	Count             float64   `json:"count"`

	Month string `json:"month"`
	Year  int    `json:"year"`
}

// Dataset is the loaded, read-only set of records. It is never mutated after
// NewDataset returns and is safe for concurrent readers.
type Dataset struct {
	records []Record
	years   []int
	regions []string
}

// NewDataset takes ownership of records and indexes the distinct years and regions.
func NewDataset(records []Record) *Dataset {
	yearSet := make(map[int]struct{})
	regionSet := make(map[string]struct{})
	for _, r := range records {
		yearSet[r.Year] = struct{}{}
		regionSet[r.Region] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	return &Dataset{records: records, years: years, regions: regions}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the underlying records. Callers must not modify them.
func (d *Dataset) Records() []Record { return d.records }

// Years returns the distinct years present, ascending.
func (d *Dataset) Years() []int { return slices.Clone(d.years) }

// Regions returns the distinct region codes present, sorted.
func (d *Dataset) Regions() []string { return slices.Clone(d.regions) }

// HasYear reports whether any record falls in year.
func (d *Dataset) HasYear(year int) bool {
	_, found := slices.BinarySearch(d.years, year)
	return found
}
