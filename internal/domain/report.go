package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrEmptyRegion is returned when a selection names no region.
	ErrEmptyRegion = errors.New("region must not be empty")
	// ErrInvalidYear is returned when a selection year is not an integer.
	ErrInvalidYear = errors.New("year must be an integer")
)

// Selection is a user's region/year choice. It is re-created per request.
type Selection struct {
	Region string `json:"region"`
	Year   int    `json:"year"`
}

// ParseSelection validates raw region and year input. The region is not
// checked against Regions; an unknown code simply matches no records.
func ParseSelection(region, year string) (Selection, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return Selection{}, ErrEmptyRegion
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidYear, year)
	}
	return Selection{Region: region, Year: y}, nil
}

// Key identifies the selection, e.g. "NSW-2005".
func (s Selection) Key() string {
	return fmt.Sprintf("%s-%d", s.Region, s.Year)
}

// FireAreaTitle is the pie chart title for the selection.
func (s Selection) FireAreaTitle() string {
	return fmt.Sprintf("%s : Monthly Avg Estimated Fire Area in %d", s.Region, s.Year)
}

// PixelCountTitle is the bar chart title for the selection.
func (s Selection) PixelCountTitle() string {
	return fmt.Sprintf("%s : Avg Count of Pixels for Presumed Vegetation Fires in %d", s.Region, s.Year)
}

// Report bundles both monthly aggregates for a selection.
type Report struct {
	Selection       Selection        `json:"selection"`
	Records         int              `json:"records"`
	FireArea        MonthlyAggregate `json:"fire_area"`
	PixelCount      MonthlyAggregate `json:"pixel_count"`
	FireAreaTitle   string           `json:"fire_area_title"`
	PixelCountTitle string           `json:"pixel_count_title"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// Empty reports whether no record matched the selection.
func (r Report) Empty() bool { return r.Records == 0 }

// NewReport runs Compute for sel and stamps the result.
func NewReport(ds *Dataset, sel Selection) Report {
	fireArea, pixelCount := Compute(ds, sel.Region, sel.Year)

	return Report{
		Selection:       sel,
		Records:         countMatches(ds, sel),
		FireArea:        fireArea,
		PixelCount:      pixelCount,
		FireAreaTitle:   sel.FireAreaTitle(),
		PixelCountTitle: sel.PixelCountTitle(),
		GeneratedAt:     clock.Now().UTC(),
	}
}

func countMatches(ds *Dataset, sel Selection) int {
	n := 0
	for _, r := range ds.Records() {
		if r.Region == sel.Region && r.Year == sel.Year {
			n++
		}
	}
	return n
}
