package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
)

const (
	colDate   = "Date"
	colRegion = "Region"
)

// columnTypes pins the columns the dashboard reads. Everything else loads as string.
var columnTypes = map[string]series.Type{
	colDate:                  series.String,
	colRegion:                series.String,
	domain.MeasureFireArea:   series.Float,
	domain.MeasurePixelCount: series.Float,
}

// ParseCSV decodes a wildfire CSV into raw records. A missing required column
// is an error; empty or non-numeric measure cells decode as NaN.
func ParseCSV(r io.Reader) ([]domain.RawRecord, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	if missing := missingColumns(df.Names()); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	dates := df.Col(colDate).Records()
	regions := df.Col(colRegion).Records()
	areas := df.Col(domain.MeasureFireArea).Float()
	counts := df.Col(domain.MeasurePixelCount).Float()

	records := make([]domain.RawRecord, df.Nrow())
	for i := range records {
		records[i] = domain.RawRecord{
			Line:              i + 2,
			Date:              dates[i],
			Region:            regions[i],
			EstimatedFireArea: areas[i],
			Count:             counts[i],
		}
	}
	return records, nil
}

func missingColumns(names []string) []string {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}

	var missing []string
	for _, want := range []string{colDate, colRegion, domain.MeasureFireArea, domain.MeasurePixelCount} {
		if !have[want] {
			missing = append(missing, want)
		}
	}
	return missing
}
