package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-dashboard/internal/adapter/source"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
	"github.com/couchcryptid/wildfire-dashboard/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	records []domain.RawRecord
	err     error
	calls   int
}

func (m *mockExtractor) Extract(_ context.Context) ([]domain.RawRecord, error) {
	m.calls++
	return m.records, m.err
}

type csvExtractor struct {
	data string
}

func (c csvExtractor) Extract(_ context.Context) ([]domain.RawRecord, error) {
	return source.ParseCSV(strings.NewReader(c.data))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestPipeline_Load_HappyPath(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{
		{Line: 2, Date: "1/4/2005", Region: "NSW", EstimatedFireArea: 8, Count: 3},
		{Line: 3, Date: "2/9/2006", Region: "VI", EstimatedFireArea: 2, Count: 1},
	}}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, pipeline.DeriveCalendarFields, discardLogger(), metrics)
	ds, err := p.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []int{2005, 2006}, ds.Years())

	want := []domain.Record{
		{
			Date: time.Date(2005, time.January, 4, 0, 0, 0, 0, time.UTC), Region: "NSW",
			EstimatedFireArea: 8, Count: 3, Month: "January", Year: 2005,
		},
		{
			Date: time.Date(2006, time.February, 9, 0, 0, 0, 0, time.UTC), Region: "VI",
			EstimatedFireArea: 2, Count: 1, Month: "February", Year: 2006,
		},
	}
	if diff := cmp.Diff(want, ds.Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DatasetRecords))
}

func TestPipeline_Load_ExtractError(t *testing.T) {
	ext := &mockExtractor{err: errors.New("connection refused")}

	p := pipeline.New(ext, pipeline.DeriveCalendarFields, discardLogger(), observability.NewMetricsForTesting())
	_, err := p.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract dataset")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPipeline_Load_BadDateIsFatal(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{
		{Line: 2, Date: "1/4/2005", Region: "NSW"},
		{Line: 3, Date: "not a date", Region: "NSW"},
	}}

	p := pipeline.New(ext, pipeline.DeriveCalendarFields, discardLogger(), observability.NewMetricsForTesting())
	_, err := p.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Contains(t, err.Error(), "line 3")
}

func TestPipeline_Load_Empty(t *testing.T) {
	p := pipeline.New(&mockExtractor{}, pipeline.DeriveCalendarFields, discardLogger(), observability.NewMetricsForTesting())
	_, err := p.Load(context.Background())

	assert.ErrorIs(t, err, pipeline.ErrEmptyDataset)
}

func TestPipeline_Load_CustomTransformer(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{{Line: 2, Date: "1/4/2005", Region: "nsw"}}}
	upper := pipeline.TransformFunc(func(raw domain.RawRecord) (domain.Record, error) {
		raw.Region = strings.ToUpper(raw.Region)
		return domain.ParseRecord(raw)
	})

	p := pipeline.New(ext, upper, discardLogger(), observability.NewMetricsForTesting())
	ds, err := p.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"NSW"}, ds.Regions())
}

// TestPipeline_LoadAndCompute runs a CSV through decode, derive and aggregate.
func TestPipeline_LoadAndCompute(t *testing.T) {
	data := `Region,Date,Estimated_fire_area,Count
NSW,1/4/2005,10,4
NSW,1/20/2005,20,6
NSW,3/1/2005,5,1
NSW,1/4/2006,100,100
SA,1/15/1999,42.5,17
VI,1/4/2005,,9
`
	p := pipeline.New(csvExtractor{data: data}, pipeline.DeriveCalendarFields, discardLogger(), observability.NewMetricsForTesting())
	ds, err := p.Load(context.Background())
	require.NoError(t, err)

	fire, pixels := domain.Compute(ds, "NSW", 2005)
	assert.Equal(t, map[string]float64{"January": 15, "March": 5}, fire.Map())
	assert.Equal(t, map[string]float64{"January": 5, "March": 1}, pixels.Map())

	fire, pixels = domain.Compute(ds, "SA", 1999)
	assert.Equal(t, map[string]float64{"January": 42.5}, fire.Map())
	assert.Equal(t, map[string]float64{"January": 17}, pixels.Map())

	fire, pixels = domain.Compute(ds, "VI", 2005)
	require.Equal(t, 1, fire.Len(), "month with only empty cells keeps its entry")
	assert.True(t, fire.Entries[0].Missing())
	assert.Empty(t, fire.Map())
	assert.Equal(t, map[string]float64{"January": 9}, pixels.Map())
	for _, r := range ds.Records() {
		if r.Region == "VI" {
			assert.True(t, math.IsNaN(r.EstimatedFireArea))
		}
	}

	fire, pixels = domain.Compute(ds, "ZZ", 2005)
	assert.Zero(t, fire.Len())
	assert.Zero(t, pixels.Len())
}
