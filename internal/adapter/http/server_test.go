package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/wildfire-dashboard/internal/adapter/http"
	"github.com/couchcryptid/wildfire-dashboard/internal/chart"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
)

type mockDashboard struct {
	dataset   *domain.Dataset
	readyErr  error
	summaries []domain.Selection
	evaluated []domain.Selection
}

func newMockDashboard(readyErr error) *mockDashboard {
	mk := func(region string, year int, month time.Month, area, count float64) domain.Record {
		return domain.Record{
			Date:   time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			Region: region, EstimatedFireArea: area, Count: count,
			Month: month.String(), Year: year,
		}
	}
	return &mockDashboard{
		readyErr: readyErr,
		dataset: domain.NewDataset([]domain.Record{
			mk("NSW", 2005, time.January, 10, 4),
			mk("NSW", 2005, time.January, 20, 6),
			mk("VI", 2007, time.March, 5, 2),
		}),
	}
}

func (m *mockDashboard) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockDashboard) Summarize(_ context.Context, sel domain.Selection) domain.Report {
	m.summaries = append(m.summaries, sel)
	return domain.NewReport(m.dataset, sel)
}

func (m *mockDashboard) Evaluate(sel domain.Selection) domain.Report {
	m.evaluated = append(m.evaluated, sel)
	return domain.NewReport(m.dataset, sel)
}

func (m *mockDashboard) Years() []int             { return m.dataset.Years() }
func (m *mockDashboard) Regions() []domain.Region { return domain.Regions }

func (m *mockDashboard) DefaultSelection() domain.Selection {
	return domain.Selection{Region: "NSW", Year: 2005}
}

func newTestServer(dash *mockDashboard) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httpadapter.NewServer(":0", dash, chart.Options{Width: 600, Height: 400}, logger, metrics)
	return srv, metrics
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(fmt.Errorf("dataset not loaded")))
	rec := get(t, srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "dataset not loaded", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPageUsesDefaultSelection(t *testing.T) {
	dash := newMockDashboard(nil)
	srv, _ := newTestServer(dash)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, []domain.Selection{{Region: "NSW", Year: 2005}}, dash.summaries)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Australia Wildfire Dashboard</title>")
	assert.Contains(t, body, `value="NSW" checked`)
	assert.Contains(t, body, `<option value="2005" selected>`)
	assert.Contains(t, body, `src="/charts/fire-area.svg?region=NSW&amp;year=2005"`)
	assert.Contains(t, body, `src="/charts/pixel-count.svg?region=NSW&amp;year=2005"`)
	assert.Contains(t, body, "<td>January</td><td>15.00</td><td>5.00</td><td>2</td>")
}

func TestPageHonorsQuery(t *testing.T) {
	dash := newMockDashboard(nil)
	srv, _ := newTestServer(dash)
	rec := get(t, srv, "/?region=VI&year=2007")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Selection{{Region: "VI", Year: 2007}}, dash.summaries)
	assert.Contains(t, rec.Body.String(), `value="VI" checked`)
	assert.Contains(t, rec.Body.String(), "<td>March</td>")
}

func TestPageEmptySelection(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/?region=WA&year=2005")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No records for WA in 2005.")
	assert.NotContains(t, rec.Body.String(), "<table>")
}

func TestPageShowsMonthWithOnlyEmptyCells(t *testing.T) {
	dash := newMockDashboard(nil)
	dash.dataset = domain.NewDataset([]domain.Record{{
		Date:   time.Date(2012, time.May, 3, 0, 0, 0, 0, time.UTC),
		Region: "QL", EstimatedFireArea: math.NaN(), Count: 3,
		Month: "May", Year: 2012,
	}})
	srv, _ := newTestServer(dash)
	rec := get(t, srv, "/?region=QL&year=2012")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>May</td><td>–</td><td>3.00</td><td>1</td>")
}

func TestPageRejectsMalformedYear(t *testing.T) {
	dash := newMockDashboard(nil)
	srv, _ := newTestServer(dash)
	rec := get(t, srv, "/?year=twenty")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dash.summaries)
}

func TestUnknownPathReturns404(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartRoutes(t *testing.T) {
	tests := []struct {
		name   string
		target string
		chart  string
		title  string
	}{
		{"fire area pie", "/charts/fire-area.svg?region=NSW&year=2005", "fire_area", "NSW : Monthly Avg Estimated Fire Area in 2005"},
		{"pixel count bar", "/charts/pixel-count.svg?region=NSW&year=2005", "pixel_count", "NSW : Avg Count of Pixels for Presumed Vegetation Fires in 2005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dash := newMockDashboard(nil)
			srv, metrics := newTestServer(dash)
			rec := get(t, srv, tt.target)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "<svg")
			assert.Contains(t, rec.Body.String(), tt.title)
			assert.Empty(t, dash.summaries, "chart requests must not publish")
			assert.Len(t, dash.evaluated, 1)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ChartRenders.WithLabelValues(tt.chart, "success")))
		})
	}
}

func TestChartEmptySelectionRendersPlaceholder(t *testing.T) {
	srv, metrics := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/charts/fire-area.svg?region=TA&year=1999")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ChartRenders.WithLabelValues("fire_area", "placeholder")))
}

func TestChartRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr string
	}{
		{"missing region", "/charts/pixel-count.svg?year=2005", domain.ErrEmptyRegion.Error()},
		{"non-numeric year", "/charts/pixel-count.svg?region=NSW&year=abc", domain.ErrInvalidYear.Error()},
		{"missing year", "/charts/fire-area.svg?region=NSW", domain.ErrInvalidYear.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(newMockDashboard(nil))
			rec := get(t, srv, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestAggregatesEndpoint(t *testing.T) {
	dash := newMockDashboard(nil)
	srv, _ := newTestServer(dash)
	rec := get(t, srv, "/api/aggregates?region=NSW&year=2005")

	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, map[string]float64{"January": 15}, report.FireArea.Map())
	assert.Equal(t, map[string]float64{"January": 5}, report.PixelCount.Map())
	assert.Equal(t, "NSW : Monthly Avg Estimated Fire Area in 2005", report.FireAreaTitle)
	assert.Len(t, dash.summaries, 1)
}

func TestAggregatesEndpointEmptyResult(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/api/aggregates?region=NSW&year=1850")

	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Empty())
	assert.Zero(t, report.FireArea.Len())
}

func TestYearsEndpoint(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/api/years")

	require.Equal(t, http.StatusOK, rec.Code)

	var years []int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &years))
	assert.Equal(t, []int{2005, 2007}, years)
}

func TestRegionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(newMockDashboard(nil))
	rec := get(t, srv, "/api/regions")

	require.Equal(t, http.StatusOK, rec.Code)

	var regions []domain.Region
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	assert.Equal(t, domain.Regions, regions)
}
