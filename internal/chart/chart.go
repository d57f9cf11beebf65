// Package chart renders monthly aggregates as SVG pie and bar charts.
package chart

import (
	"fmt"
	"html"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
)

// Options controls chart dimensions in pixels.
type Options struct {
	Width  int
	Height int
}

// Outcome describes what a render call wrote.
type Outcome string

const (
	Rendered    Outcome = "success"
	Placeholder Outcome = "placeholder"
)

// Pie writes a pie chart with one slice per month, in calendar order.
// Aggregates without a positive value render a "No data" placeholder,
// since a pie of zeros has no geometry.
func Pie(w io.Writer, title string, agg domain.MonthlyAggregate, opts Options) (Outcome, error) {
	values := toValues(agg)
	if maxValue(values) <= 0 {
		return Placeholder, placeholder(w, title, opts)
	}

	pie := gochart.PieChart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	if err := pie.Render(gochart.SVG, w); err != nil {
		return "", fmt.Errorf("render pie chart: %w", err)
	}
	return Rendered, nil
}

// Bar writes a bar chart with one bar per month, in calendar order. Only an
// aggregate without entries renders the placeholder.
func Bar(w io.Writer, title string, agg domain.MonthlyAggregate, opts Options) (Outcome, error) {
	values := toValues(agg)
	if len(values) == 0 {
		return Placeholder, placeholder(w, title, opts)
	}
	// An all-zero series still has bars to draw; go-chart needs a non-empty range.
	top := maxValue(values) * 1.1
	if top <= 0 {
		top = 1
	}

	bar := gochart.BarChart{
		Title: title,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: barWidth(len(values), opts.Width),
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: values,
	}
	if err := bar.Render(gochart.SVG, w); err != nil {
		return "", fmt.Errorf("render bar chart: %w", err)
	}
	return Rendered, nil
}

// toValues skips missing months; they have no value to draw.
func toValues(agg domain.MonthlyAggregate) []gochart.Value {
	cal := agg.Calendar()
	values := make([]gochart.Value, 0, cal.Len())
	for _, e := range cal.Entries {
		if e.Missing() {
			continue
		}
		values = append(values, gochart.Value{Label: e.Month, Value: e.Value})
	}
	return values
}

func maxValue(values []gochart.Value) float64 {
	top := math.Inf(-1)
	for _, v := range values {
		top = math.Max(top, v.Value)
	}
	return top
}

// barWidth fits up to twelve bars with gaps into the plot area.
func barWidth(bars, width int) int {
	if bars == 0 {
		return 0
	}
	w := (width - 120) / (bars * 2)
	return max(8, min(w, 60))
}

// placeholder writes a minimal SVG carrying the title and a "No data" note.
// go-chart refuses to render empty series, so this is drawn by hand.
func placeholder(w io.Writer, title string, opts Options) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="50%%" y="28" text-anchor="middle" font-family="Arial, sans-serif" font-size="15" fill="#333333">%s</text>`+
			`<text x="50%%" y="50%%" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="#888888">No data</text>`+
			`</svg>`,
		opts.Width, opts.Height, opts.Width, opts.Height, html.EscapeString(title))
	return err
}
