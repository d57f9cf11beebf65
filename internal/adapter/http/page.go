package http

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
   <meta charset="UTF-8"/>
   <title>Australia Wildfire Dashboard</title>
   <style>
      body {
         font-family: Arial, sans-serif;
         margin: 0 auto;
         max-width: 1280px;
         padding: 20px;
      }
      h1 {
         text-align: center;
         color: #503D36;
         font-size: 26px;
      }
      .selector {
         padding: 10px;
         display: flex;
         align-items: center;
      }
      .selector h2 {
         margin-right: 2em;
         font-size: 1.2em;
      }
      .selector label {
         margin-right: 1em;
      }
      .plot {
         width: 48%;
         display: inline-block;
         padding: 10px;
         vertical-align: top;
      }
      .plot img {
         max-width: 100%;
      }
      table {
         border-collapse: collapse;
         margin: 10px;
      }
      th, td {
         border: 1px solid #ddd;
         padding: 4px 10px;
         text-align: right;
      }
      th:first-child, td:first-child {
         text-align: left;
      }
      .empty {
         color: #888;
         padding: 10px;
      }
   </style>
</head>
<body>
   <h1>Australia Wildfire Dashboard</h1>

   <form method="get" action="/" id="selection">
      <div class="selector">
         <h2>Select Region:</h2>
         {{ range .Regions }}
         <label title="{{ .Name }}">
            <input type="radio" name="region" value="{{ .Code }}" {{ if .Selected }}checked{{ end }} onchange="this.form.submit()"> {{ .Code }}
         </label>
         {{ end }}
      </div>

      <div class="selector">
         <h2>Select Year:</h2>
         <select name="year" onchange="this.form.submit()">
            {{ range .Years }}
            <option value="{{ .Year }}" {{ if .Selected }}selected{{ end }}>{{ .Year }}</option>
            {{ end }}
         </select>
         <noscript><button type="submit">Show</button></noscript>
      </div>
   </form>

   <div>
      <div class="plot" id="plot1">
         <img src="{{ .FireAreaSrc }}" alt="{{ .Report.FireAreaTitle }}">
      </div>
      <div class="plot" id="plot2">
         <img src="{{ .PixelCountSrc }}" alt="{{ .Report.PixelCountTitle }}">
      </div>
   </div>

   {{ if .Rows }}
   <table>
      <tr><th>Month</th><th>Avg Estimated Fire Area (km²)</th><th>Avg Pixel Count</th><th>Days</th></tr>
      {{ range .Rows }}
      <tr><td>{{ .Month }}</td><td>{{ .FireArea }}</td><td>{{ .PixelCount }}</td><td>{{ .Samples }}</td></tr>
      {{ end }}
   </table>
   {{ else }}
   <p class="empty">No records for {{ .Report.Selection.Region }} in {{ .Report.Selection.Year }}.</p>
   {{ end }}
</body>
</html>
`))

type pageData struct {
	Regions []regionOption
	Years   []yearOption
	Report  domain.Report
	Rows    []monthRow

	FireAreaSrc   template.URL
	PixelCountSrc template.URL
}

type regionOption struct {
	domain.Region
	Selected bool
}

type yearOption struct {
	Year     int
	Selected bool
}

type monthRow struct {
	Month      string
	FireArea   string
	PixelCount string
	Samples    int
}

func newPageData(regions []domain.Region, years []int, report domain.Report) pageData {
	sel := report.Selection

	query := selectionQuery(sel)
	data := pageData{
		Report:        report,
		FireAreaSrc:   template.URL(routeFireAreaChart + "?" + query),   //nolint:gosec // query built by url.Values.Encode
		PixelCountSrc: template.URL(routePixelCountChart + "?" + query), //nolint:gosec // query built by url.Values.Encode
	}
	for _, r := range regions {
		data.Regions = append(data.Regions, regionOption{Region: r, Selected: r.Code == sel.Region})
	}
	for _, y := range years {
		data.Years = append(data.Years, yearOption{Year: y, Selected: y == sel.Year})
	}

	fire := report.FireArea.Map()
	pixels := report.PixelCount.Map()
	samples := make(map[string]int)
	for _, agg := range []domain.MonthlyAggregate{report.FireArea, report.PixelCount} {
		for _, e := range agg.Entries {
			samples[e.Month] = max(samples[e.Month], e.Samples)
		}
	}

	for _, month := range calendarMonths(report.FireArea, report.PixelCount) {
		data.Rows = append(data.Rows, monthRow{
			Month:      month,
			FireArea:   formatValue(fire, month),
			PixelCount: formatValue(pixels, month),
			Samples:    samples[month],
		})
	}
	return data
}

func selectionQuery(sel domain.Selection) string {
	return url.Values{
		"region": {sel.Region},
		"year":   {strconv.Itoa(sel.Year)},
	}.Encode()
}

// calendarMonths returns the months listed in either aggregate, January first.
func calendarMonths(aggs ...domain.MonthlyAggregate) []string {
	present := make(map[string]bool)
	for _, agg := range aggs {
		for _, e := range agg.Entries {
			present[e.Month] = true
		}
	}

	var months []string
	for mo := time.January; mo <= time.December; mo++ {
		if present[mo.String()] {
			months = append(months, mo.String())
		}
	}
	return months
}

func formatValue(values map[string]float64, month string) string {
	v, ok := values[month]
	if !ok {
		return "–"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
