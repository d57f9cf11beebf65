// Package domain models the historical Australian wildfire dataset and the
// per-selection monthly aggregation behind the dashboard.
//
// # Data Source
//
// Records come from the Historical_Wildfires CSV compiled from satellite
// hotspot detections. Each row summarizes one day of fire activity in one
// region. Only four columns are used:
//
//	Region               region code, e.g. "NSW"
//	Date                 observation day, "M/D/YYYY" in the published file
//	Estimated_fire_area  daily sum of estimated fire area, km²
//	Count                daily number of pixels flagged as presumed vegetation fire
//
// # Region Codes
//
//	NSW New South Wales    QL Queensland    SA South Australia
//	TA  Tasmania           VI Victoria      WA Western Australia
//
// The list drives the region selector only. Selections with any other code
// are valid and simply match nothing.
//
// # Derived Fields
//
// Month (English month name) and Year are derived from Date exactly once, by
// [ParseRecord], when the dataset is loaded. They are never recomputed.
//
// # Aggregation
//
// [Compute] filters by region then year and averages each measure per month.
// Months without matching records are absent rather than zero. NaN cells are
// skipped; a month whose cells for a measure are all NaN keeps an entry with
// Samples 0 (see [MonthValue.Missing]), so both aggregates list the same
// months. Entries come back in lexical month-name order;
// [MonthlyAggregate.Calendar] reorders them January through December.
package domain
