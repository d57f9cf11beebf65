package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a Date cell matches none of the accepted layouts.
var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order. The published CSV uses the first one.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseRecord converts a raw CSV row into a Record, deriving Month and Year from Date.
func ParseRecord(raw RawRecord) (Record, error) {
	date, err := parseDate(raw.Date)
	if err != nil {
		return Record{}, fmt.Errorf("line %d: %w", raw.Line, err)
	}

	return Record{
		Date:              date,
		Region:            strings.TrimSpace(raw.Region),
		EstimatedFireArea: raw.EstimatedFireArea,
		Count:             raw.Count,
		Month:             date.Month().String(),
		Year:              date.Year(),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
