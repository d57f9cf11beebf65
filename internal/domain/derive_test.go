package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	raw := RawRecord{Line: 2, Date: "1/4/2005", Region: " NSW ", EstimatedFireArea: 8.68, Count: 312}

	r, err := ParseRecord(raw)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2005, time.January, 4, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "NSW", r.Region)
	assert.Equal(t, 8.68, r.EstimatedFireArea)
	assert.Equal(t, 312.0, r.Count)
	assert.Equal(t, "January", r.Month)
	assert.Equal(t, 2005, r.Year)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected time.Time
	}{
		{"month/day/year", "12/31/2019", time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{"single digits", "3/7/2008", time.Date(2008, time.March, 7, 0, 0, 0, 0, time.UTC)},
		{"iso date", "2011-07-15", time.Date(2011, time.July, 15, 0, 0, 0, 0, time.UTC)},
		{"iso datetime", "2011-07-15 06:30:00", time.Date(2011, time.July, 15, 6, 30, 0, 0, time.UTC)},
		{"rfc3339", "2020-02-01T00:00:00Z", time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{"surrounding space", " 2/2/2002 ", time.Date(2002, time.February, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseRecord_InvalidDate(t *testing.T) {
	for _, in := range []string{"", "yesterday", "31/12/2019", "2019-13-01"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRecord(RawRecord{Line: 7, Date: in, Region: "SA"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDate)
			assert.Contains(t, err.Error(), "line 7")
		})
	}
}
