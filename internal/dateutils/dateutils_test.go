package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		dateStr     string
		expectedOk  bool
		expectedY   int
		expectedM   time.Month
		expectedD   int
		expectedFmt string
	}{
		{"ISO format", "2023-01-15", true, 2023, time.January, 15, DateLayoutISO},
		{"European format", "15.01.2023", true, 2023, time.January, 15, DateLayoutEuropean},
		{"Day-first slashes", "15/01/2023", true, 2023, time.January, 15, "02/01/2006"},
		{"Dash-separated EU", "15-01-2023", true, 2023, time.January, 15, "02-01-2006"},
		{"Full timestamp", "2023-01-15 10:30:45", true, 2023, time.January, 15, DateLayoutFull},
		{"RFC3339", "2023-01-15T10:30:45Z", true, 2023, time.January, 15, time.RFC3339},
		{"Extra whitespace", "  2023-01-15 ", true, 2023, time.January, 15, DateLayoutISO},
		{"Empty string", "", false, 0, 0, 0, ""},
		{"Invalid format", "not a date", false, 0, 0, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, format, err := ParseDate(tc.dateStr)

			if tc.expectedOk {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedY, date.Year())
				assert.Equal(t, tc.expectedM, date.Month())
				assert.Equal(t, tc.expectedD, date.Day())
				assert.Equal(t, 0, date.Hour())
				assert.Equal(t, tc.expectedFmt, format)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCompareDates(t *testing.T) {
	date1 := time.Date(2023, time.January, 15, 10, 30, 0, 0, time.UTC)
	date2 := time.Date(2023, time.January, 15, 15, 45, 0, 0, time.UTC)
	date3 := time.Date(2023, time.January, 16, 10, 30, 0, 0, time.UTC)
	date4 := time.Date(2023, time.February, 15, 10, 30, 0, 0, time.UTC)
	date5 := time.Date(2022, time.January, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date1    time.Time
		date2    time.Time
		expected int
	}{
		{"Same day, different time", date1, date2, 0},
		{"Next day", date1, date3, -1},
		{"Previous day", date3, date1, 1},
		{"Next month", date1, date4, -1},
		{"Previous year", date5, date1, -1},
		{"Equal dates", date1, date1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CompareDates(tc.date1, tc.date2))
		})
	}
}

func TestStartOfMonth(t *testing.T) {
	leap := time.Date(2024, time.February, 17, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(leap))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-01", MonthKey(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMonthRange(t *testing.T) {
	first := time.Date(2023, time.November, 20, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, MonthRange(first, last))
	assert.Equal(t, []string{"2023-11"}, MonthRange(first, first))
	assert.Nil(t, MonthRange(last, first))
}

func TestShiftPeriod(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	prevStart, prevEnd := ShiftPeriod(start, end)
	assert.Equal(t, time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC), prevStart)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), prevEnd)

	day := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	prevStart, prevEnd = ShiftPeriod(day, day)
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), prevStart)
	assert.Equal(t, prevStart, prevEnd)
}
