// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	MonthKeyLayout     = "2006-01"
)

// CommonFormats is a list of standard formats to try when parsing dates.
// Day-first slashed dates win over US dates, matching the data provider exports.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using multiple common formats.
// Returns the parsed time (UTC calendar date) and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return DateOnly(t), format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// DateOnly drops the clock and location, keeping the calendar date as seen in
// the value's own location.
func DateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// CompareDates compares the calendar dates of two times and returns:
//
//	-1 if date1 is before date2
//	 0 if date1 is equal to date2
//	 1 if date1 is after date2
func CompareDates(date1, date2 time.Time) int {
	d1, d2 := DateOnly(date1), DateOnly(date2)
	switch {
	case d1.Before(d2):
		return -1
	case d1.After(d2):
		return 1
	default:
		return 0
	}
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the calendar month of date as "YYYY-MM".
func MonthKey(date time.Time) string {
	return date.Format(MonthKeyLayout)
}

// MonthRange returns every month key from first to last inclusive. It returns
// nil when last precedes first.
func MonthRange(first, last time.Time) []string {
	start, end := StartOfMonth(first), StartOfMonth(last)
	if end.Before(start) {
		return nil
	}
	var keys []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		keys = append(keys, MonthKey(m))
	}
	return keys
}

// ShiftPeriod returns the period of equal length that ends the day before start.
// It is used to derive the comparison period for revenue change.
func ShiftPeriod(start, end time.Time) (time.Time, time.Time) {
	start, end = DateOnly(start), DateOnly(end)
	days := int(end.Sub(start).Hours()/24) + 1
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))
	return prevStart, prevEnd
}
