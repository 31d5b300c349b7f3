package dateutil

import (
	"fmt"
	"time"
)

// APITimestampLayout is the timestamp format the attendance API expects:
// seconds precision with an explicit numeric UTC offset, no fractional seconds.
// Example: 2025-01-15T07:03:12+01:00
const APITimestampLayout = "2006-01-02T15:04:05-07:00"

// DateLayout is the calendar-date format accepted on the command line.
const DateLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// NextDay returns the start of the day following the given date
func NextDay(date time.Time) time.Time {
	return StartOfDay(date).AddDate(0, 0, 1)
}

// ISOWeekday returns the ISO 8601 weekday number (Monday=1 .. Sunday=7)
func ISOWeekday(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return weekday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	return ISOWeekday(date) > 5
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// FormatAPITimestamp formats a timestamp the way the attendance API expects
func FormatAPITimestamp(t time.Time) string {
	return t.Format(APITimestampLayout)
}

// ParseDate parses a calendar date in YYYY-MM-DD form in the local timezone
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}
	return t, nil
}

// ParseAPITimestamp parses a timestamp returned by the attendance API.
// The service is not strict about the offset form, so a few layouts are tried.
func ParseAPITimestamp(value string) (time.Time, error) {
	layouts := []string{
		APITimestampLayout,
		"2006-01-02T15:04:05.000-07:00",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", value)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
