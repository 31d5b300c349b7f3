package dateutil

import (
	"strings"
	"testing"
	"time"
)

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"Monday", time.Date(2024, time.December, 23, 0, 0, 0, 0, time.UTC), 1},
		{"Friday", time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC), 5},
		{"Saturday", time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC), 6},
		{"Sunday", time.Date(2024, time.December, 22, 0, 0, 0, 0, time.UTC), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekday(tt.date); got != tt.want {
				t.Errorf("ISOWeekday(%s) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, time.December, 23, 0, 0, 0, 0, time.UTC)

	if !IsWeekend(saturday) {
		t.Error("Saturday should be a weekend")
	}
	if IsWeekend(monday) {
		t.Error("Monday should not be a weekend")
	}
}

func TestStartOfDayAndNextDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	moment := time.Date(2024, time.March, 5, 17, 42, 13, 500, loc)

	start := StartOfDay(moment)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Errorf("StartOfDay() = %v, want midnight", start)
	}
	if start.Location() != loc {
		t.Errorf("StartOfDay() changed location to %v", start.Location())
	}

	next := NextDay(moment)
	if next.Day() != 6 || next.Hour() != 0 {
		t.Errorf("NextDay() = %v, want March 6 midnight", next)
	}
}

func TestFormatAPITimestamp(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2025, time.January, 15, 7, 3, 12, 999999999, loc)

	got := FormatAPITimestamp(ts)
	want := "2025-01-15T07:03:12+01:00"

	if got != want {
		t.Errorf("FormatAPITimestamp() = %q, want %q", got, want)
	}
	if strings.Contains(got, "Z") {
		t.Errorf("timestamp %q must use a numeric offset, not Z", got)
	}
	if strings.Contains(got, ".") {
		t.Errorf("timestamp %q must not carry fractional seconds", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2024-12-24", false},
		{"2024-2-3", true}, // zero padding required
		{"24.12.2024", true},
		{"2024-13-01", true},
		{"not-a-date", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.Location() != time.Local {
				t.Errorf("ParseDate(%q) location = %v, want local", tt.input, got.Location())
			}
		})
	}
}

func TestParseAPITimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric offset", "2025-01-15T07:03:12+01:00", false},
		{"milliseconds", "2025-01-15T07:03:12.000+01:00", false},
		{"zulu", "2025-01-15T07:03:12Z", false},
		{"no offset", "2025-01-15T07:03:12", false},
		{"garbage", "yesterday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAPITimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAPITimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.Year() != 2025 {
				t.Errorf("ParseAPITimestamp(%q) year = %d, want 2025", tt.input, got.Year())
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2024, time.March, 5, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)

	if !IsSameDay(a, b) {
		t.Error("same calendar day should match")
	}
	if IsSameDay(b, c) {
		t.Error("different days should not match")
	}
}
