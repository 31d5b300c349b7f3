package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday(t *testing.T) {
	cfg := &Config{
		Holidays: []MonthDay{
			{Month: time.January, Day: 1},
			{Month: time.December, Day: 25},
		},
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"Christmas 2024", date(2024, time.December, 25), true},
		{"Christmas 1999", date(1999, time.December, 25), true},
		{"New Year any year", date(2030, time.January, 1), true},
		{"Day after Christmas", date(2024, time.December, 26), false},
		{"Same day other month", date(2024, time.November, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.IsHoliday(tt.date); got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestExclusionRange_Contains(t *testing.T) {
	summer := ExclusionRange{
		Start: MonthDay{Month: time.August, Day: 1},
		End:   MonthDay{Month: time.August, Day: 15},
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"inside", date(2024, time.August, 10), true},
		{"start boundary inclusive", date(2024, time.August, 1), true},
		{"end boundary inclusive", date(2024, time.August, 15), true},
		{"day before start", date(2024, time.July, 31), false},
		{"day after end", date(2024, time.August, 16), false},
		{"recurs next year", date(2025, time.August, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summer.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestExclusionRange_SingleYear(t *testing.T) {
	// Dec 19 .. Dec 31: ends inside the year, so January stays outside
	winter := ExclusionRange{
		Start: MonthDay{Month: time.December, Day: 19},
		End:   MonthDay{Month: time.December, Day: 31},
	}

	if !winter.Contains(date(2024, time.December, 20)) {
		t.Error("Dec 20 2024 should be inside the range")
	}
	if winter.Contains(date(2025, time.January, 2)) {
		t.Error("Jan 2 2025 should be outside a range ending Dec 31")
	}
}

func TestExclusionRange_WrapsYearBoundary(t *testing.T) {
	// Dec 19 .. Jan 2: end precedes start, so the range wraps
	wrap := ExclusionRange{
		Start: MonthDay{Month: time.December, Day: 19},
		End:   MonthDay{Month: time.January, Day: 2},
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"tail of December", date(2024, time.December, 20), true},
		{"New Year's Day", date(2025, time.January, 1), true},
		{"wrapped end boundary", date(2025, time.January, 2), true},
		{"day after wrapped end", date(2025, time.January, 3), false},
		{"day before start", date(2024, time.December, 18), false},
		{"mid-year", date(2025, time.June, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrap.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestHoursFor(t *testing.T) {
	cfg := &Config{
		WorkingHours: map[string]WorkingHours{
			DefaultKey: {Start: TimeOfDay{Hour: 7}, End: TimeOfDay{Hour: 15}},
			"Friday":   {Start: TimeOfDay{Hour: 7}, End: TimeOfDay{Hour: 14}},
		},
	}

	// 2024-12-20 is a Friday, 2024-12-23 a Monday
	friday := cfg.HoursFor(date(2024, time.December, 20))
	if friday.End.Hour != 14 {
		t.Errorf("Friday end hour = %d, want 14", friday.End.Hour)
	}

	monday := cfg.HoursFor(date(2024, time.December, 23))
	if monday.End.Hour != 15 {
		t.Errorf("Monday should fall back to default, end hour = %d, want 15", monday.End.Hour)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				WorkingHours: map[string]WorkingHours{
					DefaultKey: {Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 17}},
				},
			},
			wantErr: false,
		},
		{
			name: "missing default entry",
			cfg: Config{
				WorkingHours: map[string]WorkingHours{
					"Monday": {Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 17}},
				},
			},
			wantErr: true,
		},
		{
			name: "hour out of range",
			cfg: Config{
				WorkingHours: map[string]WorkingHours{
					DefaultKey: {Start: TimeOfDay{Hour: 24}, End: TimeOfDay{Hour: 17}},
				},
			},
			wantErr: true,
		},
		{
			name: "invalid holiday day",
			cfg: Config{
				WorkingHours: map[string]WorkingHours{
					DefaultKey: {Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 17}},
				},
				Holidays: []MonthDay{{Month: time.February, Day: 42}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeOfDay_On(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, loc)

	got := TimeOfDay{Hour: 7, Minute: 30}.On(day)
	want := time.Date(2024, time.March, 5, 7, 30, 0, 0, loc)

	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("On() location = %v, want %v", got.Location(), loc)
	}
}
