package calendar

import (
	"fmt"
	"time"
)

// DefaultKey is the working-hours map entry used when a weekday has no
// schedule of its own. It must always be present.
const DefaultKey = "default"

// TimeOfDay represents a wall-clock time without a date or timezone
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On combines the time of day with a calendar date, in the date's location
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0..23", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0..59", t.Minute)
	}
	return nil
}

// WorkingHours is the shift window for one weekday
type WorkingHours struct {
	Start TimeOfDay
	End   TimeOfDay
}

// MonthDay is a recurring calendar day without a year (e.g. Dec 25)
type MonthDay struct {
	Month time.Month
	Day   int
}

// Matches reports whether the date falls on this month/day, in any year
func (md MonthDay) Matches(date time.Time) bool {
	return date.Month() == md.Month && date.Day() == md.Day
}

// inYear pins the recurring day to a concrete year, in the given location
func (md MonthDay) inYear(year int, loc *time.Location) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, loc)
}

// before reports whether md falls earlier in the year than other
func (md MonthDay) before(other MonthDay) bool {
	if md.Month != other.Month {
		return md.Month < other.Month
	}
	return md.Day < other.Day
}

// ExclusionRange is a vacation or sick-leave interval that recurs every
// year, inclusive on both ends. A range whose end precedes its start
// (e.g. Dec 19 → Jan 2) wraps over the year boundary.
type ExclusionRange struct {
	Start MonthDay
	End   MonthDay
}

// Contains reports whether the date falls inside the range evaluated for
// the date's own year.
func (r ExclusionRange) Contains(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	loc := date.Location()

	start := r.Start.inYear(day.Year(), loc)
	end := r.End.inYear(day.Year(), loc)

	if !end.Before(start) {
		return !day.Before(start) && !day.After(end)
	}

	// Wrapping range: the tail reaches into the next year, so a date
	// matches either [start, end-of-year] or [start-of-previous-year, end].
	endNextYear := r.End.inYear(day.Year()+1, loc)
	if !day.Before(start) && !day.After(endNextYear) {
		return true
	}
	startPrevYear := r.Start.inYear(day.Year()-1, loc)
	return !day.Before(startPrevYear) && !day.After(end)
}

// Config is the full working-day calendar: per-weekday shift windows with
// a default fallback, recurring holidays, and recurring exclusion ranges.
// Immutable after Load; shared read-only by every component.
type Config struct {
	WorkingHours map[string]WorkingHours
	Holidays     []MonthDay
	Vacations    []ExclusionRange
	SickLeaves   []ExclusionRange
}

// Validate checks the invariants that must hold before any day can be
// evaluated. A missing "default" working-hours entry is fatal here, not
// per-day.
func (c *Config) Validate() error {
	if _, ok := c.WorkingHours[DefaultKey]; !ok {
		return fmt.Errorf("working hours must contain a %q entry", DefaultKey)
	}

	for name, hours := range c.WorkingHours {
		if err := hours.Start.validate(); err != nil {
			return fmt.Errorf("working hours %q start: %w", name, err)
		}
		if err := hours.End.validate(); err != nil {
			return fmt.Errorf("working hours %q end: %w", name, err)
		}
	}

	for i, h := range c.Holidays {
		if h.Month < time.January || h.Month > time.December || h.Day < 1 || h.Day > 31 {
			return fmt.Errorf("holiday %d: invalid month/day %d-%d", i, h.Month, h.Day)
		}
	}

	return nil
}

// IsHoliday reports whether the date matches any fixed holiday by month
// and day, regardless of year.
func (c *Config) IsHoliday(date time.Time) bool {
	for _, holiday := range c.Holidays {
		if holiday.Matches(date) {
			return true
		}
	}
	return false
}

// OnVacation reports whether the date falls inside any vacation range
func (c *Config) OnVacation(date time.Time) bool {
	return inExclusionRange(date, c.Vacations)
}

// OnSickLeave reports whether the date falls inside any sick-leave range
func (c *Config) OnSickLeave(date time.Time) bool {
	return inExclusionRange(date, c.SickLeaves)
}

// HoursFor returns the shift window for the date's weekday, falling back
// to the "default" entry. Validate guarantees the fallback exists.
func (c *Config) HoursFor(date time.Time) WorkingHours {
	if hours, ok := c.WorkingHours[date.Weekday().String()]; ok {
		return hours
	}
	return c.WorkingHours[DefaultKey]
}

func inExclusionRange(date time.Time, ranges []ExclusionRange) bool {
	for _, r := range ranges {
		if r.Contains(date) {
			return true
		}
	}
	return false
}
