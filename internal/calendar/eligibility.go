package calendar

import (
	"time"

	"github.com/username/attendance-bot/pkg/dateutil"
)

// SkipReason explains why a date is not a working day
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipWeekend
	SkipHoliday
	SkipVacation
	SkipSickLeave
)

func (r SkipReason) String() string {
	switch r {
	case SkipWeekend:
		return "weekend"
	case SkipHoliday:
		return "holiday"
	case SkipVacation:
		return "vacation"
	case SkipSickLeave:
		return "sick leave"
	default:
		return "none"
	}
}

// IsWorkday reports whether attendance should be registered on the given
// date, and the reason when it should not. Pure: the answer depends only
// on the date and the loaded calendar.
func (c *Config) IsWorkday(date time.Time) (bool, SkipReason) {
	if dateutil.IsWeekend(date) {
		return false, SkipWeekend
	}
	if c.IsHoliday(date) {
		return false, SkipHoliday
	}
	if c.OnVacation(date) {
		return false, SkipVacation
	}
	if c.OnSickLeave(date) {
		return false, SkipSickLeave
	}
	return true, SkipNone
}
