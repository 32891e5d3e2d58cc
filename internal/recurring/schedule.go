package recurring

import (
	"errors"
	"time"

	"github.com/adeharia/finance-tracker/internal/core/dates"
)

// ErrInvalidFrequency is returned when the calculator is handed a frequency
// value that upstream validation should have rejected.
var ErrInvalidFrequency = errors.New("invalid frequency")

// NextOccurrence computes the occurrence that follows anchor for the given
// frequency. The result is always strictly after anchor.
//
// Monthly advancement preserves the anchor's day-of-month and clamps to the
// last day of the target month when it is shorter. Because each occurrence
// becomes the anchor for the next call, a clamp compounds: Jan 31 -> Feb 28 ->
// Mar 28, not Mar 31. That is the contract callers rely on, not an accident.
func NextOccurrence(anchor time.Time, frequency Frequency) (time.Time, error) {
	anchor = dates.Day(anchor)

	switch frequency {
	case FrequencyDaily:
		return anchor.AddDate(0, 0, 1), nil
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7), nil
	case FrequencyMonthly:
		return nextMonth(anchor), nil
	case FrequencyYearly:
		return nextYear(anchor), nil
	default:
		return time.Time{}, ErrInvalidFrequency
	}
}

func nextMonth(d time.Time) time.Time {
	// AddDate on the 1st cannot overflow, so month arithmetic stays exact.
	first := dates.New(d.Year(), d.Month(), 1).AddDate(0, 1, 0)

	day := d.Day()
	if last := dates.DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return dates.New(first.Year(), first.Month(), day)
}

func nextYear(d time.Time) time.Time {
	year := d.Year() + 1

	day := d.Day()
	if d.Month() == time.February && day == 29 && dates.DaysInMonth(year, time.February) < 29 {
		day = 28
	}
	return dates.New(year, d.Month(), day)
}
