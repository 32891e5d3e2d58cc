package dates

import (
	"time"
)

const Layout = "2006-01-02"

// Day truncates t to a calendar date at UTC midnight. All date columns are
// stored and compared this way so that timezone offsets never split a day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func New(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return Day(time.Now().UTC())
}

// Parse parses a YYYY-MM-DD date string.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the following month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfMonth and EndOfMonth bound a calendar month.
func StartOfMonth(year int, month time.Month) time.Time {
	return New(year, month, 1)
}

func EndOfMonth(year int, month time.Month) time.Time {
	return New(year, month, DaysInMonth(year, month))
}

func StartOfYear(year int) time.Time {
	return New(year, time.January, 1)
}

func EndOfYear(year int) time.Time {
	return New(year, time.December, 31)
}

// MonthsBetween counts whole calendar months from start to end, inclusive of
// both endpoints' months.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()*12 + int(end.Month())) - (start.Year()*12 + int(start.Month())) + 1
	if months < 1 {
		return 1
	}
	return months
}
