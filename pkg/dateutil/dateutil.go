package dateutil

import (
	"time"
)

// MonthStart returns midnight UTC on the first day of the month containing date.
// Projection timelines are month-grained, so every point a simulation emits is
// normalized through this function.
func MonthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// YearStart returns midnight UTC on January 1 of the given year.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// MonthsBetween calculates the number of calendar months from one date to
// another, ignoring the day of month: January 31 to February 1 is one month.
// The result is negative when to precedes from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WithinMonths reports whether date falls inside the inclusive month range
// [start, end]. Bounds are compared at month precision and a nil bound leaves
// that side of the range open.
func WithinMonths(date time.Time, start, end *time.Time) bool {
	if start != nil && MonthsBetween(*start, date) < 0 {
		return false
	}
	if end != nil && MonthsBetween(date, *end) < 0 {
		return false
	}
	return true
}
