package util

import "time"

// Reports whether a and b fall on the same calendar day, each read in its own location
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Returns midnight on the first day of the month of t
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Moves t by n whole calendar months and returns the first day of that month.
// Normalising to the 1st keeps the result independent of the month lengths.
func AddMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// Returns the number of days in the given month. Day 0 of the following month
// is normalised by the time package to the last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
