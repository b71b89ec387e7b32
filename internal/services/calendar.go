package services

import (
	"fmt"
	"time"
)

// Calendar helpers for the aggregation engine. All windows are computed with
// explicit calendar arithmetic in the server's local time zone; month
// subtraction never relies on AddDate's day-overflow normalization.

// startOfDay truncates t to midnight local time.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfMonth returns the first instant of t's calendar month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthsAgo returns the first instant of the calendar month i months before
// t's month. i=0 is t's own month; December rollover is handled by counting
// in whole months from year zero.
func monthsAgo(t time.Time, i int) time.Time {
	months := t.Year()*12 + int(t.Month()) - 1 - i
	year := months / 12
	month := time.Month(months%12 + 1)
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// endOfMonth returns the last instant of t's calendar month usable as an
// inclusive upper bound.
func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// monthKey formats a month as YYYY-MM.
func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// monthLabel formats a month as "January 2026".
func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String(), year)
}

// dayKey formats a day as YYYY-MM-DD.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// weekWindow returns the inclusive [start, end] day bounds of the 7-day window
// i weeks back, where window 0 ends today.
func weekWindow(today time.Time, i int) (time.Time, time.Time) {
	end := startOfDay(today).AddDate(0, 0, -7*i)
	start := end.AddDate(0, 0, -6)
	return start, end
}
