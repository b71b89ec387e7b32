package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthsAgo(t *testing.T) {
	loc := time.UTC

	testCases := []struct {
		name     string
		from     time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "same month",
			from:     time.Date(2026, time.March, 15, 10, 30, 0, 0, loc),
			months:   0,
			expected: time.Date(2026, time.March, 1, 0, 0, 0, 0, loc),
		},
		{
			name:     "previous month",
			from:     time.Date(2026, time.March, 15, 0, 0, 0, 0, loc),
			months:   1,
			expected: time.Date(2026, time.February, 1, 0, 0, 0, 0, loc),
		},
		{
			name:     "december rollover",
			from:     time.Date(2026, time.February, 28, 0, 0, 0, 0, loc),
			months:   2,
			expected: time.Date(2025, time.December, 1, 0, 0, 0, 0, loc),
		},
		{
			name:     "full year back",
			from:     time.Date(2026, time.January, 1, 0, 0, 0, 0, loc),
			months:   12,
			expected: time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
		},
		{
			name:     "from day 31 never overflows",
			from:     time.Date(2026, time.March, 31, 0, 0, 0, 0, loc),
			months:   1,
			expected: time.Date(2026, time.February, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, monthsAgo(tc.from, tc.months))
		})
	}
}

func TestEndOfMonth(t *testing.T) {
	loc := time.UTC

	testCases := []struct {
		name    string
		in      time.Time
		lastDay int
	}{
		{"january", time.Date(2026, time.January, 10, 0, 0, 0, 0, loc), 31},
		{"february non-leap", time.Date(2026, time.February, 1, 0, 0, 0, 0, loc), 28},
		{"february leap", time.Date(2028, time.February, 15, 0, 0, 0, 0, loc), 29},
		{"april", time.Date(2026, time.April, 30, 0, 0, 0, 0, loc), 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			end := endOfMonth(tc.in)
			assert.Equal(t, tc.lastDay, end.Day())
			assert.Equal(t, tc.in.Month(), end.Month())
		})
	}
}

func TestWeekWindow(t *testing.T) {
	today := time.Date(2026, time.August, 29, 14, 0, 0, 0, time.UTC)

	start, end := weekWindow(today, 0)
	assert.Equal(t, "2026-08-29", dayKey(end))
	assert.Equal(t, "2026-08-23", dayKey(start))

	start, end = weekWindow(today, 1)
	assert.Equal(t, "2026-08-22", dayKey(end))
	assert.Equal(t, "2026-08-16", dayKey(start))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-01", monthKey(2026, time.January))
	assert.Equal(t, "2025-12", monthKey(2025, time.December))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "January 2026", monthLabel(2026, time.January))
}
