package core

import (
	"fmt"
	"strings"
	"time"
)

// monthNames are the lowercase Indonesian month names used as partition
// key suffixes (orders_januari, ...). Index 0 is January.
var monthNames = [12]string{
	"januari", "februari", "maret", "april", "mei", "juni",
	"juli", "agustus", "september", "oktober", "november", "desember",
}

// MonthName returns the partition name for a 1-based month number.
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("month out of range: %d", month)
	}
	return monthNames[month-1], nil
}

// MonthNames returns all twelve partition names in calendar order.
func MonthNames() []string {
	out := make([]string, len(monthNames))
	copy(out, monthNames[:])
	return out
}

// MonthIndex resolves a partition name back to its 1-based month number.
func MonthIndex(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range monthNames {
		if n == name {
			return i + 1, true
		}
	}
	return 0, false
}

// MonthKey returns the partition name for a date's calendar month.
func MonthKey(t time.Time) string {
	return monthNames[int(t.Month())-1]
}

// PreviousMonth resolves the calendar-previous month, rolling the year
// back when month is January.
func PreviousMonth(year, month int) (int, int) {
	if month <= 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// CountdownDays returns whole days between now and the event date,
// negative once the event has passed. A zero event date yields the 0
// sentinel instead of a huge negative number.
func CountdownDays(event, now time.Time) int {
	if event.IsZero() {
		return 0
	}
	e := time.Date(event.Year(), event.Month(), event.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(n) / (24 * time.Hour))
}
