package health

import (
	"fmt"
	"strconv"
	"time"
)

// ParseWeek splits a YYYY-Www identifier into its year and week number. The
// week must exist in that ISO year, so 2023-W53 is rejected.
func ParseWeek(week string) (year, num int, err error) {
	if len(week) != 8 || week[4] != '-' || week[5] != 'W' ||
		!allDigits(week[:4]) || !allDigits(week[6:]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, week)
	}
	year, _ = strconv.Atoi(week[:4])
	num, _ = strconv.Atoi(week[6:])
	if year < 1 || num < 1 || num > weeksIn(year) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, week)
	}
	return year, num, nil
}

// weeksIn returns 52 or 53; 28 December always falls in the last ISO week.
func weeksIn(year int) int {
	_, n := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return n
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsWeek reports whether week is a well-formed identifier.
func IsWeek(week string) bool {
	_, _, err := ParseWeek(week)
	return err == nil
}

// FormatWeek renders an ISO year and week number as YYYY-Www.
func FormatWeek(year, num int) string {
	return fmt.Sprintf("%04d-W%02d", year, num)
}

// WeekOf returns the ISO week identifier containing t.
func WeekOf(t time.Time) string {
	year, num := t.ISOWeek()
	return FormatWeek(year, num)
}

// WeekYear returns the year part of a week identifier, or "" if malformed.
func WeekYear(week string) string {
	if !IsWeek(week) {
		return ""
	}
	return week[:4]
}
