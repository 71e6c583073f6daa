package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the layout used for every calendar date the engine reads or writes.
const ISODate = "2006-01-02"

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly strips the clock portion of t, keeping its calendar day.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. RFC 3339 timestamps are accepted and truncated.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(ISODate, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOnly(t), nil
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// ClampedDate returns day in the given month, or the month's last day when day exceeds it.
func ClampedDate(year int, month time.Month, day int) time.Time {
	// normalise month overflow (e.g. month 13) before clamping
	first := Date(year, month, 1)
	if dim := DaysInMonth(first.Year(), first.Month()); day > dim {
		day = dim
	}
	return Date(first.Year(), first.Month(), day)
}

// AddMonths adds calendar months to date, clamping the day to the target month's
// length instead of overflowing into the next month (Jan 31 + 1 = Feb 28).
func AddMonths(date time.Time, months int) time.Time {
	return ClampedDate(date.Year(), date.Month()+time.Month(months), date.Day())
}

// AddYears adds years to date with the same clamping as AddMonths (Feb 29 + 1 = Feb 28).
func AddYears(date time.Time, years int) time.Time {
	return AddMonths(date, years*12)
}

// DaysBetween returns the whole calendar days from a to b (negative when b precedes a).
func DaysBetween(a, b time.Time) int {
	a, b = DateOnly(a), DateOnly(b)
	return int(b.Sub(a).Hours() / 24)
}

// MonthsBetween returns calendar months from the month of a to the month of b, ignoring days.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// MaxDate returns the later of a and b.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
