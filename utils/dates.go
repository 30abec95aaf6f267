package utils

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// DaysInWeek is the number of days in a plan week.
const DaysInWeek = 7

// WeekdayNames holds display names indexed by plan weekday (0 = Monday).
var WeekdayNames = [DaysInWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TruncateToDayUTC returns midnight UTC of the calendar day t falls on in UTC.
func TruncateToDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex maps t to a plan weekday index where Monday is 0 and Sunday is 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.UTC().Weekday()) + 6) % DaysInWeek
}

// IsValidWeekday reports whether wd is a plan weekday index.
func IsValidWeekday(wd int) bool {
	return wd >= 0 && wd < DaysInWeek
}

// WeekStartUTC returns the Monday (UTC midnight) of the ISO week containing t.
func WeekStartUTC(t time.Time) time.Time {
	day := TruncateToDayUTC(t)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// WeekDatesUTC returns the seven ISO dates, Monday first, of the week containing t.
func WeekDatesUTC(t time.Time) []string {
	start := WeekStartUTC(t)
	dates := make([]string, DaysInWeek)
	for i := range dates {
		dates[i] = FormatISODate(start.AddDate(0, 0, i))
	}
	return dates
}

// AnchorDateUTC returns the date of the anchor weekday inside the week containing t.
// Out-of-range anchors fall back to Monday so the result never leaves the week.
func AnchorDateUTC(t time.Time, anchorWeekday int) time.Time {
	if !IsValidWeekday(anchorWeekday) {
		anchorWeekday = 0
	}
	return WeekStartUTC(t).AddDate(0, 0, anchorWeekday)
}

// FormatISODate formats t as YYYY-MM-DD in UTC.
func FormatISODate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseISODate parses a YYYY-MM-DD date as UTC midnight.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO date '%s': %w", s, err)
	}
	return t, nil
}

// ParseWeekStart parses s and checks it is a Monday. An empty s yields the week containing now.
func ParseWeekStart(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return WeekStartUTC(now), nil
	}
	t, err := ParseISODate(s)
	if err != nil {
		return time.Time{}, err
	}
	if WeekdayIndex(t) != 0 {
		return time.Time{}, fmt.Errorf("week start '%s' is not a Monday", s)
	}
	return t, nil
}
