package utils

import (
	"fmt"
	"time"

	"scooter-rent-backend/internal/domain"
)

// DateOnly drops the clock part of t, keeping its calendar date, in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate converts a yyyy-mm-dd formatted string into a UTC date.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected yyyy-mm-dd", domain.ErrValidation, dateStr)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// Weekday returns the ISO-style weekday index with Monday = 0 and Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func IsFriday(t time.Time) bool {
	return t.Weekday() == time.Friday
}

// FirstDueDate returns the first Friday due date for an anchor. An anchor on
// Monday through Friday lands on the Friday of the following week; Saturday
// and Sunday land on the Friday of the anchor's own week.
func FirstDueDate(anchor time.Time) time.Time {
	anchor = DateOnly(anchor)
	wd := Weekday(anchor)
	daysAhead := ((4-wd)%7 + 7) % 7
	if wd <= 4 {
		daysAhead += 7
	}
	return anchor.AddDate(0, 0, daysAhead)
}

// NextFridays returns n Fridays, 7 days apart, starting at FirstDueDate(anchor).
func NextFridays(anchor time.Time, n int) ([]time.Time, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrNonPositiveWeeks, n)
	}
	first := FirstDueDate(anchor)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, 7*i)
	}
	return dates, nil
}

// FridaysFrom returns n Fridays starting at start, which must itself be a Friday.
func FridaysFrom(start time.Time, n int) ([]time.Time, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrNonPositiveWeeks, n)
	}
	start = DateOnly(start)
	if !IsFriday(start) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFriday, FormatDate(start))
	}
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, 7*i)
	}
	return dates, nil
}

// LastAndNextFriday returns the most recent Friday strictly before today and
// the nearest Friday on or after today.
func LastAndNextFriday(today time.Time) (time.Time, time.Time) {
	today = DateOnly(today)
	wd := Weekday(today)
	back := ((wd-4)%7 + 7) % 7
	if back == 0 {
		back = 7
	}
	ahead := ((4-wd)%7 + 7) % 7
	return today.AddDate(0, 0, -back), today.AddDate(0, 0, ahead)
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}
