package utils

import (
	"fmt"
	"time"
)

// DateLayout is the plain calendar-day format used on slots and jobs.
const DateLayout = "2006-01-02"

// ParseHHMM parses a wall-clock "HH:MM" string (longer strings such as
// "09:00:00.000000" are truncated to their first five characters).
func ParseHHMM(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("invalid time string: %s", s)
	}
	s = s[:5]
	tt, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return tt, nil
}

// RangesOverlap reports whether two same-day wall-clock ranges overlap.
// Ranges that merely touch ("09:00-10:00" and "10:00-11:00") do not
// overlap. Malformed inputs report no overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	as, err := ParseHHMM(aStart)
	if err != nil {
		return false
	}
	ae, err := ParseHHMM(aEnd)
	if err != nil {
		return false
	}
	bs, err := ParseHHMM(bStart)
	if err != nil {
		return false
	}
	be, err := ParseHHMM(bEnd)
	if err != nil {
		return false
	}
	return as.Before(be) && bs.Before(ae)
}

// ParseDate parses a plain "2006-01-02" calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// MondayOf returns the Monday of the week containing t, truncated to
// midnight in t's location.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// WeekWindow returns the seven dates of the Monday-aligned week
// containing anchor, formatted with DateLayout.
func WeekWindow(anchor time.Time) []string {
	monday := MondayOf(anchor)
	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		days[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return days
}

// ValidateSlotTimes checks that start and end are well-formed HH:MM
// strings with end strictly after start.
func ValidateSlotTimes(start, end string) error {
	s, err := ParseHHMM(start)
	if err != nil {
		return fmt.Errorf("invalid startTime: %w", err)
	}
	e, err := ParseHHMM(end)
	if err != nil {
		return fmt.Errorf("invalid endTime: %w", err)
	}
	if !e.After(s) {
		return fmt.Errorf("endTime %s must be after startTime %s", end, start)
	}
	return nil
}
