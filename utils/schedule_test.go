package utils

import (
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"23:59", 23, 59, false},
		{"09:00:00.000000", 9, 0, false}, // DB time strings get truncated
		{"9:00", 0, 0, true},
		{"", 0, 0, true},
		{"25:00", 0, 0, true},
		{"12:61", 0, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHHMM(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHHMM(%q) succeeded, expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHHMM(%q) returned %v", tt.in, err)
			continue
		}
		if got.Hour() != tt.hour || got.Minute() != tt.minute {
			t.Errorf("ParseHHMM(%q) = %02d:%02d, expected %02d:%02d",
				tt.in, got.Hour(), got.Minute(), tt.hour, tt.minute)
		}
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		expected                   bool
	}{
		{"identical ranges", "09:00", "11:00", "09:00", "11:00", true},
		{"partial overlap", "09:00", "11:00", "10:00", "12:00", true},
		{"contained range", "09:00", "17:00", "10:00", "11:00", true},
		{"touching ranges", "09:00", "10:00", "10:00", "11:00", false},
		{"disjoint ranges", "09:00", "10:00", "13:00", "14:00", false},
		{"reversed order disjoint", "13:00", "14:00", "09:00", "10:00", false},
		{"malformed input", "9am", "11:00", "10:00", "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.expected {
				t.Errorf("RangesOverlap(%s-%s, %s-%s) = %v, expected %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.expected)
			}
		})
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"monday stays put", "2026-08-24", "2026-08-24"},
		{"wednesday rolls back", "2026-08-26", "2026-08-24"},
		{"sunday rolls back six days", "2026-08-30", "2026-08-24"},
		{"across month boundary", "2026-09-02", "2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := time.Parse(DateLayout, tt.in)
			if err != nil {
				t.Fatalf("bad fixture date %q: %v", tt.in, err)
			}
			got := MondayOf(in).Format(DateLayout)
			if got != tt.expected {
				t.Errorf("MondayOf(%s) = %s, expected %s", tt.in, got, tt.expected)
			}
		})
	}
}

func TestWeekWindow(t *testing.T) {
	anchor, _ := time.Parse(DateLayout, "2026-08-27") // a Thursday
	days := WeekWindow(anchor)

	if len(days) != 7 {
		t.Fatalf("WeekWindow returned %d days, expected 7", len(days))
	}
	if days[0] != "2026-08-24" {
		t.Errorf("week starts at %s, expected Monday 2026-08-24", days[0])
	}
	if days[6] != "2026-08-30" {
		t.Errorf("week ends at %s, expected Sunday 2026-08-30", days[6])
	}
}

func TestValidateSlotTimes(t *testing.T) {
	if err := ValidateSlotTimes("09:00", "11:30"); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := ValidateSlotTimes("11:00", "09:00"); err == nil {
		t.Error("end before start accepted")
	}
	if err := ValidateSlotTimes("09:00", "09:00"); err == nil {
		t.Error("zero-length range accepted")
	}
	if err := ValidateSlotTimes("morning", "11:00"); err == nil {
		t.Error("malformed start accepted")
	}
}
