package domain

import (
	"testing"
	"time"
)

func TestPatternDuration(t *testing.T) {
	testCases := []struct {
		days     string
		expected time.Duration
		ok       bool
	}{
		{PatternMJ, 75 * time.Minute, true},
		{PatternLMV, 50 * time.Minute, true},
		{"S", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		d, ok := PatternDuration(tc.days)
		if d != tc.expected || ok != tc.ok {
			t.Errorf("PatternDuration(%q) = (%v, %v), want (%v, %v)", tc.days, d, ok, tc.expected, tc.ok)
		}
	}
}

func TestSemesterAnchor(t *testing.T) {
	testCases := []struct {
		semester string
		month    time.Month
		day      int
	}{
		{"Fall", time.September, 1},
		{"Spring", time.January, 15},
		{"V2", time.June, 1},
		{"Winter", time.January, 1}, // unknown label
	}

	for _, tc := range testCases {
		month, day := SemesterAnchor(tc.semester)
		if month != tc.month || day != tc.day {
			t.Errorf("SemesterAnchor(%q) = (%v, %d), want (%v, %d)", tc.semester, month, day, tc.month, tc.day)
		}
	}
}

func TestMinutesOfDay(t *testing.T) {
	ts := time.Date(2024, time.September, 1, 7, 30, 0, 0, time.UTC)
	if got := MinutesOfDay(ts); got != MorningStart {
		t.Errorf("MinutesOfDay(07:30) = %d, want %d", got, MorningStart)
	}
}
