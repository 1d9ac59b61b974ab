// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package scan

import (
	"testing"
	"time"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestRanges_Today(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	// 02:30 UTC on May 2 is still May 1 in New York
	now := time.Date(2024, 5, 2, 2, 30, 0, 0, time.UTC)
	r := NewRanges(loc, time.Sunday, fixedNow(now))

	got := r.Today()
	wantStart := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	if !got.Start.Equal(wantStart) || !got.End.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("Today() = %v - %v", got.Start, got.End)
	}
	if !within(got, now) {
		t.Error("today must contain now")
	}
	if got.Label() != "2024-05-01" {
		t.Errorf("Label() = %q", got.Label())
	}
}

func TestRanges_DayAcrossDST(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	r := NewRanges(loc, time.Sunday, nil)

	tests := []struct {
		name  string
		month time.Month
		day   int
		hours float64
	}{
		{"spring forward", time.March, 10, 23},
		{"fall back", time.November, 3, 25},
		{"ordinary", time.May, 1, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Day(2024, tt.month, tt.day)
			if h := got.End.Sub(got.Start).Hours(); h != tt.hours {
				t.Errorf("day length = %vh, want %vh", h, tt.hours)
			}
			if got.End.Hour() != 0 || got.Start.Hour() != 0 {
				t.Errorf("boundaries not at local midnight: %v - %v", got.Start, got.End)
			}
		})
	}
}

func TestRanges_Week(t *testing.T) {
	// Wednesday 2024-05-08 15:00 UTC
	now := time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		weekStart time.Weekday
		wantStart time.Time
	}{
		{"sunday start", time.Sunday, time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)},
		{"monday start", time.Monday, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRanges(time.UTC, tt.weekStart, fixedNow(now)).Week()
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("End = %v", got.End)
			}
			if !within(got, now) {
				t.Error("week must contain now")
			}
		})
	}
}

func TestRanges_WeekOnStartDay(t *testing.T) {
	sunday := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	got := NewRanges(time.UTC, time.Sunday, fixedNow(sunday)).Week()
	if !got.Start.Equal(sunday) {
		t.Errorf("Start = %v, want %v", got.Start, sunday)
	}
}

func TestRanges_Month(t *testing.T) {
	r := NewRanges(time.UTC, time.Sunday, nil)

	tests := []struct {
		year    int
		month   time.Month
		wantEnd time.Time
	}{
		{2024, time.February, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{2023, time.December, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := r.Month(tt.year, tt.month)
		if got.Start.Day() != 1 || got.Start.Month() != tt.month {
			t.Errorf("Month(%d, %v).Start = %v", tt.year, tt.month, got.Start)
		}
		if !got.End.Equal(tt.wantEnd) {
			t.Errorf("Month(%d, %v).End = %v, want %v", tt.year, tt.month, got.End, tt.wantEnd)
		}
		// the last instant of the month is inside, the next month's first is not
		if !within(got, tt.wantEnd.Add(-time.Nanosecond)) || within(got, tt.wantEnd) {
			t.Error("month range must be half-open")
		}
	}
}

func TestRanges_LastDays(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	days := NewRanges(time.UTC, time.Sunday, fixedNow(now)).LastDays(3)

	want := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	if len(days) != len(want) {
		t.Fatalf("LastDays(3) returned %d ranges", len(days))
	}
	for i, d := range days {
		if d.Label() != want[i] {
			t.Errorf("day %d = %s, want %s", i, d.Label(), want[i])
		}
		if i > 0 && !days[i-1].End.Equal(d.Start) {
			t.Errorf("day %d does not start where day %d ends", i, i-1)
		}
	}
	if NewRanges(time.UTC, time.Sunday, nil).LastDays(0) != nil {
		t.Error("LastDays(0) should be nil")
	}
}

func TestRanges_ParseDay(t *testing.T) {
	r := NewRanges(time.UTC, time.Sunday, nil)

	got, err := r.ParseDay("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDay() error = %v", err)
	}
	if got.Label() != "2024-02-29" {
		t.Errorf("Label() = %q", got.Label())
	}

	for _, bad := range []string{"2023-02-29", "2024-13-01", "24-01-01", "2024/01/01", ""} {
		if _, err := r.ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q) should fail", bad)
		}
	}
}

// within reports whether t falls inside the half-open range.
func within(r Range, t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}
