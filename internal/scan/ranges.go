// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package scan

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in routes and responses.
const DateLayout = "2006-01-02"

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Label returns the calendar date of Start, e.g. "2024-05-01".
func (r Range) Label() string {
	return r.Start.Format(DateLayout)
}

// Ranges computes calendar ranges in a fixed location. Boundaries are built
// with time.Date, so days that are 23 or 25 hours long around DST changes
// still start and end at local midnight.
type Ranges struct {
	loc       *time.Location
	weekStart time.Weekday
	now       func() time.Time
}

// NewRanges creates a calculator. A nil now uses time.Now.
func NewRanges(loc *time.Location, weekStart time.Weekday, now func() time.Time) *Ranges {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Ranges{loc: loc, weekStart: weekStart, now: now}
}

// Location returns the calendar location.
func (r *Ranges) Location() *time.Location { return r.loc }

// Day returns local midnight of the given date to the next local midnight.
func (r *Ranges) Day(year int, month time.Month, day int) Range {
	return Range{
		Start: time.Date(year, month, day, 0, 0, 0, 0, r.loc),
		End:   time.Date(year, month, day+1, 0, 0, 0, 0, r.loc),
	}
}

// ParseDay parses a YYYY-MM-DD date and returns its day range.
func (r *Ranges) ParseDay(s string) (Range, error) {
	t, err := time.ParseInLocation(DateLayout, s, r.loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return r.Day(t.Year(), t.Month(), t.Day()), nil
}

// Today returns the range of the current local day.
func (r *Ranges) Today() Range {
	y, m, d := r.now().In(r.loc).Date()
	return r.Day(y, m, d)
}

// Week returns the current week, beginning on the configured weekday.
func (r *Ranges) Week() Range {
	now := r.now().In(r.loc)
	offset := (int(now.Weekday()) - int(r.weekStart) + 7) % 7
	y, m, d := now.Date()
	return Range{
		Start: time.Date(y, m, d-offset, 0, 0, 0, 0, r.loc),
		End:   time.Date(y, m, d-offset+7, 0, 0, 0, 0, r.loc),
	}
}

// Month returns the first of month to the first of the following month.
func (r *Ranges) Month(year int, month time.Month) Range {
	return Range{
		Start: time.Date(year, month, 1, 0, 0, 0, 0, r.loc),
		End:   time.Date(year, month+1, 1, 0, 0, 0, 0, r.loc),
	}
}

// LastDays returns n consecutive day ranges ending with today, oldest first.
func (r *Ranges) LastDays(n int) []Range {
	if n <= 0 {
		return nil
	}
	y, m, d := r.now().In(r.loc).Date()
	out := make([]Range, n)
	for i := 0; i < n; i++ {
		out[i] = r.Day(y, m, d-(n-1-i))
	}
	return out
}
