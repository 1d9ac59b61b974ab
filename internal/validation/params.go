// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package validation

import (
	"strconv"
	"time"
)

// DateLayout is the calendar date format used in paths and responses.
const DateLayout = "2006-01-02"

// MonthParams are the path parameters of GET /scans/month/{year}/{month}.
type MonthParams struct {
	Year  int `validate:"gte=1970,lte=9999"`
	Month int `validate:"gte=1,lte=12"`
}

// ParseMonthParams converts raw path values. Non-numeric input becomes 0 and
// is then rejected by the range rules.
func ParseMonthParams(year, month string) MonthParams {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	return MonthParams{Year: y, Month: m}
}

// TimeMonth returns Month as a time.Month.
func (p MonthParams) TimeMonth() time.Month { return time.Month(p.Month) }

// DateParams are the path parameters of GET /scans/date/{date}.
type DateParams struct {
	Date string `validate:"required,calendardate"`
}

// ScanIDParams are the path parameters of GET /scans/{id}.
type ScanIDParams struct {
	ID string `validate:"required,max=64,printascii"`
}
