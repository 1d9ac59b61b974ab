// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package validation

import (
	"strings"
	"testing"
	"time"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

func TestMonthParams(t *testing.T) {
	tests := []struct {
		name      string
		year      string
		month     string
		wantErr   bool
		wantField string
	}{
		{"valid", "2024", "2", false, ""},
		{"december", "2023", "12", false, ""},
		{"leading zero", "2024", "03", false, ""},
		{"month zero", "2024", "0", true, "Month"},
		{"month thirteen", "2024", "13", true, "Month"},
		{"non numeric month", "2024", "feb", true, "Month"},
		{"year too early", "1969", "1", true, "Year"},
		{"year too late", "10000", "1", true, "Year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseMonthParams(tt.year, tt.month)
			verr := ValidateStruct(&p)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr != nil && verr.Errors()[0].Field() != tt.wantField {
				t.Errorf("field = %s, want %s", verr.Errors()[0].Field(), tt.wantField)
			}
		})
	}

	if got := ParseMonthParams("2024", "7").TimeMonth(); got != time.July {
		t.Errorf("TimeMonth() = %v, want July", got)
	}
}

func TestDateParams(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2024-02-29", false},
		{"2024-01-01", false},
		{"2023-02-29", true},
		{"2024-13-01", true},
		{"2024-1-1", true},
		{"01/02/2024", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			verr := ValidateStruct(&DateParams{Date: tt.date})
			if (verr != nil) != tt.wantErr {
				t.Errorf("ValidateStruct(%q) = %v, wantErr %v", tt.date, verr, tt.wantErr)
			}
		})
	}
}

func TestScanIDParams(t *testing.T) {
	if verr := ValidateStruct(&ScanIDParams{ID: "2b1f0c3e-4f1b-4c55-9d0e-1f2a3b4c5d6e"}); verr != nil {
		t.Errorf("valid id rejected: %v", verr)
	}
	if verr := ValidateStruct(&ScanIDParams{ID: strings.Repeat("a", 65)}); verr == nil {
		t.Error("overlong id accepted")
	}
	if verr := ValidateStruct(&ScanIDParams{ID: "café"}); verr == nil {
		t.Error("non-ascii id accepted")
	}
}

func TestToAPIError(t *testing.T) {
	p := MonthParams{Year: 1900, Month: 13}
	verr := ValidateStruct(&p)
	if verr == nil {
		t.Fatal("expected errors")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Year: Year must be greater than or equal to 1970") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "Month: Month must be less than or equal to 12") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details = %v", apiErr.Details)
	}

	single := ValidateStruct(&DateParams{Date: "nope"}).ToAPIError()
	if single.Message != "Date must be a date in YYYY-MM-DD format" {
		t.Errorf("single Message = %q", single.Message)
	}
	if single.Details["field"] != "Date" || single.Details["tag"] != "calendardate" {
		t.Errorf("single Details = %v", single.Details)
	}

	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty error text")
	}
}
