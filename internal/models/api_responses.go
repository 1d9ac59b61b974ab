// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package models

// AnalyzeResponse is the body of POST /analyze-food.
//
// Example non-food response:
//
//	{"isFood": false}
//
// Example food response:
//
//	{
//	  "isFood": true,
//	  "scanId": "6f1c...",
//	  "foodItems": [{"name": "pizza", "confidence": 0.97, "nutrients": {...}}]
//	}
type AnalyzeResponse struct {
	IsFood    bool       `json:"isFood"`
	ScanID    string     `json:"scanId,omitempty"`
	FoodItems []FoodItem `json:"foodItems,omitempty"`
}

// ScanListResponse is the body of the range endpoints. TotalScans is a
// pointer so that /scans/date/{date} can omit it.
type ScanListResponse struct {
	TotalScans *int   `json:"totalScans,omitempty"`
	Scans      []Scan `json:"scans"`
}

// DailyScans groups the scans of one calendar day.
type DailyScans struct {
	Date  string `json:"date"` // YYYY-MM-DD in the configured timezone
	Scans []Scan `json:"scans"`
}

// DailyScansResponse is the body of GET /scans/last-three-days.
type DailyScansResponse struct {
	Data []DailyScans `json:"data"`
}

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version,omitempty"`
	DatabaseOK    *bool   `json:"database_ok,omitempty"` // nil on liveness
	UptimeSeconds float64 `json:"uptime_seconds"`

	// Upstreams maps each upstream API to its circuit breaker state:
	// closed, half-open or open.
	Upstreams map[string]string `json:"upstreams,omitempty"`
}

// ErrorResponse is the body of every non-2xx response. Message keeps the
// wording clients already display; Code is machine-readable.
//
// Example:
//
//	{"message": "Failed to analyze image", "code": "ANALYSIS_FAILED"}
type ErrorResponse struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}
