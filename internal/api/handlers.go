// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package api

import (
	"context"
	"time"

	"github.com/tomtom215/platescan/internal/models"
	"github.com/tomtom215/platescan/internal/scan"
)

// ScanService is the part of *scan.Service the handlers use.
type ScanService interface {
	Analyze(ctx context.Context, image []byte) (*scan.Result, error)
	ScansIn(ctx context.Context, r scan.Range) ([]models.Scan, error)
	DailyScans(ctx context.Context, days []scan.Range) ([]models.DailyScans, error)
	ScanByID(ctx context.Context, id string) (*models.Scan, error)
	Ranges() *scan.Ranges
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater reports the circuit breaker state of an upstream client.
type BreakerStater interface {
	BreakerState() string
}

// defaultMaxUploadBytes applies when HandlerOptions.MaxUploadBytes is unset.
const defaultMaxUploadBytes = 10 << 20

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Scans          ScanService
	DB             Pinger
	Upstreams      map[string]BreakerStater // keyed by upstream name
	MaxUploadBytes int64
	Version        string
}

// Handler contains dependencies for API handlers.
//
// Methods are split across files:
//   - handlers_analyze.go: POST /analyze-food
//   - handlers_scans.go: scan range and lookup endpoints
//   - handlers_health.go: health probes
type Handler struct {
	scans     ScanService
	db        Pinger
	upstreams map[string]BreakerStater
	maxUpload int64
	version   string
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(o HandlerOptions) *Handler {
	h := &Handler{
		scans:     o.Scans,
		db:        o.DB,
		upstreams: o.Upstreams,
		maxUpload: o.MaxUploadBytes,
		version:   o.Version,
		startTime: time.Now(),
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUploadBytes
	}
	return h
}
