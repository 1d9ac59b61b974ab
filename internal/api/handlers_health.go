// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/platescan/internal/models"
)

// healthPingTimeout bounds the database ping of a health probe.
const healthPingTimeout = 2 * time.Second

// Health reports overall status. It always answers 200; status is "degraded"
// when the database is unreachable or an upstream circuit breaker is open.
//
// @Summary Get service health
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := h.pingDB(r.Context())
	upstreams, upstreamsOK := h.upstreamStates()
	status := "healthy"
	if !dbOK || !upstreamsOK {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, &models.HealthStatus{
		Status:        status,
		Version:       h.version,
		DatabaseOK:    &dbOK,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Upstreams:     upstreams,
	})
}

// HealthLive answers 200 while the process is running.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthStatus{
		Status:        "alive",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 when the database is reachable, 503 otherwise.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 503 {object} models.HealthStatus
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbOK := h.pingDB(r.Context())
	code, status := http.StatusOK, "ready"
	if !dbOK {
		code, status = http.StatusServiceUnavailable, "not_ready"
	}
	respondJSON(w, code, &models.HealthStatus{
		Status:        status,
		Version:       h.version,
		DatabaseOK:    &dbOK,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

func (h *Handler) pingDB(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.db.Ping(ctx) == nil
}

// upstreamStates returns the breaker state of every upstream and whether
// none of them is open.
func (h *Handler) upstreamStates() (map[string]string, bool) {
	if len(h.upstreams) == 0 {
		return nil, true
	}
	states := make(map[string]string, len(h.upstreams))
	ok := true
	for name, u := range h.upstreams {
		state := u.BreakerState()
		states[name] = state
		if state == "open" {
			ok = false
		}
	}
	return states, ok
}
