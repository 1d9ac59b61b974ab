// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/platescan/internal/database"
	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/models"
	"github.com/tomtom215/platescan/internal/scan"
	"github.com/tomtom215/platescan/internal/validation"
)

// lastDaysWindow is the number of calendar days in /scans/last-three-days.
const lastDaysWindow = 3

// ScansMonth returns the scans of one calendar month.
//
// @Summary Scans in a month
// @Tags Scans
// @Produce json
// @Param year path int true "Year (1970-9999)"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} models.ScanListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /scans/month/{year}/{month} [get]
func (h *Handler) ScansMonth(w http.ResponseWriter, r *http.Request) {
	p := validation.ParseMonthParams(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if !validateRequest(w, &p) {
		return
	}
	h.respondRange(w, r, h.scans.Ranges().Month(p.Year, p.TimeMonth()), true)
}

// ScansWeek returns the scans of the current week.
//
// @Summary Scans this week
// @Tags Scans
// @Produce json
// @Success 200 {object} models.ScanListResponse
// @Router /scans/week [get]
func (h *Handler) ScansWeek(w http.ResponseWriter, r *http.Request) {
	h.respondRange(w, r, h.scans.Ranges().Week(), true)
}

// ScansToday returns the scans of the current day.
//
// @Summary Scans today
// @Tags Scans
// @Produce json
// @Success 200 {object} models.ScanListResponse
// @Router /scans/today [get]
func (h *Handler) ScansToday(w http.ResponseWriter, r *http.Request) {
	h.respondRange(w, r, h.scans.Ranges().Today(), true)
}

// ScansByDate returns the scans of one calendar day.
//
// @Summary Scans on a date
// @Tags Scans
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} models.ScanListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /scans/date/{date} [get]
func (h *Handler) ScansByDate(w http.ResponseWriter, r *http.Request) {
	p := validation.DateParams{Date: chi.URLParam(r, "date")}
	if !validateRequest(w, &p) {
		return
	}
	day, err := h.scans.Ranges().ParseDay(p.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Date must be a date in YYYY-MM-DD format", nil)
		return
	}
	h.respondRange(w, r, day, false)
}

// ScansLastThreeDays returns the scans of today and the two days before,
// grouped per day, oldest first.
//
// @Summary Scans per day for the last three days
// @Tags Scans
// @Produce json
// @Success 200 {object} models.DailyScansResponse
// @Router /scans/last-three-days [get]
func (h *Handler) ScansLastThreeDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.scans.DailyScans(r.Context(), h.scans.Ranges().LastDays(lastDaysWindow))
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("Failed to query daily scans")
		respondError(w, http.StatusInternalServerError, codeQueryFailed, "Failed to fetch scans", nil)
		return
	}
	respondJSON(w, http.StatusOK, &models.DailyScansResponse{Data: days})
}

// ScanByID returns one stored scan.
//
// @Summary Get a scan
// @Tags Scans
// @Produce json
// @Param id path string true "Scan ID"
// @Success 200 {object} models.Scan
// @Failure 404 {object} models.ErrorResponse
// @Router /scans/{id} [get]
func (h *Handler) ScanByID(w http.ResponseWriter, r *http.Request) {
	p := validation.ScanIDParams{ID: chi.URLParam(r, "id")}
	if !validateRequest(w, &p) {
		return
	}

	s, err := h.scans.ScanByID(r.Context(), p.ID)
	switch {
	case errors.Is(err, database.ErrScanNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "Scan not found", nil)
	case err != nil:
		logging.CtxErr(r.Context(), err).Str("scan_id", sanitizeLogValue(p.ID)).Msg("Failed to get scan")
		respondError(w, http.StatusInternalServerError, codeQueryFailed, "Failed to fetch scan", nil)
	default:
		respondJSON(w, http.StatusOK, s)
	}
}

// respondRange writes {totalScans, scans}, or {scans} when withTotal is false.
func (h *Handler) respondRange(w http.ResponseWriter, r *http.Request, rng scan.Range, withTotal bool) {
	scans, err := h.scans.ScansIn(r.Context(), rng)
	if err != nil {
		logging.CtxErr(r.Context(), err).Str("range", rng.Label()).Msg("Failed to query scans")
		respondError(w, http.StatusInternalServerError, codeQueryFailed, "Failed to fetch scans", nil)
		return
	}

	resp := &models.ScanListResponse{Scans: scans}
	if withTotal {
		total := len(scans)
		resp.TotalScans = &total
	}
	respondJSON(w, http.StatusOK, resp)
}
