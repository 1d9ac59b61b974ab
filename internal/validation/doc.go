// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package validation validates request parameters with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Besides the built-in rules it
// registers:
//
//   - calendardate: a YYYY-MM-DD string that names a real day (2024-02-30 fails)
//
// Failures are returned as *RequestValidationError, which ToAPIError turns
// into the VALIDATION_ERROR envelope used by every endpoint:
//
//	p := validation.ParseMonthParams(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
//	if verr := validation.ValidateStruct(&p); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
