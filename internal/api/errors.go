// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/platescan/internal/scan"
	"github.com/tomtom215/platescan/internal/upstream"
)

// Error codes carried in models.ErrorResponse.Code.
const (
	codeImageRequired       = "IMAGE_REQUIRED"
	codeImageTooLarge       = "IMAGE_TOO_LARGE"
	codeUnsupportedMedia    = "UNSUPPORTED_MEDIA"
	codeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	codeAnalysisFailed      = "ANALYSIS_FAILED"
	codeNotFound            = "NOT_FOUND"
	codeQueryFailed         = "QUERY_FAILED"
	codeRateLimited         = "RATE_LIMIT_EXCEEDED"
	codeValidation          = "VALIDATION_ERROR"
)

const msgAnalyzeFailed = "Failed to analyze image"

// errImageRequired is returned when the multipart form has no usable image part.
var errImageRequired = errors.New("image is required")

// analyzeError maps an error from the upload or the scan pipeline to a status,
// code and client message.
func analyzeError(err error) (status int, code, message string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, codeImageTooLarge, "Image is too large"
	case errors.Is(err, errImageRequired), errors.Is(err, scan.ErrEmptyImage):
		return http.StatusBadRequest, codeImageRequired, "An image is required"
	case errors.Is(err, scan.ErrNotImage):
		return http.StatusUnsupportedMediaType, codeUnsupportedMedia, "Upload is not an image"
	case errors.Is(err, upstream.ErrCircuitOpen):
		return http.StatusServiceUnavailable, codeUpstreamUnavailable, msgAnalyzeFailed
	default:
		return http.StatusInternalServerError, codeAnalysisFailed, msgAnalyzeFailed
	}
}
