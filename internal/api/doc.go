// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package api provides the HTTP surface of Platescan on the Chi router.

# Routes

	POST /analyze-food                   multipart field "image"
	GET  /scans/month/{year}/{month}     {totalScans, scans}
	GET  /scans/week                     {totalScans, scans}
	GET  /scans/today                    {totalScans, scans}
	GET  /scans/date/{date}              {scans}
	GET  /scans/last-three-days          {data: [{date, scans}]}
	GET  /scans/{id}                     one scan
	GET  /health, /health/live, /health/ready
	GET  /metrics                        Prometheus exposition
	GET  /swagger/*                      OpenAPI UI

Paths and body shapes are the ones existing mobile clients call, so none of
them carry an /api/v1 prefix.

# Middleware

Applied globally, in order: request ID with logging context, RealIP,
Recoverer, CORS (go-chi/cors), security headers and Prometheus request
metrics. Per-IP rate limits (go-chi/httprate) are set per route group; the
upload route has its own, tighter limit.

# Errors

Every non-2xx body is a models.ErrorResponse. Analysis failures that are not
the client's fault keep the message "Failed to analyze image".

	400 IMAGE_REQUIRED     no "image" part, or it is empty
	413 IMAGE_TOO_LARGE    body above scan.max_upload_bytes
	415 UNSUPPORTED_MEDIA  upload does not sniff as an image
	503 UPSTREAM_UNAVAILABLE  a circuit breaker is open
	500 ANALYSIS_FAILED    anything else

# Usage

	handler := api.NewHandler(api.HandlerOptions{Scans: svc, DB: db, MaxUploadBytes: cfg.Scan.MaxUploadBytes})
	router := api.NewRouter(handler, &cfg.Security)
	srv := &http.Server{Addr: addr, Handler: router.SetupChi()}
*/
package api
