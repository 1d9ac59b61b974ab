// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package middleware provides chi-compatible HTTP middleware for request
tracing and Prometheus instrumentation.

  - RequestID: honours an incoming X-Request-ID or generates one, echoes it on
    the response and seeds the logging context with request_id and
    correlation_id.
  - PrometheusMetrics: records api_requests_total, api_request_duration_seconds
    and api_active_requests, labelled by the matched chi route pattern so that
    path parameters such as /scans/{id} do not explode label cardinality.

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
