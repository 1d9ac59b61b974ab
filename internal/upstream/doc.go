// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package upstream is the shared HTTP layer for the third-party APIs Platescan
depends on (Clarifai for recognition, USDA FoodData Central for nutrition).

Every call goes through the same pipeline:

	rate limiter (x/time/rate) -> circuit breaker (sony/gobreaker) -> retry loop -> http.Client

Resilience:
  - Rate limiting: optional client-side token bucket, waited on with the
    request context.
  - Retries: HTTP 429 and 503 are retried with exponential backoff
    (base, 2*base, 4*base, ...). A Retry-After header in seconds or HTTP-date
    form overrides the computed delay.
  - Circuit breaker: opens after 10 requests in a one-minute window with a
    failure ratio of at least 60%, probes again after two minutes with up to
    three requests. Client errors (4xx other than 429) and caller
    cancellation do not count as failures. While open, calls fail fast with
    ErrCircuitOpen.

Non-2xx responses surface as *StatusError carrying a bounded excerpt of the
body.
*/
package upstream
