// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package metrics provides Prometheus metrics for Platescan.

All collectors are registered on the default registry through promauto and
exported at /metrics by promhttp.

# Available Metrics

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Scan pipeline:
  - scan_analyses_total{result}: food, not_food, rejected, error
  - scan_analysis_duration_seconds
  - scan_food_items
  - nutrition_lookups_total{result}: found, not_found, error

Upstream APIs (Clarifai, USDA):
  - upstream_requests_total{service,status_code}
  - upstream_request_duration_seconds{service}
  - upstream_retries_total{service,status_code}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Storage and caches:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}
  - kvcache_gc_runs_total{result}
*/
package metrics
