// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package config provides centralized configuration management for Platescan.

Configuration is layered with Koanf v2: struct defaults, then an optional YAML
file, then environment variables. Load validates the result and refuses to
start without upstream credentials.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT: Bind address and port (default: 0.0.0.0:3000)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT: Request timeouts

Database:
  - DUCKDB_PATH: Scan store path (default: /data/platescan.duckdb)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Image recognition (Clarifai):
  - CLARIFAI_PAT: Personal access token (required)
  - CLARIFAI_URL, CLARIFAI_USER_ID, CLARIFAI_APP_ID, CLARIFAI_MODEL_ID

Nutrition (USDA FoodData Central):
  - USDA_API_KEY: API key (required)
  - USDA_URL, USDA_PAGE_SIZE, USDA_REQUESTS_PER_SECOND, USDA_BURST

Scan pipeline:
  - SCAN_CONFIDENCE_THRESHOLD: Minimum concept value (default: 0.3)
  - SCAN_FOOD_KEYWORDS: Comma-separated keyword allowlist
  - SCAN_TIMEZONE: IANA zone for day boundaries (default: Local)
  - SCAN_WEEK_START: sunday or monday (default: sunday)

KV cache (BadgerDB):
  - KVCACHE_PATH: Directory for cached upstream responses (empty disables)
  - KVCACHE_RECOGNITION_TTL, KVCACHE_NUTRITION_TTL, KVCACHE_GC_INTERVAL

Security and logging:
  - CORS_ORIGINS, RATE_LIMIT_REQS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	loc, _ := cfg.Location()
*/
package config
