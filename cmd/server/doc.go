// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package main is the entry point for the Platescan server.

Platescan accepts a photo of a meal, asks the Clarifai food recognition model
what is on the plate, keeps the concepts that look like food, looks up
nutrients for each of them in USDA FoodData Central and stores the result as
a scan in DuckDB. Stored scans can be read back by month, week, day or ID.

# Application Architecture

	RootSupervisor ("platescan")
	├── DataSupervisor ("data-layer")
	│   └── KV cache value log GC (when the KV cache is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB scan store
 4. KV cache: BadgerDB cache for upstream responses (optional)
 5. Upstream clients: recognition and nutrition, each behind a circuit breaker
 6. Scan service: filter, lookups, persistence and range queries
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

# Configuration

Priority: Environment variables > Config file > Defaults

	HTTP_PORT=3000
	DUCKDB_PATH=/data/platescan.duckdb
	CLARIFAI_PAT=<personal access token>
	USDA_API_KEY=<api key>
	SCAN_TIMEZONE=Local
	SCAN_WEEK_START=sunday
	KVCACHE_PATH=/data/kvcache
	LOG_LEVEL=info
	LOG_FORMAT=json

CLARIFAI_PAT and USDA_API_KEY are required; startup fails without them.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and waits up to 10s for in-flight requests, then the KV cache and
database are closed. Services that fail to stop in time are logged.

# API Documentation

Swagger documentation is served at /swagger/index.html.
*/
package main
