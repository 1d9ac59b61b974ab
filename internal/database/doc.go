// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package database persists scans in DuckDB.

# Schema

	scans            one row per stored scan (id, scanned_at UTC, image_digest)
	scan_food_items  ordered food items of a scan with their nutrient summary

Vitamin and mineral name lists are stored as JSON text. Macro columns are
NULL when the nutrition lookup produced nothing, which round-trips to a nil
Nutrients pointer.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	if err := db.InsertScan(ctx, scan); err != nil { ... }
	scans, err := db.ScansBetween(ctx, start, end) // [start, end)

Every query records duckdb_query_duration_seconds and, on failure,
duckdb_query_errors_total.
*/
package database
