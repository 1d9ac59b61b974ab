// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// initialize creates tables and indexes. It is idempotent.
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %s: %w", firstLine(query), err)
		}
	}
	return nil
}

func schemaQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id VARCHAR PRIMARY KEY,
			scanned_at TIMESTAMP NOT NULL,
			image_digest VARCHAR,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS scan_food_items (
			scan_id VARCHAR NOT NULL,
			position INTEGER NOT NULL,
			name VARCHAR NOT NULL,
			confidence DOUBLE NOT NULL,
			has_nutrients BOOLEAN NOT NULL DEFAULT false,
			calories DOUBLE,
			fats DOUBLE,
			carbohydrates DOUBLE,
			proteins DOUBLE,
			vitamins VARCHAR,
			minerals VARCHAR,
			PRIMARY KEY (scan_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_food_items_name ON scan_food_items(name)`,
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
