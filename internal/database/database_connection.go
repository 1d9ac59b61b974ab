// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package database

import (
	"runtime"
	"strings"
	"time"
)

// configureConnectionPool sets pool limits.
// max_open tracks CPU count, two idle connections are kept for reuse.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isTransactionConflict reports a DuckDB optimistic concurrency failure,
// which is safe to retry.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update")
}

// isConnectionError reports whether err indicates a lost connection.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"database is closed",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// errorType classifies err for the error_type metric label.
func errorType(err error) string {
	switch {
	case isTransactionConflict(err):
		return "conflict"
	case isConnectionError(err):
		return "connection"
	default:
		return "query"
	}
}
