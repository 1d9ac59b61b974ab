// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package cache provides the in-process TTL cache that fronts scan range
// queries. Entries are invalidated wholesale whenever a new scan is stored.
//
// The persistent cache for upstream API responses lives in package kvcache.
package cache
