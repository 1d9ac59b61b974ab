// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package models defines the scan data types shared by the pipeline, the
// store and the HTTP layer, plus the JSON response bodies.
package models
