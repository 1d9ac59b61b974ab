// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package main provides the Platescan HTTP server
//
// @title Platescan API
// @version 1.0
// @description Food photo recognition with per-item nutrition lookup and scan history.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "message": "Human-readable error message",
// @description   "code": "ERROR_CODE",
// @description   "details": {}
// @description }
// @description ```
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address, 20 per minute for uploads.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/platescan/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3000
// @BasePath /
// @schemes http https
//
// @tag.name Scans
// @tag.description Image analysis and scan history
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
