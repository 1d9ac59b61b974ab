// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package services adapts Platescan components to suture.Service.
//
//   - HTTPServerService: ListenAndServe plus graceful Shutdown on cancel
//   - KVCacheGCService: periodic badger value log GC of the lookup cache
//
// Each wrapper depends on a small interface (HTTPServer, ValueLogGCRunner)
// rather than the concrete type, so tests drive them with fakes.
package services
