// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package services

import (
	"context"
	"time"

	"github.com/tomtom215/platescan/internal/logging"
)

// ValueLogGCRunner is satisfied by *kvcache.Store.
type ValueLogGCRunner interface {
	RunGC(discardRatio float64) (int, error)
}

// KVCacheGCService periodically reclaims space in the badger value log that
// expired recognition and nutrition entries leave behind.
//
//	tree.AddDataService(services.NewKVCacheGCService(store, cfg.KVCache.GCInterval, kvcache.DefaultGCDiscardRatio))
type KVCacheGCService struct {
	store        ValueLogGCRunner
	interval     time.Duration
	discardRatio float64
}

// NewKVCacheGCService creates the service. interval defaults to 10 minutes and
// discardRatio to 0.5.
func NewKVCacheGCService(store ValueLogGCRunner, interval time.Duration, discardRatio float64) *KVCacheGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &KVCacheGCService{store: store, interval: interval, discardRatio: discardRatio}
}

// Serve implements suture.Service. A GC error is logged and the loop keeps
// going; the next tick retries.
func (s *KVCacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *KVCacheGCService) runOnce(ctx context.Context) {
	log := logging.Ctx(logging.ContextWithNewCorrelationID(ctx))

	start := time.Now()
	rewritten, err := s.store.RunGC(s.discardRatio)
	if err != nil {
		log.Warn().Err(err).Msg("KV cache value log GC failed")
		return
	}
	if rewritten > 0 {
		log.Info().Int("files_rewritten", rewritten).Dur("duration", time.Since(start)).Msg("KV cache value log GC")
	}
}

// String names the service in suture events.
func (s *KVCacheGCService) String() string {
	return "kvcache-gc"
}
