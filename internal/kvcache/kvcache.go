// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package kvcache persists upstream API responses in BadgerDB with per-entry
// TTLs, so that re-scanning the same image or looking up the same food does
// not spend Clarifai or USDA quota.
//
// Keys are namespaced by bucket ("recognition", "nutrition"). A nil *Store
// is a valid disabled cache: lookups miss and writes are dropped.
package kvcache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/metrics"
)

// DefaultGCDiscardRatio is the value log rewrite threshold used by RunGC.
const DefaultGCDiscardRatio = 0.5

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kvcache is closed")

// Options configures Open.
type Options struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// Store is a TTL key-value cache backed by BadgerDB.
type Store struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the cache.
//
//	kv, err := kvcache.Open(kvcache.Options{Path: "/data/kvcache"})
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
func Open(o Options) (*Store, error) {
	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if o.Path == "" {
			return nil, errors.New("kvcache path is required unless in-memory")
		}
		opts = badger.DefaultOptions(o.Path)
		opts.ValueLogFileSize = 64 << 20
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger kvcache: %w", err)
	}
	return &Store{db: db}, nil
}

func entryKey(bucket, key string) []byte {
	return []byte(bucket + ":" + key)
}

// GetJSON decodes the cached value for bucket/key into out. It reports false
// on a miss.
func (s *Store) GetJSON(bucket, key string, out any) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(bucket, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordCacheLookup(bucket, false)
		return false, nil
	}
	if err != nil {
		metrics.RecordCacheLookup(bucket, false)
		return false, fmt.Errorf("kvcache get %s: %w", bucket, err)
	}

	metrics.RecordCacheLookup(bucket, true)
	return true, nil
}

// SetJSON stores v under bucket/key. A ttl <= 0 stores without expiry.
func (s *Store) SetJSON(bucket, key string, v any, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvcache marshal %s: %w", bucket, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(entryKey(bucket, key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes bucket/key. Missing keys are not an error.
func (s *Store) Delete(bucket, key string) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(bucket, key))
	})
}

// RunGC rewrites value log files until badger reports nothing left to
// reclaim. It returns the number of files rewritten.
func (s *Store) RunGC(discardRatio float64) (int, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	rewritten := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewritten++
			continue
		case errors.Is(err, badger.ErrNoRewrite),
			errors.Is(err, badger.ErrGCInMemoryMode),
			errors.Is(err, badger.ErrRejected):
			recordGC(rewritten)
			return rewritten, nil
		default:
			metrics.CacheGCRuns.WithLabelValues("error").Inc()
			return rewritten, fmt.Errorf("kvcache value log GC: %w", err)
		}
	}
}

func recordGC(rewritten int) {
	if rewritten > 0 {
		metrics.CacheGCRuns.WithLabelValues("rewritten").Inc()
		logging.Debug().Int("files", rewritten).Msg("kvcache value log GC reclaimed space")
		return
	}
	metrics.CacheGCRuns.WithLabelValues("noop").Inc()
}

// Close flushes and closes the database. Subsequent calls are no-ops.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
