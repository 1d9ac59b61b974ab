// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	_ "github.com/tomtom215/platescan/docs" // registers the OpenAPI document with swag
	"github.com/tomtom215/platescan/internal/api"
	"github.com/tomtom215/platescan/internal/cache"
	"github.com/tomtom215/platescan/internal/config"
	"github.com/tomtom215/platescan/internal/database"
	"github.com/tomtom215/platescan/internal/foodfilter"
	"github.com/tomtom215/platescan/internal/kvcache"
	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/metrics"
	"github.com/tomtom215/platescan/internal/nutrition"
	"github.com/tomtom215/platescan/internal/recognition"
	"github.com/tomtom215/platescan/internal/scan"
	"github.com/tomtom215/platescan/internal/supervisor"
	"github.com/tomtom215/platescan/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("kvcache", cfg.KVCache.Enabled()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Platescan")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Platescan stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until SIGINT or SIGTERM. Resources
// opened here are closed by its defers, which os.Exit in main would skip.
func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	var kv *kvcache.Store
	if cfg.KVCache.Enabled() {
		kv, err = kvcache.Open(kvcache.Options{Path: cfg.KVCache.Path, InMemory: cfg.KVCache.InMemory})
		if err != nil {
			return fmt.Errorf("open kv cache: %w", err)
		}
		defer func() {
			if err := kv.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing KV cache")
			}
		}()
		logging.Info().Str("path", cfg.KVCache.Path).Bool("in_memory", cfg.KVCache.InMemory).Msg("KV cache opened")
	} else {
		logging.Info().Msg("KV cache disabled, every upload calls the upstream APIs")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	weekStart, err := cfg.WeekStartDay()
	if err != nil {
		return err
	}

	queryCache := cache.New("query", cfg.Scan.QueryCacheTTL)
	defer func() {
		queryCache.Close()
		stats := queryCache.GetStats()
		logging.Info().
			Str("cache", queryCache.Name()).
			Int64("hits", stats.Hits).
			Int64("misses", stats.Misses).
			Float64("hit_rate_pct", queryCache.HitRate()).
			Msg("Query cache stopped")
	}()

	recognizer := recognition.NewClient(&cfg.Recognition, kv, cfg.KVCache.RecognitionTTL)
	nutrients := nutrition.NewClient(&cfg.Nutrition, kv, cfg.KVCache.NutritionTTL)
	filter := foodfilter.New(cfg.Scan.FoodKeywords, cfg.Scan.ConfidenceThreshold)
	logging.Info().
		Int("keywords", filter.KeywordCount()).
		Float64("threshold", filter.Threshold()).
		Msg("Food filter ready")

	svc := scan.NewService(scan.Options{
		Recognizer:        recognizer,
		Nutrition:         nutrients,
		Store:             db,
		Filter:            filter,
		Ranges:            scan.NewRanges(loc, weekStart, time.Now),
		QueryCache:        queryCache,
		LookupConcurrency: cfg.Scan.LookupConcurrency,
	})

	handler := api.NewHandler(api.HandlerOptions{
		Scans:          svc,
		DB:             db,
		Upstreams: map[string]api.BreakerStater{
			"recognition": recognizer,
			"nutrition":   nutrients,
		},
		MaxUploadBytes: cfg.Scan.MaxUploadBytes,
		Version:        version,
	})
	router := api.NewRouter(handler, &cfg.Security)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	// zerolog bridged to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))
	if kv != nil {
		tree.AddDataService(services.NewKVCacheGCService(kv, cfg.KVCache.GCInterval, kvcache.DefaultGCDiscardRatio))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Str("addr", addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish")
		// suture sends exactly one result and never closes the channel
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, s := range unstopped {
			logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}
