// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every optional setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Upstreams:
//     - Recognition: Clarifai food-item-recognition model
//     - Nutrition: USDA FoodData Central search API
//
//  2. Infrastructure:
//     - Database: DuckDB scan store
//     - KVCache: BadgerDB cache for upstream responses
//     - Server: HTTP listener
//
//  3. Pipeline:
//     - Scan: Keyword allowlist, confidence threshold, calendar settings
//
//  4. API & Observability:
//     - Security: CORS and rate limiting
//     - Logging: Level and output format
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Recognition RecognitionConfig `koanf:"recognition"`
	Nutrition   NutritionConfig   `koanf:"nutrition"`
	Scan        ScanConfig        `koanf:"scan"`
	KVCache     KVCacheConfig     `koanf:"kvcache"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	Environment  string        `koanf:"environment"` // "development", "staging", "production"
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// RecognitionConfig holds settings for the Clarifai image recognition API.
type RecognitionConfig struct {
	URL            string        `koanf:"url"`
	PAT            string        `koanf:"pat"`
	UserID         string        `koanf:"user_id"`
	AppID          string        `koanf:"app_id"`
	ModelID        string        `koanf:"model_id"`
	Timeout        time.Duration `koanf:"timeout"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
}

// NutritionConfig holds settings for the USDA FoodData Central API.
type NutritionConfig struct {
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	PageSize          int           `koanf:"page_size"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"` // 0 = unlimited
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
}

// ScanConfig controls how recognized concepts become food items and how
// scans are bucketed by calendar day.
type ScanConfig struct {
	ConfidenceThreshold float64       `koanf:"confidence_threshold"`
	MaxUploadBytes      int64         `koanf:"max_upload_bytes"`
	FoodKeywords        []string      `koanf:"food_keywords"`
	Timezone            string        `koanf:"timezone"`   // IANA name or "Local"
	WeekStart           string        `koanf:"week_start"` // "sunday" or "monday"
	LookupConcurrency   int           `koanf:"lookup_concurrency"`
	QueryCacheTTL       time.Duration `koanf:"query_cache_ttl"`
}

// KVCacheConfig holds BadgerDB settings for the upstream response cache.
// An empty Path disables the cache unless InMemory is set.
type KVCacheConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	RecognitionTTL time.Duration `koanf:"recognition_ttl"`
	NutritionTTL   time.Duration `koanf:"nutrition_ttl"`
	GCInterval     time.Duration `koanf:"gc_interval"`
}

// Enabled reports whether a persistent or in-memory store should be opened.
func (c KVCacheConfig) Enabled() bool {
	return c.Path != "" || c.InMemory
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs       int           `koanf:"rate_limit_reqs"`
	RateLimitWindow     time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled   bool          `koanf:"rate_limit_disabled"`
	UploadRateLimitReqs int           `koanf:"upload_rate_limit_reqs"`
	CORSOrigins         []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
