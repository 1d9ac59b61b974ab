// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/platescan/internal/foodfilter"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/platescan/config.yaml",
	"/etc/platescan/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         3000,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second, // analyze-food waits on two upstreams
			Environment:  "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/platescan.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Recognition: RecognitionConfig{
			URL:            "https://api.clarifai.com",
			PAT:            "",
			UserID:         "clarifai",
			AppID:          "main",
			ModelID:        "food-item-recognition",
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			RetryBaseDelay: time.Second,
		},
		Nutrition: NutritionConfig{
			URL:               "https://api.nal.usda.gov",
			APIKey:            "",
			PageSize:          1,
			Timeout:           15 * time.Second,
			RequestsPerSecond: 0,
			Burst:             1,
			MaxRetries:        3,
			RetryBaseDelay:    time.Second,
		},
		Scan: ScanConfig{
			ConfidenceThreshold: 0.3,
			MaxUploadBytes:      10 << 20, // 10MB
			FoodKeywords:        foodfilter.DefaultKeywords(),
			Timezone:            "Local",
			WeekStart:           "sunday",
			LookupConcurrency:   8,
			QueryCacheTTL:       time.Minute,
		},
		KVCache: KVCacheConfig{
			Path:           "",
			InMemory:       false,
			RecognitionTTL: 24 * time.Hour,
			NutritionTTL:   7 * 24 * time.Hour,
			GCInterval:     10 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:       100,
			RateLimitWindow:     time.Minute,
			RateLimitDisabled:   false,
			UploadRateLimitReqs: 20,
			CORSOrigins:         []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"scan.food_keywords",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"environment":        "server.environment",

	// Database
	"duckdb_path":                     "database.path",
	"duckdb_max_memory":               "database.max_memory",
	"duckdb_threads":                  "database.threads",
	"duckdb_preserve_insertion_order": "database.preserve_insertion_order",

	// Clarifai
	"clarifai_url":              "recognition.url",
	"clarifai_pat":              "recognition.pat",
	"clarifai_user_id":          "recognition.user_id",
	"clarifai_app_id":           "recognition.app_id",
	"clarifai_model_id":         "recognition.model_id",
	"clarifai_timeout":          "recognition.timeout",
	"clarifai_max_retries":      "recognition.max_retries",
	"clarifai_retry_base_delay": "recognition.retry_base_delay",

	// USDA FoodData Central
	"usda_url":                 "nutrition.url",
	"usda_api_key":             "nutrition.api_key",
	"usda_page_size":           "nutrition.page_size",
	"usda_timeout":             "nutrition.timeout",
	"usda_requests_per_second": "nutrition.requests_per_second",
	"usda_burst":               "nutrition.burst",
	"usda_max_retries":         "nutrition.max_retries",
	"usda_retry_base_delay":    "nutrition.retry_base_delay",

	// Scan pipeline
	"scan_confidence_threshold": "scan.confidence_threshold",
	"scan_max_upload_bytes":     "scan.max_upload_bytes",
	"scan_food_keywords":        "scan.food_keywords",
	"scan_timezone":             "scan.timezone",
	"scan_week_start":           "scan.week_start",
	"scan_lookup_concurrency":   "scan.lookup_concurrency",
	"scan_query_cache_ttl":      "scan.query_cache_ttl",

	// KV cache
	"kvcache_path":            "kvcache.path",
	"kvcache_in_memory":       "kvcache.in_memory",
	"kvcache_recognition_ttl": "kvcache.recognition_ttl",
	"kvcache_nutrition_ttl":   "kvcache.nutrition_ttl",
	"kvcache_gc_interval":     "kvcache.gc_interval",

	// Security
	"rate_limit_reqs":        "security.rate_limit_reqs",
	"rate_limit_window":      "security.rate_limit_window",
	"disable_rate_limit":     "security.rate_limit_disabled",
	"upload_rate_limit_reqs": "security.upload_rate_limit_reqs",
	"cors_origins":           "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - CLARIFAI_PAT -> recognition.pat
//   - USDA_API_KEY -> nutrition.api_key
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//
// Unmapped keys return "" so unrelated environment variables are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
