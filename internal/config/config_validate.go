// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRecognition(); err != nil {
		return err
	}

	if err := c.validateNutrition(); err != nil {
		return err
	}

	if err := c.validateScan(); err != nil {
		return err
	}

	if err := c.validateKVCache(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	return nil
}

// validateRecognition validates the Clarifai settings. The PAT has no default.
func (c *Config) validateRecognition() error {
	if c.Recognition.PAT == "" {
		return fmt.Errorf("CLARIFAI_PAT is required")
	}
	if err := validateHTTPURL(c.Recognition.URL, "CLARIFAI_URL"); err != nil {
		return fmt.Errorf("CLARIFAI_URL is invalid: %w", err)
	}
	if c.Recognition.UserID == "" || c.Recognition.AppID == "" || c.Recognition.ModelID == "" {
		return fmt.Errorf("CLARIFAI_USER_ID, CLARIFAI_APP_ID and CLARIFAI_MODEL_ID must not be empty")
	}
	if c.Recognition.MaxRetries < 0 {
		return fmt.Errorf("CLARIFAI_MAX_RETRIES must be non-negative, got %d", c.Recognition.MaxRetries)
	}
	return nil
}

// validateNutrition validates the USDA FoodData Central settings.
func (c *Config) validateNutrition() error {
	if c.Nutrition.APIKey == "" {
		return fmt.Errorf("USDA_API_KEY is required")
	}
	if err := validateHTTPURL(c.Nutrition.URL, "USDA_URL"); err != nil {
		return fmt.Errorf("USDA_URL is invalid: %w", err)
	}
	if c.Nutrition.PageSize < 1 {
		return fmt.Errorf("USDA_PAGE_SIZE must be at least 1, got %d", c.Nutrition.PageSize)
	}
	if c.Nutrition.RequestsPerSecond < 0 {
		return fmt.Errorf("USDA_REQUESTS_PER_SECOND must be non-negative, got %v", c.Nutrition.RequestsPerSecond)
	}
	if c.Nutrition.RequestsPerSecond > 0 && c.Nutrition.Burst < 1 {
		return fmt.Errorf("USDA_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateScan() error {
	s := c.Scan
	if s.ConfidenceThreshold < 0 || s.ConfidenceThreshold > 1 {
		return fmt.Errorf("SCAN_CONFIDENCE_THRESHOLD must be between 0 and 1, got %v", s.ConfidenceThreshold)
	}
	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("SCAN_MAX_UPLOAD_BYTES must be positive, got %d", s.MaxUploadBytes)
	}
	if len(s.FoodKeywords) == 0 {
		return fmt.Errorf("SCAN_FOOD_KEYWORDS must contain at least one keyword")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("SCAN_TIMEZONE is invalid: %w", err)
	}
	if _, err := c.WeekStartDay(); err != nil {
		return err
	}
	if s.LookupConcurrency < 1 {
		return fmt.Errorf("SCAN_LOOKUP_CONCURRENCY must be at least 1, got %d", s.LookupConcurrency)
	}
	return nil
}

func (c *Config) validateKVCache() error {
	if !c.KVCache.Enabled() {
		return nil
	}
	if c.KVCache.RecognitionTTL <= 0 || c.KVCache.NutritionTTL <= 0 {
		return fmt.Errorf("KVCACHE_RECOGNITION_TTL and KVCACHE_NUTRITION_TTL must be positive")
	}
	if c.KVCache.GCInterval <= 0 {
		return fmt.Errorf("KVCACHE_GC_INTERVAL must be positive, got %v", c.KVCache.GCInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.UploadRateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS and UPLOAD_RATE_LIMIT_REQS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Location resolves the configured scan timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Scan.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Scan.Timezone)
	}
}

// WeekStartDay resolves the configured first day of the week.
func (c *Config) WeekStartDay() (time.Weekday, error) {
	switch strings.ToLower(c.Scan.WeekStart) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("SCAN_WEEK_START must be sunday or monday, got %q", c.Scan.WeekStart)
	}
}
