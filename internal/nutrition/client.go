// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package nutrition looks up nutrient summaries for recognized foods in USDA
// FoodData Central.
package nutrition

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/platescan/internal/config"
	"github.com/tomtom215/platescan/internal/kvcache"
	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/metrics"
	"github.com/tomtom215/platescan/internal/models"
	"github.com/tomtom215/platescan/internal/upstream"
)

// CacheBucket is the kvcache namespace for lookups.
const CacheBucket = "nutrition"

// Client queries the FoodData Central search endpoint.
type Client struct {
	api      *upstream.Client
	endpoint string
	apiKey   string
	pageSize int
	cache    *kvcache.Store
	cacheTTL time.Duration
}

// NewClient creates a USDA client. cache may be nil.
func NewClient(cfg *config.NutritionConfig, cache *kvcache.Store, cacheTTL time.Duration) *Client {
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 1
	}
	return &Client{
		api: upstream.NewClient(upstream.Config{
			Service:           "usda",
			Timeout:           cfg.Timeout,
			MaxRetries:        cfg.MaxRetries,
			RetryBaseDelay:    cfg.RetryBaseDelay,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		}),
		endpoint: strings.TrimRight(cfg.URL, "/") + "/fdc/v1/foods/search",
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// BreakerState exposes the upstream circuit state for health reporting.
func (c *Client) BreakerState() string {
	return c.api.BreakerState()
}

// cachedLookup records misses too, so unknown foods are not re-queried.
type cachedLookup struct {
	Found     bool              `json:"found"`
	Nutrients *models.Nutrients `json:"nutrients,omitempty"`
}

// Lookup returns the nutrients of the best search hit for name, or nil when
// the search has no results.
func (c *Client) Lookup(ctx context.Context, name string) (*models.Nutrients, error) {
	log := logging.Ctx(ctx)
	key := strings.ToLower(strings.TrimSpace(name))

	var cached cachedLookup
	hit, err := c.cache.GetJSON(CacheBucket, key, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Nutrition cache read failed")
	}
	if hit {
		recordLookup(cached.Found)
		return cached.Nutrients, nil
	}

	nutrients, err := c.search(ctx, name)
	if err != nil {
		metrics.NutritionLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	recordLookup(nutrients != nil)

	entry := cachedLookup{Found: nutrients != nil, Nutrients: nutrients}
	if err := c.cache.SetJSON(CacheBucket, key, entry, c.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("Nutrition cache write failed")
	}
	return nutrients, nil
}

func (c *Client) search(ctx context.Context, name string) (*models.Nutrients, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", name)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	reqURL := c.endpoint + "?" + params.Encode()

	var resp searchResponse
	err := c.api.DoJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("usda search %q: %w", name, err)
	}

	if len(resp.Foods) == 0 {
		return nil, nil
	}
	return Extract(resp.Foods[0].FoodNutrients), nil
}

func recordLookup(found bool) {
	if found {
		metrics.NutritionLookups.WithLabelValues("found").Inc()
		return
	}
	metrics.NutritionLookups.WithLabelValues("not_found").Inc()
}

type searchResponse struct {
	TotalHits int `json:"totalHits"`
	Foods     []struct {
		FdcID         int            `json:"fdcId"`
		Description   string         `json:"description"`
		FoodNutrients []FoodNutrient `json:"foodNutrients"`
	} `json:"foods"`
}
