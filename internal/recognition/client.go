// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package recognition labels food images with the Clarifai model outputs API.
package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/platescan/internal/config"
	"github.com/tomtom215/platescan/internal/kvcache"
	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/models"
	"github.com/tomtom215/platescan/internal/upstream"
)

// CacheBucket is the kvcache namespace for recognition results.
const CacheBucket = "recognition"

// statusSuccess is Clarifai's status.code for a successful call.
const statusSuccess = 10000

// ErrNoConcepts is returned when Clarifai answers without any model output.
var ErrNoConcepts = errors.New("recognition returned no outputs")

// Client calls Clarifai and caches concepts by image digest.
type Client struct {
	api      *upstream.Client
	endpoint string
	pat      string
	userID   string
	appID    string
	modelID  string
	cache    *kvcache.Store
	cacheTTL time.Duration
}

// NewClient creates a Clarifai client. cache may be nil.
func NewClient(cfg *config.RecognitionConfig, cache *kvcache.Store, cacheTTL time.Duration) *Client {
	return &Client{
		api: upstream.NewClient(upstream.Config{
			Service:        "clarifai",
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryBaseDelay: cfg.RetryBaseDelay,
		}),
		endpoint: fmt.Sprintf("%s/v2/models/%s/outputs", strings.TrimRight(cfg.URL, "/"), cfg.ModelID),
		pat:      cfg.PAT,
		userID:   cfg.UserID,
		appID:    cfg.AppID,
		modelID:  cfg.ModelID,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// BreakerState exposes the upstream circuit state for health reporting.
func (c *Client) BreakerState() string {
	return c.api.BreakerState()
}

// Digest returns the hex BLAKE2b-256 of image. It identifies uploads in the
// cache and on stored scans.
func Digest(image []byte) string {
	sum := blake2b.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// Recognize returns the concepts Clarifai predicts for image, most confident
// first as returned by the API.
func (c *Client) Recognize(ctx context.Context, image []byte) ([]models.Concept, error) {
	return c.RecognizeDigest(ctx, image, Digest(image))
}

// RecognizeDigest is Recognize for callers that already computed the digest.
func (c *Client) RecognizeDigest(ctx context.Context, image []byte, digest string) ([]models.Concept, error) {
	log := logging.Ctx(ctx)
	cacheKey := c.modelID + ":" + digest

	var cached []models.Concept
	hit, err := c.cache.GetJSON(CacheBucket, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Recognition cache read failed")
	}
	if hit {
		log.Debug().Str("digest", digest).Int("concepts", len(cached)).Msg("Recognition cache hit")
		return cached, nil
	}

	concepts, err := c.predict(ctx, image)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(CacheBucket, cacheKey, concepts, c.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("Recognition cache write failed")
	}
	return concepts, nil
}

func (c *Client) predict(ctx context.Context, image []byte) ([]models.Concept, error) {
	body, err := json.Marshal(newPredictRequest(c.userID, c.appID, image))
	if err != nil {
		return nil, fmt.Errorf("encode clarifai request: %w", err)
	}

	var resp predictResponse
	err = c.api.DoJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Key "+c.pat)
		return req, nil
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("clarifai predict: %w", err)
	}

	if resp.Status.Code != 0 && resp.Status.Code != statusSuccess {
		return nil, fmt.Errorf("clarifai predict: status %d: %s", resp.Status.Code, resp.Status.Description)
	}
	if len(resp.Outputs) == 0 {
		return nil, ErrNoConcepts
	}

	raw := resp.Outputs[0].Data.Concepts
	concepts := make([]models.Concept, 0, len(raw))
	for _, rc := range raw {
		concepts = append(concepts, models.Concept{Name: rc.Name, Value: rc.Value})
	}
	return concepts, nil
}

// predictRequest is the body of POST /v2/models/{model}/outputs.
type predictRequest struct {
	UserAppID userAppID `json:"user_app_id"`
	Inputs    []input   `json:"inputs"`
}

type userAppID struct {
	UserID string `json:"user_id"`
	AppID  string `json:"app_id"`
}

type input struct {
	Data inputData `json:"data"`
}

type inputData struct {
	Image inputImage `json:"image"`
}

type inputImage struct {
	Base64 string `json:"base64"`
}

func newPredictRequest(userID, appID string, image []byte) predictRequest {
	return predictRequest{
		UserAppID: userAppID{UserID: userID, AppID: appID},
		Inputs: []input{{
			Data: inputData{Image: inputImage{Base64: base64.StdEncoding.EncodeToString(image)}},
		}},
	}
}

type predictResponse struct {
	Status  apiStatus `json:"status"`
	Outputs []struct {
		Data struct {
			Concepts []struct {
				ID    string  `json:"id"`
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

type apiStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}
