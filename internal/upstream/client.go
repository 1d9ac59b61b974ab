// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/metrics"
)

// maxRetryDelay caps both computed backoff and server-provided Retry-After.
const maxRetryDelay = 30 * time.Second

// Config configures a Client.
type Config struct {
	// Service names the upstream in metrics, logs and errors.
	Service string

	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration

	// RequestsPerSecond <= 0 disables client-side rate limiting.
	RequestsPerSecond float64
	Burst             int

	Breaker BreakerSettings

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// RequestFunc builds a fresh request for each attempt so that bodies can be
// replayed across retries.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Client performs rate-limited, retried, circuit-broken HTTP calls against a
// single upstream service. It is safe for concurrent use.
type Client struct {
	service        string
	http           *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	limiter        *rate.Limiter
	breaker        *Breaker[*http.Response]
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	settings := cfg.Breaker
	if settings == (BreakerSettings{}) {
		settings = DefaultBreakerSettings()
	}

	return &Client{
		service:        cfg.Service,
		http:           httpClient,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		limiter:        limiter,
		breaker:        NewBreaker[*http.Response](cfg.Service, settings),
		sleep:          sleepContext,
	}
}

// BreakerState returns the circuit breaker state.
func (c *Client) BreakerState() string { return c.breaker.State() }

// Do executes the request built by newReq and returns a 2xx response. The
// caller must close the response body. Non-2xx responses become *StatusError.
func (c *Client) Do(ctx context.Context, newReq RequestFunc) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		return c.doWithRetry(ctx, newReq)
	})
}

// DoJSON executes the request and decodes a 2xx JSON body into out.
func (c *Client) DoJSON(ctx context.Context, newReq RequestFunc, out any) error {
	resp, err := c.Do(ctx, newReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, newReq RequestFunc) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%s rate limiter: %w", c.service, err)
			}
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("build %s request: %w", c.service, err)
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			metrics.RecordUpstreamRequest(c.service, 0, time.Since(start))
			return nil, fmt.Errorf("%s request failed: %w", c.service, err)
		}
		metrics.RecordUpstreamRequest(c.service, resp.StatusCode, time.Since(start))

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		statusErr := &StatusError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(ReadBodyForError(resp.Body))),
		}
		_ = resp.Body.Close()

		if !statusErr.Temporary() || attempt >= c.maxRetries {
			return nil, statusErr
		}

		delay := c.backoff(attempt, resp.Header.Get("Retry-After"))
		metrics.RecordUpstreamRetry(c.service, resp.StatusCode)
		logging.Ctx(ctx).Warn().
			Str("service", c.service).
			Int("status", resp.StatusCode).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Upstream throttled, retrying")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// backoff returns base*2^attempt, or the Retry-After value when present.
func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
	if d, ok := parseRetryAfter(retryAfter, time.Now()); ok {
		delay = d
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// parseRetryAfter accepts delta-seconds or an HTTP-date.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
