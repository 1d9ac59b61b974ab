// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package upstream

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient returns a client against srv whose sleeps are recorded
// instead of waited.
func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) (*Client, *[]time.Duration) {
	t.Helper()
	if cfg.Service == "" {
		cfg.Service = "test-" + strings.ReplaceAll(t.Name(), "/", "-")
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}
	cfg.HTTPClient = srv.Client()
	c := NewClient(cfg)

	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return c, &delays
}

func getRequest(url string) RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	}
}

func TestClient_DoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"apple","value":0.9}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Config{})

	var out struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	if err := c.DoJSON(context.Background(), getRequest(srv.URL), &out); err != nil {
		t.Fatalf("DoJSON() error = %v", err)
	}
	if out.Name != "apple" || out.Value != 0.9 {
		t.Errorf("decoded %+v", out)
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed", c.BreakerState())
	}
}

func TestClient_RetriesThrottled(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		failures   int32
		maxRetries int
		wantErr    bool
		wantCalls  int32
		wantDelays []time.Duration
	}{
		{
			name:       "429 then success uses backoff",
			status:     http.StatusTooManyRequests,
			failures:   2,
			maxRetries: 3,
			wantCalls:  3,
			wantDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "retry-after overrides backoff",
			status:     http.StatusTooManyRequests,
			retryAfter: "5",
			failures:   1,
			maxRetries: 3,
			wantCalls:  2,
			wantDelays: []time.Duration{5 * time.Second},
		},
		{
			name:       "retry-after is capped",
			status:     http.StatusServiceUnavailable,
			retryAfter: "3600",
			failures:   1,
			maxRetries: 1,
			wantCalls:  2,
			wantDelays: []time.Duration{maxRetryDelay},
		},
		{
			name:       "503 exhausts retries",
			status:     http.StatusServiceUnavailable,
			failures:   10,
			maxRetries: 2,
			wantErr:    true,
			wantCalls:  3,
			wantDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "400 is not retried",
			status:     http.StatusBadRequest,
			failures:   10,
			maxRetries: 3,
			wantErr:    true,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				if n <= tt.failures {
					if tt.retryAfter != "" {
						w.Header().Set("Retry-After", tt.retryAfter)
					}
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("slow down"))
					return
				}
				_, _ = w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			c, delays := newTestClient(t, srv, Config{MaxRetries: tt.maxRetries})

			var out map[string]any
			err := c.DoJSON(context.Background(), getRequest(srv.URL), &out)

			if tt.wantErr {
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("error = %v, want *StatusError", err)
				}
				if se.StatusCode != tt.status || se.Body != "slow down" {
					t.Errorf("StatusError = %+v", se)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("server calls = %d, want %d", got, tt.wantCalls)
			}
			if len(*delays) != len(tt.wantDelays) {
				t.Fatalf("delays = %v, want %v", *delays, tt.wantDelays)
			}
			for i, d := range tt.wantDelays {
				if (*delays)[i] != d {
					t.Errorf("delay[%d] = %v, want %v", i, (*delays)[i], d)
				}
			}
		})
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Config{})

	for i := 0; i < 10; i++ {
		if _, err := c.Do(context.Background(), getRequest(srv.URL)); !hasStatus(err, http.StatusInternalServerError) {
			t.Fatalf("call %d: error = %v, want 500 StatusError", i, err)
		}
	}

	_, err := c.Do(context.Background(), getRequest(srv.URL))
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error = %v, want ErrCircuitOpen", err)
	}
	if got := calls.Load(); got != 10 {
		t.Errorf("server calls = %d, want 10 (open circuit must not call upstream)", got)
	}
	if c.BreakerState() != "open" {
		t.Errorf("BreakerState() = %q, want open", c.BreakerState())
	}
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Config{})

	for i := 0; i < 20; i++ {
		_, err := c.Do(context.Background(), getRequest(srv.URL))
		if !hasStatus(err, http.StatusUnauthorized) {
			t.Fatalf("call %d: error = %v, want 401", i, err)
		}
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed", c.BreakerState())
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Do(ctx, getRequest(srv.URL)); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClient_RateLimiterHonoursDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Config{RequestsPerSecond: 0.001, Burst: 1})

	resp, err := c.Do(context.Background(), getRequest(srv.URL))
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Do(ctx, getRequest(srv.URL)); err == nil {
		t.Fatal("second call should fail waiting on the limiter")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"", 0, false},
		{"7", 7 * time.Second, true},
		{"-1", 0, false},
		{"soon", 0, false},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second, true},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseRetryAfter(tt.in, now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestReadBodyForError(t *testing.T) {
	small := ReadBodyForError(strings.NewReader("bad request"))
	if string(small) != "bad request" {
		t.Errorf("got %q", small)
	}

	big := ReadBodyForError(bytes.NewReader(bytes.Repeat([]byte("x"), maxErrorBodySize+10)))
	if !bytes.HasSuffix(big, []byte("(truncated)")) {
		t.Error("large body should be marked truncated")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Service: "usda", StatusCode: 403}
	if err.Error() != "usda returned HTTP 403" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Temporary() {
		t.Error("403 is not temporary")
	}
}

// hasStatus reports whether err carries an upstream response with code.
func hasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
