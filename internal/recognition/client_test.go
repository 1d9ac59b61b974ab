// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package recognition

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/platescan/internal/config"
	"github.com/tomtom215/platescan/internal/kvcache"
	"github.com/tomtom215/platescan/internal/upstream"
)

const conceptsBody = `{
  "status": {"code": 10000, "description": "Ok"},
  "outputs": [{
    "data": {"concepts": [
      {"id": "ai_1", "name": "pizza", "value": 0.98},
      {"id": "ai_2", "name": "cheese", "value": 0.71}
    ]}
  }]
}`

func testConfig(url string) *config.RecognitionConfig {
	return &config.RecognitionConfig{
		URL:            url,
		PAT:            "test-pat",
		UserID:         "clarifai",
		AppID:          "main",
		ModelID:        "food-item-recognition",
		Timeout:        5 * time.Second,
		RetryBaseDelay: time.Millisecond,
	}
}

func TestRecognize_RequestShape(t *testing.T) {
	image := []byte("\x89PNG fake image bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v2/models/food-item-recognition/outputs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Key test-pat" {
			t.Errorf("Authorization = %q", got)
		}

		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.UserAppID.UserID != "clarifai" || req.UserAppID.AppID != "main" {
			t.Errorf("user_app_id = %+v", req.UserAppID)
		}
		if len(req.Inputs) != 1 {
			t.Errorf("inputs = %d, want 1", len(req.Inputs))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Inputs[0].Data.Image.Base64)
		if err != nil || string(decoded) != string(image) {
			t.Errorf("image payload mismatch: %v", err)
		}

		_, _ = w.Write([]byte(conceptsBody))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil, time.Hour)
	concepts, err := c.Recognize(context.Background(), image)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if len(concepts) != 2 || concepts[0].Name != "pizza" || concepts[0].Value != 0.98 {
		t.Errorf("concepts = %+v", concepts)
	}
}

func TestRecognize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		check   func(error) bool
	}{
		{
			name:    "empty outputs",
			status:  http.StatusOK,
			body:    `{"status":{"code":10000},"outputs":[]}`,
			wantErr: ErrNoConcepts,
		},
		{
			name:   "clarifai failure status",
			status: http.StatusOK,
			body:   `{"status":{"code":11102,"description":"Invalid request"}}`,
			check:  func(err error) bool { return err != nil },
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"status":{"code":11009}}`,
			check:  func(err error) bool { return hasStatus(err, http.StatusUnauthorized) },
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check:  func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(testConfig(srv.URL), nil, time.Hour)
			_, err := c.Recognize(context.Background(), []byte("img"))

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecognize_CachesByDigest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(conceptsBody))
	}))
	defer srv.Close()

	kv, err := kvcache.Open(kvcache.Options{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	c := NewClient(testConfig(srv.URL), kv, time.Hour)

	for i := 0; i < 3; i++ {
		concepts, err := c.Recognize(context.Background(), []byte("same image"))
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if len(concepts) != 2 {
			t.Fatalf("call %d: %d concepts", i, len(concepts))
		}
	}
	if _, err := c.Recognize(context.Background(), []byte("other image")); err != nil {
		t.Fatal(err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("abc"))
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if a != Digest([]byte("abc")) {
		t.Error("digest is not deterministic")
	}
	if a == Digest([]byte("abd")) {
		t.Error("different input produced the same digest")
	}
}

// hasStatus reports whether err carries an upstream response with code.
func hasStatus(err error, code int) bool {
	var se *upstream.StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
