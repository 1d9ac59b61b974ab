// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package scan runs the analyze-food pipeline and serves stored scans by
// calendar range.
//
// Analyze: sniff -> recognize -> classify -> nutrition fan-out -> persist.
// Images that are not food, or contain no confidently recognized food item,
// produce {isFood:false} and are not stored.
package scan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/platescan/internal/cache"
	"github.com/tomtom215/platescan/internal/foodfilter"
	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/metrics"
	"github.com/tomtom215/platescan/internal/models"
	"github.com/tomtom215/platescan/internal/recognition"
)

var (
	// ErrEmptyImage is returned for a zero-length upload.
	ErrEmptyImage = errors.New("image is empty")

	// ErrNotImage is returned when the upload does not sniff as an image.
	ErrNotImage = errors.New("upload is not an image")
)

// defaultLookupConcurrency bounds parallel nutrition lookups.
const defaultLookupConcurrency = 8

// Recognizer labels an image. digest identifies the image for caching.
type Recognizer interface {
	RecognizeDigest(ctx context.Context, image []byte, digest string) ([]models.Concept, error)
}

// NutritionLookup resolves a food name to nutrients, nil when unknown.
type NutritionLookup interface {
	Lookup(ctx context.Context, name string) (*models.Nutrients, error)
}

// Store persists and reads scans.
type Store interface {
	InsertScan(ctx context.Context, scan *models.Scan) error
	ScansBetween(ctx context.Context, start, end time.Time) ([]models.Scan, error)
	GetScan(ctx context.Context, id string) (*models.Scan, error)
}

// Result is the outcome of Analyze. Scan is nil when IsFood is false.
type Result struct {
	IsFood bool
	Scan   *models.Scan
}

// Options configures a Service.
type Options struct {
	Recognizer        Recognizer
	Nutrition         NutritionLookup
	Store             Store
	Filter            *foodfilter.Filter
	Ranges            *Ranges
	QueryCache        *cache.Cache // optional
	LookupConcurrency int

	Now   func() time.Time
	NewID func() string
}

// Service implements the scan pipeline and range queries.
type Service struct {
	recognizer  Recognizer
	nutrition   NutritionLookup
	store       Store
	filter      *foodfilter.Filter
	ranges      *Ranges
	queries     *cache.Cache
	concurrency int
	now         func() time.Time
	newID       func() string
}

// NewService wires a Service. Recognizer, Nutrition, Store and Filter are
// required.
func NewService(o Options) *Service {
	s := &Service{
		recognizer:  o.Recognizer,
		nutrition:   o.Nutrition,
		store:       o.Store,
		filter:      o.Filter,
		ranges:      o.Ranges,
		queries:     o.QueryCache,
		concurrency: o.LookupConcurrency,
		now:         o.Now,
		newID:       o.NewID,
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultLookupConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.ranges == nil {
		s.ranges = NewRanges(time.Local, time.Sunday, s.now)
	}
	return s
}

// Ranges returns the calendar used for range queries.
func (s *Service) Ranges() *Ranges { return s.ranges }

// Analyze runs the full pipeline on one uploaded image.
func (s *Service) Analyze(ctx context.Context, image []byte) (res *Result, err error) {
	start := time.Now()
	outcome := "error"
	items := 0
	defer func() {
		metrics.RecordScanAnalysis(outcome, items, time.Since(start))
	}()

	if err := validateImage(image); err != nil {
		outcome = "rejected"
		return nil, err
	}

	log := logging.Ctx(ctx)
	digest := recognition.Digest(image)

	concepts, err := s.recognizer.RecognizeDigest(ctx, image, digest)
	if err != nil {
		return nil, fmt.Errorf("recognize image: %w", err)
	}

	isFood, selected := s.filter.Classify(concepts)
	if !isFood {
		outcome = "not_food"
		log.Info().Int("concepts", len(concepts)).Msg("Image is not food")
		return &Result{IsFood: false}, nil
	}

	if err := s.lookupNutrients(ctx, selected); err != nil {
		return nil, err
	}

	scan := &models.Scan{
		ID:          s.newID(),
		Date:        s.now().UTC(),
		ImageDigest: digest,
		FoodItems:   selected,
	}
	if err := s.store.InsertScan(ctx, scan); err != nil {
		return nil, fmt.Errorf("store scan: %w", err)
	}
	if s.queries != nil {
		s.queries.Clear()
	}

	outcome = "food"
	items = len(selected)
	log.Info().Str("scan_id", scan.ID).Int("items", items).Msg("Scan stored")
	return &Result{IsFood: true, Scan: scan}, nil
}

// lookupNutrients fills items[i].Nutrients in place. A failed lookup leaves
// the item without nutrients; only cancellation aborts.
func (s *Service) lookupNutrients(ctx context.Context, items []models.FoodItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range items {
		g.Go(func() error {
			n, err := s.nutrition.Lookup(gctx, items[i].Name)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.Ctx(ctx).Warn().Err(err).Str("food", items[i].Name).Msg("Nutrition lookup failed")
				return nil
			}
			items[i].Nutrients = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("nutrition lookups: %w", err)
	}
	return nil
}

func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrEmptyImage
	}
	if !strings.HasPrefix(http.DetectContentType(image), "image/") {
		return ErrNotImage
	}
	return nil
}

// ScansIn returns the scans within r, served from the query cache when
// possible.
func (s *Service) ScansIn(ctx context.Context, r Range) ([]models.Scan, error) {
	key := cache.GenerateKey("scans.range", r)
	var gen uint64
	if s.queries != nil {
		if v, ok := s.queries.Get(key); ok {
			if scans, ok := v.([]models.Scan); ok {
				return scans, nil
			}
		}
		// read before the store so a scan stored meanwhile discards this result
		gen = s.queries.Generation()
	}

	scans, err := s.store.ScansBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	if s.queries != nil {
		s.queries.SetIfGeneration(key, scans, gen)
	}
	return scans, nil
}

// DailyScans returns the scans of each range, keyed by its calendar date, in
// the given order.
func (s *Service) DailyScans(ctx context.Context, days []Range) ([]models.DailyScans, error) {
	out := make([]models.DailyScans, 0, len(days))
	for _, d := range days {
		scans, err := s.ScansIn(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("scans for %s: %w", d.Label(), err)
		}
		out = append(out, models.DailyScans{Date: d.Label(), Scans: scans})
	}
	return out, nil
}

// ScanByID returns a stored scan.
func (s *Service) ScanByID(ctx context.Context, id string) (*models.Scan, error) {
	return s.store.GetScan(ctx, id)
}
