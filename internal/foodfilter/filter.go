// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

// Package foodfilter decides which recognition concepts are food.
//
// Two rules apply, and they deliberately differ:
//   - An image is food when ANY concept name contains a keyword OR ANY
//     concept value exceeds the threshold.
//   - A concept becomes a food item only when its name contains a keyword
//     AND its value exceeds the threshold.
//
// An image can therefore be food and still yield no items; callers treat
// that as "not food".
package foodfilter

import (
	"github.com/tomtom215/platescan/internal/models"
)

// Filter applies the keyword allowlist and confidence threshold.
type Filter struct {
	matcher   *Matcher
	threshold float64
}

// New creates a Filter. Values must be strictly greater than threshold.
func New(keywords []string, threshold float64) *Filter {
	return &Filter{
		matcher:   NewMatcher(keywords),
		threshold: threshold,
	}
}

// IsFood reports whether any concept looks like food.
func (f *Filter) IsFood(concepts []models.Concept) bool {
	for _, c := range concepts {
		if f.matcher.Contains(c.Name) || c.Value > f.threshold {
			return true
		}
	}
	return false
}

// Select returns the concepts that are both keyword matches and confident,
// in input order, as food items without nutrients.
func (f *Filter) Select(concepts []models.Concept) []models.FoodItem {
	items := make([]models.FoodItem, 0, len(concepts))
	for _, c := range concepts {
		if c.Value > f.threshold && f.matcher.Contains(c.Name) {
			items = append(items, models.FoodItem{
				Name:       c.Name,
				Confidence: c.Value,
			})
		}
	}
	return items
}

// Classify combines IsFood and Select. isFood is false whenever no item
// was selected.
func (f *Filter) Classify(concepts []models.Concept) (isFood bool, items []models.FoodItem) {
	if !f.IsFood(concepts) {
		return false, nil
	}
	items = f.Select(concepts)
	if len(items) == 0 {
		return false, nil
	}
	return true, items
}

// Threshold returns the configured confidence threshold.
func (f *Filter) Threshold() float64 {
	return f.threshold
}

// KeywordCount returns the number of distinct keywords after normalization.
func (f *Filter) KeywordCount() int {
	return f.matcher.Len()
}
