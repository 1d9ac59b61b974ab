// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package models

import (
	"time"
)

// Concept is a single label returned by the image recognition model.
// Value is the model's confidence in [0, 1].
type Concept struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Nutrients holds the fields extracted from the first nutrition search hit.
// Numeric fields are zero when the nutrient was absent. Vitamins and
// Minerals hold nutrient names, not amounts.
type Nutrients struct {
	Calories      float64  `json:"calories"`
	Fats          float64  `json:"fats"`
	Carbohydrates float64  `json:"carbohydrates"`
	Proteins      float64  `json:"proteins"`
	Vitamins      []string `json:"vitamins"`
	Minerals      []string `json:"minerals"`
}

// FoodItem is a recognized food label that passed the keyword and
// confidence filter. Nutrients is nil when the lookup found nothing or failed.
type FoodItem struct {
	Name       string     `json:"name"`
	Confidence float64    `json:"confidence"`
	Nutrients  *Nutrients `json:"nutrients"`
}

// Scan is one persisted analysis of an uploaded image.
type Scan struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	ImageDigest string     `json:"imageDigest,omitempty"`
	FoodItems   []FoodItem `json:"foodItems"`
}
