// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package nutrition

import (
	"strings"

	"github.com/tomtom215/platescan/internal/models"
)

// USDA nutrient names mapped onto Nutrients fields. Matching is exact.
const (
	nutrientEnergy       = "Energy"
	nutrientFat          = "Total lipid (fat)"
	nutrientCarbohydrate = "Carbohydrate, by difference"
	nutrientProtein      = "Protein"
)

// FoodNutrient is one row of a FoodData Central search hit.
type FoodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// Extract reduces a food's nutrient rows to the summary returned to clients.
// Macros take the first exact-name match and default to 0. Vitamins are the
// names containing "Vitamin"; minerals are those containing "Calcium" or
// "Iron". Both keep input order and are never nil.
func Extract(rows []FoodNutrient) *models.Nutrients {
	n := &models.Nutrients{
		Vitamins: []string{},
		Minerals: []string{},
	}
	var seenEnergy, seenFat, seenCarb, seenProtein bool

	for _, row := range rows {
		switch row.NutrientName {
		case nutrientEnergy:
			if !seenEnergy {
				n.Calories, seenEnergy = row.Value, true
			}
		case nutrientFat:
			if !seenFat {
				n.Fats, seenFat = row.Value, true
			}
		case nutrientCarbohydrate:
			if !seenCarb {
				n.Carbohydrates, seenCarb = row.Value, true
			}
		case nutrientProtein:
			if !seenProtein {
				n.Proteins, seenProtein = row.Value, true
			}
		}

		if strings.Contains(row.NutrientName, "Vitamin") {
			n.Vitamins = append(n.Vitamins, row.NutrientName)
		}
		if strings.Contains(row.NutrientName, "Calcium") || strings.Contains(row.NutrientName, "Iron") {
			n.Minerals = append(n.Minerals, row.NutrientName)
		}
	}
	return n
}
