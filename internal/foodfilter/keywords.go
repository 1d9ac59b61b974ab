// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package foodfilter

// defaultKeywords is the built-in allowlist of food label fragments.
// Multi-word entries are kept even when a shorter entry already matches them
// so that the list can be trimmed from config without losing dishes.
var defaultKeywords = []string{
	// Western staples
	"pizza", "burger", "sandwich", "salad", "pasta", "sushi", "cake", "cookie",
	"bread", "fruit", "vegetable", "meat", "chicken", "fish", "rice", "soup",
	"noodles", "ice cream", "chocolate", "cheese", "egg", "fries", "taco",
	"burrito", "steak", "pancake", "waffle",

	// Drinks
	"smoothie", "juice", "coffee", "tea", "drink",

	// Produce
	"apple", "banana", "orange", "grape", "strawberry", "blueberry", "mango",
	"potato", "tomato", "carrot", "broccoli", "spinach", "lettuce", "onion",

	// Dishes
	"jeera rice", "fried rice", "chicken fried rice", "tandoori chicken",
	"mexican chicken", "omelette", "milkshake", "dal", "curry", "biryani",
	"naan", "roti", "paneer", "samosa", "dosa", "idli", "vada", "chutney",
	"gravy", "stew", "kebab", "shawarma", "falafel", "hummus", "pulao",
	"khichdi", "paratha",
}

// DefaultKeywords returns a copy of the built-in food keyword allowlist.
func DefaultKeywords() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}
