// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package foodfilter

import (
	"sync"
	"testing"
)

func TestMatcher_Contains(t *testing.T) {
	m := NewMatcher(DefaultKeywords())

	tests := []struct {
		text string
		want bool
	}{
		{"pizza", true},
		{"PIZZA", true},
		{"Pepperoni Pizza", true},
		{"cheeseburger", true}, // substring match
		{"Ice Cream Sundae", true},
		{"tea", true},
		{"steak", true},
		{"table", false},
		{"no food here", false},
		{"", false},
		{"ICE", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := m.Contains(tt.text); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatcher_FailureLinks(t *testing.T) {
	// "ero" is reachable only through the failure link of "her".
	m := NewMatcher([]string{"hers", "ero"})

	tests := []struct {
		text string
		want bool
	}{
		{"hero", true},
		{"ushers", true},
		{"herb", false},
		{"her", false},
	}
	for _, tt := range tests {
		if got := m.Contains(tt.text); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMatcher_NormalizesKeywords(t *testing.T) {
	m := NewMatcher([]string{"  Pizza ", "pizza", "", "   "})
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if !m.Contains("PIZZA slice") {
		t.Error("expected match after normalization")
	}
}

func TestMatcher_Empty(t *testing.T) {
	m := NewMatcher(nil)
	if m.Contains("pizza") {
		t.Error("empty matcher should not match")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMatcher_Concurrent(t *testing.T) {
	m := NewMatcher(DefaultKeywords())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if !m.Contains("tandoori chicken") {
					t.Error("concurrent Contains returned false")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaultKeywords_ReturnsCopy(t *testing.T) {
	a := DefaultKeywords()
	if len(a) != 73 {
		t.Fatalf("len(DefaultKeywords()) = %d, want 73", len(a))
	}
	a[0] = "mutated"
	if DefaultKeywords()[0] != "pizza" {
		t.Error("DefaultKeywords() must return an independent copy")
	}
}

func BenchmarkMatcher_Contains(b *testing.B) {
	m := NewMatcher(DefaultKeywords())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Contains("grilled salmon with lemon butter")
	}
}
