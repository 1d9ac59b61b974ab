// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package foodfilter

import (
	"strings"
)

// Matcher is a case-insensitive Aho-Corasick automaton over a fixed keyword set.
// It answers "does this label contain any keyword as a substring" in a single
// pass over the label, O(n + z) instead of O(n * keywords).
//
// A Matcher is immutable once built and safe for concurrent use.
//
// Example:
//
//	m := NewMatcher([]string{"rice", "fried rice"})
//	m.Contains("Chicken Fried Rice") // true
type Matcher struct {
	root     *acNode
	keywords []string
}

// acNode represents a node in the automaton.
type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // indices into keywords that end at this node
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// NewMatcher builds a matcher from keywords. Keywords are lowercased and
// trimmed; empty and duplicate keywords are dropped.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{root: newACNode()}

	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		m.insert(len(m.keywords), kw)
		m.keywords = append(m.keywords, kw)
	}

	m.buildFailureLinks()
	return m
}

func (m *Matcher) insert(index int, keyword string) {
	node := m.root
	for _, ch := range keyword {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, index)
}

// buildFailureLinks wires failure links breadth-first so each node's output
// also carries the keywords that end at its longest proper suffix.
func (m *Matcher) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}

			if fail == nil {
				child.failure = m.root
			} else {
				child.failure = fail.children[ch]
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// step advances the automaton by one rune.
func (m *Matcher) step(node *acNode, ch rune) *acNode {
	for node != nil && node.children[ch] == nil {
		node = node.failure
	}
	if node == nil {
		return m.root
	}
	return node.children[ch]
}

// Contains reports whether text contains any keyword, ignoring case.
func (m *Matcher) Contains(text string) bool {
	if len(m.keywords) == 0 {
		return false
	}

	node := m.root
	for _, ch := range strings.ToLower(text) {
		node = m.step(node, ch)
		if len(node.output) > 0 {
			return true
		}
	}
	return false
}

// Len returns the number of distinct keywords in the automaton.
func (m *Matcher) Len() int {
	return len(m.keywords)
}
