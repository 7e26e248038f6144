// Copyright (c) 2025 Miðeind ehf
// SPDX-License-Identifier: MIT

package bin

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Default cache capacities, per spec §4.H.
const (
	defaultFormCacheSize     = 1000
	defaultCompoundCacheSize = 500
)

// formOffsetCache maps a surface form to its resolved mapping offset.
// Grounded on vthorsteinsson/GoSkrafl's crossCache (dawg.go): a short
// mutex held only around the LRU access, never across a trie
// traversal, so concurrent readers never block each other's lookups
// for longer than a map operation.
type formOffsetCache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, uint32]
}

func newFormOffsetCache(size int) *formOffsetCache {
	if size <= 0 {
		return nil
	}
	c, _ := lru.New[string, uint32](size)
	return &formOffsetCache{lru: c}
}

func (c *formOffsetCache) get(word string) (uint32, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(word)
}

func (c *formOffsetCache) put(word string, off uint32) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(word, off)
}

// compoundSplitCache maps a word to the split position the compound
// analyser found for it (or -1, cached to avoid re-running the DAWG
// scan on a word that is known to have no compound analysis).
type compoundSplitCache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, int]
}

func newCompoundSplitCache(size int) *compoundSplitCache {
	if size <= 0 {
		return nil
	}
	c, _ := lru.New[string, int](size)
	return &compoundSplitCache{lru: c}
}

func (c *compoundSplitCache) get(word string) (int, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(word)
}

func (c *compoundSplitCache) put(word string, split int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(word, split)
}
