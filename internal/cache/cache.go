// Package cache implements the compilation cache (§4.6): compiled
// *ast.Block values keyed by verbatim script text, plus the matching
// source-line split used for error-snippet rendering.
//
// Built on github.com/hashicorp/golang-lru/v2 rather than a hand-rolled
// sync.Map: the pack's own concurrent-safe LRU already gives bounded
// memory and safe concurrent readers/writers, and an entry is only ever
// published by lru.Cache.Add after it is fully constructed, satisfying
// §4.6/§5's "readers never observe a partially constructed entry"
// requirement without any extra locking in this package.
package cache

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cwbudde/exprlang/internal/ast"
)

// DefaultSize is the number of distinct scripts the cache holds before it
// starts evicting least-recently-used entries.
const DefaultSize = 512

// entry is the fully-constructed value published under a script's text.
// Its fields are never mutated after construction (§4.6).
type entry struct {
	block *ast.Block
	lines []string
}

// Cache maps verbatim script text to its compiled Block and source-line
// table. The zero value is not usable; construct with New.
type Cache struct {
	mu      sync.Mutex // guards lazy Add against concurrent duplicate work
	lru     *lru.Cache[string, *entry]
	enabled bool
}

// New creates a Cache holding up to size entries. size <= 0 falls back to
// DefaultSize. enabled mirrors Options.enableCompilationCache (§4.6): when
// false, Get always misses and Put is a no-op, so callers pay compile cost
// on every call without needing a second code path.
func New(size int, enabled bool) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	l, _ := lru.New[string, *entry](size) // only errors on size <= 0, already guarded
	return &Cache{lru: l, enabled: enabled}
}

// Get returns the cached Block and source-line table for script, if present.
func (c *Cache) Get(script string) (block *ast.Block, lines []string, ok bool) {
	if !c.enabled {
		return nil, nil, false
	}
	e, ok := c.lru.Get(script)
	if !ok || e.block == nil {
		// a Lines-only entry (cached on a prior compile-failure path, see
		// Lines) is not a cache hit for compiled-Block lookups.
		return nil, nil, false
	}
	return e.block, e.lines, true
}

// Put inserts block under script, computing its line split lazily.
// "Last writer wins" on a racing duplicate insert of the same key is
// acceptable per §5: both values are structurally equivalent compilations
// of the same source text.
func (c *Cache) Put(script string, block *ast.Block) {
	if !c.enabled {
		return
	}
	c.lru.Add(script, &entry{block: block, lines: splitLines(script)})
}

// Lines returns the source-line split for script, computing and caching it
// even on a compile-failure path where no Block exists yet (§4.7's
// "compute and cache lazily" snippet-injection rule).
func (c *Cache) Lines(script string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.lru.Get(script); ok {
		return e.lines
	}
	lines := splitLines(script)
	c.lru.Add(script, &entry{lines: lines})
	return lines
}

// Clear empties the cache (§4.7's clearCache operation).
func (c *Cache) Clear() {
	c.lru.Purge()
}

func splitLines(script string) []string {
	return strings.Split(script, "\n")
}
