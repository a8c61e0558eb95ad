package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ammmze/truenas-openapi/document"
	"github.com/ammmze/truenas-openapi/internal/options"
)

// schemaInput represents the two ways a schema document can be provided to a
// tool. Exactly one of File or Content must be set.
type schemaInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a schema document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline schema document content (JSON or YAML)"`
}

// cacheEntry holds a parsed document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       *document.Document
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache for parsed documents.
// File inputs are keyed by (absolutePath, modTime) and content inputs by a
// SHA-256 hash. Cached documents are shared between calls and must not be
// mutated; the normalizer never modifies its input.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.MCP.CacheMaxSize,
}

// get returns a cached document or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.doc
	}
	return nil
}

// put stores a document with a TTL, evicting the least recently used entry
// when at capacity.
func (c *docCacheStore) put(key string, doc *document.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxSize <= 0 {
		return
	}

	now := time.Now()
	entry := &cacheEntry{doc: doc, insertAt: now}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}
	for len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = entry
}

// evictOldest removes the least recently used entry. Callers hold c.mu.
func (c *docCacheStore) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.insertAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertAt
		}
	}
	delete(c.entries, oldestKey)
}

// resize changes the capacity, evicting entries that no longer fit.
func (c *docCacheStore) resize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	for len(c.entries) > 0 && len(c.entries) > maxSize {
		c.evictOldest()
	}
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given input, or "" when the input
// cannot be cached.
func makeCacheKey(s schemaInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve parses the document from whichever input was provided, using the
// cache when it is enabled.
func (s schemaInput) resolve() (*document.Document, error) {
	const sourceMsg = "exactly one of file or content must be provided"
	if err := options.ValidateSingleInputSource(sourceMsg, sourceMsg, s.File != "", s.Content != ""); err != nil {
		return nil, err
	}

	if s.Content != "" && len(s.Content) > cfg.MCP.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set TRUENAS_OPENAPI_MCP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MCP.MaxInlineSize)
	}

	var key string
	if cfg.MCP.CacheEnabled {
		key = makeCacheKey(s)
	}
	if key != "" {
		if cached := docCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var (
		doc *document.Document
		err error
	)
	if s.File != "" {
		doc, err = document.ParseFile(s.File)
	} else {
		doc, err = document.Parse([]byte(s.Content))
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.put(key, doc, cfg.MCP.CacheTTL)
	}
	return doc, nil
}
