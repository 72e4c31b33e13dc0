// Package cache holds reusable generated artifacts keyed by
// (name, style, tech). Entries never expire; operators remove them with
// Invalidate.
package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"sitegen_server/internal/logger"
	"sitegen_server/internal/metrics"
	"sitegen_server/internal/types"
)

const (
	DefaultStyle = "modern"
	DefaultTech  = "nextjs"
)

// Key renders the cache key for a (name, style, tech) triple.
func Key(name, style, tech string) string {
	return name + "-" + style + "-" + tech
}

// ArtifactCache is safe for concurrent use within one process. Every Put
// rewrites the whole backend document, so two processes sharing a store
// can still lose each other's writes.
type ArtifactCache struct {
	mu      sync.RWMutex
	entries Entries
	backend Backend
	logger  *zap.Logger
}

// Open loads the backend document. An empty store is seeded with the
// default components and persisted once.
func Open(ctx context.Context, backend Backend, log *zap.Logger) (*ArtifactCache, error) {
	entries, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artifact cache: %w", err)
	}
	if entries == nil {
		entries = Entries{}
	}
	c := &ArtifactCache{
		entries: entries,
		backend: backend,
		logger:  logger.OrNop(log),
	}

	if len(c.entries) == 0 {
		for _, a := range DefaultArtifacts() {
			c.entries[Key(a.Name, a.Style, a.Tech)] = a
		}
		if err := backend.Save(ctx, c.entries); err != nil {
			return nil, fmt.Errorf("seed artifact cache: %w", err)
		}
		c.logger.Info("seeded artifact cache with defaults", zap.Int("entries", len(c.entries)))
	}
	return c, nil
}

func (c *ArtifactCache) Has(name, style, tech string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[Key(name, style, tech)]
	return ok
}

func (c *ArtifactCache) Get(name, style, tech string) (types.CachedArtifact, bool) {
	c.mu.RLock()
	a, ok := c.entries[Key(name, style, tech)]
	c.mu.RUnlock()

	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return a, ok
}

// Put stores a and persists the whole document. A replaced entry gets the
// next version number unless a carries one.
func (c *ArtifactCache) Put(ctx context.Context, a types.CachedArtifact) error {
	key := Key(a.Name, a.Style, a.Tech)

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, existed := c.entries[key]
	if a.Version == 0 {
		a.Version = 1
		if existed {
			a.Version = prev.Version + 1
		}
	}
	c.entries[key] = a
	if err := c.backend.Save(ctx, c.entries); err != nil {
		// Memory never holds what the backend rejected.
		if existed {
			c.entries[key] = prev
		} else {
			delete(c.entries, key)
		}
		return fmt.Errorf("persist artifact %s: %w", key, err)
	}
	c.logger.Debug("cached artifact", zap.String("key", key), zap.Int("version", a.Version))
	return nil
}

// FilterUncached returns the names with no entry for style and tech,
// preserving order.
func (c *ArtifactCache) FilterUncached(names []string, style, tech string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for _, n := range names {
		if _, ok := c.entries[Key(n, style, tech)]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Invalidate removes key. It reports whether the key existed and was
// removed; on a failed save the entry stays.
func (c *ArtifactCache) Invalidate(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	delete(c.entries, key)
	if err := c.backend.Save(ctx, c.entries); err != nil {
		c.entries[key] = prev
		return false, fmt.Errorf("persist invalidation of %s: %w", key, err)
	}
	c.logger.Info("invalidated cache entry", zap.String("key", key))
	return true, nil
}

// Keys returns every key in sorted order.
func (c *ArtifactCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns every artifact ordered by key.
func (c *ArtifactCache) List() []types.CachedArtifact {
	keys := c.Keys()

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.CachedArtifact, 0, len(keys))
	for _, k := range keys {
		if a, ok := c.entries[k]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (c *ArtifactCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
