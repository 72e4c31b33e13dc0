package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	defaultSmartMaxCost = 32 << 20
	defaultSmartTTL     = time.Hour
)

// SmartCache is a bounded, expiring in-memory cache for derived strings
// such as compressed prompts. Losing an entry only costs recomputation.
type SmartCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewSmartCache creates a SmartCache holding at most maxBytes of values.
func NewSmartCache(maxBytes int64, ttl time.Duration) (*SmartCache, error) {
	if maxBytes <= 0 {
		maxBytes = defaultSmartMaxCost
	}
	if ttl <= 0 {
		ttl = defaultSmartTTL
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxBytes / 100,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &SmartCache{cache: c, ttl: ttl}, nil
}

func (s *SmartCache) Get(key string) (string, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *SmartCache) Set(key, value string) {
	s.cache.SetWithTTL(key, value, int64(len(key)+len(value)), s.ttl)
}

// Wait blocks until buffered writes are applied.
func (s *SmartCache) Wait() { s.cache.Wait() }

func (s *SmartCache) Close() { s.cache.Close() }
