package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"

	"sitegen_server/internal/types"
)

// Entries is the persisted document: cache key to artifact.
type Entries map[string]types.CachedArtifact

// Backend persists the whole cache document. Save always rewrites the
// complete document.
type Backend interface {
	Load(ctx context.Context) (Entries, error)
	Save(ctx context.Context, entries Entries) error
}

// FileBackend stores the document as a single JSON file.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Load(ctx context.Context) (Entries, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Entries{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return Entries{}, nil
	}
	entries := Entries{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cache file %s: %w", b.Path, err)
	}
	return entries, nil
}

func (b *FileBackend) Save(ctx context.Context, entries Entries) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if dir := filepath.Dir(b.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return os.Rename(tmp, b.Path)
}

// RedisBackend stores the same JSON document under one redis key.
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = "sitegen:artifact-cache"
	}
	return &RedisBackend{client: client, key: key}
}

func (b *RedisBackend) Load(ctx context.Context) (Entries, error) {
	val, err := b.client.Get(ctx, b.key).Result()
	if errors.Is(err, redis.Nil) {
		return Entries{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	entries := Entries{}
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("decode redis cache: %w", err)
	}
	return entries, nil
}

func (b *RedisBackend) Save(ctx context.Context, entries Entries) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}

// MemoryBackend keeps the document in process. Saves counts persists.
type MemoryBackend struct {
	mu      sync.Mutex
	entries Entries
	Saves   int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: Entries{}}
}

func (b *MemoryBackend) Load(ctx context.Context) (Entries, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyEntries(b.entries), nil
}

func (b *MemoryBackend) Save(ctx context.Context, entries Entries) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = copyEntries(entries)
	b.Saves++
	return nil
}

func copyEntries(in Entries) Entries {
	out := make(Entries, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
