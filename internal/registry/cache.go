package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache is an on-disk TTL cache for registry responses. Failed fetches are
// cached too, with a shorter TTL, so a flapping upstream is not hammered on
// every evaluation.
type Cache struct {
	dir        string
	defaultTTL time.Duration
	errorTTL   time.Duration

	// now is the cache clock, injectable for tests.
	now func() time.Time
}

type cacheEntry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Error     string          `json:"error,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewCache creates a cache rooted at dir. A nil *Cache is valid and caches
// nothing.
func NewCache(dir string, defaultTTL, errorTTL time.Duration) *Cache {
	return &Cache{
		dir:        dir,
		defaultTTL: defaultTTL,
		errorTTL:   errorTTL,
		now:        time.Now,
	}
}

func (c *Cache) path(service, key string) string {
	return filepath.Join(c.dir, service, key+".json")
}

// Get returns the cached payload for a key. The second return reports a hit;
// on a hit the error is non-nil when the cached entry records an upstream
// failure.
func (c *Cache) Get(service, key string) ([]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	raw, err := os.ReadFile(c.path(service, key))
	if err != nil {
		return nil, false, nil
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt entry is a miss; the next Put overwrites it.
		return nil, false, nil
	}

	ttl := c.defaultTTL
	if entry.Error != "" {
		ttl = c.errorTTL
	}
	if c.now().Sub(entry.FetchedAt) > ttl {
		return nil, false, nil
	}

	if entry.Error != "" {
		return nil, true, fmt.Errorf("cached failure: %s", entry.Error)
	}
	return entry.Payload, true, nil
}

// Put stores a successful payload.
func (c *Cache) Put(service, key string, payload []byte) error {
	if c == nil {
		return nil
	}
	return c.write(service, key, cacheEntry{FetchedAt: c.now(), Payload: payload})
}

// PutError stores a failed fetch for negative caching.
func (c *Cache) PutError(service, key string, fetchErr error) error {
	if c == nil {
		return nil
	}
	return c.write(service, key, cacheEntry{FetchedAt: c.now(), Error: fetchErr.Error()})
}

func (c *Cache) write(service, key string, entry cacheEntry) error {
	path := c.path(service, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Expired int
	Errors  int
	Bytes   int64
}

// Stats walks the cache directory and tallies entries. A missing directory
// is an empty cache.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	if c == nil {
		return s, nil
	}

	err := filepath.WalkDir(c.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		s.Entries++
		s.Bytes += info.Size()

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry cacheEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil
		}
		ttl := c.defaultTTL
		if entry.Error != "" {
			s.Errors++
			ttl = c.errorTTL
		}
		if c.now().Sub(entry.FetchedAt) > ttl {
			s.Expired++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return s, fmt.Errorf("walk cache: %w", err)
	}
	return s, nil
}

// Clear removes every cached entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	if c == nil {
		return 0, nil
	}

	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return removed, err
	}
	return removed, nil
}

// Cleanup removes expired entries, returning how many were removed.
func (c *Cache) Cleanup() (int, error) {
	if c == nil {
		return 0, nil
	}

	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry cacheEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			// Corrupt entries go too.
			if err := os.Remove(path); err == nil {
				removed++
			}
			return nil
		}

		ttl := c.defaultTTL
		if entry.Error != "" {
			ttl = c.errorTTL
		}
		if c.now().Sub(entry.FetchedAt) > ttl {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return removed, err
	}
	return removed, nil
}
