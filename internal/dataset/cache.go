package dataset

import (
	"context"
	"sync"
	"time"

	"skillboard/internal/model"
)

// Cache keeps the parsed dataset for a long-running server so each new
// session does not re-read the file. Sessions still load exactly once: the
// cache only decides what a newly created session starts from.
type Cache struct {
	path string

	mu       sync.Mutex
	ds       model.Dataset
	valid    bool
	loadedAt time.Time
	version  uint64
}

func NewCache(path string) *Cache {
	return &Cache{path: path}
}

func (c *Cache) Path() string { return c.path }

// Get returns the cached dataset, loading it first if needed. Load errors are
// not cached; the next call retries.
func (c *Cache) Get(ctx context.Context) (model.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid {
		return c.ds, nil
	}
	ds, err := LoadFile(ctx, c.path)
	if err != nil {
		return model.Dataset{}, err
	}
	c.ds = ds
	c.valid = true
	c.loadedAt = time.Now()
	return ds, nil
}

// Invalidate drops the cached copy.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.version++
	c.mu.Unlock()
}

// Version increases every time the cache is invalidated.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// LoadedAt reports when the cached copy was read (zero if not loaded).
func (c *Cache) LoadedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return time.Time{}
	}
	return c.loadedAt
}

// WatchAndInvalidate invalidates the cache whenever the file changes and
// calls onChange (if non-nil) after each invalidation. It returns once the
// watcher is running; the watch stops when ctx is done.
func (c *Cache) WatchAndInvalidate(ctx context.Context, onChange func()) error {
	events, err := Watch(ctx, c.path)
	if err != nil {
		return err
	}
	go func() {
		for range events {
			c.Invalidate()
			if onChange != nil {
				onChange()
			}
		}
	}()
	return nil
}
