package dashboard

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a fresh payload. Cache does not care whether it hits
// the local Service or a remote instance through Client.
type FetchFunc func(ctx context.Context) (*Payload, error)

// Cache is a version-keyed payload cache. The refresh bus version is the
// cache key: as long as the version a caller asks for matches the cached
// one, the stored payload is served without a fetch. Concurrent callers
// asking for the same version share a single in-flight fetch.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group

	// optional observation hooks, used for metrics
	OnHit  func()
	OnMiss func()

	mu      sync.Mutex
	version int64
	payload *Payload
}

// NewCache creates a cache around the given fetch function
func NewCache(fetch FetchFunc) *Cache {
	return &Cache{fetch: fetch}
}

// Fetch returns the payload for the given version. A cached payload is
// returned only on an exact version match; any other version triggers a
// fetch that, on success, supersedes the cached entry. A failed fetch is
// reported to every caller waiting on that version and leaves the cache
// untouched, so later versions are unaffected.
func (c *Cache) Fetch(ctx context.Context, version int64) (*Payload, error) {
	c.mu.Lock()
	if c.payload != nil && c.version == version {
		p := c.payload
		c.mu.Unlock()
		if c.OnHit != nil {
			c.OnHit()
		}
		return p, nil
	}
	c.mu.Unlock()
	if c.OnMiss != nil {
		c.OnMiss()
	}

	v, err, _ := c.group.Do(strconv.FormatInt(version, 10), func() (interface{}, error) {
		p, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.version = version
		c.payload = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Payload), nil
}

// Invalidate drops the cached payload so the next Fetch always refetches
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.payload = nil
	c.mu.Unlock()
}
