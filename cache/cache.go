package cache

import (
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// Stream URLs are short-lived upstream; keep them well below their
// expiry so a cached URL never outlives its validity.
var DefaultStreamURLTTL = 5 * time.Minute

type Cache struct {
	StreamURLs StreamURLsCache
}

func New() *Cache {
	streamURLsCache := ccache.New(
		ccache.Configure[string]().
			MaxSize(1000).
			GetsPerPromote(3).
			ItemsToPrune(1),
	)

	return &Cache{
		StreamURLs: StreamURLsCache{
			c:   streamURLsCache,
			mux: sync.Mutex{},
		},
	}
}

type StreamURLsCache struct {
	c   *ccache.Cache[string]
	mux sync.Mutex
}

func (c *StreamURLsCache) Fetch(k string, ttl time.Duration, fetch func() (string, error)) (*ccache.Item[string], error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.c.Fetch(k, ttl, fetch)
}
