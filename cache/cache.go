package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// The cache holds expensive per-position results, keyed by board hash. When
// it reaches capacity it is emptied wholesale; positions only ever lose
// cells, so old entries are rarely needed again.

type LoadFunc[V any] func(key uint64) (V, error)

type Cache[V any] struct {
	sync.Mutex
	objects  map[uint64]V
	capacity int
	hits     int
	misses   int
}

// New creates a cache. A capacity of zero or less means unbounded.
func New[V any](capacity int) *Cache[V] {
	return &Cache[V]{objects: make(map[uint64]V), capacity: capacity}
}

func (c *Cache[V]) load(key uint64, loadFunc LoadFunc[V]) (V, error) {
	log.Debug().Uint64("key", key).Msg("loading into cache")

	obj, err := loadFunc(key)
	if err != nil {
		return obj, err
	}
	if c.capacity > 0 && len(c.objects) >= c.capacity {
		log.Debug().Int("num-elems", len(c.objects)).Msg("resetting full cache")
		c.objects = make(map[uint64]V)
	}
	c.objects[key] = obj
	return obj, nil
}

// Get returns the object for key, loading it with loadFunc on a miss. The
// lock is held while loading, so concurrent callers do not load the same
// key twice.
func (c *Cache[V]) Get(key uint64, loadFunc LoadFunc[V]) (V, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		c.hits++
		log.Debug().Uint64("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	c.misses++
	return c.load(key, loadFunc)
}

func (c *Cache[V]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

// Stats returns the hit and miss counts.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}

func (c *Cache[V]) Clear() {
	c.Lock()
	defer c.Unlock()
	c.objects = make(map[uint64]V)
}
