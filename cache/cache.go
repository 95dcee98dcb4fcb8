package cache

import (
	"sync"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// The cache holds results of expensive computations keyed by a position
// hash, so that asking about the same position again (redrawing a table,
// a script polling in a loop) is free. It is bounded; once full, the oldest
// entry is evicted first.

const (
	MinCapacity = 16
	MaxCapacity = 1 << 20
)

type LoadFunc[V any] func() (V, error)

type Cache[V any] struct {
	sync.Mutex
	objects  map[uint64]V
	order    []uint64
	capacity int

	hits   int
	misses int
}

func New[V any](capacity int) *Cache[V] {
	capacity = max(MinCapacity, min(capacity, MaxCapacity))
	return &Cache[V]{
		objects:  make(map[uint64]V),
		capacity: capacity,
	}
}

// CapacityFromMemory returns how many entries of entrySize bytes fit in the
// given fraction of total system memory.
func CapacityFromMemory(fractionOfMemory float64, entrySize uint64) int {
	if entrySize == 0 {
		entrySize = 1
	}
	totalMem := memory.TotalMemory()
	desired := int(fractionOfMemory * float64(totalMem) / float64(entrySize))
	log.Debug().Uint64("total-mem", totalMem).Int("desired-entries", desired).Msg("sizing-cache")
	return max(MinCapacity, min(desired, MaxCapacity))
}

func (c *Cache[V]) Get(key uint64) (V, bool) {
	c.Lock()
	defer c.Unlock()
	obj, ok := c.objects[key]
	if ok {
		c.hits++
	}
	return obj, ok
}

func (c *Cache[V]) Put(key uint64, obj V) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.objects[key]; ok {
		c.objects[key] = obj
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.objects, oldest)
	}
	c.objects[key] = obj
	c.order = append(c.order, key)
}

// GetOrLoad returns the cached object for key, or calls load and stores its
// result. The lock is not held while load runs; two concurrent callers may
// both load the same key, and the later one wins.
func (c *Cache[V]) GetOrLoad(key uint64, load LoadFunc[V]) (V, bool, error) {
	if obj, ok := c.Get(key); ok {
		log.Debug().Uint64("key", key).Msg("getting obj from cache")
		return obj, true, nil
	}
	c.Lock()
	c.misses++
	c.Unlock()
	obj, err := load()
	if err != nil {
		return obj, false, err
	}
	c.Put(key, obj)
	return obj, false, nil
}

func (c *Cache[V]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Stats returns the number of hits and misses so far.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}
