// internal/cache/lru.go
//
// Small LRU cache used by the view engine to store parsed *template.Template
// sets.  Safe for concurrent use; good for a few thousand entries.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a least-recently-used cache with string keys.
type LRU[V any] struct {
	mu      sync.Mutex
	cap     int
	ll      *list.List
	dict    map[string]*list.Element
	onEvict func(key string, val V)
}

type pair[V any] struct {
	key string
	val V
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New[V any](capacity int) *LRU[V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[string]*list.Element, capacity),
	}
}

// NewWithEvict is New plus a callback that runs, outside the lock, for
// every value that leaves the cache: capacity eviction, replacement by Add,
// Remove, and Purge.
func NewWithEvict[V any](capacity int, onEvict func(key string, val V)) *LRU[V] {
	c := New[V](capacity)
	c.onEvict = onEvict
	return c
}

// Get retrieves a value and marks it MRU.
func (c *LRU[V]) Get(key string) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair[V]).val, true
	}
	return val, false
}

// Add inserts or updates a value, evicting the LRU entry when full.
func (c *LRU[V]) Add(key string, val V) {
	c.mu.Lock()
	var gone []pair[V]
	if ele, hit := c.dict[key]; hit {
		gone = append(gone, ele.Value.(pair[V]))
		ele.Value = pair[V]{key, val}
		c.ll.MoveToFront(ele)
	} else {
		ele := c.ll.PushFront(pair[V]{key, val})
		c.dict[key] = ele
		if c.ll.Len() > c.cap {
			last := c.ll.Back()
			c.ll.Remove(last)
			p := last.Value.(pair[V])
			delete(c.dict, p.key)
			gone = append(gone, p)
		}
	}
	c.mu.Unlock()
	c.evicted(gone)
}

// Remove drops key if present.
func (c *LRU[V]) Remove(key string) {
	c.mu.Lock()
	var gone []pair[V]
	if ele, hit := c.dict[key]; hit {
		c.ll.Remove(ele)
		delete(c.dict, key)
		gone = append(gone, ele.Value.(pair[V]))
	}
	c.mu.Unlock()
	c.evicted(gone)
}

// Purge empties the cache.
func (c *LRU[V]) Purge() {
	c.mu.Lock()
	var gone []pair[V]
	if c.onEvict != nil {
		for ele := c.ll.Front(); ele != nil; ele = ele.Next() {
			gone = append(gone, ele.Value.(pair[V]))
		}
	}
	c.ll.Init()
	clear(c.dict)
	c.mu.Unlock()
	c.evicted(gone)
}

// Len reports current size.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU[V]) evicted(gone []pair[V]) {
	if c.onEvict == nil {
		return
	}
	for _, p := range gone {
		c.onEvict(p.key, p.val)
	}
}
