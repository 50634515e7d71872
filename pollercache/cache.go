// Package pollercache memoizes pollers by key so that every consumer of the same data
// source shares one poll loop.
package pollercache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sljivkov/pricegraph/logger"
	"github.com/sljivkov/pricegraph/metrics"
	"github.com/sljivkov/pricegraph/poller"
)

// ErrMalformedKey is returned when a key has no canonical form.
var ErrMalformedKey = errors.New("malformed cache key")

// KeyFunc maps a key to its canonical string. Keys that compare equal by value must
// map to the same string.
type KeyFunc[K any] func(key K) (string, error)

// Factory starts the poller for a key on a cache miss.
type Factory[K, T any] func(key K) (*poller.Poller[T], error)

// Cache holds at most one poller per canonical key. Pollers live until Close.
type Cache[K, T any] struct {
	name    string
	keyFn   KeyFunc[K]
	factory Factory[K, T]
	log     *logrus.Entry

	mu      sync.Mutex
	entries map[string]*poller.Poller[T]
}

// New creates an empty cache.
func New[K, T any](name string, keyFn KeyFunc[K], factory Factory[K, T]) *Cache[K, T] {
	return &Cache[K, T]{
		name:    name,
		keyFn:   keyFn,
		factory: factory,
		log:     logger.Component("pollercache").WithField("cache", name),
		entries: make(map[string]*poller.Poller[T]),
	}
}

// Get returns the poller for key, starting one on a miss. A hit makes no producer call.
func (c *Cache[K, T]) Get(key K) (*poller.Poller[T], error) {
	canonical, err := c.keyFn(key)
	if err != nil {
		return nil, err
	}

	// Held across the factory call so that concurrent misses on one key start a
	// single poller.
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.entries[canonical]; ok {
		return p, nil
	}

	p, err := c.factory(key)
	if err != nil {
		return nil, fmt.Errorf("start poller %s: %w", canonical, err)
	}

	c.entries[canonical] = p
	metrics.Pollers.WithLabelValues(c.name).Set(float64(len(c.entries)))
	c.log.WithField("key", canonical).Debug("🆕 poller created")

	return p, nil
}

// Len returns the number of cached pollers.
func (c *Cache[K, T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Close stops every poller and empties the cache.
func (c *Cache[K, T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, p := range c.entries {
		p.Stop()
		delete(c.entries, key)
	}

	metrics.Pollers.WithLabelValues(c.name).Set(0)
}
