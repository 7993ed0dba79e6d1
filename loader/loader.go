// Package loader provides a Loader decorator that deduplicates concurrent
// loads of the same key, preventing a cache stampede when many goroutines
// miss on the same key at once. Only one underlying call runs per key;
// the rest wait on its result.
package loader

import (
	"context"
	"sync"

	"github.com/agilira/cachekit"
)

// call is one in-flight or just-completed load, broadcast to every waiter
// through the closing of done rather than one goroutine per waiter.
type call struct {
	done  chan struct{}
	value interface{}
	ok    bool
	err   error
}

// Coalescing wraps an underlying Loader so that concurrent Load calls for
// the same key share a single execution of the wrapped loader. Distinct keys still load
// in parallel. The zero value is not usable; construct with New.
type Coalescing struct {
	next cachekit.Loader

	mu       sync.Mutex
	inflight map[string]*call
}

// New returns a Coalescing loader delegating uncoalesced calls to next.
func New(next cachekit.Loader) *Coalescing {
	return &Coalescing{next: next, inflight: make(map[string]*call)}
}

// Load implements cachekit.Loader. If a load for key is already running,
// Load waits for it and returns its result instead of invoking next again.
func (c *Coalescing) Load(ctx context.Context, key string) (interface{}, bool, error) {
	c.mu.Lock()
	if existing, running := c.inflight[key]; running {
		c.mu.Unlock()
		select {
		case <-existing.done:
			return existing.value, existing.ok, existing.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	own := &call{done: make(chan struct{})}
	c.inflight[key] = own
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		close(own.done)
	}()

	own.value, own.ok, own.err = c.next.Load(ctx, key)
	return own.value, own.ok, own.err
}

var _ cachekit.Loader = (*Coalescing)(nil)
