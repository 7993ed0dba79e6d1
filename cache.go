// cache.go: the cache engine — orchestrates clock, expiry, eviction,
// sampling, and an optional loader over a pluggable StorageBackend.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/agilira/cachekit/eviction"
)

// Cache is the public engine. It holds no entry state of its own: every
// operation resolves to a read-modify-write of a single entry through
// the backend. The engine itself holds no lock; see Serialized for
// external serialization.
type Cache struct {
	name    string
	backend StorageBackend
	cfg     Config

	// maxEntries starts at cfg.MaxEntries but may be adjusted afterwards
	// by HotConfig, letting capacity change without rebuilding the
	// cache. Read through boundedLimit, never cfg, once constructed.
	maxEntries atomic.Int64
}

// New constructs a Cache named by cfg.Name, backed by backend. Unset
// Config fields take the defaults documented on Config. Returns a
// ConfigurationError if cfg.MaxEntries is negative.
func New(backend StorageBackend, cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cache{name: cfg.Name, backend: backend, cfg: cfg}
	c.maxEntries.Store(int64(cfg.MaxEntries))
	return c, nil
}

// SetMaxEntries changes the live capacity limit without rebuilding the
// cache. A value of 0 means unbounded; a negative value is rejected.
// Existing entries beyond the new limit are not proactively evicted: each
// later insert of a new key evicts one victim and fails with a cache-full
// error while the stored count is still at or above the limit. See
// HotConfig for a file-driven caller.
func (c *Cache) SetMaxEntries(n int) error {
	if n < 0 {
		return NewErrInvalidMaxEntries(n)
	}
	c.maxEntries.Store(int64(n))
	return nil
}

// MaxEntries returns the current capacity limit (0 means unbounded).
func (c *Cache) MaxEntries() int {
	return int(c.maxEntries.Load())
}

func (c *Cache) boundedLimit() (limit int, bounded bool) {
	n := int(c.maxEntries.Load())
	return n, n > 0
}

// Put creates or replaces the value for key. If a live entry exists its
// value is replaced in place (creation time, access time, and hit count
// are preserved); otherwise a new entry is created, evicting a victim
// first if that would overflow capacity.
func (c *Cache) Put(ctx context.Context, key string, value interface{}) error {
	now := c.cfg.Clock.Now()

	entry, live, err := c.liveEntry(ctx, key)
	if err != nil {
		return err
	}
	if live {
		entry.Value = value
		entry.UpdateTime = now
		if ttl, change := c.cfg.Expiry.OnModified(); change {
			entry.ExpiryTime = computeExpiry(now, ttl)
		}
		return c.store(ctx, key, entry)
	}

	_, err = c.create(ctx, key, value, now)
	return err
}

// PutIfAbsent creates the entry for key only if no live entry already
// exists, returning true iff it did so. An existing live entry is left
// completely untouched, including its access metadata.
func (c *Cache) PutIfAbsent(ctx context.Context, key string, value interface{}) (bool, error) {
	_, live, err := c.liveEntry(ctx, key)
	if err != nil {
		return false, err
	}
	if live {
		return false, nil
	}
	if _, err := c.create(ctx, key, value, c.cfg.Clock.Now()); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the value for key, incrementing its hit count and
// refreshing its expiry per the accessed event. On a miss (absent or
// lazily expired), a configured Loader is consulted; if it returns a
// value, the value is inserted as a new entry (subject to eviction) and
// then returned. found is false only when there is no live entry and
// either no loader is configured or the loader found nothing.
func (c *Cache) Get(ctx context.Context, key string) (value interface{}, found bool, err error) {
	now := c.cfg.Clock.Now()

	entry, live, err := c.liveEntry(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if live {
		entry.HitCount++
		entry.AccessTime = now
		if ttl, change := c.cfg.Expiry.OnAccessed(); change {
			entry.ExpiryTime = computeExpiry(now, ttl)
		}
		if err := c.backend.PutEntry(ctx, key, entry); err != nil {
			return nil, false, NewErrBackendFailed("put", key, err)
		}
		c.cfg.Metrics.RecordHit(c.name, key)
		return entry.Value, true, nil
	}

	c.cfg.Metrics.RecordMiss(c.name, key)
	if c.cfg.Loader == nil {
		return nil, false, nil
	}

	loaded, ok, err := c.cfg.Loader.Load(ctx, key)
	if err != nil {
		return nil, false, NewErrLoaderFailed(key, err)
	}
	if !ok {
		return nil, false, nil
	}
	if _, err := c.create(ctx, key, loaded, now); err != nil {
		return nil, false, err
	}
	return loaded, true, nil
}

// GetAndPut atomically returns the previous value for key (absent if
// none existed live) and applies Put semantics for value.
func (c *Cache) GetAndPut(ctx context.Context, key string, value interface{}) (previous interface{}, had bool, err error) {
	now := c.cfg.Clock.Now()

	entry, live, err := c.liveEntry(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if live {
		prev := entry.Value
		entry.Value = value
		entry.UpdateTime = now
		if ttl, change := c.cfg.Expiry.OnModified(); change {
			entry.ExpiryTime = computeExpiry(now, ttl)
		}
		if err := c.store(ctx, key, entry); err != nil {
			return nil, false, err
		}
		return prev, true, nil
	}

	if _, err := c.create(ctx, key, value, now); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// GetAndRemove returns the current value for key and removes the entry.
// No metadata update occurs before removal. A lazily-expired entry is
// treated as absent (and still physically removed).
func (c *Cache) GetAndRemove(ctx context.Context, key string) (value interface{}, found bool, err error) {
	entry, ok, err := c.backend.GetEntry(ctx, key)
	if err != nil {
		return nil, false, NewErrBackendFailed("get", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	live := entry.Live(c.cfg.Clock.Now())
	if err := c.backend.Remove(ctx, key); err != nil {
		return nil, false, NewErrBackendFailed("remove", key, err)
	}
	c.cfg.Metrics.RecordRemove(c.name, key)
	if !live {
		c.cfg.Metrics.RecordExpiration(c.name, key)
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Remove deletes the entry for key, live or not. No error if absent.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if err := c.backend.Remove(ctx, key); err != nil {
		return NewErrBackendFailed("remove", key, err)
	}
	c.cfg.Metrics.RecordRemove(c.name, key)
	return nil
}

// ContainsKey reports whether a live entry exists for key, lazily
// expiring it if it is not. It does not update access time or hit count.
func (c *Cache) ContainsKey(ctx context.Context, key string) (bool, error) {
	_, live, err := c.liveEntry(ctx, key)
	return live, err
}

// Size returns the entry count as currently reported by the backend. It
// does not force lazy expiration and may include expired-but-unobserved
// entries; see LiveSize for an exact, more expensive count.
func (c *Cache) Size(ctx context.Context) (int, error) {
	n, err := c.backend.Size(ctx)
	if err != nil {
		return 0, NewErrBackendFailed("size", "", err)
	}
	return n, nil
}

// LiveSize scans every stored entry and counts only those that are live,
// lazily expiring any that are not. Unlike Size this is an O(n) backend
// scan; it is not part of Size's contract and exists purely as an
// additive convenience for callers that need an exact count.
func (c *Cache) LiveSize(ctx context.Context) (int, error) {
	values, err := c.backend.Values(ctx)
	if err != nil {
		return 0, NewErrBackendFailed("values", "", err)
	}
	now := c.cfg.Clock.Now()
	live := 0
	for key, entry := range values {
		if entry.Live(now) {
			live++
			continue
		}
		if err := c.backend.Remove(ctx, key); err != nil {
			return 0, NewErrBackendFailed("remove-expired", key, err)
		}
		c.cfg.Metrics.RecordExpiration(c.name, key)
	}
	return live, nil
}

// Keys returns the set of currently stored keys (live or not).
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	keys, err := c.backend.Keys(ctx)
	if err != nil {
		return nil, NewErrBackendFailed("keys", "", err)
	}
	return keys, nil
}

// Clear removes every entry for this cache.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.backend.Clear(ctx); err != nil {
		return NewErrBackendFailed("clear", "", err)
	}
	return nil
}

// liveEntry fetches the entry for key and lazily expires it if its
// expiry time has passed, collapsing Expired to Absent.
func (c *Cache) liveEntry(ctx context.Context, key string) (Entry, bool, error) {
	entry, ok, err := c.backend.GetEntry(ctx, key)
	if err != nil {
		return Entry{}, false, NewErrBackendFailed("get", key, err)
	}
	if !ok {
		return Entry{}, false, nil
	}
	if entry.Live(c.cfg.Clock.Now()) {
		return entry, true, nil
	}
	if err := c.backend.Remove(ctx, key); err != nil {
		return Entry{}, false, NewErrBackendFailed("remove-expired", key, err)
	}
	c.cfg.Metrics.RecordExpiration(c.name, key)
	return Entry{}, false, nil
}

// create makes room if needed, then inserts a brand-new entry for key.
// Loader-materialized inserts and explicit Put/PutIfAbsent creates share
// this path, so both follow the same overflow -> evict -> insert
// sequence.
func (c *Cache) create(ctx context.Context, key string, value interface{}, now time.Time) (Entry, error) {
	if err := c.ensureCapacity(ctx); err != nil {
		return Entry{}, err
	}
	if limit, bounded := c.boundedLimit(); bounded {
		size, err := c.backend.Size(ctx)
		if err != nil {
			return Entry{}, NewErrBackendFailed("size", key, err)
		}
		if size >= limit {
			return Entry{}, NewErrCacheFull(c.name, limit)
		}
	}

	ttl, _ := c.cfg.Expiry.OnCreated()
	entry := Entry{
		Value:        value,
		CreationTime: now,
		UpdateTime:   now,
		AccessTime:   now,
		HitCount:     0,
		ExpiryTime:   computeExpiry(now, ttl),
	}
	if err := c.store(ctx, key, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (c *Cache) store(ctx context.Context, key string, entry Entry) error {
	if err := c.backend.PutEntry(ctx, key, entry); err != nil {
		return NewErrBackendFailed("put", key, err)
	}
	c.cfg.Metrics.RecordPut(c.name, key)
	return nil
}

// ensureCapacity evicts exactly one entry via the configured sampler and
// eviction policy if an insertion would otherwise overflow MaxEntries.
func (c *Cache) ensureCapacity(ctx context.Context) error {
	limit, bounded := c.boundedLimit()
	if !bounded {
		return nil
	}
	size, err := c.backend.Size(ctx)
	if err != nil {
		return NewErrBackendFailed("size", "", err)
	}
	if size < limit {
		return nil
	}
	return c.evictOne(ctx)
}

// evictOne samples the keyspace, ranks the sampled candidates, and
// removes the single highest-ranked victim.
func (c *Cache) evictOne(ctx context.Context) error {
	keys, err := c.backend.Keys(ctx)
	if err != nil {
		return NewErrBackendFailed("keys", "", err)
	}
	sampled := c.cfg.Sampler.Sample(keys)

	candidates := make([]eviction.EntryMetadata, 0, len(sampled))
	for _, key := range sampled {
		entry, ok, err := c.backend.GetEntry(ctx, key)
		if err != nil {
			return NewErrBackendFailed("get", key, err)
		}
		if !ok {
			continue
		}
		candidates = append(candidates, eviction.EntryMetadata{
			Key:          key,
			CreationTime: entry.CreationTime,
			AccessTime:   entry.AccessTime,
			UpdateTime:   entry.UpdateTime,
			HitCount:     entry.HitCount,
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	victim := c.cfg.Eviction.SelectVictim(candidates)
	if victim == "" {
		return nil
	}
	if err := c.backend.Remove(ctx, victim); err != nil {
		return NewErrBackendFailed("remove", victim, err)
	}
	c.cfg.Metrics.RecordEviction(c.name, victim)
	return nil
}
