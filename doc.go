// Package cachekit provides an embeddable key-value cache engine that sits
// between a caller and a pluggable storage backend, applying expiry,
// eviction, and size policies, with optional on-miss loading.
//
// # Overview
//
// The engine composes three independent policy dimensions over an abstract
// storage substrate:
//
//   - Expiry: Eternal, Created, Accessed, Modified, Touched — computes
//     per-entry TTL at creation, access, and modification events.
//   - Eviction: FIFO, FILO, LRU, MRU, LFU, MFU — picks a victim among
//     sampled candidates when an insert would overflow capacity.
//   - Sampling: full-scan or random-k — chooses the candidate subset
//     handed to the eviction policy.
//
// Expiration is lazy: an entry observed past its expiry time is removed on
// the spot by whichever operation encounters it. Eviction is capacity
// triggered and removes exactly one entry per overflow event, before the
// new entry becomes visible to readers.
//
// # Quick start
//
//	store := memstore.New()
//	c, err := cachekit.New(store, cachekit.Config{
//	    Name:       "sessions",
//	    MaxEntries: 10_000,
//	    Expiry:     expiry.NewAccessed(30 * time.Minute),
//	    Eviction:   eviction.LRU{},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = c.Put(ctx, "user:42", session)
//
// # Concurrency
//
// The engine is single-writer/multi-reader cooperative: it holds no
// internal lock and makes no stronger thread-safety claim than the backend
// provides. Callers that drive the cache from multiple goroutines should
// wrap it with Serialized, or serialize externally.
//
// # Companion packages
//
// backend/memstore and backend/sqlitestore provide StorageBackend
// implementations; loader adds singleflight-style load coalescing;
// obs/otelmetrics implements MetricsCollector with OpenTelemetry; and
// HotConfig (in this package) hot-reloads MaxEntries from a watched file.
//
// # License
//
// See LICENSE file in the repository.
package cachekit
