// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import "context"

// StorageBackend is the narrow, opaque storage substrate the engine
// consumes for a single named cache. Implementations own the concrete
// byte-level layout, persistence, and I/O; the engine owns policy state
// and orchestration (expiry, eviction, sampling) on top of it.
//
// Every method may suspend: a backend is free to hit disk, a socket, or a
// remote service. The engine treats every call as a potential suspension
// point and performs no retry of its own (§ failure semantics).
//
// A backend does not need to enforce expiry or eviction; both are the
// engine's responsibility. contains_key in particular must NOT consult
// expiry — the engine decides liveness from the Entry it reads.
type StorageBackend interface {
	// Size returns the number of entries currently stored, without
	// regard to liveness.
	Size(ctx context.Context) (int, error)

	// ContainsKey reports raw existence, independent of expiry.
	ContainsKey(ctx context.Context, key string) (bool, error)

	// GetEntry returns the stored entry for key, or ok=false if absent.
	GetEntry(ctx context.Context, key string) (entry Entry, ok bool, err error)

	// PutEntry unconditionally inserts or replaces the entry for key.
	PutEntry(ctx context.Context, key string, entry Entry) error

	// Remove deletes key; a no-op if key is absent.
	Remove(ctx context.Context, key string) error

	// Clear removes every entry for this cache.
	Clear(ctx context.Context) error

	// Keys enumerates the keys currently stored.
	Keys(ctx context.Context) ([]string, error)

	// Values enumerates stored entries keyed by their key. The engine
	// uses it for LiveSize; eviction reads its candidates through Keys
	// and GetEntry instead.
	Values(ctx context.Context) (map[string]Entry, error)
}
