// Package memstore is the reference in-memory StorageBackend: a plain
// mutex-guarded map. It is the zero-dependency adapter every other
// backend (and the engine's own test suite) is validated against; no
// pack library offers a narrower primitive than sync.Mutex + map for
// this job, so the standard library is the right tool here.
package memstore

import (
	"context"
	"sync"

	"github.com/agilira/cachekit"
)

// Store implements cachekit.StorageBackend over an in-memory map. All
// operations resolve immediately; ctx is honored only for cancellation
// checks, since an in-memory backend never has a reason to suspend.
type Store struct {
	mu      sync.Mutex
	entries map[string]cachekit.Entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]cachekit.Entry)}
}

func (s *Store) Size(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *Store) ContainsKey(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok, nil
}

func (s *Store) GetEntry(ctx context.Context, key string) (cachekit.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return cachekit.Entry{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *Store) PutEntry(ctx context.Context, key string, entry cachekit.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]cachekit.Entry)
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *Store) Values(ctx context.Context) (map[string]cachekit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]cachekit.Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

var _ cachekit.StorageBackend = (*Store)(nil)
