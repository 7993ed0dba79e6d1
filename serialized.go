// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import (
	"context"
	"sync"
)

// Serialized wraps a Cache with a mutex, giving external serialization to
// deployments that drive the engine from more than one logical execution
// context. The engine itself never takes a lock; eviction's
// read-sample-then-write sequence is only atomic when nothing else can
// interleave between suspension points, which is exactly what this
// wrapper guarantees.
type Serialized struct {
	mu    sync.Mutex
	cache *Cache
}

// NewSerialized wraps cache for safe concurrent use by multiple
// goroutines.
func NewSerialized(cache *Cache) *Serialized {
	return &Serialized{cache: cache}
}

func (s *Serialized) Put(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Put(ctx, key, value)
}

func (s *Serialized) PutIfAbsent(ctx context.Context, key string, value interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.PutIfAbsent(ctx, key, value)
}

func (s *Serialized) Get(ctx context.Context, key string) (interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(ctx, key)
}

func (s *Serialized) GetAndPut(ctx context.Context, key string, value interface{}) (interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.GetAndPut(ctx, key, value)
}

func (s *Serialized) GetAndRemove(ctx context.Context, key string) (interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.GetAndRemove(ctx, key)
}

func (s *Serialized) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Remove(ctx, key)
}

func (s *Serialized) ContainsKey(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.ContainsKey(ctx, key)
}

func (s *Serialized) Size(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Size(ctx)
}

func (s *Serialized) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Keys(ctx)
}

func (s *Serialized) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Clear(ctx)
}
