// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import (
	"github.com/agilira/cachekit/eviction"
	"github.com/agilira/cachekit/expiry"
	"github.com/agilira/cachekit/sampler"
)

// Config is the engine construction surface: a name, the three policy
// dimensions, an optional capacity, an optional loader, and ambient
// collaborators (clock, logger, metrics). The backend is passed to New
// separately. Unspecified fields take the defaults documented per field.
type Config struct {
	// Name identifies the logical cache within the backend.
	Name string

	// MaxEntries bounds the number of stored entries, as counted by the
	// backend (expired entries not yet observed still count). Zero means
	// unbounded. A strictly negative value is rejected by Validate as a
	// ConfigurationError; the zero value is treated as "unbounded" rather
	// than an error, since it is also Config{}'s natural zero value.
	MaxEntries int

	// Expiry computes per-entry TTL on creation/access/modification.
	// Default: expiry.Eternal{}.
	Expiry expiry.Policy

	// Eviction picks a victim among sampled candidates on overflow.
	// Default: eviction.LRU{}.
	Eviction eviction.Policy

	// Sampler narrows the keyspace to eviction candidates.
	// Default: sampler.Full{}.
	Sampler sampler.Sampler

	// Loader manufactures a value on a cache miss. Optional; nil means
	// a miss simply returns absent.
	Loader Loader

	// Clock provides "now". Default: System{}.
	Clock Clock

	// Logger receives diagnostic messages. Default: NoOpLogger{}.
	Logger Logger

	// Metrics receives operation notifications. Default:
	// NoOpMetricsCollector{}.
	Metrics MetricsCollector
}

// Validate normalizes unset fields to their defaults and returns a
// ConfigurationError if MaxEntries is negative.
func (c *Config) Validate() error {
	if c.MaxEntries < 0 {
		return NewErrInvalidMaxEntries(c.MaxEntries)
	}
	if c.Expiry == nil {
		c.Expiry = expiry.Eternal{}
	}
	if c.Eviction == nil {
		c.Eviction = eviction.LRU{}
	}
	if c.Sampler == nil {
		c.Sampler = sampler.Full{}
	}
	if c.Clock == nil {
		c.Clock = System{}
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = NoOpMetricsCollector{}
	}
	return nil
}
