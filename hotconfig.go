// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import (
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file with argus and pushes capacity
// changes into a running Cache without requiring it to be rebuilt. Only
// max_entries is hot-reloadable: policies (Expiry, Eviction, Sampler) are
// wired at construction time and are not safe to swap underneath
// in-flight operations.
type HotConfig struct {
	cache   *Cache
	watcher *argus.Watcher
	logger  Logger

	mu         sync.RWMutex
	maxEntries int

	// OnReload is invoked after a successful reload, with the prior and
	// new max_entries value. Optional; must be fast and non-blocking.
	OnReload func(oldMaxEntries, newMaxEntries int)
}

// HotConfigOptions configures a HotConfig watcher.
type HotConfigOptions struct {
	// ConfigPath is the file to watch. Supports any format argus can
	// parse (JSON, YAML, TOML, HCL, INI, Properties).
	ConfigPath string

	// PollInterval is how often to check ConfigPath for changes.
	// Default 1s, floor 100ms.
	PollInterval time.Duration

	// Logger receives reload diagnostics. Default: NoOpLogger{}.
	Logger Logger

	// OnReload, see HotConfig.OnReload.
	OnReload func(oldMaxEntries, newMaxEntries int)
}

// NewHotConfig starts watching opts.ConfigPath and applies max_entries
// changes to cache as they are observed. The watcher is started
// immediately; call Stop to release it.
func NewHotConfig(cache *Cache, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidConfig("config_path is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		cache:      cache,
		logger:     opts.Logger,
		maxEntries: cache.MaxEntries(),
		OnReload:   opts.OnReload,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(
		opts.ConfigPath,
		hc.handleConfigChange,
		argus.Config{PollInterval: opts.PollInterval},
	)
	if err != nil {
		return nil, NewErrBackendFailed("watch", opts.ConfigPath, err)
	}
	hc.watcher = watcher
	return hc, nil
}

// Start begins watching, if not already running.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// MaxEntries returns the last applied max_entries value.
func (hc *HotConfig) MaxEntries() int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.maxEntries
}

func (hc *HotConfig) handleConfigChange(data map[string]interface{}) {
	n, ok := extractMaxEntries(data)
	if !ok {
		return
	}

	hc.mu.Lock()
	old := hc.maxEntries
	hc.mu.Unlock()

	if n == old {
		return
	}
	if err := hc.cache.SetMaxEntries(n); err != nil {
		hc.logger.Warn("hotconfig: rejected max_entries reload", "value", n, "error", err)
		return
	}

	hc.mu.Lock()
	hc.maxEntries = n
	hc.mu.Unlock()

	hc.logger.Info("hotconfig: max_entries reloaded", "old", old, "new", n)
	if hc.OnReload != nil {
		hc.OnReload(old, n)
	}
}

// extractMaxEntries reads a "max_entries" key from either the top level
// of data or a nested "cache" section, accepting both JSON's float64 and
// a plain int (as YAML/TOML decoders in argus may produce either).
func extractMaxEntries(data map[string]interface{}) (int, bool) {
	section := data
	if nested, ok := data["cache"].(map[string]interface{}); ok {
		section = nested
	}
	switch v := section["max_entries"].(type) {
	case int:
		if v >= 0 {
			return v, true
		}
	case float64:
		if v >= 0 {
			return int(v), true
		}
	}
	return 0, false
}
