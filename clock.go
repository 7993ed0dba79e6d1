// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import (
	"time"

	timecache "github.com/agilira/go-timecache"
)

// Forever is the sentinel TTL an expiry policy returns to mean "this entry
// never expires". It is never added to an instant directly (that would
// overflow time.Time arithmetic); computeExpiry below maps it to Never
// instead.
const Forever time.Duration = 1<<63 - 1

// Never is the expiry time assigned to entries with a Forever TTL. It is a
// fixed, far-future instant rather than now+Forever, so computing it can
// never overflow.
var Never = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

func computeExpiry(now time.Time, ttl time.Duration) time.Time {
	if ttl == Forever {
		return Never
	}
	return now.Add(ttl)
}

// Clock abstracts the source of monotonic wall time so tests can pin and
// fast-forward "now" without sleeping. The default, System, is backed by
// go-timecache for cheap repeated reads on the hot path.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// FromNow returns the instant d after the current one.
	FromNow(d time.Duration) time.Time
}

// System is the default Clock, backed by go-timecache's background-updated
// clock (avoids a syscall per operation under load).
type System struct{}

func (System) Now() time.Time {
	return time.Unix(0, timecache.CachedTimeNano())
}

func (s System) FromNow(d time.Duration) time.Time {
	return s.Now().Add(d)
}

// Manual is an injectable Clock for tests: it never advances on its own,
// only when Advance or Set is called.
type Manual struct {
	now time.Time
}

// NewManual creates a Manual clock pinned at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) FromNow(d time.Duration) time.Time {
	return m.now.Add(d)
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// Set pins the clock to t.
func (m *Manual) Set(t time.Time) {
	m.now = t
}
