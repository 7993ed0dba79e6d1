// Package eviction implements the six capacity-eviction policies: FIFO,
// FILO, LRU, MRU, LFU, and MFU. Each is a pure ranking function over
// sampled entry metadata — no policy holds entry state of its own.
package eviction

import "time"

// EntryMetadata is the read-only per-entry view a Policy ranks candidates
// on. It mirrors cachekit.EntryMetadata but is declared independently so
// this package has no dependency on the engine package.
type EntryMetadata struct {
	Key          string
	CreationTime time.Time
	AccessTime   time.Time
	UpdateTime   time.Time
	HitCount     uint64
}

// Policy selects a single victim key from a slice of sampled candidates.
// Ties are broken by keeping the first-encountered candidate in
// candidates order, which is itself a function of the Sampler that
// produced the slice.
type Policy interface {
	SelectVictim(candidates []EntryMetadata) string
}

// FIFO evicts the candidate with the smallest CreationTime: the oldest
// entry by insertion, regardless of use.
type FIFO struct{}

func (FIFO) SelectVictim(candidates []EntryMetadata) string {
	return extremum(candidates, func(best, cur EntryMetadata) bool {
		return cur.CreationTime.Before(best.CreationTime)
	})
}

// FILO (LIFO) evicts the candidate with the largest CreationTime: the
// most recently inserted entry.
type FILO struct{}

func (FILO) SelectVictim(candidates []EntryMetadata) string {
	return extremum(candidates, func(best, cur EntryMetadata) bool {
		return cur.CreationTime.After(best.CreationTime)
	})
}

// LRU evicts the candidate with the smallest AccessTime: the least
// recently used entry.
type LRU struct{}

func (LRU) SelectVictim(candidates []EntryMetadata) string {
	return extremum(candidates, func(best, cur EntryMetadata) bool {
		return cur.AccessTime.Before(best.AccessTime)
	})
}

// MRU evicts the candidate with the largest AccessTime: the most
// recently used entry.
type MRU struct{}

func (MRU) SelectVictim(candidates []EntryMetadata) string {
	return extremum(candidates, func(best, cur EntryMetadata) bool {
		return cur.AccessTime.After(best.AccessTime)
	})
}

// LFU evicts the candidate with the smallest HitCount, breaking ties by
// smallest AccessTime.
type LFU struct{}

func (LFU) SelectVictim(candidates []EntryMetadata) string {
	return extremum(candidates, func(best, cur EntryMetadata) bool {
		if cur.HitCount != best.HitCount {
			return cur.HitCount < best.HitCount
		}
		return cur.AccessTime.Before(best.AccessTime)
	})
}

// MFU evicts the candidate with the largest HitCount, breaking ties by
// largest AccessTime.
type MFU struct{}

func (MFU) SelectVictim(candidates []EntryMetadata) string {
	return extremum(candidates, func(best, cur EntryMetadata) bool {
		if cur.HitCount != best.HitCount {
			return cur.HitCount > best.HitCount
		}
		return cur.AccessTime.After(best.AccessTime)
	})
}

// extremum scans candidates left to right and keeps the current best
// unless cur strictly beats it by less, so ties resolve to the
// first-encountered candidate.
func extremum(candidates []EntryMetadata, less func(best, cur EntryMetadata) bool) string {
	if len(candidates) == 0 {
		return ""
	}
	best := candidates[0]
	for _, cur := range candidates[1:] {
		if less(best, cur) {
			best = cur
		}
	}
	return best.Key
}
