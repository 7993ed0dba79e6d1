// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import "time"

// Entry is the in-store record held by a StorageBackend: a value plus the
// metadata the engine needs to evaluate expiry and eviction policies.
//
// Timestamps are produced by the Cache's Clock at the moment of the
// triggering operation. CreationTime is fixed for the lifetime of the
// entry; AccessTime and UpdateTime move forward; HitCount never
// decreases.
type Entry struct {
	Value interface{}

	CreationTime time.Time
	AccessTime   time.Time
	UpdateTime   time.Time
	HitCount     uint64
	ExpiryTime   time.Time
}

// Live reports whether the entry is still live at instant now, i.e. its
// expiry time is strictly after now.
func (e Entry) Live(now time.Time) bool {
	return now.Before(e.ExpiryTime)
}

// Metadata projects the fields an EvictionPolicy ranks candidates on.
func (e Entry) Metadata(key string) EntryMetadata {
	return EntryMetadata{
		Key:          key,
		CreationTime: e.CreationTime,
		AccessTime:   e.AccessTime,
		UpdateTime:   e.UpdateTime,
		HitCount:     e.HitCount,
	}
}

// EntryMetadata is the read-only view of an Entry's ranking fields, the
// same fields eviction.EntryMetadata carries to eviction policies. It
// deliberately excludes Value: eviction ranking never needs to look at the
// payload.
type EntryMetadata struct {
	Key          string
	CreationTime time.Time
	AccessTime   time.Time
	UpdateTime   time.Time
	HitCount     uint64
}
