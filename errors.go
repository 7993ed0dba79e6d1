// errors.go: structured error handling for cachekit operations.
//
// Errors carry rich context, a stable code, and a retryable flag via
// go-errors, organized into three kinds: ConfigurationError (rejected
// at construction), BackendError (a failing storage call), and
// LoaderError (a failing on-miss loader).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cachekit

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for cachekit operations.
const (
	// Configuration errors
	ErrCodeInvalidConfig     errors.ErrorCode = "CACHEKIT_INVALID_CONFIG"
	ErrCodeInvalidMaxEntries errors.ErrorCode = "CACHEKIT_INVALID_MAX_ENTRIES"

	// Operation errors
	ErrCodeCacheFull   errors.ErrorCode = "CACHEKIT_CACHE_FULL"
	ErrCodeBackendFail errors.ErrorCode = "CACHEKIT_BACKEND_ERROR"

	// Loader errors
	ErrCodeLoaderFailed errors.ErrorCode = "CACHEKIT_LOADER_ERROR"
)

const (
	msgInvalidMaxEntries = "invalid max entries: must be >= 0"
	msgCacheFull         = "cache is full and eviction could not make room"
	msgBackendFailed     = "storage backend operation failed"
	msgLoaderFailed      = "loader function failed"
	msgInvalidConfig     = "invalid configuration"
)

// NewErrInvalidConfig reports a ConfigurationError carrying a free-form
// reason, used by callers (such as hotconfig) whose validation does not
// fit one of the narrower constructors below.
func NewErrInvalidConfig(reason string) error {
	return errors.NewWithContext(ErrCodeInvalidConfig, msgInvalidConfig, map[string]interface{}{
		"reason": reason,
	})
}

// NewErrInvalidMaxEntries reports a ConfigurationError for a negative
// MaxEntries option, raised synchronously at construction.
func NewErrInvalidMaxEntries(n int) error {
	return errors.NewWithContext(ErrCodeInvalidMaxEntries, msgInvalidMaxEntries, map[string]interface{}{
		"provided": n,
	})
}

// NewErrCacheFull reports that an overflowing insert could not free
// capacity.
func NewErrCacheFull(name string, maxEntries int) error {
	return errors.NewWithContext(ErrCodeCacheFull, msgCacheFull, map[string]interface{}{
		"cache":       name,
		"max_entries": maxEntries,
	})
}

// NewErrBackendFailed wraps a backend failure. It is propagated
// verbatim; the engine performs no retry of its own.
func NewErrBackendFailed(operation, key string, cause error) error {
	return errors.Wrap(cause, ErrCodeBackendFail, msgBackendFailed).
		WithContext("operation", operation).
		WithContext("key", key).
		AsRetryable()
}

// NewErrLoaderFailed wraps a loader failure. It is propagated to the
// caller and never cached as a negative result.
func NewErrLoaderFailed(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", key)
}

// IsCacheFull reports whether err is a cache-full error.
func IsCacheFull(err error) bool {
	return errors.HasCode(err, ErrCodeCacheFull)
}

// IsBackendError reports whether err originated in the storage backend.
func IsBackendError(err error) bool {
	return errors.HasCode(err, ErrCodeBackendFail)
}

// IsLoaderError reports whether err originated in a Loader.
func IsLoaderError(err error) bool {
	return errors.HasCode(err, ErrCodeLoaderFailed)
}

// IsConfigurationError reports whether err is a construction-time
// configuration error.
func IsConfigurationError(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidMaxEntries) || errors.HasCode(err, ErrCodeInvalidConfig)
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// ErrorCode extracts the stable error code from err, if any.
func ErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}
