// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a failure for propagation decisions.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryUpstream      ErrorCategory = "upstream"
	CategorySchema        ErrorCategory = "schema_mismatch"
	CategoryStorage       ErrorCategory = "storage"
)

// ValidationError reports a malformed or missing request field. It is
// raised before any network call and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a missing credential or schema document.
type ConfigurationError struct {
	Setting string
	Reason  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration %s: %s: %v", e.Setting, e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// UpstreamError reports a failed call to the generative API: a status
// outside 400/422, a transport failure (Status 0), or exhaustion of the
// degradation cascade. Detail carries a truncated response body only
// when debug output is enabled.
type UpstreamError struct {
	Status int
	Mode   string
	Model  string
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("generative API request failed: %d", e.Status)
	if e.Status == 0 && e.Err != nil {
		msg = fmt.Sprintf("generative API request failed: %v", e.Err)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// SchemaMismatchError reports a response body that no extraction
// strategy could decode into a JSON object.
type SchemaMismatchError struct {
	Reason string
	Sample string
}

func (e *SchemaMismatchError) Error() string {
	return "structured output not decodable: " + e.Reason
}

// StorageError reports an unreadable or unwritable idea pool file.
// Callers log it; it is never fatal.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("idea store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Categorize maps err onto the taxonomy. Unknown errors are reported as
// upstream failures since they originate outside the core.
func Categorize(err error) ErrorCategory {
	var (
		ve *ValidationError
		ce *ConfigurationError
		se *SchemaMismatchError
		st *StorageError
	)
	switch {
	case errors.As(err, &ve):
		return CategoryValidation
	case errors.As(err, &ce):
		return CategoryConfiguration
	case errors.As(err, &se):
		return CategorySchema
	case errors.As(err, &st):
		return CategoryStorage
	default:
		return CategoryUpstream
	}
}
