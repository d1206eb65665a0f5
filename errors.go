// File: config/errors.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Every error returned by resolution and mapping wraps
// exactly one of these, so callers can classify failures with errors.Is.
var (
	// ErrInvalidKey reports malformed key syntax.
	ErrInvalidKey = errors.New("invalid key")
	// ErrNotFound reports a required key absent after full resolution,
	// defaults included.
	ErrNotFound = errors.New("property not found")
	// ErrCircularReference reports a placeholder cycle.
	ErrCircularReference = errors.New("circular placeholder reference")
	// ErrParse reports a resolved value that could not convert to the
	// target type, or malformed placeholder syntax.
	ErrParse = errors.New("parse failed")
	// ErrUnknownVariant reports an enum value outside the declared set.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrMissingField reports a required nested field whose key subtree is
	// entirely absent.
	ErrMissingField = errors.New("missing field")
	// ErrFileNotFound reports an absent configuration file. Builders treat
	// it as non-fatal.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError carries the offending string and the target type of a failed
// leaf conversion. It matches ErrParse under errors.Is.
type ParseError struct {
	Key    string // failing key path, empty for bare string conversion
	Value  string // the resolved string that failed to convert
	Target string // target type name
	Err    error  // underlying conversion error, may be nil
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %q as %s", e.Value, e.Target)
	if e.Key != "" {
		msg = fmt.Sprintf("key %s: %s", e.Key, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return ErrParse }

// UnknownVariantError carries the rejected enum value and the declared
// variants. It matches ErrUnknownVariant under errors.Is.
type UnknownVariantError struct {
	Key      string
	Value    string
	Variants []string
}

func (e *UnknownVariantError) Error() string {
	msg := fmt.Sprintf("unknown variant %q, valid options: %s", e.Value, strings.Join(e.Variants, ", "))
	if e.Key != "" {
		msg = fmt.Sprintf("key %s: %s", e.Key, msg)
	}
	return msg
}

func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

func invalidKeyErr(raw, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrInvalidKey, raw, reason)
}

func notFoundErr(key Key) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

func circularErr(key string) error {
	return fmt.Errorf("%w: %s", ErrCircularReference, key)
}

func missingFieldErr(key Key) error {
	return fmt.Errorf("%w: %s", ErrMissingField, key)
}

func placeholderErr(raw, reason string) error {
	return fmt.Errorf("%w: placeholder in %q: %s", ErrParse, raw, reason)
}
