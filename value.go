// File: config/value.go
package config

import (
	"strconv"
	"strings"
	"time"
)

// Parser lets a custom type consume a resolved string value, for use with
// Context.Parse.
type Parser interface {
	ParseProperty(value string) error
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	}
	return false, &ParseError{Value: s, Target: "bool"}
}

func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, &ParseError{Value: s, Target: "int64", Err: err}
	}
	return n, nil
}

func parseUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, &ParseError{Value: s, Target: "uint64", Err: err}
	}
	return n, nil
}

func parseFloat64(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Value: s, Target: "float64", Err: err}
	}
	return f, nil
}

// parseDuration accepts the usual unit-suffixed form ("250ms", "1h30m") and,
// for compatibility with plain numeric configs, a bare integer meaning
// seconds.
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return 0, &ParseError{Value: s, Target: "duration"}
}

// splitList breaks a comma-separated value into trimmed elements.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Enum matches value against the declared variants, ignoring case, and
// returns the canonical variant spelling.
func Enum(value string, variants ...string) (string, error) {
	for _, v := range variants {
		if strings.EqualFold(value, v) {
			return v, nil
		}
	}
	return "", &UnknownVariantError{Value: value, Variants: variants}
}

// leaf resolves a key to its expanded text for typed conversion. For
// non-string targets an empty resolved string counts as absence, so a blank
// default or unset-but-present env var falls through to the caller's
// fallback instead of failing conversion.
func (e *Environment) leaf(key string) (string, Key, bool, error) {
	k, err := ParseKey(key)
	if err != nil {
		return "", Key{}, false, err
	}
	v, found, err := newResolver(e).lookup(k)
	if err != nil {
		return "", k, false, err
	}
	if found && v == "" {
		found = false
	}
	return v, k, found, nil
}

func keyed(err error, k Key) error {
	switch e := err.(type) {
	case *ParseError:
		e.Key = k.String()
	case *UnknownVariantError:
		e.Key = k.String()
	}
	return err
}

// String is Get under its conventional name.
func (e *Environment) String(key string) (string, error) { return e.Get(key) }

// StringOr returns the resolved value or, when the key is absent, the
// default with its own placeholders expanded.
func (e *Environment) StringOr(key, def string) (string, error) { return e.GetOr(key, def) }

func (e *Environment) Int64(key string) (int64, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	n, err := parseInt64(v)
	if err != nil {
		return 0, keyed(err, k)
	}
	return n, nil
}

func (e *Environment) Int64Or(key string, def int64) (int64, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	n, err := parseInt64(v)
	if err != nil {
		return 0, keyed(err, k)
	}
	return n, nil
}

func (e *Environment) Bool(key string) (bool, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, notFoundErr(k)
	}
	b, err := parseBool(v)
	if err != nil {
		return false, keyed(err, k)
	}
	return b, nil
}

func (e *Environment) BoolOr(key string, def bool) (bool, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return false, err
	}
	if !found {
		return def, nil
	}
	b, err := parseBool(v)
	if err != nil {
		return false, keyed(err, k)
	}
	return b, nil
}

func (e *Environment) Float64(key string) (float64, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	f, err := parseFloat64(v)
	if err != nil {
		return 0, keyed(err, k)
	}
	return f, nil
}

func (e *Environment) Float64Or(key string, def float64) (float64, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	f, err := parseFloat64(v)
	if err != nil {
		return 0, keyed(err, k)
	}
	return f, nil
}

func (e *Environment) Duration(key string) (time.Duration, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	d, err := parseDuration(v)
	if err != nil {
		return 0, keyed(err, k)
	}
	return d, nil
}

func (e *Environment) DurationOr(key string, def time.Duration) (time.Duration, error) {
	v, k, found, err := e.leaf(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return 0, keyed(err, k)
	}
	return d, nil
}
