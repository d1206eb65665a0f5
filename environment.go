// File: config/environment.go
package config

import (
	"sort"
)

// RawProperty is one unresolved value together with the key it was found
// under and the name of the source that produced it.
type RawProperty struct {
	Key    Key
	Value  string
	Source string
}

// Environment is a frozen, ordered collection of property sources. Value
// resolution scans sources in ascending priority order and returns the first
// hit; key enumeration is the additive union across all sources, so a
// low-priority source can still contribute keys that a higher one does not
// define.
//
// An Environment is immutable after construction and safe to share across
// goroutines. Reconfiguration means building a new Environment (via Builder)
// and publishing its reference; there is no in-place mutation API.
type Environment struct {
	sources []Source
}

// New creates an Environment from the given sources, ordered by ascending
// priority rank. Sources with equal rank keep their argument order, earliest
// first.
func New(sources ...Source) *Environment {
	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})
	return &Environment{sources: ordered}
}

// Sources returns the source names in resolution order, for diagnostics.
func (e *Environment) Sources() []string {
	names := make([]string, len(e.sources))
	for i, s := range e.sources {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the raw, unexpanded value for a key from the
// highest-priority source that defines it. Lower-priority values for the
// same key are fully shadowed.
func (e *Environment) Resolve(key Key) (RawProperty, bool) {
	for _, s := range e.sources {
		if v, ok := s.Get(key); ok {
			return RawProperty{Key: key, Value: v, Source: s.Name()}, true
		}
	}
	return RawProperty{}, false
}

// Has reports whether any source defines the key.
func (e *Environment) Has(key string) bool {
	k, err := ParseKey(key)
	if err != nil {
		return false
	}
	_, ok := e.Resolve(k)
	return ok
}

// Keys returns the union of keys defined under prefix across all sources,
// deduplicated and sorted (array indices numerically). Enumeration is
// additive: no source suppresses another's keys, even though value
// resolution is override-based.
func (e *Environment) Keys(prefix Key) []Key {
	seen := make(map[string]struct{})
	var out []Key
	for _, s := range e.sources {
		for _, k := range s.Keys(prefix) {
			ks := k.String()
			if _, dup := seen[ks]; dup {
				continue
			}
			seen[ks] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Get returns the fully resolved value for a dotted key: the raw value from
// the winning source with all placeholders expanded. It fails with
// ErrNotFound when no source defines the key.
func (e *Environment) Get(key string) (string, error) {
	k, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	r := newResolver(e)
	return r.get(k)
}

// GetOr is like Get but evaluates a default when the key is absent. The
// default may itself contain placeholders.
func (e *Environment) GetOr(key, def string) (string, error) {
	k, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	r := newResolver(e)
	v, found, err := r.lookup(k)
	if err != nil {
		return "", err
	}
	if !found {
		return r.expand(def)
	}
	return v, nil
}

// ResolveString expands placeholders in a caller-supplied string against
// this Environment. A string without placeholders is returned unchanged.
func (e *Environment) ResolveString(raw string) (string, error) {
	return newResolver(e).expand(raw)
}
