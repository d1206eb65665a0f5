// File: config/source.go
package config

// Priority ranks for the standard source layers. Lower rank is consulted
// first; equal ranks keep registration order, earliest registered wins.
const (
	PriorityOverride = 0  // direct Set overrides
	PriorityCLI      = 10 // command-line arguments
	PriorityEnv      = 20 // process environment
	PriorityFile     = 30 // file-backed sources
	PriorityDefault  = 40 // registered defaults
)

// Source is a named, prioritized provider of raw string values for keys.
//
// Get must be side-effect-free. Static sources return stable results;
// dynamic sources (the live process environment) may reflect current
// external state on every call. Keys enumerates the keys the source defines
// under a prefix; sources that cannot enumerate return nil rather than an
// error. Implementations must be safe for concurrent readers.
type Source interface {
	Name() string
	Priority() int
	Get(key Key) (string, bool)
	Keys(prefix Key) []Key
}

// MapSource is an in-memory source backed by a flat key/value map. It is the
// backing store for overrides, parsed argument lists, file contents and
// registered defaults.
type MapSource struct {
	name     string
	priority int
	values   map[string]string
	keys     []Key
	err      error
}

// NewMapSource creates an empty map source with the given name and priority
// rank.
func NewMapSource(name string, priority int) *MapSource {
	return &MapSource{
		name:     name,
		priority: priority,
		values:   make(map[string]string),
	}
}

// Set stores a value under a dotted key, replacing any previous value.
// It returns the source for chaining; a malformed key is remembered and
// surfaced by Err (and by Builder.Build).
func (s *MapSource) Set(key, value string) *MapSource {
	k, err := ParseKey(key)
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return s
	}
	return s.set(k, value)
}

// SetAll stores a batch of values.
func (s *MapSource) SetAll(values map[string]string) *MapSource {
	for k, v := range values {
		s.Set(k, v)
	}
	return s
}

func (s *MapSource) set(k Key, value string) *MapSource {
	ks := k.String()
	if _, exists := s.values[ks]; !exists {
		s.keys = append(s.keys, k)
	}
	s.values[ks] = value
	return s
}

// Err returns the first error recorded by Set, if any.
func (s *MapSource) Err() error {
	return s.err
}

// Len returns the number of keys the source defines.
func (s *MapSource) Len() int {
	return len(s.values)
}

func (s *MapSource) Name() string {
	return s.name
}

func (s *MapSource) Priority() int {
	return s.priority
}

func (s *MapSource) Get(key Key) (string, bool) {
	v, ok := s.values[key.String()]
	return v, ok
}

func (s *MapSource) Keys(prefix Key) []Key {
	var out []Key
	for _, k := range s.keys {
		if k.HasPrefix(prefix) {
			out = append(out, k)
		}
	}
	return out
}
