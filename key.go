// File: config/key.go
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is a single element of a Key path: a name token, or an array index
// when index is non-negative.
type segment struct {
	name  string
	index int // >= 0 for array indices, -1 for name tokens
}

// Key is a normalized configuration path: an ordered sequence of name
// segments and array indices. The zero value is the empty (root) key.
//
// A Key round-trips through its canonical dotted form ("server.hosts[0].addr")
// and, for lower-case keys, through its environment-variable form
// ("SERVER_HOSTS_0_ADDR"). Literal underscores inside a segment double in the
// environment form, so "tls_cert" becomes "TLS__CERT".
type Key struct {
	segs []segment
}

// ParseKey parses a dotted key path. Array indices may be written in bracket
// form ("hosts[0].addr") or as bare numeric segments ("hosts.0.addr"); both
// normalize to the same Key. It fails with ErrInvalidKey on an empty segment,
// an unterminated bracket, or a non-numeric index.
func ParseKey(raw string) (Key, error) {
	if raw == "" {
		return Key{}, nil
	}

	var segs []segment
	i := 0
	expectSegment := true
	for i < len(raw) {
		switch raw[i] {
		case '.':
			return Key{}, invalidKeyErr(raw, "empty segment")
		case '[':
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				return Key{}, invalidKeyErr(raw, "unterminated bracket")
			}
			digits := raw[i+1 : i+end]
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 {
				return Key{}, invalidKeyErr(raw, fmt.Sprintf("invalid index %q", digits))
			}
			segs = append(segs, segment{index: idx})
			i += end + 1
		default:
			end := i
			for end < len(raw) && raw[end] != '.' && raw[end] != '[' {
				end++
			}
			name := raw[i:end]
			if !isValidKeySegment(name) {
				return Key{}, invalidKeyErr(raw, fmt.Sprintf("invalid segment %q", name))
			}
			if idx, err := strconv.Atoi(name); err == nil && idx >= 0 {
				segs = append(segs, segment{index: idx})
			} else {
				segs = append(segs, segment{name: name, index: -1})
			}
			i = end
		}

		// A segment may be followed by a dot separator, another bracket
		// index, or the end of input.
		expectSegment = false
		if i < len(raw) && raw[i] == '.' {
			i++
			expectSegment = true
		}
	}
	if expectSegment {
		return Key{}, invalidKeyErr(raw, "empty segment")
	}

	return Key{segs: segs}, nil
}

// MustParseKey is like ParseKey but panics on malformed input. Intended for
// compile-time-constant key literals.
func MustParseKey(raw string) Key {
	k, err := ParseKey(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// KeyFromEnvVar parses an UPPER_SNAKE environment-variable name into a Key,
// inverting EnvVar: single underscores separate segments, doubled underscores
// escape a literal underscore, all-digit segments become array indices, and
// names fold to lower case.
func KeyFromEnvVar(raw string) (Key, error) {
	if raw == "" {
		return Key{}, nil
	}

	var segs []segment
	var token strings.Builder
	flush := func() error {
		t := token.String()
		token.Reset()
		if t == "" {
			return invalidKeyErr(raw, "empty segment")
		}
		if idx, err := strconv.Atoi(t); err == nil && idx >= 0 {
			segs = append(segs, segment{index: idx})
			return nil
		}
		t = strings.ToLower(t)
		if !isValidKeySegment(t) {
			return invalidKeyErr(raw, fmt.Sprintf("invalid segment %q", t))
		}
		segs = append(segs, segment{name: t, index: -1})
		return nil
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '_' {
			token.WriteByte(raw[i])
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '_' {
			token.WriteByte('_') // doubled underscore is a literal one
			i++
			continue
		}
		if err := flush(); err != nil {
			return Key{}, err
		}
	}
	if err := flush(); err != nil {
		return Key{}, err
	}

	return Key{segs: segs}, nil
}

// String returns the canonical dotted form, with array indices in bracket
// notation ("hosts[0].addr").
func (k Key) String() string {
	var b strings.Builder
	for i, s := range k.segs {
		if s.index >= 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.name)
	}
	return b.String()
}

// EnvVar returns the environment-variable form: segments joined with
// underscores, names upper-cased with literal underscores doubled, indices as
// bare numbers.
func (k Key) EnvVar() string {
	parts := make([]string, 0, len(k.segs))
	for _, s := range k.segs {
		if s.index >= 0 {
			parts = append(parts, strconv.Itoa(s.index))
			continue
		}
		parts = append(parts, strings.ToUpper(strings.ReplaceAll(s.name, "_", "__")))
	}
	return strings.Join(parts, "_")
}

// IsEmpty reports whether k is the root key.
func (k Key) IsEmpty() bool {
	return len(k.segs) == 0
}

// Len returns the number of segments.
func (k Key) Len() int {
	return len(k.segs)
}

// Child returns a new Key with name appended. The argument may itself be a
// dotted path; it must parse, or Child panics (use ParseKey + Join to
// validate caller-supplied names).
func (k Key) Child(name string) Key {
	sub := MustParseKey(name)
	return k.Join(sub)
}

// At returns a new Key with array index i appended.
func (k Key) At(i int) Key {
	segs := make([]segment, len(k.segs), len(k.segs)+1)
	copy(segs, k.segs)
	return Key{segs: append(segs, segment{index: i})}
}

// Join returns the concatenation of k and sub.
func (k Key) Join(sub Key) Key {
	if len(sub.segs) == 0 {
		return k
	}
	segs := make([]segment, len(k.segs), len(k.segs)+len(sub.segs))
	copy(segs, k.segs)
	return Key{segs: append(segs, sub.segs...)}
}

// Equal reports whether two keys have identical segments.
func (k Key) Equal(other Key) bool {
	if len(k.segs) != len(other.segs) {
		return false
	}
	for i, s := range k.segs {
		if s != other.segs[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether k starts with prefix. Every key has the root key
// as a prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.segs) > len(k.segs) {
		return false
	}
	for i, s := range prefix.segs {
		if s != k.segs[i] {
			return false
		}
	}
	return true
}

// Less orders keys segment-wise. Array indices compare numerically, so
// hosts[10] sorts after hosts[2]; an index sorts before a name at the same
// position.
func (k Key) Less(other Key) bool {
	n := len(k.segs)
	if len(other.segs) < n {
		n = len(other.segs)
	}
	for i := 0; i < n; i++ {
		a, b := k.segs[i], other.segs[i]
		switch {
		case a.index >= 0 && b.index >= 0:
			if a.index != b.index {
				return a.index < b.index
			}
		case a.index >= 0:
			return true
		case b.index >= 0:
			return false
		default:
			if a.name != b.name {
				return a.name < b.name
			}
		}
	}
	return len(k.segs) < len(other.segs)
}

// childIndex returns the array index immediately following prefix in k, if
// any. Used by collection mapping to enumerate sibling indices.
func (k Key) childIndex(prefix Key) (int, bool) {
	if len(k.segs) <= len(prefix.segs) || !k.HasPrefix(prefix) {
		return 0, false
	}
	s := k.segs[len(prefix.segs)]
	if s.index < 0 {
		return 0, false
	}
	return s.index, true
}

// isValidKeySegment checks a single name segment: ASCII letters, digits,
// underscores and dashes, no dots.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
