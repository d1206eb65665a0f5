// File: config/placeholder.go
package config

import (
	"strings"
)

// Placeholder grammar: ${key} substitutes the resolved value of key, and
// ${key:default} falls back to the default text when key is absent. Both the
// key and the default may themselves contain placeholders and are evaluated
// recursively. A backslash escapes the next metacharacter ($, {, }, :, \);
// stray $ and } outside a placeholder are literal.

type phNode interface{ phNode() }

// phLiteral is a run of literal text.
type phLiteral string

func (phLiteral) phNode() {}

// phRef is one ${key} or ${key:default} reference.
type phRef struct {
	key    []phNode
	def    []phNode
	hasDef bool
}

func (*phRef) phNode() {}

// needsExpansion is the fast path gate: a value with no backslash and no
// "${" is returned verbatim without parsing, which also makes expansion
// idempotent for already-resolved values.
func needsExpansion(s string) bool {
	return strings.IndexByte(s, '\\') >= 0 || strings.Contains(s, "${")
}

func parsePlaceholders(s string) ([]phNode, error) {
	nodes, _, _, _, err := parseSeq(s, 0, false)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// parseSeq consumes a node sequence starting at pos. When inRef is true it
// stops at the closing brace and splits on the first top-level colon into
// key and default parts; otherwise it runs to end of input.
func parseSeq(s string, pos int, inRef bool) (key, def []phNode, hasDef bool, end int, err error) {
	var lit []byte
	cur := &key
	flush := func() {
		if len(lit) > 0 {
			*cur = append(*cur, phLiteral(lit))
			lit = lit[:0]
		}
	}
	i := pos
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 < len(s) {
				switch n := s[i+1]; n {
				case '$', '{', '}', ':', '\\':
					lit = append(lit, n)
					i += 2
					continue
				}
			}
			lit = append(lit, c)
			i++
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			flush()
			var ref *phRef
			ref, i, err = parseRef(s, i+2)
			if err != nil {
				return
			}
			*cur = append(*cur, ref)
		case inRef && c == ':' && !hasDef:
			flush()
			hasDef = true
			cur = &def
			i++
		case inRef && c == '}':
			flush()
			end = i + 1
			return
		default:
			lit = append(lit, c)
			i++
		}
	}
	if inRef {
		err = placeholderErr(s, "unterminated placeholder")
		return
	}
	flush()
	end = i
	return
}

func parseRef(s string, pos int) (*phRef, int, error) {
	key, def, hasDef, end, err := parseSeq(s, pos, true)
	if err != nil {
		return nil, 0, err
	}
	return &phRef{key: key, def: def, hasDef: hasDef}, end, nil
}

// resolver carries the in-flight reference set for one resolution tree so
// that circular placeholder chains fail instead of recursing forever.
type resolver struct {
	env      *Environment
	visiting map[string]struct{}
}

func newResolver(env *Environment) *resolver {
	return &resolver{env: env, visiting: make(map[string]struct{})}
}

func (r *resolver) get(key Key) (string, error) {
	v, found, err := r.lookup(key)
	if err != nil {
		return "", err
	}
	if !found {
		return "", notFoundErr(key)
	}
	return v, nil
}

// lookup resolves and expands one key. Absence of the key itself is
// reported via found=false so callers can apply their own fallback, while
// failures inside expansion (broken references, cycles) always surface as
// errors regardless of any fallback.
func (r *resolver) lookup(key Key) (string, bool, error) {
	ks := key.String()
	if _, active := r.visiting[ks]; active {
		return "", false, circularErr(ks)
	}
	raw, ok := r.env.Resolve(key)
	if !ok {
		return "", false, nil
	}
	r.visiting[ks] = struct{}{}
	defer delete(r.visiting, ks)
	v, err := r.expand(raw.Value)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *resolver) expand(raw string) (string, error) {
	if !needsExpansion(raw) {
		return raw, nil
	}
	nodes, err := parsePlaceholders(raw)
	if err != nil {
		return "", err
	}
	return r.eval(nodes)
}

func (r *resolver) eval(nodes []phNode) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case phLiteral:
			b.WriteString(string(n))
		case *phRef:
			name, err := r.eval(n.key)
			if err != nil {
				return "", err
			}
			k, err := ParseKey(name)
			if err != nil {
				return "", err
			}
			v, found, err := r.lookup(k)
			if err != nil {
				return "", err
			}
			if !found {
				if !n.hasDef {
					return "", notFoundErr(k)
				}
				if v, err = r.eval(n.def); err != nil {
					return "", err
				}
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}
