// File: config/context.go
package config

import (
	"sort"
	"time"
)

// FromEnvironment is implemented by types that populate themselves from a
// mapping Context. Implementations read their fields through the Context
// accessors and return the first failure.
type FromEnvironment interface {
	FromEnvironment(ctx *Context) error
}

// Prefixed is a FromEnvironment that knows its own key prefix, for use with
// Environment.BindPrefixed.
type Prefixed interface {
	FromEnvironment
	Prefix() string
}

// Bind populates target from the key subtree rooted at prefix.
func (e *Environment) Bind(prefix string, target FromEnvironment) error {
	k, err := ParseKey(prefix)
	if err != nil {
		return err
	}
	return target.FromEnvironment(&Context{env: e, prefix: k})
}

// BindPrefixed populates target from the subtree named by its own Prefix.
func (e *Environment) BindPrefixed(target Prefixed) error {
	return e.Bind(target.Prefix(), target)
}

// Context is a cursor into an Environment, rooted at a key prefix. All
// accessors take field names relative to that prefix; an empty name refers
// to the prefix key itself.
type Context struct {
	env    *Environment
	prefix Key
}

// Key returns the prefix this context is rooted at.
func (c *Context) Key() Key { return c.prefix }

func (c *Context) at(name string) (Key, error) {
	if name == "" {
		return c.prefix, nil
	}
	sub, err := ParseKey(name)
	if err != nil {
		return Key{}, err
	}
	return c.prefix.Join(sub), nil
}

// value resolves one field to its expanded text. found=false means the key
// itself is undefined; errors cover invalid names and expansion failures.
func (c *Context) value(name string) (string, Key, bool, error) {
	k, err := c.at(name)
	if err != nil {
		return "", Key{}, false, err
	}
	v, found, err := newResolver(c.env).lookup(k)
	return v, k, found, err
}

// leafValue applies the empty-is-absent rule used for all non-string field
// types.
func (c *Context) leafValue(name string) (string, Key, bool, error) {
	v, k, found, err := c.value(name)
	if found && v == "" {
		found = false
	}
	return v, k, found, err
}

// String reads a required string field.
func (c *Context) String(name string) (string, error) {
	v, k, found, err := c.value(name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", notFoundErr(k)
	}
	return v, nil
}

// StringOr reads a string field, expanding placeholders in the default when
// the field is absent.
func (c *Context) StringOr(name, def string) (string, error) {
	v, _, found, err := c.value(name)
	if err != nil {
		return "", err
	}
	if !found {
		return newResolver(c.env).expand(def)
	}
	return v, nil
}

// OptionalString reads a string field that may be absent. Absence of the
// field's own key reports ok=false with no error; a broken placeholder
// inside a present value is still an error.
func (c *Context) OptionalString(name string) (string, bool, error) {
	v, _, found, err := c.value(name)
	if err != nil {
		return "", false, err
	}
	return v, found, nil
}

func (c *Context) Int(name string) (int64, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	n, err := parseInt64(v)
	return n, errOrNil(err, k)
}

func (c *Context) IntOr(name string, def int64) (int64, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	n, err := parseInt64(v)
	return n, errOrNil(err, k)
}

func (c *Context) OptionalInt(name string) (int64, bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil || !found {
		return 0, false, err
	}
	n, err := parseInt64(v)
	return n, err == nil, errOrNil(err, k)
}

func (c *Context) Uint(name string) (uint64, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	n, err := parseUint64(v)
	return n, errOrNil(err, k)
}

func (c *Context) UintOr(name string, def uint64) (uint64, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	n, err := parseUint64(v)
	return n, errOrNil(err, k)
}

func (c *Context) OptionalUint(name string) (uint64, bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil || !found {
		return 0, false, err
	}
	n, err := parseUint64(v)
	return n, err == nil, errOrNil(err, k)
}

func (c *Context) Float(name string) (float64, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	f, err := parseFloat64(v)
	return f, errOrNil(err, k)
}

func (c *Context) FloatOr(name string, def float64) (float64, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	f, err := parseFloat64(v)
	return f, errOrNil(err, k)
}

func (c *Context) OptionalFloat(name string) (float64, bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil || !found {
		return 0, false, err
	}
	f, err := parseFloat64(v)
	return f, err == nil, errOrNil(err, k)
}

func (c *Context) Bool(name string) (bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return false, err
	}
	if !found {
		return false, notFoundErr(k)
	}
	b, err := parseBool(v)
	return b, errOrNil(err, k)
}

func (c *Context) BoolOr(name string, def bool) (bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return false, err
	}
	if !found {
		return def, nil
	}
	b, err := parseBool(v)
	return b, errOrNil(err, k)
}

func (c *Context) OptionalBool(name string) (bool, bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil || !found {
		return false, false, err
	}
	b, err := parseBool(v)
	return b, err == nil, errOrNil(err, k)
}

func (c *Context) Duration(name string) (time.Duration, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFoundErr(k)
	}
	d, err := parseDuration(v)
	return d, errOrNil(err, k)
}

func (c *Context) DurationOr(name string, def time.Duration) (time.Duration, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	d, err := parseDuration(v)
	return d, errOrNil(err, k)
}

func (c *Context) OptionalDuration(name string) (time.Duration, bool, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil || !found {
		return 0, false, err
	}
	d, err := parseDuration(v)
	return d, err == nil, errOrNil(err, k)
}

// Enum reads a required field constrained to the declared variants,
// matching case-insensitively and returning the canonical spelling.
func (c *Context) Enum(name string, variants ...string) (string, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", notFoundErr(k)
	}
	canon, err := Enum(v, variants...)
	return canon, errOrNil(err, k)
}

// EnumOr is Enum with a default for the absent case. The default is not
// validated against the variants; it is the caller's constant.
func (c *Context) EnumOr(name, def string, variants ...string) (string, error) {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return "", err
	}
	if !found {
		return def, nil
	}
	canon, err := Enum(v, variants...)
	return canon, errOrNil(err, k)
}

// Parse reads a required field through a custom Parser.
func (c *Context) Parse(name string, target Parser) error {
	v, k, found, err := c.leafValue(name)
	if err != nil {
		return err
	}
	if !found {
		return notFoundErr(k)
	}
	if err := target.ParseProperty(v); err != nil {
		return &ParseError{Key: k.String(), Value: v, Target: "custom", Err: err}
	}
	return nil
}

// has reports whether the subtree at k is present at all, either as a leaf
// value or through descendant keys.
func (c *Context) has(k Key) bool {
	if _, ok := c.env.Resolve(k); ok {
		return true
	}
	return len(c.env.Keys(k)) > 0
}

// Bind populates target from the nested subtree at name. A subtree with no
// keys at all is a missing-field error; a present subtree with individually
// absent required fields fails inside target's own FromEnvironment.
func (c *Context) Bind(name string, target FromEnvironment) error {
	k, err := c.at(name)
	if err != nil {
		return err
	}
	if !c.has(k) {
		return missingFieldErr(k)
	}
	return target.FromEnvironment(&Context{env: c.env, prefix: k})
}

// Optional populates target only when the subtree at name has any keys,
// reporting whether it did.
func (c *Context) Optional(name string, target FromEnvironment) (bool, error) {
	k, err := c.at(name)
	if err != nil {
		return false, err
	}
	if !c.has(k) {
		return false, nil
	}
	if err := target.FromEnvironment(&Context{env: c.env, prefix: k}); err != nil {
		return false, err
	}
	return true, nil
}

// Each invokes fn once per array element under name, in ascending index
// order. Indices need not be contiguous; fn receives the declared index and
// a context rooted at that element. An empty or absent array runs fn zero
// times with no error.
func (c *Context) Each(name string, fn func(i int, elem *Context) error) error {
	k, err := c.at(name)
	if err != nil {
		return err
	}
	seen := make(map[int]struct{})
	var indices []int
	for _, child := range c.env.Keys(k) {
		i, ok := child.childIndex(k)
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		if err := fn(i, &Context{env: c.env, prefix: k.At(i)}); err != nil {
			return err
		}
	}
	return nil
}

// Strings reads a list of strings from name: either indexed elements
// (name[0], name[1], ...) or, when name resolves to a single leaf, that
// value split on commas.
func (c *Context) Strings(name string) ([]string, error) {
	v, _, found, err := c.value(name)
	if err != nil {
		return nil, err
	}
	if found {
		if v == "" {
			return nil, nil
		}
		return splitList(v), nil
	}
	var out []string
	err = c.Each(name, func(_ int, elem *Context) error {
		s, err := elem.Value()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Value reads the leaf value at the context's own prefix. Scalar array
// elements use this from inside Each.
func (c *Context) Value() (string, error) {
	return c.String("")
}

// OptionalValue is Value for prefixes that may not hold a leaf.
func (c *Context) OptionalValue() (string, bool, error) {
	return c.OptionalString("")
}

func errOrNil(err error, k Key) error {
	if err == nil {
		return nil
	}
	return keyed(err, k)
}
