// File: config/describe.go
package config

// KeyDesc documents one configuration key a Describer consumes: its full
// dotted path, the expected value type, whether it is required, and an
// optional default and doc string. Useful for generating --help style
// listings of everything an application reads.
type KeyDesc struct {
	Key      string
	Type     string
	Required bool
	Default  string
	Doc      string
}

// Describer is implemented by configuration types that can enumerate the
// keys they consume without resolving any values.
type Describer interface {
	Describe(d *DescContext)
}

// DescContext collects key descriptions relative to a prefix, mirroring how
// Context reads values relative to one.
type DescContext struct {
	prefix Key
	out    *[]KeyDesc
}

// Field records one leaf key under the current prefix.
func (d *DescContext) Field(name, typ string, required bool, def, doc string) {
	k := d.prefix
	if name != "" {
		k = k.Child(name)
	}
	*d.out = append(*d.out, KeyDesc{
		Key:      k.String(),
		Type:     typ,
		Required: required,
		Default:  def,
		Doc:      doc,
	})
}

// Nested descends into a sub-structure's descriptions under name.
func (d *DescContext) Nested(name string, child Describer) {
	sub := d.prefix
	if name != "" {
		sub = sub.Child(name)
	}
	child.Describe(&DescContext{prefix: sub, out: d.out})
}

// Describe returns the keys t consumes, rooted at prefix, in declaration
// order.
func Describe(prefix string, t Describer) ([]KeyDesc, error) {
	k, err := ParseKey(prefix)
	if err != nil {
		return nil, err
	}
	var out []KeyDesc
	t.Describe(&DescContext{prefix: k, out: &out})
	return out, nil
}
