package adtmatch

import (
	"strconv"
	"strings"

	set "github.com/hashicorp/go-set/v2"
)

// Kind identifies the shape of a Type.
type Kind int

const (
	KindProduct   Kind = iota // Record with ordered, fixed fields.
	KindClosedSum             // Sealed hierarchy with a fixed variant list.
	KindOpen                  // Unconstrained type such as Object.
	KindAtomic                // Leaf value type such as int.
)

func (k Kind) String() string {
	switch k {
	case KindProduct:
		return "product"
	case KindClosedSum:
		return "sum"
	case KindOpen:
		return "open"
	case KindAtomic:
		return "atomic"
	}
	return "unknown"
}

// Type is a type descriptor. The implementations in this package are the only
// ones; descriptors are immutable once constructed.
type Type interface {
	Kind() Kind
	Name() string
	String() string
	isType()
}

// Field is a named, typed component of a Product.
type Field struct {
	Name string
	Type Type
}

// Product is a record type.
type Product struct {
	name   string
	fields []Field
}

// NewProduct declares a record type with the given fields in order.
func NewProduct(name string, fields ...Field) *Product {
	return &Product{name: name, fields: append([]Field(nil), fields...)}
}

func (p *Product) Kind() Kind        { return KindProduct }
func (p *Product) Name() string      { return p.name }
func (p *Product) Arity() int        { return len(p.fields) }
func (p *Product) Field(i int) Field { return p.fields[i] }
func (*Product) isType()             {}

// Fields returns a copy of the ordered field list.
func (p *Product) Fields() []Field { return append([]Field(nil), p.fields...) }

// FieldIndex returns the position of the named field or -1.
func (p *Product) FieldIndex(name string) int {
	for i, f := range p.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (p *Product) String() string {
	b := &strings.Builder{}
	b.WriteString(p.name)
	b.WriteByte('(')
	for i, f := range p.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Type.Name())
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte(')')
	return b.String()
}

// ClosedSum is a sealed hierarchy: exactly the listed variants exist.
type ClosedSum struct {
	name     string
	variants []Type
}

// NewClosedSum declares a sealed type permitting exactly the given variants.
func NewClosedSum(name string, variants ...Type) (*ClosedSum, error) {
	if err := checkVariants(name, variants); err != nil {
		return nil, err
	}
	return &ClosedSum{name: name, variants: append([]Type(nil), variants...)}, nil
}

// MustClosedSum is NewClosedSum that panics on error. Intended for setup code.
func MustClosedSum(name string, variants ...Type) *ClosedSum {
	cs, err := NewClosedSum(name, variants...)
	if err != nil {
		panic(err)
	}
	return cs
}

func checkVariants(name string, variants []Type) error {
	if len(variants) == 0 {
		return ErrEmptySum
	}
	seen := set.New[string](len(variants))
	for _, v := range variants {
		if !seen.Insert(v.Name()) {
			return &DuplicateVariantError{Sum: name, Variant: v.Name()}
		}
	}
	return nil
}

func (s *ClosedSum) Kind() Kind   { return KindClosedSum }
func (s *ClosedSum) Name() string { return s.name }
func (*ClosedSum) isType()        {}

// Variants returns a copy of the declared variants in declaration order.
func (s *ClosedSum) Variants() []Type { return append([]Type(nil), s.variants...) }

// Permits reports whether t is a variant of s, directly or through a nested
// closed sum.
func (s *ClosedSum) Permits(t Type) bool {
	for _, v := range s.variants {
		if v.Name() == t.Name() {
			return true
		}
		if inner, ok := v.(*ClosedSum); ok && inner.Permits(t) {
			return true
		}
	}
	return false
}

// Leaves flattens nested sums into the concrete variants, in declaration
// order.
func (s *ClosedSum) Leaves() []Type {
	var out []Type
	for _, v := range s.variants {
		if inner, ok := v.(*ClosedSum); ok {
			out = append(out, inner.Leaves()...)
			continue
		}
		out = append(out, v)
	}
	return out
}

func (s *ClosedSum) String() string {
	names := make([]string, 0, len(s.variants))
	for _, v := range s.variants {
		names = append(names, v.Name())
	}
	return "sealed " + s.name + " permits " + strings.Join(names, ", ")
}

// Open is an unconstrained type; only a wildcard or binding covers it.
type Open struct{ name string }

func NewOpen(name string) *Open { return &Open{name: name} }

func (o *Open) Kind() Kind     { return KindOpen }
func (o *Open) Name() string   { return o.name }
func (o *Open) String() string { return o.name }
func (*Open) isType()          {}

// Atomic is a primitive-like leaf type.
type Atomic struct{ name string }

func NewAtomic(name string) *Atomic { return &Atomic{name: name} }

func (a *Atomic) Kind() Kind     { return KindAtomic }
func (a *Atomic) Name() string   { return a.name }
func (a *Atomic) String() string { return a.name }
func (*Atomic) isType()          {}

// Tuple synthesises the product used for multi-subject matches: a match over
// (x, y) is a match over the tuple record with fields _0 and _1.
func Tuple(types ...Type) *Product {
	names := make([]string, len(types))
	fields := make([]Field, len(types))
	for i, t := range types {
		names[i] = t.Name()
		fields[i] = Field{Name: "_" + strconv.Itoa(i), Type: t}
	}
	return NewProduct("("+strings.Join(names, ", ")+")", fields...)
}

// IsTuple reports whether p was produced by Tuple.
func IsTuple(p *Product) bool { return strings.HasPrefix(p.name, "(") }

// SameType compares descriptors by identity (their registered name).
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && a.Name() == b.Name()
}

// Covers reports whether every value of u is a value of t: u is t, a variant
// reachable from the closed sum t, or anything when t is open.
func Covers(t, u Type) bool { return covers(t, u) }

func covers(t, u Type) bool {
	if SameType(t, u) {
		return true
	}
	switch tt := t.(type) {
	case *Open:
		return true
	case *ClosedSum:
		return tt.Permits(u)
	}
	return false
}
