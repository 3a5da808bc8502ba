package adtmatch

import (
	"fmt"
	"strings"
)

// PatternKind identifies a pattern node.
type PatternKind int

const (
	PatternWildcard PatternKind = iota
	PatternBinding
	PatternTypeTest
	PatternDeconstruct
	PatternLiteral
)

func (k PatternKind) String() string {
	switch k {
	case PatternWildcard:
		return "wildcard"
	case PatternBinding:
		return "binding"
	case PatternTypeTest:
		return "type"
	case PatternDeconstruct:
		return "deconstruct"
	case PatternLiteral:
		return "literal"
	}
	return "unknown"
}

// Pattern is an immutable, type-checked pattern tree node. Type returns the
// declared type the node was checked against, resolved once at construction.
// Patterns are produced by Builder.
type Pattern interface {
	Kind() PatternKind
	Type() Type
	String() string
	pattern()
}

// Wildcard matches any value of its type and binds nothing.
type Wildcard struct {
	typ Type
}

func (w *Wildcard) Kind() PatternKind { return PatternWildcard }
func (w *Wildcard) Type() Type        { return w.typ }
func (w *Wildcard) String() string    { return "_" }
func (*Wildcard) pattern()            {}

// Binding matches any value of its type and binds it to Name.
type Binding struct {
	name string
	typ  Type
}

func (b *Binding) Kind() PatternKind { return PatternBinding }
func (b *Binding) Type() Type        { return b.typ }
func (b *Binding) Name() string      { return b.name }
func (b *Binding) String() string    { return b.name }
func (*Binding) pattern()            {}

// TypeTest matches when the value's concrete type is Variant (or one of its
// leaves when Variant is itself a closed sum). A non-empty Name also binds
// the value.
type TypeTest struct {
	variant Type
	name    string
	typ     Type
}

func (t *TypeTest) Kind() PatternKind { return PatternTypeTest }
func (t *TypeTest) Type() Type        { return t.typ }
func (t *TypeTest) Variant() Type     { return t.variant }
func (t *TypeTest) Name() string      { return t.name }
func (*TypeTest) pattern()            {}

func (t *TypeTest) String() string {
	if t.name == "" {
		return t.variant.Name()
	}
	return t.variant.Name() + " " + t.name
}

// Deconstruct matches a record of exactly Product whose fields match the
// subpatterns position by position.
type Deconstruct struct {
	product *Product
	subs    []Pattern
	name    string
	typ     Type
}

func (d *Deconstruct) Kind() PatternKind { return PatternDeconstruct }
func (d *Deconstruct) Type() Type        { return d.typ }
func (d *Deconstruct) Product() *Product { return d.product }
func (d *Deconstruct) Name() string      { return d.name }
func (d *Deconstruct) Len() int          { return len(d.subs) }
func (d *Deconstruct) Sub(i int) Pattern { return d.subs[i] }
func (*Deconstruct) pattern()            {}

// Subpatterns returns a copy of the field patterns.
func (d *Deconstruct) Subpatterns() []Pattern { return append([]Pattern(nil), d.subs...) }

func (d *Deconstruct) String() string {
	b := &strings.Builder{}
	if !IsTuple(d.product) {
		b.WriteString(d.product.Name())
	}
	b.WriteByte('(')
	for i, s := range d.subs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteByte(')')
	if d.name != "" {
		b.WriteByte(' ')
		b.WriteString(d.name)
	}
	return b.String()
}

// Literal matches values equal to Value.
type Literal struct {
	value Atom
	typ   Type
}

func (l *Literal) Kind() PatternKind { return PatternLiteral }
func (l *Literal) Type() Type        { return l.typ }
func (l *Literal) Value() Atom       { return l.value }
func (l *Literal) String() string    { return fmt.Sprint(l.value) }
func (*Literal) pattern()            {}

// BindingNames lists the names a pattern binds, in left-to-right order.
func BindingNames(p Pattern) []string {
	var out []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch pp := p.(type) {
		case *Binding:
			out = append(out, pp.name)
		case *TypeTest:
			if pp.name != "" {
				out = append(out, pp.name)
			}
		case *Deconstruct:
			for _, s := range pp.subs {
				walk(s)
			}
			if pp.name != "" {
				out = append(out, pp.name)
			}
		}
	}
	walk(p)
	return out
}
