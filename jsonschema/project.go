package jsonschema

import (
	"github.com/reoring/adtmatch"
)

// Keys of the object encoding of values; see package source.
const (
	TypeKey  = "$type"
	ValueKey = "$value"
)

// FromType projects t into a JSON Schema describing the JSON form of its
// values. Products and closed sums are emitted once under $defs and
// referenced, so recursive types terminate. Atomic types map to a JSON
// primitive by name (int, string, bool, float, ...); unknown names accept any
// scalar.
func FromType(t adtmatch.Type) *Schema {
	p := &projector{defs: map[string]*Schema{}}
	root := p.ref(t)
	root.Schema = Draft
	if len(p.defs) > 0 {
		root.Defs = p.defs
	}
	return root
}

type projector struct {
	defs map[string]*Schema
}

// ref returns the schema to use where a value of t appears.
func (p *projector) ref(t adtmatch.Type) *Schema {
	switch tt := t.(type) {
	case *adtmatch.Product:
		p.define(tt.Name(), func() *Schema { return p.product(tt) })
		return &Schema{Ref: "#/$defs/" + tt.Name()}
	case *adtmatch.ClosedSum:
		p.define(tt.Name(), func() *Schema { return p.sum(tt) })
		return &Schema{Ref: "#/$defs/" + tt.Name()}
	case *adtmatch.Atomic:
		return Primitive(tt.Name())
	}
	// open: a tagged value of any registered type
	return &Schema{
		Type:        "object",
		Description: "any value of " + t.Name(),
		Properties:  map[string]*Schema{TypeKey: {Type: "string"}},
		Required:    []string{TypeKey},
	}
}

func (p *projector) define(name string, build func() *Schema) {
	if _, ok := p.defs[name]; ok {
		return
	}
	// reserve the slot before building so recursive references stop here
	p.defs[name] = &Schema{}
	*p.defs[name] = *build()
}

func (p *projector) product(pt *adtmatch.Product) *Schema {
	s := &Schema{
		Type:                 "object",
		Title:                pt.Name(),
		Properties:           map[string]*Schema{TypeKey: {Const: pt.Name()}},
		AdditionalProperties: false,
	}
	for _, f := range pt.Fields() {
		s.Properties[f.Name] = p.ref(f.Type)
		s.Required = append(s.Required, f.Name)
	}
	return s
}

func (p *projector) sum(cs *adtmatch.ClosedSum) *Schema {
	s := &Schema{Title: cs.Name()}
	for _, v := range cs.Variants() {
		switch vt := v.(type) {
		case *adtmatch.Atomic:
			s.OneOf = append(s.OneOf, taggedAtom(vt))
		case *adtmatch.Open:
			s.OneOf = append(s.OneOf, p.ref(vt))
		default:
			// the discriminator is mandatory inside a sum
			r := p.ref(vt)
			r.Required = []string{TypeKey}
			s.OneOf = append(s.OneOf, r)
		}
	}
	return s
}

func taggedAtom(a *adtmatch.Atomic) *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			TypeKey:  {Const: a.Name()},
			ValueKey: Primitive(a.Name()),
		},
		Required:             []string{TypeKey, ValueKey},
		AdditionalProperties: false,
	}
}

// Primitive maps an atomic type name to its JSON Schema primitive.
func Primitive(name string) *Schema {
	switch name {
	case "int", "integer", "long", "short", "byte", "int32", "int64":
		return &Schema{Type: "integer"}
	case "float", "double", "number", "float32", "float64":
		return &Schema{Type: "number"}
	case "string", "char", "String":
		return &Schema{Type: "string"}
	case "bool", "boolean", "Boolean":
		return &Schema{Type: "boolean"}
	}
	return &Schema{Description: "any " + name + " scalar"}
}
