package adtmatch

import (
	"strings"
)

// Shape describes a set of values by example: a witness of a coverage gap or
// a region of a pattern space. Product shapes list their field shapes; Any
// stands for an arbitrary value of Type.
type Shape struct {
	Type   Type
	Fields []Shape
	Any    bool
	Value  *Atom
}

func (s Shape) String() string {
	switch {
	case s.Value != nil:
		return s.Value.String()
	case s.Any:
		return "_"
	}
	p, ok := s.Type.(*Product)
	if !ok {
		return s.Type.Name()
	}
	if len(s.Fields) == 0 && !IsTuple(p) {
		return p.Name()
	}
	b := &strings.Builder{}
	if !IsTuple(p) {
		b.WriteString(p.Name())
	}
	b.WriteByte('(')
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Describe renders open and atomic holes with their type, e.g. "any Object"
// or "Pair(any Object, C)". Other holes inside a product stay "_".
func (s Shape) Describe() string {
	if s.Any && s.Value == nil {
		return "any " + s.Type.Name()
	}
	return s.describe()
}

func (s Shape) describe() string {
	if s.Value == nil && s.Any {
		switch s.Type.(type) {
		case *Open, *Atomic:
			return "any " + s.Type.Name()
		}
		return "_"
	}
	p, ok := s.Type.(*Product)
	if s.Value != nil || !ok || (len(s.Fields) == 0 && !IsTuple(p)) {
		return s.String()
	}
	b := &strings.Builder{}
	if !IsTuple(p) {
		b.WriteString(p.Name())
	}
	b.WriteByte('(')
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.describe())
	}
	b.WriteByte(')')
	return b.String()
}

// Example instantiates the shape into a concrete value. It fails for holes
// of open types, which have no representative value.
func (s Shape) Example() (Value, bool) {
	if s.Value != nil {
		return *s.Value, true
	}
	switch t := s.Type.(type) {
	case *Atomic:
		return Atom{typ: t, V: unspecified{}}, true
	case *Product:
		if s.Any {
			return nil, false
		}
		fields := make([]Value, len(s.Fields))
		for i, f := range s.Fields {
			v, ok := f.Example()
			if !ok {
				return nil, false
			}
			fields[i] = v
		}
		return &Record{typ: t, fields: fields}, true
	}
	return nil, false
}

// unspecified is the payload of example atoms; it equals no literal.
type unspecified struct{}

func (unspecified) String() string { return "_" }

// witnesses picks up to limit representatives of the residual space, walking it
// depth-first and preferring the first variant at each sum choice point.
func witnesses(r *space, limit int) []Shape {
	if r.isEmpty() {
		return nil
	}
	members := []*space{r}
	if r.kind == spaceUnion {
		members = r.members
	}
	var out []Shape
	seen := map[string]struct{}{}
	for _, m := range members {
		if len(out) >= limit {
			break
		}
		sh := spaceShape(m, map[string]bool{})
		k := sh.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, sh)
	}
	return out
}

func spaceShape(s *space, onPath map[string]bool) Shape {
	switch s.kind {
	case spaceFull:
		return representative(s.typ, onPath)
	case spacePoint:
		v := s.value
		return Shape{Type: s.typ, Value: &v}
	case spaceCtor:
		p := s.typ.(*Product)
		fields := make([]Shape, len(s.fields))
		for i, f := range s.fields {
			fields[i] = spaceShape(f, onPath)
		}
		return Shape{Type: p, Fields: fields}
	case spaceUnion:
		return spaceShape(s.members[0], onPath)
	}
	return Shape{Type: s.typ, Any: true}
}

// representative builds a legal shape for an entirely uncovered type. Types
// already being expanded on the current path become holes so recursive types
// terminate; at a sum the first variant not on the path is preferred.
func representative(t Type, onPath map[string]bool) Shape {
	switch tt := t.(type) {
	case *ClosedSum:
		for _, v := range tt.variants {
			if !onPath[v.Name()] {
				onPath[tt.Name()] = true
				sh := representative(v, onPath)
				delete(onPath, tt.Name())
				return sh
			}
		}
		return Shape{Type: t, Any: true}
	case *Product:
		if onPath[tt.Name()] {
			return Shape{Type: t, Any: true}
		}
		onPath[tt.Name()] = true
		fields := make([]Shape, len(tt.fields))
		for i, f := range tt.fields {
			fields[i] = representative(f.Type, onPath)
		}
		delete(onPath, tt.Name())
		return Shape{Type: t, Fields: fields}
	}
	return Shape{Type: t, Any: true}
}
