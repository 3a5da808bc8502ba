package adtmatch

import (
	"fmt"
	"strings"
)

// A space is a symbolic set of values of some type: the coverage tree. The
// checker never enumerates values; closed sums and products are expanded
// only where a subtracted pattern mentions something inside them.
//
// Spaces are kept in a normal form: a ctor with an empty field is empty, and
// unions are flat, free of empties and of structural duplicates.
type space struct {
	kind    spaceKind
	typ     Type     // full: the type; ctor: the product; point: the atomic type
	fields  []*space // ctor
	value   Atom     // point
	members []*space // union
	k       string   // memoised structural key
}

type spaceKind int

const (
	spaceEmpty spaceKind = iota
	spaceFull
	spaceCtor
	spacePoint
	spaceUnion
)

var emptySpace = &space{kind: spaceEmpty}

func fullSpace(t Type) *space { return &space{kind: spaceFull, typ: t} }

func pointSpace(a Atom) *space { return &space{kind: spacePoint, typ: a.typ, value: a} }

func ctorSpace(p *Product, fields []*space) *space {
	for _, f := range fields {
		if f.isEmpty() {
			return emptySpace
		}
	}
	return &space{kind: spaceCtor, typ: p, fields: fields}
}

func unionSpace(parts ...*space) *space {
	var flat []*space
	seen := map[string]struct{}{}
	var add func(s *space)
	add = func(s *space) {
		switch s.kind {
		case spaceEmpty:
			return
		case spaceUnion:
			for _, m := range s.members {
				add(m)
			}
			return
		}
		if _, dup := seen[s.key()]; dup {
			return
		}
		seen[s.key()] = struct{}{}
		flat = append(flat, s)
	}
	for _, p := range parts {
		add(p)
	}
	switch len(flat) {
	case 0:
		return emptySpace
	case 1:
		return flat[0]
	}
	return &space{kind: spaceUnion, members: flat}
}

func (s *space) isEmpty() bool { return s.kind == spaceEmpty }

func (s *space) key() string {
	if s.k != "" {
		return s.k
	}
	switch s.kind {
	case spaceEmpty:
		s.k = "0"
	case spaceFull:
		s.k = "F:" + s.typ.Name()
	case spacePoint:
		s.k = fmt.Sprintf("P:%s=%#v", s.typ.Name(), s.value.V)
	case spaceCtor:
		parts := make([]string, len(s.fields))
		for i, f := range s.fields {
			parts[i] = f.key()
		}
		s.k = "C:" + s.typ.Name() + "(" + strings.Join(parts, ",") + ")"
	case spaceUnion:
		parts := make([]string, len(s.members))
		for i, m := range s.members {
			parts[i] = m.key()
		}
		s.k = "U[" + strings.Join(parts, "|") + "]"
	}
	return s.k
}

// patternSpace is the set of values p can match, ignoring bindings.
func patternSpace(p Pattern) *space {
	switch pp := p.(type) {
	case *Wildcard, *Binding:
		return fullSpace(p.Type())
	case *TypeTest:
		return fullSpace(pp.variant)
	case *Deconstruct:
		fields := make([]*space, len(pp.subs))
		for i, sub := range pp.subs {
			fields[i] = patternSpace(sub)
		}
		return ctorSpace(pp.product, fields)
	case *Literal:
		return pointSpace(pp.value)
	}
	return emptySpace
}

// subtract returns the values of a not contained in b.
//
// Open and atomic leaves are only ever removed by a covering full space:
// type tests and literals cannot prove an unbounded type covered, so those
// subtractions conservatively remove nothing.
func subtract(a, b *space) *space {
	switch {
	case a.isEmpty() || b.isEmpty():
		return a
	case a.kind == spaceUnion:
		parts := make([]*space, len(a.members))
		changed := false
		for i, m := range a.members {
			parts[i] = subtract(m, b)
			if parts[i] != m {
				changed = true
			}
		}
		if !changed {
			return a
		}
		return unionSpace(parts...)
	case b.kind == spaceUnion:
		r := a
		for _, m := range b.members {
			r = subtract(r, m)
			if r.isEmpty() {
				return emptySpace
			}
		}
		return r
	}

	if b.kind == spaceFull && covers(b.typ, a.typ) {
		return emptySpace
	}

	switch a.kind {
	case spaceFull:
		switch at := a.typ.(type) {
		case *ClosedSum:
			if !at.Permits(b.typ) {
				return a
			}
			r := subtract(expandSum(at), b)
			if r.kind == spaceUnion && len(r.members) == len(at.variants) && sameMembers(r, at) {
				return a
			}
			return r
		case *Product:
			if b.kind == spaceCtor && SameType(b.typ, at) {
				r := subtract(fullCtor(at), b)
				if r.kind == spaceCtor && allFull(r) {
					return a
				}
				return r
			}
		}
		return a
	case spaceCtor:
		if b.kind != spaceCtor || !SameType(a.typ, b.typ) {
			return a
		}
		return subtractCtor(a, b)
	case spacePoint:
		if b.kind == spacePoint && Equal(a.value, b.value) {
			return emptySpace
		}
		return a
	}
	return a
}

// subtractCtor applies
//
//	P(s1..sn) \ P(t1..tn) = ⋃i P(s1, .., si \ ti, .., sn)
//
// A field left untouched by its subtrahend means the two ctors are disjoint.
func subtractCtor(a, b *space) *space {
	diffs := make([]*space, len(a.fields))
	for i := range a.fields {
		diffs[i] = subtract(a.fields[i], b.fields[i])
		if diffs[i] == a.fields[i] {
			return a
		}
	}
	rest := make([]*space, 0, len(diffs))
	for i, d := range diffs {
		if d.isEmpty() {
			continue
		}
		fields := append([]*space(nil), a.fields...)
		fields[i] = d
		rest = append(rest, ctorSpace(a.typ.(*Product), fields))
	}
	return unionSpace(rest...)
}

func expandSum(cs *ClosedSum) *space {
	parts := make([]*space, len(cs.variants))
	for i, v := range cs.variants {
		parts[i] = fullSpace(v)
	}
	return unionSpace(parts...)
}

func fullCtor(p *Product) *space {
	fields := make([]*space, p.Arity())
	for i, f := range p.fields {
		fields[i] = fullSpace(f.Type)
	}
	return ctorSpace(p, fields)
}

// sameMembers reports whether the union u is exactly the unexpanded variant
// list of cs, i.e. the subtraction removed nothing.
func sameMembers(u *space, cs *ClosedSum) bool {
	for i, m := range u.members {
		if m.kind != spaceFull || !SameType(m.typ, cs.variants[i]) {
			return false
		}
	}
	return true
}

func allFull(c *space) bool {
	for i, f := range c.fields {
		if f.kind != spaceFull || !SameType(f.typ, c.typ.(*Product).fields[i].Type) {
			return false
		}
	}
	return true
}
