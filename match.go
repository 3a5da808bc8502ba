package adtmatch

// Bindings maps binding names to the values they captured.
type Bindings map[string]Value

// Match evaluates p against v. It returns the bindings on success and
// (nil, false) when the value does not match. Match is pure and safe for
// concurrent use on shared patterns and values.
func Match(p Pattern, v Value) (Bindings, bool) {
	out := Bindings{}
	if !matchInto(p, v, out) {
		return nil, false
	}
	return out, true
}

func matchInto(p Pattern, v Value, out Bindings) bool {
	switch pp := p.(type) {
	case *Wildcard:
		return true
	case *Binding:
		out[pp.name] = v
		return true
	case *TypeTest:
		if v == nil || !covers(pp.variant, v.Type()) {
			return false
		}
		if pp.name != "" {
			out[pp.name] = v
		}
		return true
	case *Deconstruct:
		rec, ok := v.(*Record)
		if !ok || !SameType(rec.typ, pp.product) {
			return false
		}
		for i, sub := range pp.subs {
			if !matchInto(sub, rec.fields[i], out) {
				return false
			}
		}
		if pp.name != "" {
			out[pp.name] = v
		}
		return true
	case *Literal:
		return Equal(pp.value, v)
	}
	return false
}

// Clause is one case of a match statement. Guard, when set, runs after the
// pattern matched; a false guard sends evaluation on to the next clause.
type Clause struct {
	Pattern Pattern
	Guard   func(Bindings) bool
}

// MatchFirst tries clauses in declaration order and returns the index and
// bindings of the first one that matches. No later clause is evaluated.
func MatchFirst(clauses []Clause, v Value) (int, Bindings, bool) {
	for i, c := range clauses {
		b, ok := Match(c.Pattern, v)
		if !ok {
			continue
		}
		if c.Guard != nil && !c.Guard(b) {
			continue
		}
		return i, b, true
	}
	return -1, nil, false
}

// Statement is a declared match: a subject type and its ordered clauses.
type Statement struct {
	Name    string
	Subject Type
	Clauses []Clause
}

// NewStatement wraps unguarded patterns into a statement.
func NewStatement(name string, subject Type, patterns ...Pattern) *Statement {
	st := &Statement{Name: name, Subject: subject, Clauses: make([]Clause, len(patterns))}
	for i, p := range patterns {
		st.Clauses[i] = Clause{Pattern: p}
	}
	return st
}

// Patterns returns the clause patterns in order.
func (s *Statement) Patterns() []Pattern {
	out := make([]Pattern, len(s.Clauses))
	for i, c := range s.Clauses {
		out[i] = c.Pattern
	}
	return out
}

// Match runs first-match-wins evaluation of the statement against v.
func (s *Statement) Match(v Value) (int, Bindings, bool) {
	return MatchFirst(s.Clauses, v)
}
