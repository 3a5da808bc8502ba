package adtmatch

import (
	"errors"
	"fmt"

	set "github.com/hashicorp/go-set/v2"
)

// Declarations is the data-only form of a type lattice and the match
// statements written against it, as read from a YAML or JSON document.
type Declarations struct {
	Types   []TypeDecl  `json:"types,omitempty" yaml:"types,omitempty"`
	Matches []MatchDecl `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// TypeDecl declares one type. Kind is one of product, sum, open or atomic
// ("record" and "sealed" are accepted as aliases).
type TypeDecl struct {
	Name     string      `json:"name" yaml:"name"`
	Kind     string      `json:"kind" yaml:"kind"`
	Fields   []FieldDecl `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []string    `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// FieldDecl declares a product field by type name.
type FieldDecl struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// MatchDecl declares a match statement over Subject, or over the tuple of
// Subjects for a multi-subject match.
type MatchDecl struct {
	Name     string       `json:"name" yaml:"name"`
	Subject  string       `json:"subject,omitempty" yaml:"subject,omitempty"`
	Subjects []string     `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Clauses  []ClauseDecl `json:"clauses" yaml:"clauses"`
}

// ClauseDecl is one clause. Guard names a runtime guard supplied to
// CompileWith; the checker only needs to know that a guard exists.
type ClauseDecl struct {
	Pattern Syntax `json:"pattern" yaml:"pattern"`
	Guard   string `json:"guard,omitempty" yaml:"guard,omitempty"`
}

// Guards maps guard names used in declarations to their implementations.
type Guards map[string]func(Bindings) bool

// Merge appends the types and matches of o, as for the documents of a
// multi-document stream.
func (d *Declarations) Merge(o Declarations) {
	d.Types = append(d.Types, o.Types...)
	d.Matches = append(d.Matches, o.Matches...)
}

// Compile is CompileWith(nil): every named guard is bound to one that never
// passes, which is enough for static checking.
func (d Declarations) Compile() (*Program, error) {
	return d.compile(nil, false)
}

// CompileWith builds the registry and every statement, resolving guard names
// through guards. A guard name missing from guards is an error.
func (d Declarations) CompileWith(guards Guards) (*Program, error) {
	return d.compile(guards, true)
}

func (d Declarations) compile(guards Guards, strictGuards bool) (*Program, error) {
	reg, err := d.registry()
	if err != nil {
		return nil, err
	}
	prog := &Program{
		Registry: reg,
		Builder:  NewBuilder(reg),
		Checker:  NewChecker(reg),
		byName:   map[string]*Statement{},
	}
	for i, md := range d.Matches {
		st, err := prog.statement(md, guards, strictGuards)
		if err != nil {
			return nil, fmt.Errorf("match %q (#%d): %w", md.Name, i, err)
		}
		if _, dup := prog.byName[st.Name]; dup {
			return nil, fmt.Errorf("match %q (#%d): duplicate statement name", md.Name, i)
		}
		prog.byName[st.Name] = st
		prog.statements = append(prog.statements, st)
	}
	return prog, nil
}

// registry creates the descriptors in two phases so that declarations may
// refer to each other in any order, recursive types included: first every
// name gets an empty descriptor, then fields and variants are filled in.
func (d Declarations) registry() (*Registry, error) {
	byName := make(map[string]Type, len(d.Types))
	for i, td := range d.Types {
		at := RootPath().Field("types").Index(i)
		if td.Name == "" {
			return nil, &InvalidPatternError{Path: at.Field("name").Pointer(), Reason: "type without a name"}
		}
		if _, dup := byName[td.Name]; dup {
			return nil, &DuplicateTypeError{Name: td.Name}
		}
		switch td.Kind {
		case "product", "record", "":
			byName[td.Name] = &Product{name: td.Name}
		case "sum", "sealed":
			byName[td.Name] = &ClosedSum{name: td.Name}
		case "open":
			byName[td.Name] = NewOpen(td.Name)
		case "atomic":
			byName[td.Name] = NewAtomic(td.Name)
		default:
			return nil, &InvalidPatternError{Path: at.Field("kind").Pointer(), Reason: fmt.Sprintf("unknown type kind %q", td.Kind)}
		}
	}

	lookup := func(name string, at PathRef) (Type, error) {
		t, ok := byName[name]
		if !ok {
			return nil, &UnknownTypeError{Name: name, Path: at.Pointer()}
		}
		return t, nil
	}
	for i, td := range d.Types {
		at := RootPath().Field("types").Index(i)
		switch t := byName[td.Name].(type) {
		case *Product:
			fields := make([]Field, len(td.Fields))
			names := set.New[string](len(td.Fields))
			for j, fd := range td.Fields {
				fat := at.Field("fields").Index(j)
				if !names.Insert(fd.Name) {
					return nil, &InvalidPatternError{Path: fat.Pointer(), Reason: fmt.Sprintf("field %q declared twice in %s", fd.Name, td.Name)}
				}
				ft, err := lookup(fd.Type, fat.Field("type"))
				if err != nil {
					return nil, err
				}
				fields[j] = Field{Name: fd.Name, Type: ft}
			}
			t.fields = fields
		case *ClosedSum:
			variants := make([]Type, len(td.Variants))
			for j, vn := range td.Variants {
				vt, err := lookup(vn, at.Field("variants").Index(j))
				if err != nil {
					return nil, err
				}
				variants[j] = vt
			}
			if err := checkVariants(td.Name, variants); err != nil {
				if errors.Is(err, ErrEmptySum) {
					return nil, fmt.Errorf("type %q: %w", td.Name, err)
				}
				return nil, err
			}
			t.variants = variants
		default:
			if len(td.Fields) > 0 || len(td.Variants) > 0 {
				return nil, &InvalidPatternError{Path: at.Pointer(), Reason: fmt.Sprintf("%s type %s cannot declare fields or variants", t.Kind(), td.Name)}
			}
		}
	}

	for i, td := range d.Types {
		if cs, ok := byName[td.Name].(*ClosedSum); ok && permitsSelf(cs, cs, set.New[string](4)) {
			return nil, &CyclicSumError{Sum: cs.name, Path: RootPath().Field("types").Index(i).Pointer()}
		}
	}

	reg := NewRegistry()
	for _, td := range d.Types {
		t := byName[td.Name]
		if _, err := reg.Resolve(t.Name()); err == nil {
			// already registered as reachable from an earlier declaration
			continue
		}
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func permitsSelf(root, cs *ClosedSum, seen *set.Set[string]) bool {
	if !seen.Insert(cs.name) {
		return false
	}
	for _, v := range cs.variants {
		inner, ok := v.(*ClosedSum)
		if !ok {
			continue
		}
		if inner == root || permitsSelf(root, inner, seen) {
			return true
		}
	}
	return false
}

// Program is a compiled declaration document: a sealed registry and the
// built statements in declaration order.
type Program struct {
	Registry *Registry
	Builder  *Builder
	Checker  *Checker

	statements []*Statement
	byName     map[string]*Statement
}

func (p *Program) statement(md MatchDecl, guards Guards, strictGuards bool) (*Statement, error) {
	var subject Type
	switch {
	case md.Subject != "" && len(md.Subjects) > 0:
		return nil, errors.New("subject and subjects are mutually exclusive")
	case md.Subject != "":
		t, err := p.Registry.Resolve(md.Subject)
		if err != nil {
			return nil, err
		}
		subject = t
	case len(md.Subjects) > 0:
		ts := make([]Type, len(md.Subjects))
		for i, name := range md.Subjects {
			t, err := p.Registry.Resolve(name)
			if err != nil {
				return nil, err
			}
			ts[i] = t
		}
		subject = Tuple(ts...)
	default:
		return nil, errors.New("no subject declared")
	}

	st := &Statement{Name: md.Name, Subject: subject, Clauses: make([]Clause, len(md.Clauses))}
	for i, cd := range md.Clauses {
		pat, err := p.Builder.Build(cd.Pattern, subject)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		st.Clauses[i] = Clause{Pattern: pat}
		if cd.Guard == "" {
			continue
		}
		g, ok := guards[cd.Guard]
		switch {
		case ok:
			st.Clauses[i].Guard = g
		case strictGuards:
			return nil, fmt.Errorf("clause %d: unknown guard %q", i, cd.Guard)
		default:
			st.Clauses[i].Guard = func(Bindings) bool { return false }
		}
	}
	return st, nil
}

// Statements returns the compiled statements in declaration order.
func (p *Program) Statements() []*Statement { return append([]*Statement(nil), p.statements...) }

// Statement looks a compiled statement up by name.
func (p *Program) Statement(name string) (*Statement, bool) {
	st, ok := p.byName[name]
	return st, ok
}

// CheckAll runs the checker over every statement, in declaration order.
func (p *Program) CheckAll() []*Report {
	out := make([]*Report, len(p.statements))
	for i, st := range p.statements {
		out[i] = p.Checker.CheckStatement(st)
	}
	return out
}
