package adtmatch

import (
	"fmt"

	set "github.com/hashicorp/go-set/v2"
)

// Builder turns Syntax trees into type-checked Patterns against a sealed
// registry. A Builder holds no mutable state and may be shared.
type Builder struct {
	reg *Registry
}

// NewBuilder seals reg and returns a Builder resolving names through it.
func NewBuilder(reg *Registry) *Builder {
	reg.Seal()
	return &Builder{reg: reg}
}

// Registry returns the registry the builder resolves names against.
func (b *Builder) Registry() *Registry { return b.reg }

// Build checks s against expected and returns the pattern. Construction
// either succeeds completely or returns one of the typed declaration errors;
// no partial pattern is returned.
func (b *Builder) Build(s Syntax, expected Type) (Pattern, error) {
	st := &buildState{b: b, names: set.New[string](4)}
	return st.build(s, expected, RootPath())
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild(s Syntax, expected Type) Pattern {
	p, err := b.Build(s, expected)
	if err != nil {
		panic(err)
	}
	return p
}

// BuildTuple builds a pattern for a multi-subject match: args[i] is checked
// against subjects[i] and the result deconstructs Tuple(subjects...).
func (b *Builder) BuildTuple(args []Syntax, subjects []Type) (Pattern, error) {
	tup := Tuple(subjects...)
	return b.Build(Syntax{Kind: SyntaxDeconstruct, Args: args}, tup)
}

type buildState struct {
	b     *Builder
	names *set.Set[string]
}

func (st *buildState) resolve(name string, at PathRef) (Type, error) {
	t, err := st.b.reg.Resolve(name)
	if err != nil {
		return nil, &UnknownTypeError{Name: name, Path: at.Pointer()}
	}
	return t, nil
}

func (st *buildState) bind(name string, at PathRef) error {
	if bindable(name) == "" {
		return nil
	}
	if !st.names.Insert(name) {
		return &DuplicateBindingError{Name: name, Path: at.Pointer()}
	}
	return nil
}

func (st *buildState) build(s Syntax, expected Type, at PathRef) (Pattern, error) {
	switch s.ResolvedKind() {
	case SyntaxWildcard:
		return &Wildcard{typ: expected}, nil

	case SyntaxBind:
		if s.Name == "" || s.Name == "_" {
			return &Wildcard{typ: expected}, nil
		}
		if err := st.bind(s.Name, at); err != nil {
			return nil, err
		}
		return &Binding{name: s.Name, typ: expected}, nil

	case SyntaxType:
		variant, err := st.resolve(s.Type, at)
		if err != nil {
			return nil, err
		}
		if !admits(expected, variant) {
			return nil, &NotASubtypeError{Type: variant, Expected: expected, Path: at.Pointer()}
		}
		if err := st.bind(s.Name, at); err != nil {
			return nil, err
		}
		return &TypeTest{variant: variant, name: bindable(s.Name), typ: expected}, nil

	case SyntaxDeconstruct:
		return st.deconstruct(s, expected, at)

	case SyntaxLiteral:
		return st.literal(s, expected, at)
	}
	return nil, &InvalidPatternError{Path: at.Pointer(), Reason: fmt.Sprintf("unknown pattern kind %q", s.Kind)}
}

func (st *buildState) deconstruct(s Syntax, expected Type, at PathRef) (Pattern, error) {
	var named Type
	if s.Type == "" {
		// an unnamed deconstruction targets the expected product itself
		named = expected
	} else {
		t, err := st.resolve(s.Type, at)
		if err != nil {
			return nil, err
		}
		named = t
	}
	prod, ok := named.(*Product)
	if !ok {
		return nil, &InvalidPatternError{Path: at.Pointer(), Reason: fmt.Sprintf("%s is a %s and has no fields to deconstruct", named.Name(), named.Kind())}
	}
	if !admits(expected, prod) {
		return nil, &NotASubtypeError{Type: prod, Expected: expected, Path: at.Pointer()}
	}
	if len(s.Args) != prod.Arity() {
		return nil, &ArityMismatchError{Type: prod, Want: prod.Arity(), Got: len(s.Args), Path: at.Pointer()}
	}
	subs := make([]Pattern, len(s.Args))
	args := at.Field("args")
	for i, arg := range s.Args {
		sub, err := st.build(arg, prod.fields[i].Type, args.Index(i))
		if err != nil {
			return nil, err
		}
		subs[i] = sub
	}
	if err := st.bind(s.Name, at); err != nil {
		return nil, err
	}
	return &Deconstruct{product: prod, subs: subs, name: bindable(s.Name), typ: expected}, nil
}

func (st *buildState) literal(s Syntax, expected Type, at PathRef) (Pattern, error) {
	var atomic *Atomic
	switch et := expected.(type) {
	case *Atomic:
		atomic = et
		if s.Type != "" && s.Type != et.Name() {
			t, err := st.resolve(s.Type, at)
			if err != nil {
				return nil, err
			}
			return nil, &NotASubtypeError{Type: t, Expected: expected, Path: at.Pointer()}
		}
	case *Open:
		if s.Type == "" {
			return nil, &InvalidPatternError{Path: at.Pointer(), Reason: "a literal at an open type must name its atomic type"}
		}
		t, err := st.resolve(s.Type, at)
		if err != nil {
			return nil, err
		}
		a, ok := t.(*Atomic)
		if !ok {
			return nil, &InvalidPatternError{Path: at.Pointer(), Reason: fmt.Sprintf("literal type %s is not atomic", t.Name())}
		}
		atomic = a
	default:
		return nil, &InvalidPatternError{Path: at.Pointer(), Reason: fmt.Sprintf("literals only match atomic types, not %s", expected.Name())}
	}
	if s.Value == nil {
		return nil, &InvalidPatternError{Path: at.Pointer(), Reason: "literal without a value"}
	}
	return &Literal{value: NewAtom(atomic, s.Value), typ: expected}, nil
}

// admits reports whether a pattern naming t may appear where expected is
// declared: t is expected itself, a variant reachable from it, or anything
// when expected is open.
func admits(expected, t Type) bool {
	return covers(expected, t)
}

// bindable maps the anonymous names "" and "_" to "".
func bindable(name string) string {
	if name == "_" {
		return ""
	}
	return name
}
