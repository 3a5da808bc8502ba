package adtmatch

import (
	"fmt"
	"strings"
)

// SyntaxKind classifies an inbound syntax node.
type SyntaxKind string

const (
	SyntaxWildcard    SyntaxKind = "wildcard"
	SyntaxBind        SyntaxKind = "bind"
	SyntaxType        SyntaxKind = "type"
	SyntaxDeconstruct SyntaxKind = "deconstruct"
	SyntaxLiteral     SyntaxKind = "literal"
)

// Syntax is the parser-independent form of a pattern, as supplied by a front
// end or a declaration document. Type names are resolved by Builder.
type Syntax struct {
	Kind  SyntaxKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Name  string     `json:"name,omitempty" yaml:"name,omitempty"`
	Type  string     `json:"type,omitempty" yaml:"type,omitempty"`
	Args  []Syntax   `json:"args,omitempty" yaml:"args,omitempty"`
	Value any        `json:"value,omitempty" yaml:"value,omitempty"`
}

// ResolvedKind returns Kind, inferring it from the populated fields when it
// is empty: args make a deconstruction, a type a type test, a name a binding,
// a value a literal, and nothing at all a wildcard.
func (s Syntax) ResolvedKind() SyntaxKind {
	if s.Kind != "" {
		return s.Kind
	}
	switch {
	case s.Args != nil:
		return SyntaxDeconstruct
	case s.Value != nil:
		return SyntaxLiteral
	case s.Type != "":
		return SyntaxType
	case s.Name != "" && s.Name != "_":
		return SyntaxBind
	}
	return SyntaxWildcard
}

func (s Syntax) String() string {
	switch s.ResolvedKind() {
	case SyntaxWildcard:
		return "_"
	case SyntaxBind:
		return s.Name
	case SyntaxType:
		return strings.TrimSpace(s.Type + " " + s.Name)
	case SyntaxLiteral:
		return fmt.Sprint(s.Value)
	}
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	out := s.Type + "(" + strings.Join(parts, ", ") + ")"
	if s.Name != "" {
		out += " " + s.Name
	}
	return out
}
