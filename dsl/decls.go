package dsl

import "github.com/reoring/adtmatch"

type declsBuilder struct {
	d adtmatch.Declarations
}

// Decls starts a declaration document. Types may refer to each other by name
// in any order, which is the way to write recursive types.
func Decls() *declsBuilder { return &declsBuilder{} }

// F declares a product field by type name.
func F(name, typ string) adtmatch.FieldDecl { return adtmatch.FieldDecl{Name: name, Type: typ} }

// Product declares a record type.
func (b *declsBuilder) Product(name string, fields ...adtmatch.FieldDecl) *declsBuilder {
	b.d.Types = append(b.d.Types, adtmatch.TypeDecl{Name: name, Kind: "product", Fields: fields})
	return b
}

// Sum declares a closed sum over the named variants.
func (b *declsBuilder) Sum(name string, variants ...string) *declsBuilder {
	b.d.Types = append(b.d.Types, adtmatch.TypeDecl{Name: name, Kind: "sum", Variants: variants})
	return b
}

func (b *declsBuilder) Open(name string) *declsBuilder {
	b.d.Types = append(b.d.Types, adtmatch.TypeDecl{Name: name, Kind: "open"})
	return b
}

func (b *declsBuilder) Atomic(name string) *declsBuilder {
	b.d.Types = append(b.d.Types, adtmatch.TypeDecl{Name: name, Kind: "atomic"})
	return b
}

// Match declares a statement over a single subject.
func (b *declsBuilder) Match(name, subject string, clauses ...adtmatch.ClauseDecl) *declsBuilder {
	b.d.Matches = append(b.d.Matches, adtmatch.MatchDecl{Name: name, Subject: subject, Clauses: clauses})
	return b
}

// MatchTuple declares a multi-subject statement; its clauses are Rows.
func (b *declsBuilder) MatchTuple(name string, subjects []string, clauses ...adtmatch.ClauseDecl) *declsBuilder {
	b.d.Matches = append(b.d.Matches, adtmatch.MatchDecl{Name: name, Subjects: subjects, Clauses: clauses})
	return b
}

// Case is an unguarded clause.
func Case(p adtmatch.Syntax) adtmatch.ClauseDecl { return adtmatch.ClauseDecl{Pattern: p} }

// When is a clause guarded by the named guard.
func When(p adtmatch.Syntax, guard string) adtmatch.ClauseDecl {
	return adtmatch.ClauseDecl{Pattern: p, Guard: guard}
}

// Declarations returns the document built so far.
func (b *declsBuilder) Declarations() adtmatch.Declarations { return b.d }

// Compile compiles the document; see adtmatch.Declarations.Compile.
func (b *declsBuilder) Compile() (*adtmatch.Program, error) { return b.d.Compile() }

// MustCompile is Compile that panics on error.
func (b *declsBuilder) MustCompile() *adtmatch.Program {
	p, err := b.d.Compile()
	if err != nil {
		panic(err)
	}
	return p
}
