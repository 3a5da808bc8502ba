// Package adtmatch provides:
//
// - A registry of algebraic data types: products (records), closed sums (sealed hierarchies), open and atomic types
// - Type-checked patterns built from a parser-independent Syntax tree (wildcard, binding, type test, deconstruction, literal)
// - A first-match-wins runtime matcher producing bindings
// - A static exhaustiveness and redundancy checker that reports witnesses of uncovered values
// - A stable diagnostic model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put tooling under internal/ and the CLI under cmd/adtmatch.
// - Place type and pattern builders under dsl/, document loaders under source/ and the JSON Schema projection under jsonschema/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg := adtmatch.NewRegistry()
//	reg.MustRegister(pair)
//	b := adtmatch.NewBuilder(reg)
//	p, err := b.Build(syntax, pair)
//	rep := adtmatch.NewChecker(reg).Check(pair, []adtmatch.Pattern{p})
//	if !rep.Exhaustive {
//	    fmt.Println("not covered:", rep.Witness)
//	}
//
//	binds, ok := adtmatch.Match(p, value)
package adtmatch
