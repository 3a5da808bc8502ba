// Package dsl provides builders for adtmatch types, pattern syntax and
// declaration documents.
//
// Overview
//   - Types: Record(name).Field(...).Build(), Sealed(name).Permits(...).MustBuild(), Open, Atom, Unit, Tuple.
//   - Patterns: Any, Var, Is/IsAs, Rec/RecAs, Row, Lit/LitOf produce adtmatch.Syntax for Builder.Build.
//   - Documents: Decls().Sum(...).Product(...).Match(...).Compile() declares types by name, recursive ones included.
//
// Example
//
//	c := g.Unit("C")
//	d := g.Unit("D")
//	i := g.Sealed("I").Permits(c, d).MustBuild()
//	pair := g.Record("Pair").Field("x", i).Field("y", i).Build()
//
//	reg := adtmatch.NewRegistry().MustRegister(pair)
//	b := adtmatch.NewBuilder(reg)
//	p := b.MustBuild(g.Rec("Pair", g.IsAs("C", "c"), g.Var("y")), pair)
//
//	rep := adtmatch.NewChecker(reg).Check(pair, []adtmatch.Pattern{p})
//	fmt.Println(rep) // not exhaustive (e.g. Pair(D, C))
//
// Example (recursive list)
//
//	prog := g.Decls().
//	    Atomic("int").
//	    Sum("List", "Nil", "Cons").
//	    Product("Nil").
//	    Product("Cons", g.F("head", "int"), g.F("tail", "List")).
//	    Match("len", "List",
//	        g.Case(g.Is("Nil")),
//	        g.Case(g.Rec("Cons", g.Any(), g.Var("rest")))).
//	    MustCompile()
//	_ = prog.CheckAll()
package dsl
