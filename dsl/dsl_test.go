package dsl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/adtmatch"
	g "github.com/reoring/adtmatch/dsl"
)

func TestTypes_Builders(t *testing.T) {
	c := g.Unit("C")
	d := g.Record("D").Build()
	i := g.Sealed("I").Permits(c).Permits(d).MustBuild()
	pair := g.Record("Pair").Field("x", i).Field("y", i).Build()

	assert.Equal(t, "Pair(I x, I y)", pair.String())
	assert.Equal(t, "sealed I permits C, D", i.String())
	assert.Equal(t, adtmatch.KindOpen, g.Open("Object").Kind())
	assert.Equal(t, adtmatch.KindAtomic, g.Atom("int").Kind())
	assert.Equal(t, "(I, I)", g.Tuple(i, i).Name())

	_, err := g.Sealed("Empty").Build()
	assert.True(t, errors.Is(err, adtmatch.ErrEmptySum))
	assert.Panics(t, func() { g.Sealed("Twice").Permits(c, c).MustBuild() })
}

func TestPatterns_Build(t *testing.T) {
	c := g.Unit("C")
	d := g.Unit("D")
	i := g.Sealed("I").Permits(c, d).MustBuild()
	integer := g.Atom("int")
	pair := g.Record("Pair").Field("x", i).Field("y", i).Field("n", integer).Build()
	reg := adtmatch.NewRegistry().MustRegister(pair)
	b := adtmatch.NewBuilder(reg)

	tests := []struct {
		syntax adtmatch.Syntax
		want   string
	}{
		{g.Rec("Pair", g.IsAs("C", "c"), g.Var("y"), g.Any()), "Pair(C c, y, _)"},
		{g.RecAs("Pair", "p", g.Is("D"), g.Any(), g.Lit(3)), "Pair(D, _, 3) p"},
	}
	for _, tt := range tests {
		p, err := b.Build(tt.syntax, pair)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.String())
	}

	row, err := b.Build(g.Row(g.Is("C"), g.Any()), g.Tuple(i, i))
	require.NoError(t, err)
	assert.Equal(t, "(C, _)", row.String())

	// a field-less deconstruction keeps its kind
	unit, err := b.Build(g.Rec("C"), i)
	require.NoError(t, err)
	assert.Equal(t, adtmatch.PatternDeconstruct, unit.Kind())
}

func TestDecls_RecursiveList(t *testing.T) {
	prog := g.Decls().
		Atomic("int").
		Sum("List", "Nil", "Cons").
		Product("Nil").
		Product("Cons", g.F("head", "int"), g.F("tail", "List")).
		Match("len", "List",
			g.Case(g.Is("Nil")),
			g.Case(g.Rec("Cons", g.Any(), g.Var("rest")))).
		Match("partial", "List",
			g.Case(g.Rec("Cons", g.Lit(1), g.Is("Nil"))),
			g.When(g.Is("Nil"), "empty")).
		MustCompile()

	reports := prog.CheckAll()
	require.Len(t, reports, 2)
	assert.True(t, reports[0].OK())
	assert.False(t, reports[1].Exhaustive)
	assert.Equal(t, "Nil", reports[1].Witness.String())
}

func TestDecls_Tuple(t *testing.T) {
	d := g.Decls().
		Sum("I", "C", "D").
		Product("C").
		Product("D").
		MatchTuple("both", []string{"I", "I"},
			g.Case(g.Row(g.Is("C"), g.Any())),
			g.Case(g.Row(g.Any(), g.Is("C"))),
			g.Case(g.Row(g.Is("D"), g.Is("D"))))
	assert.Len(t, d.Declarations().Matches, 1)

	prog, err := d.Compile()
	require.NoError(t, err)
	rep := prog.CheckAll()[0]
	assert.True(t, rep.OK())
}
