package adtmatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/adtmatch"
)

// pairs is the sealed I = C | D lattice with Pair(I x, I y) on top.
type pairs struct {
	reg     *adtmatch.Registry
	b       *adtmatch.Builder
	c       *adtmatch.Checker
	C, D    *adtmatch.Product
	I       *adtmatch.ClosedSum
	Pair    *adtmatch.Product
	values  []adtmatch.Value
	unitOfC *adtmatch.Record
	unitOfD *adtmatch.Record
}

func newPairs(t *testing.T) *pairs {
	t.Helper()
	f := &pairs{}
	f.C = adtmatch.NewProduct("C")
	f.D = adtmatch.NewProduct("D")
	f.I = adtmatch.MustClosedSum("I", f.C, f.D)
	f.Pair = adtmatch.NewProduct("Pair",
		adtmatch.Field{Name: "x", Type: f.I},
		adtmatch.Field{Name: "y", Type: f.I},
	)
	f.reg = adtmatch.NewRegistry()
	require.NoError(t, f.reg.Register(f.Pair))
	f.b = adtmatch.NewBuilder(f.reg)
	f.c = adtmatch.NewChecker(f.reg)

	f.unitOfC = adtmatch.MustRecord(f.C)
	f.unitOfD = adtmatch.MustRecord(f.D)
	units := []adtmatch.Value{f.unitOfC, f.unitOfD}
	for _, x := range units {
		for _, y := range units {
			f.values = append(f.values, adtmatch.MustRecord(f.Pair, x, y))
		}
	}
	return f
}

// pair builds Pair(x, y) where x and y are type names or "_".
func (f *pairs) pair(x, y string) adtmatch.Pattern {
	return f.b.MustBuild(adtmatch.Syntax{Type: "Pair", Args: []adtmatch.Syntax{arg(x), arg(y)}}, f.Pair)
}

func (f *pairs) wildcard() adtmatch.Pattern {
	return f.b.MustBuild(adtmatch.Syntax{}, f.Pair)
}

func arg(name string) adtmatch.Syntax {
	if name == "_" {
		return adtmatch.Syntax{}
	}
	return adtmatch.Syntax{Type: name}
}

// scenario patterns
func (f *pairs) fourPairs() []adtmatch.Pattern {
	return []adtmatch.Pattern{f.pair("C", "I"), f.pair("D", "I"), f.pair("I", "C"), f.pair("I", "D")}
}

// assertSound checks that every enumerated value is selected by some clause
// whenever the report says the patterns are exhaustive, and that dropping a
// flagged clause never changes which clause a value selects.
func assertSound(t *testing.T, rep *adtmatch.Report, pats []adtmatch.Pattern, values []adtmatch.Value) {
	t.Helper()
	st := adtmatch.NewStatement("", rep.Subject, pats...)
	for _, v := range values {
		i, _, ok := st.Match(v)
		if rep.Exhaustive {
			require.Truef(t, ok, "exhaustive but %v falls through", v)
		}
		if ok {
			require.Falsef(t, rep.IsRedundant(i), "clause %d flagged redundant but selected for %v", i, v)
		}
	}
}
