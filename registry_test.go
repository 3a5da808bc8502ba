package adtmatch_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/adtmatch"
)

func TestRegistry_RegisterReachable(t *testing.T) {
	f := newPairs(t)
	assert.Equal(t, []string{"Pair", "I", "C", "D"}, f.reg.Names())
	assert.Equal(t, 4, f.reg.Len())

	got, err := f.reg.Resolve("C")
	require.NoError(t, err)
	assert.Same(t, f.C, got)

	vs, err := f.reg.VariantsOf(f.I)
	require.NoError(t, err)
	assert.Equal(t, []adtmatch.Type{f.C, f.D}, vs)
}

func TestRegistry_Errors(t *testing.T) {
	c := adtmatch.NewProduct("C")
	reg := adtmatch.NewRegistry()
	require.NoError(t, reg.Register(c))

	err := reg.Register(adtmatch.NewProduct("C"))
	var dup *adtmatch.DuplicateTypeError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "C", dup.Name)

	// a reachable type that clashes with a registered one
	err = reg.Register(adtmatch.NewProduct("Box", adtmatch.Field{Name: "c", Type: adtmatch.NewProduct("C")}))
	require.True(t, errors.As(err, &dup))
	_, err = reg.Resolve("Box")
	assert.Error(t, err, "a failed registration must not leave partial state")

	_, err = reg.Resolve("Missing")
	var unk *adtmatch.UnknownTypeError
	require.True(t, errors.As(err, &unk))
	assert.Equal(t, "Missing", unk.Name)

	_, err = reg.VariantsOf(c)
	var nas *adtmatch.NotASumTypeError
	require.True(t, errors.As(err, &nas))
	iss, ok := adtmatch.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, adtmatch.CodeNotASumType, iss[0].Code)

	reg.Seal()
	assert.True(t, reg.Sealed())
	assert.ErrorIs(t, reg.Register(adtmatch.NewProduct("Late")), adtmatch.ErrRegistrySealed)
}

func TestClosedSum_Validation(t *testing.T) {
	_, err := adtmatch.NewClosedSum("Empty")
	assert.ErrorIs(t, err, adtmatch.ErrEmptySum)

	c := adtmatch.NewProduct("C")
	_, err = adtmatch.NewClosedSum("I", c, c)
	var dv *adtmatch.DuplicateVariantError
	require.True(t, errors.As(err, &dv))
	assert.Equal(t, "C", dv.Variant)

	inner := adtmatch.MustClosedSum("Inner", adtmatch.NewProduct("A"), adtmatch.NewProduct("B"))
	outer := adtmatch.MustClosedSum("Outer", inner, c)
	assert.True(t, outer.Permits(c))
	assert.True(t, outer.Permits(inner))
	assert.True(t, outer.Permits(adtmatch.NewProduct("A")))
	assert.False(t, outer.Permits(adtmatch.NewProduct("Z")))

	leaves := make([]string, 0, 3)
	for _, l := range outer.Leaves() {
		leaves = append(leaves, l.Name())
	}
	assert.Equal(t, []string{"A", "B", "C"}, leaves)
	assert.Equal(t, "sealed Outer permits Inner, C", outer.String())
}

func TestTypes_Strings(t *testing.T) {
	integer := adtmatch.NewAtomic("int")
	p := adtmatch.NewProduct("Point", adtmatch.Field{Name: "x", Type: integer}, adtmatch.Field{Name: "y", Type: integer})
	assert.Equal(t, "Point(int x, int y)", p.String())
	assert.Equal(t, 1, p.FieldIndex("y"))
	assert.Equal(t, -1, p.FieldIndex("z"))
	assert.Equal(t, adtmatch.KindProduct, p.Kind())
	assert.Equal(t, "atomic", integer.Kind().String())

	tup := adtmatch.Tuple(p, integer)
	assert.True(t, adtmatch.IsTuple(tup))
	assert.False(t, adtmatch.IsTuple(p))
	assert.Equal(t, "(Point, int)", tup.Name())
	assert.Equal(t, "_1", tup.Field(1).Name)
}

func TestIssues_Error(t *testing.T) {
	var iss adtmatch.Issues
	for i := 0; i < 5; i++ {
		iss = adtmatch.AppendIssues(iss, adtmatch.ClausePath(i).Issue(adtmatch.CodeRedundantPattern, "x"))
	}
	assert.Equal(t, "redundant_pattern at /clauses/0; redundant_pattern at /clauses/1; redundant_pattern at /clauses/2; ... (total 5)", iss.Error())

	got, ok := adtmatch.AsIssues(iss)
	require.True(t, ok)
	assert.Len(t, got, 5)

	_, ok = adtmatch.AsIssues(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, "/a~1b/~0c", adtmatch.RootPath().Field("a/b").Field("~c").Pointer())
}

func TestRegistry_ConcurrentSeal(t *testing.T) {
	c := adtmatch.NewProduct("C")
	reg := adtmatch.NewRegistry().MustRegister(c)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := adtmatch.NewBuilder(reg)
			chk := adtmatch.NewChecker(reg)
			p := b.MustBuild(adtmatch.Syntax{}, c)
			assert.True(t, chk.Check(c, []adtmatch.Pattern{p}).OK())
			assert.True(t, reg.Sealed())
		}()
	}
	wg.Wait()

	reg.Seal()
	assert.ErrorIs(t, reg.Register(adtmatch.NewProduct("D")), adtmatch.ErrRegistrySealed)
}
