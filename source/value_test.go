package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/adtmatch"
	g "github.com/reoring/adtmatch/dsl"
	"github.com/reoring/adtmatch/source"
)

func shapesProgram(t *testing.T) *adtmatch.Program {
	t.Helper()
	prog, err := g.Decls().
		Atomic("int").
		Atomic("string").
		Open("Object").
		Sum("Color", "Red", "Green").
		Product("Red").
		Product("Green").
		Product("Point", g.F("x", "int"), g.F("y", "int")).
		Product("ColoredPoint", g.F("p", "Point"), g.F("c", "Color")).
		Product("Tagged", g.F("label", "string"), g.F("payload", "Object")).
		Match("corner", "ColoredPoint",
			g.Case(g.Rec("ColoredPoint", g.Rec("Point", g.Lit(0), g.Lit(0)), g.Any())),
			g.Case(g.Rec("ColoredPoint", g.Var("p"), g.IsAs("Red", "r"))),
			g.Case(g.Any())).
		Compile()
	require.NoError(t, err)
	return prog
}

func resolve(t *testing.T, prog *adtmatch.Program, name string) adtmatch.Type {
	t.Helper()
	typ, err := prog.Registry.Resolve(name)
	require.NoError(t, err)
	return typ
}

func TestDecodeValueJSON_AndMatch(t *testing.T) {
	prog := shapesProgram(t)
	cp := resolve(t, prog, "ColoredPoint")
	st, ok := prog.Statement("corner")
	require.True(t, ok)

	tests := []struct {
		name   string
		data   string
		clause int
	}{
		{"origin", `{"p": {"x": 0, "y": 0}, "c": {"$type": "Green"}}`, 0},
		{"red point", `{"$type": "ColoredPoint", "p": {"x": 3, "y": 4}, "c": {"$type": "Red"}}`, 1},
		{"green point", `{"p": {"x": 3.0, "y": 4}, "c": {"$type": "Green"}}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := source.DecodeValueJSON(prog.Registry, cp, []byte(tt.data))
			require.NoError(t, err)
			i, _, ok := st.Match(v)
			require.True(t, ok)
			assert.Equal(t, tt.clause, i)
		})
	}
}

func TestDecodeValueYAML(t *testing.T) {
	prog := shapesProgram(t)
	tagged := resolve(t, prog, "Tagged")

	v, err := source.DecodeValueYAML(prog.Registry, tagged, []byte(`
label: hello
payload: {$type: int, $value: 7}
`))
	require.NoError(t, err)
	rec := v.(*adtmatch.Record)
	payload, ok := rec.Get("payload")
	require.True(t, ok)
	assert.Equal(t, "int", payload.Type().Name())
	assert.True(t, adtmatch.Equal(payload, adtmatch.NewAtom(resolve(t, prog, "int").(*adtmatch.Atomic), 7)))

	v, err = source.DecodeValueYAML(prog.Registry, tagged, []byte(`
label: nested
payload: {$type: Point, x: 1, y: 2}
`))
	require.NoError(t, err)
	payload, _ = v.(*adtmatch.Record).Get("payload")
	assert.Equal(t, "Point(1, 2)", payload.(*adtmatch.Record).String())
}

func TestDecodeValue_Issues(t *testing.T) {
	prog := shapesProgram(t)
	cp := resolve(t, prog, "ColoredPoint")

	tests := []struct {
		name  string
		tree  any
		paths []string
	}{
		{"not an object", 3, []string{"/"}},
		{"missing field and unknown key", map[string]any{"p": map[string]any{"x": 1, "z": 2}, "c": map[string]any{"$type": "Red"}}, []string{"/p/y", "/p/z"}},
		{"sum without tag", map[string]any{"p": map[string]any{"x": 1, "y": 2}, "c": map[string]any{}}, []string{"/c/$type"}},
		{"foreign variant", map[string]any{"p": map[string]any{"x": 1, "y": 2}, "c": map[string]any{"$type": "Point"}}, []string{"/c/$type"}},
		{"wrong product tag", map[string]any{"$type": "Point"}, []string{"/$type"}},
		{"null atom", map[string]any{"p": map[string]any{"x": nil, "y": 2}, "c": map[string]any{"$type": "Red"}}, []string{"/p/x"}},
		{"array atom", map[string]any{"p": map[string]any{"x": []any{1}, "y": 2}, "c": map[string]any{"$type": "Red"}}, []string{"/p/x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := source.DecodeValue(prog.Registry, cp, tt.tree)
			require.Error(t, err)
			assert.Nil(t, v)
			iss, ok := adtmatch.AsIssues(err)
			require.True(t, ok)
			paths := make([]string, len(iss))
			for i, it := range iss {
				assert.Equal(t, adtmatch.CodeInvalidValue, it.Code)
				paths[i] = it.Path
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestEncodeValue_RoundTrip(t *testing.T) {
	prog := shapesProgram(t)
	cp := resolve(t, prog, "ColoredPoint")
	tree := map[string]any{"p": map[string]any{"x": 1, "y": 2}, "c": map[string]any{"$type": "Red"}}

	v, err := source.DecodeValue(prog.Registry, cp, tree)
	require.NoError(t, err)
	enc := source.EncodeValue(v)
	assert.Equal(t, map[string]any{
		"$type": "ColoredPoint",
		"p":     map[string]any{"$type": "Point", "x": int64(1), "y": int64(2)},
		"c":     map[string]any{"$type": "Red"},
	}, enc)

	again, err := source.DecodeValue(prog.Registry, cp, enc)
	require.NoError(t, err)
	assert.True(t, adtmatch.Equal(v, again))
}
