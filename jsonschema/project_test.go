package jsonschema_test

import (
	"reflect"
	"testing"

	j "github.com/goccy/go-json"

	g "github.com/reoring/adtmatch/dsl"
	"github.com/reoring/adtmatch/jsonschema"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(t *testing.T, v any) any {
	t.Helper()
	b, err := j.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := j.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestFromType_Atomic(t *testing.T) {
	got := normalize(t, jsonschema.FromType(g.Atom("int")))
	want := normalize(t, map[string]any{"$schema": jsonschema.Draft, "type": "integer"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("atomic schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestFromType_ProductAndSum(t *testing.T) {
	c := g.Unit("C")
	d := g.Record("D").Field("n", g.Atom("int")).Build()
	i := g.Sealed("I").Permits(c, d).MustBuild()
	pair := g.Record("Pair").Field("x", i).Field("y", i).Build()

	got := normalize(t, jsonschema.FromType(pair))
	want := normalize(t, map[string]any{
		"$schema": jsonschema.Draft,
		"$ref":    "#/$defs/Pair",
		"$defs": map[string]any{
			"Pair": map[string]any{
				"type":  "object",
				"title": "Pair",
				"properties": map[string]any{
					"$type": map[string]any{"const": "Pair"},
					"x":     map[string]any{"$ref": "#/$defs/I"},
					"y":     map[string]any{"$ref": "#/$defs/I"},
				},
				"required":             []string{"x", "y"},
				"additionalProperties": false,
			},
			"I": map[string]any{
				"title": "I",
				"oneOf": []any{
					map[string]any{"$ref": "#/$defs/C", "required": []string{"$type"}},
					map[string]any{"$ref": "#/$defs/D", "required": []string{"$type"}},
				},
			},
			"C": map[string]any{
				"type":                 "object",
				"title":                "C",
				"properties":           map[string]any{"$type": map[string]any{"const": "C"}},
				"additionalProperties": false,
			},
			"D": map[string]any{
				"type":  "object",
				"title": "D",
				"properties": map[string]any{
					"$type": map[string]any{"const": "D"},
					"n":     map[string]any{"type": "integer"},
				},
				"required":             []string{"n"},
				"additionalProperties": false,
			},
		},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pair schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestFromType_Recursive(t *testing.T) {
	prog := g.Decls().
		Atomic("int").
		Open("Object").
		Sum("List", "Nil", "Cons", "int").
		Product("Nil").
		Product("Cons", g.F("head", "Object"), g.F("tail", "List")).
		MustCompile()
	list, err := prog.Registry.Resolve("List")
	if err != nil {
		t.Fatal(err)
	}
	s := jsonschema.FromType(list)
	if s.Ref != "#/$defs/List" {
		t.Fatalf("expected root ref to List, got %q", s.Ref)
	}
	if len(s.Defs) != 3 {
		t.Fatalf("expected defs for List, Nil and Cons, got %v", s.Defs)
	}
	tail := s.Defs["Cons"].Properties["tail"]
	if tail.Ref != "#/$defs/List" {
		t.Fatalf("recursive field must reference List, got %+v", tail)
	}
	head := s.Defs["Cons"].Properties["head"]
	if head.Type != "object" || head.Required[0] != "$type" {
		t.Fatalf("open field must require a type tag, got %+v", head)
	}
	atom := s.Defs["List"].OneOf[2]
	if atom.Properties["$value"].Type != "integer" {
		t.Fatalf("atomic variant must be tagged, got %+v", atom)
	}
}
