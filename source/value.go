package source

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/adtmatch"
	"github.com/reoring/adtmatch/i18n"
)

const (
	// TypeKey names the concrete type of an object-encoded value. It may be
	// omitted when the expected type is a product.
	TypeKey = "$type"
	// ValueKey carries the scalar of an atom at a sum or open position,
	// e.g. {"$type": "int", "$value": 3}.
	ValueKey = "$value"
)

// DecodeValue converts a JSON-like tree (maps, slices, scalars) into a
// value of t. Records are objects keyed by field name; atoms are scalars.
// Every mismatch is reported, each with the JSON Pointer of its node.
func DecodeValue(reg *adtmatch.Registry, t adtmatch.Type, tree any) (adtmatch.Value, error) {
	d := &valueDecoder{reg: reg}
	v := d.decode(t, normalizeValue(tree), adtmatch.RootPath())
	if len(d.issues) > 0 {
		return nil, d.issues
	}
	return v, nil
}

// DecodeValueJSON parses data with go-json and decodes it as a value of t.
func DecodeValueJSON(reg *adtmatch.Registry, t adtmatch.Type, data []byte) (adtmatch.Value, error) {
	if err := rejectDuplicateKeys(data); err != nil {
		return nil, err
	}
	var tree any
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, parseIssue(err, "", 0)
	}
	return DecodeValue(reg, t, tree)
}

// DecodeValueYAML parses a single YAML document and decodes it as a value
// of t.
func DecodeValueYAML(reg *adtmatch.Registry, t adtmatch.Type, data []byte) (adtmatch.Value, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, parseIssue(err, "", 0)
	}
	return DecodeValue(reg, t, tree)
}

// EncodeValue is the inverse of DecodeValue: records become objects carrying
// TypeKey, atoms their scalar.
func EncodeValue(v adtmatch.Value) any {
	switch vv := v.(type) {
	case *adtmatch.Record:
		p := vv.Product()
		out := make(map[string]any, p.Arity()+1)
		out[TypeKey] = p.Name()
		for i := 0; i < p.Arity(); i++ {
			out[p.Field(i).Name] = EncodeValue(vv.Field(i))
		}
		return out
	case adtmatch.Atom:
		return vv.V
	}
	return nil
}

type valueDecoder struct {
	reg    *adtmatch.Registry
	issues adtmatch.Issues
}

func (d *valueDecoder) fail(at adtmatch.PathRef, hint string, kv ...any) {
	it := at.Issue(adtmatch.CodeInvalidValue, i18n.T(adtmatch.CodeInvalidValue, nil), kv...)
	it.Hint = hint
	d.issues = adtmatch.AppendIssues(d.issues, it)
}

func (d *valueDecoder) decode(t adtmatch.Type, tree any, at adtmatch.PathRef) adtmatch.Value {
	switch tt := t.(type) {
	case *adtmatch.Product:
		return d.record(tt, tree, at)
	case *adtmatch.Atomic:
		if _, isObj := tree.(map[string]any); isObj {
			return d.tagged(tt, tree, at)
		}
		return d.atom(tt, tree, at)
	}
	// closed sums and open types need the concrete type from the tree
	return d.tagged(t, tree, at)
}

func (d *valueDecoder) tagged(expected adtmatch.Type, tree any, at adtmatch.PathRef) adtmatch.Value {
	m, ok := tree.(map[string]any)
	if !ok {
		d.fail(at, fmt.Sprintf("a value of %s needs an object with %q", expected.Name(), TypeKey), "expected", expected.Name())
		return nil
	}
	name, _ := m[TypeKey].(string)
	if name == "" {
		d.fail(at.Field(TypeKey), fmt.Sprintf("missing %q for a value of %s", TypeKey, expected.Name()), "expected", expected.Name())
		return nil
	}
	concrete, err := d.reg.Resolve(name)
	if err != nil {
		d.fail(at.Field(TypeKey), err.Error(), "type", name)
		return nil
	}
	if !adtmatch.Covers(expected, concrete) {
		d.fail(at.Field(TypeKey), fmt.Sprintf("%s is not a value of %s", name, expected.Name()), "type", name, "expected", expected.Name())
		return nil
	}
	switch ct := concrete.(type) {
	case *adtmatch.Product:
		return d.record(ct, m, at)
	case *adtmatch.Atomic:
		raw, ok := m[ValueKey]
		if !ok {
			d.fail(at.Field(ValueKey), fmt.Sprintf("missing %q for atom %s", ValueKey, name))
			return nil
		}
		return d.atom(ct, raw, at.Field(ValueKey))
	}
	d.fail(at.Field(TypeKey), fmt.Sprintf("%s is a %s and has no values of its own", name, concrete.Kind()))
	return nil
}

func (d *valueDecoder) record(p *adtmatch.Product, tree any, at adtmatch.PathRef) adtmatch.Value {
	m, ok := tree.(map[string]any)
	if !ok {
		d.fail(at, fmt.Sprintf("expected an object for %s", p.Name()), "expected", p.Name())
		return nil
	}
	if name, ok := m[TypeKey]; ok && name != p.Name() {
		d.fail(at.Field(TypeKey), fmt.Sprintf("expected %s, got %v", p.Name(), name), "expected", p.Name())
		return nil
	}
	before := len(d.issues)
	fields := make([]adtmatch.Value, p.Arity())
	for i := 0; i < p.Arity(); i++ {
		f := p.Field(i)
		raw, ok := m[f.Name]
		if !ok {
			d.fail(at.Field(f.Name), fmt.Sprintf("missing field %s of %s", f.Name, p.Name()), "field", f.Name)
			continue
		}
		fields[i] = d.decode(f.Type, raw, at.Field(f.Name))
	}
	// report unknown keys in a stable order
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != TypeKey && p.FieldIndex(k) < 0 {
			d.fail(at.Field(k), fmt.Sprintf("%s has no field %s", p.Name(), k), "field", k)
		}
	}
	if len(d.issues) > before {
		return nil
	}
	return adtmatch.MustRecord(p, fields...)
}

func (d *valueDecoder) atom(a *adtmatch.Atomic, tree any, at adtmatch.PathRef) adtmatch.Value {
	switch tree.(type) {
	case string, bool, int64, uint64, float64:
		return adtmatch.NewAtom(a, tree)
	case nil:
		d.fail(at, fmt.Sprintf("null is not a value of %s", a.Name()), "expected", a.Name())
	default:
		d.fail(at, fmt.Sprintf("expected a scalar for %s", a.Name()), "expected", a.Name())
	}
	return nil
}

// normalizeValue rewrites decoder output into a canonical JSON-like tree:
// map[string]any objects, []any arrays, int64 for integral numbers, uint64
// for integers above the int64 range and float64 otherwise.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeValue(t[i])
		}
		return arr
	case j.Number:
		return normalizeNumber(string(t))
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return t
	case float32:
		return float64(t)
	case float64:
		if t >= math.MinInt64 && t < math.MaxInt64 && t == math.Trunc(t) {
			return int64(t)
		}
		return t
	}
	return v
}

func normalizeNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
