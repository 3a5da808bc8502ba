package adtmatch

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Value is a runtime value owned by the caller. Type returns its concrete
// type: a Product for records, an Atomic for atoms.
type Value interface {
	Type() Type
}

// Record is a value of a Product type.
type Record struct {
	typ    *Product
	fields []Value
}

// NewRecord builds a record value. The number of field values must equal the
// product's arity.
func NewRecord(p *Product, fields ...Value) (*Record, error) {
	if len(fields) != p.Arity() {
		return nil, &ArityMismatchError{Type: p, Want: p.Arity(), Got: len(fields)}
	}
	return &Record{typ: p, fields: append([]Value(nil), fields...)}, nil
}

// MustRecord is NewRecord that panics on error.
func MustRecord(p *Product, fields ...Value) *Record {
	r, err := NewRecord(p, fields...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Record) Type() Type        { return r.typ }
func (r *Record) Product() *Product { return r.typ }
func (r *Record) Len() int          { return len(r.fields) }
func (r *Record) Field(i int) Value { return r.fields[i] }

// Get returns the value of the named field.
func (r *Record) Get(name string) (Value, bool) {
	i := r.typ.FieldIndex(name)
	if i < 0 {
		return nil, false
	}
	return r.fields[i], true
}

func (r *Record) String() string {
	b := &strings.Builder{}
	b.WriteString(r.typ.Name())
	if len(r.fields) == 0 {
		return b.String()
	}
	b.WriteByte('(')
	for i, f := range r.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(b, f)
	}
	b.WriteByte(')')
	return b.String()
}

// Atom is a value of an Atomic type.
type Atom struct {
	typ *Atomic
	V   any
}

// NewAtom wraps v as a value of the atomic type t.
func NewAtom(t *Atomic, v any) Atom { return Atom{typ: t, V: v} }

func (a Atom) Type() Type { return a.typ }

func (a Atom) String() string {
	if s, ok := a.V.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(a.V)
}

// Equal reports structural equality of two values.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !SameType(a.Type(), b.Type()) {
		return false
	}
	switch av := a.(type) {
	case Atom:
		bv, ok := b.(Atom)
		if !ok {
			return false
		}
		return atomEqual(av.V, bv.V)
	case *Record:
		bv, ok := b.(*Record)
		if !ok || len(av.fields) != len(bv.fields) {
			return false
		}
		for i := range av.fields {
			if !Equal(av.fields[i], bv.fields[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func atomEqual(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	// numbers compare by value regardless of their Go representation, so a
	// literal 1 equals a decoded JSON 1.0
	if nx, ok := asNumber(x); ok {
		if ny, ok := asNumber(y); ok {
			return nx.equal(ny)
		}
		return false
	}
	tx, ty := reflect.TypeOf(x), reflect.TypeOf(y)
	if tx.Comparable() && ty.Comparable() {
		return x == y
	}
	return reflect.DeepEqual(x, y)
}

// Conforms reports whether v is a value of t.
func Conforms(v Value, t Type) bool {
	if v == nil {
		return false
	}
	return covers(t, v.Type())
}

// number is a numeric atom widened without loss: kind is reflect.Int64,
// reflect.Uint64 or reflect.Float64.
type number struct {
	kind reflect.Kind
	i    int64
	u    uint64
	f    float64
}

func asNumber(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	}
	return number{}, false
}

// equal compares integers exactly; a float equals an integer only when it
// is integral and in range.
func (a number) equal(b number) bool {
	if a.kind > b.kind {
		a, b = b, a
	}
	switch a.kind {
	case reflect.Int64:
		switch b.kind {
		case reflect.Int64:
			return a.i == b.i
		case reflect.Uint64:
			return a.i >= 0 && uint64(a.i) == b.u
		}
		return b.f == math.Trunc(b.f) && b.f >= math.MinInt64 && b.f < math.MaxInt64 && int64(b.f) == a.i
	case reflect.Uint64:
		if b.kind == reflect.Uint64 {
			return a.u == b.u
		}
		return b.f == math.Trunc(b.f) && b.f >= 0 && b.f < math.MaxUint64 && uint64(b.f) == a.u
	}
	return a.f == b.f
}
