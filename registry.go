package adtmatch

import "sync/atomic"

// Registry holds the declared type lattice. It is populated during a
// single-threaded setup phase and becomes read-only once sealed; a sealed
// Registry is safe for concurrent use without locking.
type Registry struct {
	types  map[string]Type
	order  []string
	sealed atomic.Bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]Type{}}
}

// Register adds t under its name. Types reachable from t (field types and
// variants) that are not registered yet are added as well.
func (r *Registry) Register(t Type) error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	if _, ok := r.types[t.Name()]; ok {
		return &DuplicateTypeError{Name: t.Name()}
	}
	// validate the whole reachable closure before mutating anything
	pending := map[string]Type{}
	var order []string
	if err := r.collect(t, pending, &order); err != nil {
		return err
	}
	for _, name := range order {
		r.add(pending[name])
	}
	return nil
}

// MustRegister registers every type and panics on the first error.
func (r *Registry) MustRegister(ts ...Type) *Registry {
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// collect walks the types reachable from t, recording the unregistered ones.
// A name already bound to a different descriptor is a conflict.
func (r *Registry) collect(t Type, pending map[string]Type, order *[]string) error {
	if prev, ok := r.types[t.Name()]; ok {
		if prev != t {
			return &DuplicateTypeError{Name: t.Name()}
		}
		return nil
	}
	if prev, ok := pending[t.Name()]; ok {
		if prev != t {
			return &DuplicateTypeError{Name: t.Name()}
		}
		return nil
	}
	pending[t.Name()] = t
	*order = append(*order, t.Name())
	switch tt := t.(type) {
	case *Product:
		for _, f := range tt.fields {
			if err := r.collect(f.Type, pending, order); err != nil {
				return err
			}
		}
	case *ClosedSum:
		for _, v := range tt.variants {
			if err := r.collect(v, pending, order); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Registry) add(t Type) {
	r.types[t.Name()] = t
	r.order = append(r.order, t.Name())
}

// Resolve looks a type up by name.
func (r *Registry) Resolve(name string) (Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return t, nil
}

// VariantsOf returns the declared variants of a closed sum.
func (r *Registry) VariantsOf(t Type) ([]Type, error) {
	cs, ok := t.(*ClosedSum)
	if !ok {
		return nil, &NotASumTypeError{Type: t}
	}
	return cs.Variants(), nil
}

// Names lists registered type names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.order) }

// Seal ends the setup phase. Subsequent Register calls fail with
// ErrRegistrySealed. Sealing twice is a no-op, and concurrent Builders and
// Checkers may seal the same registry.
func (r *Registry) Seal() {
	if !r.sealed.Load() {
		r.sealed.Store(true)
	}
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool { return r.sealed.Load() }
