package dsl

import (
	"github.com/reoring/adtmatch"
)

type recordBuilder struct {
	name   string
	fields []adtmatch.Field
}

// Record starts a product type declaration. Fields keep the order in which
// they are added.
func Record(name string) *recordBuilder {
	return &recordBuilder{name: name}
}

// Field appends a named field.
func (b *recordBuilder) Field(name string, t adtmatch.Type) *recordBuilder {
	b.fields = append(b.fields, adtmatch.Field{Name: name, Type: t})
	return b
}

// Build returns the product. A record without fields is a unit record.
func (b *recordBuilder) Build() *adtmatch.Product {
	return adtmatch.NewProduct(b.name, b.fields...)
}

type sealedBuilder struct {
	name     string
	variants []adtmatch.Type
}

// Sealed starts a closed sum declaration.
func Sealed(name string) *sealedBuilder {
	return &sealedBuilder{name: name}
}

// Permits appends variants in declaration order.
func (b *sealedBuilder) Permits(vs ...adtmatch.Type) *sealedBuilder {
	b.variants = append(b.variants, vs...)
	return b
}

// Build returns the closed sum or ErrEmptySum / *DuplicateVariantError.
func (b *sealedBuilder) Build() (*adtmatch.ClosedSum, error) {
	return adtmatch.NewClosedSum(b.name, b.variants...)
}

// MustBuild is Build that panics on error.
func (b *sealedBuilder) MustBuild() *adtmatch.ClosedSum {
	cs, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cs
}

// Open declares an unconstrained type.
func Open(name string) *adtmatch.Open { return adtmatch.NewOpen(name) }

// Atom declares an atomic leaf type.
func Atom(name string) *adtmatch.Atomic { return adtmatch.NewAtomic(name) }

// Tuple is the product a multi-subject match runs over.
func Tuple(ts ...adtmatch.Type) *adtmatch.Product { return adtmatch.Tuple(ts...) }

// Unit declares a field-less record, e.g. the variants of an enum-like sum.
func Unit(name string) *adtmatch.Product { return adtmatch.NewProduct(name) }
