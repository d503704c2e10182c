package cim

import (
	"encoding"
	"fmt"
	"sort"
	"sync"
)

// Variant is a qualifier payload.
//
// VariantType returns a stable discriminator. Lookups compare discriminators,
// so two payloads are the same kind iff their VariantType values are equal.
// VariantType must not read the receiver: a nil pointer of the payload type
// has to report the same discriminator as a populated value.
//
// MarshalText and UnmarshalText implement the payload's text grammar, and
// Build(v.VariantType(), v.String()) must reproduce v.
type Variant interface {
	VariantType() string
	encoding.TextMarshaler
	encoding.TextUnmarshaler
	fmt.Stringer
}

// Qualifier wraps exactly one Variant.
type Qualifier struct {
	variant Variant
}

// NewQualifier wraps v. A nil payload is rejected.
func NewQualifier(v Variant) (*Qualifier, error) {
	if v == nil {
		return nil, ErrNilVariant
	}
	return &Qualifier{variant: v}, nil
}

// MustQualifier is like NewQualifier but panics on a nil payload.
func MustQualifier(v Variant) *Qualifier {
	q, err := NewQualifier(v)
	if err != nil {
		panic(err)
	}
	return q
}

// Variant returns the wrapped payload.
func (q *Qualifier) Variant() Variant {
	return q.variant
}

// VariantType returns the discriminator of the wrapped payload.
func (q *Qualifier) VariantType() string {
	return q.variant.VariantType()
}

// Text returns the serialized payload.
func (q *Qualifier) Text() string {
	return q.variant.String()
}

func (q *Qualifier) String() string {
	return q.VariantType() + "(" + q.Text() + ")"
}

// VariantsFactory rebuilds payloads from their discriminator and text.
type VariantsFactory interface {
	Build(variantType, text string) (Variant, error)
}

// Registry is a VariantsFactory backed by a table of constructors.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]func() Variant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() Variant)}
}

// Register adds a constructor for variantType.
// A later registration replaces an earlier one.
func (r *Registry) Register(variantType string, ctor func() Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[variantType] = ctor
}

// Build instantiates a zero payload for variantType and populates it from text.
func (r *Registry) Build(variantType, text string) (Variant, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[variantType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, variantType)
	}

	v := ctor()
	if err := v.UnmarshalText([]byte(text)); err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", variantType, text, err)
	}
	return v, nil
}

// Types returns the registered discriminators in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.ctors))
	for t := range r.ctors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// typeOf returns the discriminator for T without needing a value.
func typeOf[T Variant]() string {
	var zero T
	return zero.VariantType()
}

// First returns the first payload of type T attached to e.
// It fails with an error matching ErrNotFound when there is none.
func First[T Variant](e Element) (T, error) {
	vt := typeOf[T]()
	for _, q := range e.Qualifiers() {
		if q.VariantType() != vt {
			continue
		}
		if v, ok := q.variant.(T); ok {
			return v, nil
		}
	}
	var zero T
	return zero, notFound("qualifier", vt, e.Name())
}

// All returns every payload of type T attached to e, in attachment order.
func All[T Variant](e Element) []T {
	vt := typeOf[T]()
	var out []T
	for _, q := range e.Qualifiers() {
		if q.VariantType() != vt {
			continue
		}
		if v, ok := q.variant.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether e carries a payload of type T.
func Has[T Variant](e Element) bool {
	return e.HasQualifier(typeOf[T]())
}
