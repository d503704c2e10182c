package cim

import "fmt"

// Reference points from its owning association to a target class.
// The target is fixed at construction.
type Reference struct {
	NamedElement
	target *Class
	owner  ID
}

// NewReference creates a reference to target. A nil target panics.
func NewReference(target *Class) *Reference {
	if target == nil {
		panic("cim: reference target must not be nil")
	}
	r := &Reference{target: target}
	r.init(KindReference, "")
	return r
}

// Target returns the referenced class.
func (r *Reference) Target() *Class {
	return r.target
}

// Association returns the owning association, or nil when the reference
// is unowned or its schema cannot resolve the owner.
func (r *Reference) Association() *Association {
	r.mu.RLock()
	owner := r.owner
	s := r.schema
	r.mu.RUnlock()
	if owner == 0 || s == nil {
		return nil
	}
	e, ok := s.Lookup(owner)
	if !ok {
		return nil
	}
	a, _ := e.(*Association)
	return a
}

func (r *Reference) setOwner(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owner = id
}

// Association is a class that relates two or more classes through references.
// The first two references are the canonical endpoints.
type Association struct {
	Class
	references []*Reference
}

// NewAssociation creates an association over r1, r2 and any further references.
func NewAssociation(r1, r2 *Reference, more ...*Reference) (*Association, error) {
	refs := append([]*Reference{r1, r2}, more...)
	for i, r := range refs {
		if r == nil {
			return nil, fmt.Errorf("reference %d: %w", i, ErrTooFewReferences)
		}
	}
	a := &Association{}
	a.init(KindAssociation, "")
	for _, r := range refs {
		a.AddReference(r)
	}
	return a, nil
}

// NewAssociationFromTemplate creates an association that copies the name,
// qualifiers, properties and methods of tmpl.
func NewAssociationFromTemplate(tmpl *Class, r1, r2 *Reference, more ...*Reference) (*Association, error) {
	a, err := NewAssociation(r1, r2, more...)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return a, nil
	}
	a.SetName(tmpl.Name())
	for _, q := range tmpl.Qualifiers() {
		a.AddQualifier(q)
	}
	for _, p := range tmpl.Properties() {
		a.AddProperty(p)
	}
	for _, m := range tmpl.Methods() {
		a.AddMethod(m)
	}
	return a, nil
}

// References returns the references in declaration order.
func (a *Association) References() []*Reference {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Reference(nil), a.references...)
}

// AddReference appends r and makes a its owner.
func (a *Association) AddReference(r *Reference) {
	if r == nil {
		return
	}
	r.setOwner(a.ID())
	a.mu.Lock()
	a.references = append(a.references, r)
	s := a.schema
	a.mu.Unlock()
	s.attach(r)
}

// ReferencesWith returns the references carrying a qualifier of variantType.
func (a *Association) ReferencesWith(variantType string) []*Reference {
	var out []*Reference
	for _, r := range a.References() {
		if r.HasQualifier(variantType) {
			out = append(out, r)
		}
	}
	return out
}

// Endpoints returns the two canonical references.
func (a *Association) Endpoints() (*Reference, *Reference) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.references[0], a.references[1]
}

func (a *Association) children() []Element {
	out := a.Class.children()
	for _, r := range a.References() {
		out = append(out, r)
	}
	return out
}
