package cim

import (
	"sync"
	"sync/atomic"
)

// ID identifies an element for the lifetime of the process.
// The zero ID never names an element.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Kind is the element variant.
type Kind int

// Element kinds.
const (
	KindSchema Kind = iota + 1
	KindClass
	KindAssociation
	KindProperty
	KindMethod
	KindReference
	KindTrigger
)

var kindNames = map[Kind]string{
	KindSchema:      "Schema",
	KindClass:       "Class",
	KindAssociation: "Association",
	KindProperty:    "Property",
	KindMethod:      "Method",
	KindReference:   "Reference",
	KindTrigger:     "Trigger",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Element is implemented by every node of the model graph.
type Element interface {
	ID() ID
	Kind() Kind
	Name() string
	SetName(name string)

	Qualifiers() []*Qualifier
	AddQualifier(q *Qualifier)
	RemoveQualifier(q *Qualifier) bool
	FirstQualifier(variantType string) (*Qualifier, error)
	QualifiersOf(variantType string) []*Qualifier
	HasQualifier(variantType string) bool

	Triggers() []*Trigger
	AddTrigger(t *Trigger)
	RemoveTrigger(t *Trigger) bool

	// Schema returns the owning schema, or nil while detached.
	Schema() *Schema

	named() *NamedElement
	children() []Element
}

// NamedElement is the state shared by all elements.
// Its list accessors return copies taken under the element lock.
type NamedElement struct {
	mu         sync.RWMutex
	id         ID
	kind       Kind
	name       string
	qualifiers []*Qualifier
	triggers   []*Trigger
	schema     *Schema
}

func (e *NamedElement) init(kind Kind, name string) {
	e.id = nextID()
	e.kind = kind
	e.name = name
}

// ID returns the element identifier.
func (e *NamedElement) ID() ID { return e.id }

// Kind returns the element variant.
func (e *NamedElement) Kind() Kind { return e.kind }

// Name returns the element name.
func (e *NamedElement) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// SetName renames the element.
func (e *NamedElement) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// Qualifiers returns the attached qualifiers in attachment order.
func (e *NamedElement) Qualifiers() []*Qualifier {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Qualifier(nil), e.qualifiers...)
}

// AddQualifier appends q. Nil is ignored.
func (e *NamedElement) AddQualifier(q *Qualifier) {
	if q == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.qualifiers = append(e.qualifiers, q)
}

// RemoveQualifier detaches q and reports whether it was attached.
func (e *NamedElement) RemoveQualifier(q *Qualifier) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.qualifiers {
		if existing == q {
			e.qualifiers = append(e.qualifiers[:i:i], e.qualifiers[i+1:]...)
			return true
		}
	}
	return false
}

// FirstQualifier returns the first qualifier with the given discriminator.
// It fails with a *LookupError matching ErrNotFound when there is none.
func (e *NamedElement) FirstQualifier(variantType string) (*Qualifier, error) {
	for _, q := range e.Qualifiers() {
		if q.VariantType() == variantType {
			return q, nil
		}
	}
	return nil, notFound("qualifier", variantType, e.Name())
}

// QualifiersOf returns every qualifier with the given discriminator.
func (e *NamedElement) QualifiersOf(variantType string) []*Qualifier {
	var out []*Qualifier
	for _, q := range e.Qualifiers() {
		if q.VariantType() == variantType {
			out = append(out, q)
		}
	}
	return out
}

// HasQualifier reports whether a qualifier with the given discriminator is attached.
func (e *NamedElement) HasQualifier(variantType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, q := range e.qualifiers {
		if q.VariantType() == variantType {
			return true
		}
	}
	return false
}

// Triggers returns the attached triggers.
func (e *NamedElement) Triggers() []*Trigger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Trigger(nil), e.triggers...)
}

// AddTrigger appends t and attaches it to the element's schema.
func (e *NamedElement) AddTrigger(t *Trigger) {
	if t == nil {
		return
	}
	e.mu.Lock()
	e.triggers = append(e.triggers, t)
	s := e.schema
	e.mu.Unlock()
	s.attach(t)
}

// RemoveTrigger detaches t and reports whether it was attached.
func (e *NamedElement) RemoveTrigger(t *Trigger) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.triggers {
		if existing == t {
			e.triggers = append(e.triggers[:i:i], e.triggers[i+1:]...)
			return true
		}
	}
	return false
}

// Schema returns the owning schema, or nil while detached.
func (e *NamedElement) Schema() *Schema {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.schema
}

func (e *NamedElement) named() *NamedElement { return e }

func (e *NamedElement) children() []Element {
	triggers := e.Triggers()
	out := make([]Element, 0, len(triggers))
	for _, t := range triggers {
		out = append(out, t)
	}
	return out
}

// setSchema records the owner once. Later calls keep the first owner.
func (e *NamedElement) setSchema(s *Schema) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.schema != nil {
		return false
	}
	e.schema = s
	return true
}

// Trigger is an opaque named body carried through the model unchanged.
type Trigger struct {
	NamedElement
	body string
}

// NewTrigger creates a trigger.
func NewTrigger(name, body string) *Trigger {
	t := &Trigger{body: body}
	t.init(KindTrigger, name)
	return t
}

// Body returns the trigger text.
func (t *Trigger) Body() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.body
}

// SetBody replaces the trigger text.
func (t *Trigger) SetBody(body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.body = body
}

// Property is a leaf element of a class.
type Property struct {
	NamedElement
}

// NewProperty creates a property.
func NewProperty(name string) *Property {
	p := &Property{}
	p.init(KindProperty, name)
	return p
}

// Method is a leaf element of a class.
type Method struct {
	NamedElement
}

// NewMethod creates a method.
func NewMethod(name string) *Method {
	m := &Method{}
	m.init(KindMethod, name)
	return m
}
