package cim

// Schema is the root of a model graph.
//
// It keeps the ordered top-level elements and an index of every attached
// element by ID, nested ones included. A schema is its own schema.
type Schema struct {
	NamedElement
	elements []Element
	index    map[ID]Element
}

// NewSchema creates an empty schema.
func NewSchema(name string) *Schema {
	s := &Schema{index: make(map[ID]Element)}
	s.init(KindSchema, name)
	s.schema = s
	s.index[s.id] = s
	return s
}

// Add appends top-level elements and attaches them and their descendants.
func (s *Schema) Add(elems ...Element) {
	for _, e := range elems {
		if e == nil {
			continue
		}
		s.mu.Lock()
		s.elements = append(s.elements, e)
		s.mu.Unlock()
		s.attach(e)
	}
}

// Remove drops a top-level element from the element list and reports
// whether it was present. The element keeps its schema back-reference.
func (s *Schema) Remove(e Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.elements {
		if existing.ID() == e.ID() {
			s.elements = append(s.elements[:i:i], s.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Elements returns the top-level elements in insertion order.
func (s *Schema) Elements() []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Element(nil), s.elements...)
}

// Lookup resolves an ID through the schema index.
func (s *Schema) Lookup(id ID) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.index[id]
	return e, ok
}

// ElementsNamed returns the top-level elements named name.
func (s *Schema) ElementsNamed(name string) []Element {
	var out []Element
	for _, e := range s.Elements() {
		if e.Name() == name {
			out = append(out, e)
		}
	}
	return out
}

// ElementsWith returns the top-level elements carrying a qualifier of
// variantType. Each element appears once.
func (s *Schema) ElementsWith(variantType string) []Element {
	var out []Element
	for _, e := range s.Elements() {
		if e.HasQualifier(variantType) {
			out = append(out, e)
		}
	}
	return out
}

// ElementsOfKind returns the top-level elements of exactly kind k.
func (s *Schema) ElementsOfKind(k Kind) []Element {
	var out []Element
	for _, e := range s.Elements() {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// Classes returns the top-level classes, excluding associations.
func (s *Schema) Classes() []*Class {
	var out []*Class
	for _, e := range s.Elements() {
		if c, ok := e.(*Class); ok {
			out = append(out, c)
		}
	}
	return out
}

// Associations returns the top-level associations.
func (s *Schema) Associations() []*Association {
	var out []*Association
	for _, e := range s.Elements() {
		if a, ok := e.(*Association); ok {
			out = append(out, a)
		}
	}
	return out
}

// Unique returns the single top-level element named name.
// Zero matches fail with ErrNotFound, several with ErrAmbiguous.
func (s *Schema) Unique(name string) (Element, error) {
	matches := s.ElementsNamed(name)
	switch len(matches) {
	case 0:
		return nil, notFound("element", name, s.Name())
	case 1:
		return matches[0], nil
	default:
		return nil, ambiguous("element", name, s.Name(), len(matches))
	}
}

// UniqueClass returns the single class-like top-level element named name.
// Associations count, since they are classes too.
func (s *Schema) UniqueClass(name string) (*Class, error) {
	var matches []*Class
	for _, e := range s.ElementsNamed(name) {
		if c := AsClass(e); c != nil {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, notFound("class", name, s.Name())
	case 1:
		return matches[0], nil
	default:
		return nil, ambiguous("class", name, s.Name(), len(matches))
	}
}

// attach indexes e and its descendants. A nil schema is a no-op so that
// detached parents can call it unconditionally.
func (s *Schema) attach(e Element) {
	if s == nil || e == nil {
		return
	}
	e.named().setSchema(s)
	s.mu.Lock()
	s.index[e.ID()] = e
	s.mu.Unlock()
	for _, child := range e.children() {
		s.attach(child)
	}
}

func (s *Schema) children() []Element {
	out := s.NamedElement.children()
	return append(out, s.Elements()...)
}
