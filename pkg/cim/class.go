package cim

// Class owns properties and methods and may take part in a type hierarchy.
//
// The supertype and subtypes are stored as IDs and resolved through the
// owning schema, so they only resolve once both classes are attached.
type Class struct {
	NamedElement
	properties []*Property
	methods    []*Method
	supertype  ID
	subtypes   []ID
	rangeRefs  []*Reference
}

// NewClass creates a detached class.
func NewClass(name string) *Class {
	c := &Class{}
	c.init(KindClass, name)
	return c
}

// Properties returns the class properties in declaration order.
func (c *Class) Properties() []*Property {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Property(nil), c.properties...)
}

// AddProperty appends p.
func (c *Class) AddProperty(p *Property) {
	if p == nil {
		return
	}
	c.mu.Lock()
	c.properties = append(c.properties, p)
	s := c.schema
	c.mu.Unlock()
	s.attach(p)
}

// RemoveProperty detaches p and reports whether it was present.
func (c *Class) RemoveProperty(p *Property) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.properties {
		if existing == p {
			c.properties = append(c.properties[:i:i], c.properties[i+1:]...)
			return true
		}
	}
	return false
}

// PropertiesWith returns the properties carrying a qualifier of variantType.
func (c *Class) PropertiesWith(variantType string) []*Property {
	var out []*Property
	for _, p := range c.Properties() {
		if p.HasQualifier(variantType) {
			out = append(out, p)
		}
	}
	return out
}

// Methods returns the class methods in declaration order.
func (c *Class) Methods() []*Method {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Method(nil), c.methods...)
}

// AddMethod appends m.
func (c *Class) AddMethod(m *Method) {
	if m == nil {
		return
	}
	c.mu.Lock()
	c.methods = append(c.methods, m)
	s := c.schema
	c.mu.Unlock()
	s.attach(m)
}

// RemoveMethod detaches m and reports whether it was present.
func (c *Class) RemoveMethod(m *Method) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.methods {
		if existing == m {
			c.methods = append(c.methods[:i:i], c.methods[i+1:]...)
			return true
		}
	}
	return false
}

// MethodsWith returns the methods carrying a qualifier of variantType.
func (c *Class) MethodsWith(variantType string) []*Method {
	var out []*Method
	for _, m := range c.Methods() {
		if m.HasQualifier(variantType) {
			out = append(out, m)
		}
	}
	return out
}

// SetSupertype makes sup the supertype of c and records c as a subtype of sup.
// A nil sup clears the link.
func (c *Class) SetSupertype(sup *Class) {
	c.mu.Lock()
	old := c.supertype
	c.supertype = 0
	if sup != nil {
		c.supertype = sup.ID()
	}
	c.mu.Unlock()

	if old != 0 {
		if prev := c.resolveClass(old); prev != nil {
			prev.RemoveSubtype(c)
		}
	}
	if sup != nil {
		sup.AddSubtype(c)
	}
}

// Supertype returns the supertype, or nil when unset or unresolvable.
func (c *Class) Supertype() *Class {
	c.mu.RLock()
	id := c.supertype
	c.mu.RUnlock()
	if id == 0 {
		return nil
	}
	return c.resolveClass(id)
}

// AddSubtype records sub as a subtype. Duplicates are ignored.
func (c *Class) AddSubtype(sub *Class) {
	if sub == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.subtypes {
		if id == sub.ID() {
			return
		}
	}
	c.subtypes = append(c.subtypes, sub.ID())
}

// RemoveSubtype forgets sub and reports whether it was recorded.
func (c *Class) RemoveSubtype(sub *Class) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range c.subtypes {
		if id == sub.ID() {
			c.subtypes = append(c.subtypes[:i:i], c.subtypes[i+1:]...)
			return true
		}
	}
	return false
}

// Subtypes returns the resolvable subtypes.
func (c *Class) Subtypes() []*Class {
	c.mu.RLock()
	ids := append([]ID(nil), c.subtypes...)
	c.mu.RUnlock()

	out := make([]*Class, 0, len(ids))
	for _, id := range ids {
		if sub := c.resolveClass(id); sub != nil {
			out = append(out, sub)
		}
	}
	return out
}

// SubtypesWith returns the subtypes carrying a qualifier of variantType.
func (c *Class) SubtypesWith(variantType string) []*Class {
	var out []*Class
	for _, sub := range c.Subtypes() {
		if sub.HasQualifier(variantType) {
			out = append(out, sub)
		}
	}
	return out
}

// Range returns the references recorded as targeting c.
// The index is maintained by callers.
func (c *Class) Range() []*Reference {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Reference(nil), c.rangeRefs...)
}

// AddRange records r in the inverse reference index.
func (c *Class) AddRange(r *Reference) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rangeRefs = append(c.rangeRefs, r)
}

// RemoveRange forgets r and reports whether it was recorded.
func (c *Class) RemoveRange(r *Reference) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.rangeRefs {
		if existing == r {
			c.rangeRefs = append(c.rangeRefs[:i:i], c.rangeRefs[i+1:]...)
			return true
		}
	}
	return false
}

// RangeWith returns the recorded references carrying a qualifier of variantType.
func (c *Class) RangeWith(variantType string) []*Reference {
	var out []*Reference
	for _, r := range c.Range() {
		if r.HasQualifier(variantType) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Class) resolveClass(id ID) *Class {
	s := c.Schema()
	if s == nil {
		return nil
	}
	e, ok := s.Lookup(id)
	if !ok {
		return nil
	}
	return AsClass(e)
}

func (c *Class) children() []Element {
	out := c.NamedElement.children()
	for _, p := range c.Properties() {
		out = append(out, p)
	}
	for _, m := range c.Methods() {
		out = append(out, m)
	}
	return out
}

// AsClass returns the class view of e: a *Class, or the embedded class of
// an *Association. It returns nil for other kinds.
func AsClass(e Element) *Class {
	switch v := e.(type) {
	case *Class:
		return v
	case *Association:
		return &v.Class
	}
	return nil
}
