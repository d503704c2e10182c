package erd

import "github.com/leapstack-labs/erdgen/pkg/cim"

// BuildSchema creates an empty schema.
func BuildSchema(name string) *cim.Schema {
	return cim.NewSchema(name)
}

// BuildSchemaAt creates an empty schema that remembers the file it belongs to.
func BuildSchemaAt(name, filePath string) *cim.Schema {
	s := cim.NewSchema(name)
	s.AddQualifier(cim.MustQualifier(&PhysicalLocation{Path: filePath}))
	return s
}

// BuildClass creates a plain class.
func BuildClass(name string) *cim.Class {
	return cim.NewClass(name)
}

// BuildEntity creates a class marked as an entity.
func BuildEntity(name string) *cim.Class {
	c := cim.NewClass(name)
	c.AddQualifier(cim.MustQualifier(&Entity{}))
	return c
}

// BuildProperty creates a property with its type, key and mapping qualifiers.
func BuildProperty(name, logicalType string, key, autoSequence bool) *cim.Property {
	p := cim.NewProperty(name)
	p.AddQualifier(cim.MustQualifier(&Type{Name: logicalType}))
	p.AddQualifier(cim.MustQualifier(&PrimaryKey{Key: key, AutoSequence: autoSequence}))
	p.AddQualifier(cim.MustQualifier(NewMappingDetails("")))
	return p
}

// BuildReference creates a reference to target with multiplicity c.
func BuildReference(target *cim.Class, c Category) *cim.Reference {
	r := cim.NewReference(target)
	r.AddQualifier(cim.MustQualifier(NewReferenceMultiplicity(c)))
	return r
}

// SuggestName attaches a suggested field name to r and returns r.
func SuggestName(r *cim.Reference, name string) *cim.Reference {
	r.AddQualifier(cim.MustQualifier(&ReferenceSuggestedName{Name: name}))
	return r
}

// BuildAssociation relates the classes behind r1 and r2 and records each
// reference in its target's range.
func BuildAssociation(r1, r2 *cim.Reference) (*cim.Association, error) {
	a, err := cim.NewAssociation(r1, r2)
	if err != nil {
		return nil, err
	}
	r1.Target().AddRange(r1)
	r2.Target().AddRange(r2)
	return a, nil
}

// BuildEntityAssociation is BuildAssociation for two entities.
func BuildEntityAssociation(name string, r1, r2 *cim.Reference) (*cim.Association, error) {
	a, err := BuildAssociation(r1, r2)
	if err != nil {
		return nil, err
	}
	a.SetName(name)
	a.AddQualifier(cim.MustQualifier(&EntityAssociation{}))
	return a, nil
}

// IsEntity reports whether e is a class marked as an entity.
func IsEntity(e cim.Element) bool {
	return e.Kind() == cim.KindClass && e.HasQualifier(TypeEntity)
}

// Entities returns the schema's entity classes in declaration order.
func Entities(s *cim.Schema) []*cim.Class {
	var out []*cim.Class
	for _, c := range s.Classes() {
		if IsEntity(c) {
			out = append(out, c)
		}
	}
	return out
}

// MultiplicityOf returns the category of r.
func MultiplicityOf(r *cim.Reference) (Category, error) {
	m, err := cim.First[*ReferenceMultiplicity](r)
	if err != nil {
		return 0, err
	}
	return m.Category, nil
}
