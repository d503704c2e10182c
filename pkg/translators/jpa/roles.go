package jpa

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/erd/relation"
)

// Role is the part an entity plays in one relationship.
type Role int

// Relationship roles.
const (
	// ManyToOne holds the join column of a one-to-many relationship.
	ManyToOne Role = iota
	// OneToMany is the collection side of a one-to-many relationship.
	OneToMany
	// PrimaryOneToOne is the inverse side of a one-to-one relationship.
	PrimaryOneToOne
	// DetailsOneToOne holds the join column of a one-to-one relationship.
	DetailsOneToOne
	// UniqueManyToOne holds the join column of an optional one-to-one
	// relationship, mapped as a unique many-to-one.
	UniqueManyToOne
	// SelfOneToMany is a parent reference plus a child collection.
	SelfOneToMany
	// SelfOneToOne is a parent reference plus its inverse.
	SelfOneToOne
)

func (r Role) String() string {
	switch r {
	case ManyToOne:
		return "many-to-one"
	case OneToMany:
		return "one-to-many"
	case PrimaryOneToOne:
		return "one-to-one (primary)"
	case DetailsOneToOne:
		return "one-to-one (details)"
	case UniqueManyToOne:
		return "unique many-to-one"
	case SelfOneToMany:
		return "self one-to-many"
	case SelfOneToOne:
		return "self one-to-one"
	default:
		return "unknown"
	}
}

// Relationship is one relationship field of an entity.
type Relationship struct {
	Role        Role
	Association *cim.Association
	// Target is the class of the field, or the element class of a
	// collection.
	Target *cim.Class
	// Field is the field name.
	Field string
	// JoinColumn is the foreign key column of an owning side.
	JoinColumn string
	// MappedBy is the owning field on Target for an inverse side.
	MappedBy string
	// Mandatory adds nullable = false on owning sides, @Size(min = 1) on
	// collections and @NotNull on primary one-to-one sides.
	Mandatory bool
}

// Parent returns the parent field name of a self relationship.
func (r Relationship) Parent() string {
	return "parent" + relation.UpperFirst(r.Field)
}

// Owning reports whether the role writes a @JoinColumn.
func (r Relationship) Owning() bool {
	switch r.Role {
	case ManyToOne, DetailsOneToOne, UniqueManyToOne, SelfOneToMany, SelfOneToOne:
		return true
	}
	return false
}

// fieldName names the field pointing from the end of ref to other.
func fieldName(ref *cim.Reference, other *cim.Class) string {
	if n := relation.SuggestedName(ref); n != "" {
		return relation.LowerFirst(n)
	}
	return relation.LowerFirst(other.Name())
}

// Relationships returns the relationship fields of entity c in
// association order. Associations touching a non-entity class are ignored
// and unsupported shapes are skipped with a warning.
func Relationships(s *cim.Schema, c *cim.Class, logger *slog.Logger) ([]Relationship, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var out []Relationship
	for _, a := range relation.AssociationsOf(s, c) {
		r1, r2 := a.Endpoints()
		if !erd.IsEntity(r1.Target()) || !erd.IsEntity(r2.Target()) {
			continue
		}
		shape, err := relation.Classify(a)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", c.Name(), err)
		}
		if shape.Kind == relation.Unsupported {
			logger.Warn("skipping unsupported association",
				slog.String("association", a.Name()),
				slog.String("first", shape.FirstCat.String()),
				slog.String("second", shape.SecondCat.String()))
			continue
		}

		rel, err := roleOf(c, a, shape)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", c.Name(), err)
		}
		out = append(out, rel)
	}
	return out, nil
}

func roleOf(c *cim.Class, a *cim.Association, shape relation.Classification) (Relationship, error) {
	if shape.Self {
		return selfRole(c, a, shape)
	}

	holder, referenced := shape.Holder(), shape.Referenced()
	ownField := fieldName(relation.ReferenceTo(a, c), otherEnd(a, c))
	// The inverse side maps by the field the holder declares.
	holderField := fieldName(holder, referenced.Target())

	rel := Relationship{Association: a, Field: ownField}
	if holder.Target() == c {
		key, err := relation.KeyProperty(referenced.Target())
		if err != nil {
			return Relationship{}, fmt.Errorf("references %q: %w", referenced.Target().Name(), err)
		}
		rel.Target = referenced.Target()
		rel.JoinColumn = relation.ForeignKeyName(holder, referenced.Target(), key)
		switch {
		case shape.Kind == relation.OneToMany:
			rel.Role = ManyToOne
			// Matches the NOT NULL the DDL gives the key column.
			rel.Mandatory = shape.Mandatory
		case shape.FirstCat == erd.NoneOrOne && shape.SecondCat == erd.NoneOrOne:
			rel.Role = UniqueManyToOne
		default:
			rel.Role = DetailsOneToOne
			rel.Mandatory = true
		}
		return rel, nil
	}

	rel.Target = holder.Target()
	rel.MappedBy = holderField
	if shape.Kind == relation.OneToMany {
		rel.Role = OneToMany
		rel.Mandatory = shape.Mandatory
	} else {
		rel.Role = PrimaryOneToOne
		rel.Mandatory = shape.FirstCat == erd.One && shape.SecondCat == erd.One
	}
	return rel, nil
}

func selfRole(c *cim.Class, a *cim.Association, shape relation.Classification) (Relationship, error) {
	key, err := relation.KeyProperty(c)
	if err != nil {
		return Relationship{}, fmt.Errorf("self reference %q: %w", a.Name(), err)
	}
	rel := Relationship{
		Association: a,
		Target:      c,
		Field:       fieldName(shape.Second, c),
		JoinColumn:  relation.ForeignKeyName(shape.Second, c, key),
	}
	if shape.Kind == relation.OneToMany {
		rel.Role = SelfOneToMany
		rel.Mandatory = shape.Mandatory
	} else {
		rel.Role = SelfOneToOne
		rel.Mandatory = shape.FirstCat == erd.One
	}
	rel.MappedBy = rel.Parent()
	return rel, nil
}

func otherEnd(a *cim.Association, c *cim.Class) *cim.Class {
	r1, r2 := a.Endpoints()
	if r1.Target() == c {
		return r2.Target()
	}
	return r1.Target()
}
