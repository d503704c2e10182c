// Package relation classifies associations by the multiplicity of their
// two canonical references and derives the names generated code uses for
// the resulting relationships.
package relation

import (
	"fmt"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
)

// Kind is the shape of a classified association.
type Kind int

// Relationship shapes.
const (
	Unsupported Kind = iota
	OneToMany
	OneToOne
)

func (k Kind) String() string {
	switch k {
	case OneToMany:
		return "one-to-many"
	case OneToOne:
		return "one-to-one"
	default:
		return "unsupported"
	}
}

// Classification describes how an association maps to generated code.
type Classification struct {
	Kind Kind
	// Self is true when both ends target the same class.
	Self bool

	// First and Second are the canonical references with their categories.
	First, Second       *cim.Reference
	FirstCat, SecondCat erd.Category

	// One-to-many: Many targets the class holding the foreign key, One the
	// referenced class. Mandatory is true when the many side is MANY.
	Many, One *cim.Reference
	Mandatory bool

	// One-to-one: Details targets the class holding the foreign key,
	// Primary the referenced class.
	Primary, Details *cim.Reference
}

// Holder returns the reference whose target holds the foreign key.
func (c Classification) Holder() *cim.Reference {
	switch c.Kind {
	case OneToMany:
		return c.Many
	case OneToOne:
		return c.Details
	}
	return nil
}

// Referenced returns the reference whose target is pointed at by the key.
func (c Classification) Referenced() *cim.Reference {
	switch c.Kind {
	case OneToMany:
		return c.One
	case OneToOne:
		return c.Primary
	}
	return nil
}

// Categories returns the categories of the two canonical references.
func Categories(a *cim.Association) (erd.Category, erd.Category, error) {
	r1, r2 := a.Endpoints()
	c1, err := erd.MultiplicityOf(r1)
	if err != nil {
		return 0, 0, fmt.Errorf("association %q first reference: %w", a.Name(), err)
	}
	c2, err := erd.MultiplicityOf(r2)
	if err != nil {
		return 0, 0, fmt.Errorf("association %q second reference: %w", a.Name(), err)
	}
	return c1, c2, nil
}

// IsAssociationToItself reports whether both canonical ends target the same class.
func IsAssociationToItself(a *cim.Association) bool {
	r1, r2 := a.Endpoints()
	return r1.Target() == r2.Target()
}

// IsOneToOne reports whether both ends are ONE or NONE_OR_ONE.
// A missing multiplicity makes it false.
func IsOneToOne(a *cim.Association) bool {
	c1, c2, err := Categories(a)
	if err != nil {
		return false
	}
	return c1.IsSingle() && c2.IsSingle()
}

// Matches reports whether the canonical categories are (x, y) in either order.
func Matches(a *cim.Association, x, y erd.Category) bool {
	c1, c2, err := Categories(a)
	if err != nil {
		return false
	}
	return (c1 == x && c2 == y) || (c1 == y && c2 == x)
}

// oneToManyShapes lists the supported (many, one) pairs.
var oneToManyShapes = [][2]erd.Category{
	{erd.NoneOrMany, erd.One},
	{erd.NoneOrMany, erd.NoneOrOne},
	{erd.Many, erd.One},
}

// Classify determines the shape of a. Combinations outside the supported
// shapes classify as Unsupported; callers skip them.
//
// In a one-to-one association the ONE end is primary when the other end is
// NONE_OR_ONE. When both ends share a category the first-declared end is
// primary, a positional choice rather than a semantic one.
func Classify(a *cim.Association) (Classification, error) {
	c1, c2, err := Categories(a)
	if err != nil {
		return Classification{}, err
	}
	r1, r2 := a.Endpoints()
	cl := Classification{
		Self:      r1.Target() == r2.Target(),
		First:     r1,
		Second:    r2,
		FirstCat:  c1,
		SecondCat: c2,
	}

	for _, shape := range oneToManyShapes {
		many, one := shape[0], shape[1]
		switch {
		case c1 == many && c2 == one:
			cl.Kind, cl.Many, cl.One = OneToMany, r1, r2
		case c2 == many && c1 == one:
			cl.Kind, cl.Many, cl.One = OneToMany, r2, r1
		default:
			continue
		}
		cl.Mandatory = many == erd.Many
		return cl, nil
	}

	if c1.IsSingle() && c2.IsSingle() {
		cl.Kind = OneToOne
		if c1 == erd.NoneOrOne && c2 == erd.One {
			cl.Primary, cl.Details = r2, r1
		} else {
			cl.Primary, cl.Details = r1, r2
		}
	}
	return cl, nil
}

// ReferencedCategory returns the category of the reference pointed at by
// the foreign key. ONE means the key must always be set.
func (c Classification) ReferencedCategory() erd.Category {
	if c.Referenced() == c.First {
		return c.FirstCat
	}
	return c.SecondCat
}

// Required reports whether the foreign key must reference a row.
func (c Classification) Required() bool {
	return c.Kind != Unsupported && c.ReferencedCategory() == erd.One
}
