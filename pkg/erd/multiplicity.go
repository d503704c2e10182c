package erd

import "fmt"

// Category is the multiplicity of one end of a relationship.
type Category int

// Multiplicity categories, numbered as stored by older documents.
const (
	NoneOrOne Category = iota
	One
	NoneOrMany
	Many
)

var categoryText = map[Category]string{
	NoneOrOne:  "NONE-OR-ONE",
	One:        "ONE",
	NoneOrMany: "NONE-OR-MANY",
	Many:       "MANY",
}

func (c Category) String() string {
	if s, ok := categoryText[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// Number returns the numeric code of c.
func (c Category) Number() int {
	return int(c)
}

// IsSingle reports whether c allows at most one instance.
func (c Category) IsSingle() bool {
	return c == NoneOrOne || c == One
}

// ParseCategory parses the text form of a category.
func ParseCategory(text string) (Category, error) {
	for c, s := range categoryText {
		if s == text {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown multiplicity %q", text)
}

// CategoryFromNumber maps a numeric code to a category.
func CategoryFromNumber(n int) (Category, error) {
	c := Category(n)
	if _, ok := categoryText[c]; !ok {
		return 0, fmt.Errorf("can't map a category for value %d", n)
	}
	return c, nil
}

// ReferenceMultiplicity qualifies a reference with its category.
type ReferenceMultiplicity struct {
	Category Category
}

// NewReferenceMultiplicity returns a multiplicity payload.
func NewReferenceMultiplicity(c Category) *ReferenceMultiplicity {
	return &ReferenceMultiplicity{Category: c}
}

func (*ReferenceMultiplicity) VariantType() string { return TypeReferenceMultiplicity }

func (m *ReferenceMultiplicity) String() string { return m.Category.String() }

func (m *ReferenceMultiplicity) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ReferenceMultiplicity) UnmarshalText(text []byte) error {
	c, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	m.Category = c
	return nil
}
