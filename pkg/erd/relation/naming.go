package relation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
)

// UpperFirst upper-cases the first letter of s and keeps the rest.
// A Caser holds state, so each call gets its own.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return cases.Title(language.Und, cases.NoLower).String(string(r)) + s[n:]
}

// LowerFirst lower-cases the first letter of s and keeps the rest.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}

// AssociationsOf returns the schema associations with an end targeting c,
// in declaration order.
func AssociationsOf(s *cim.Schema, c *cim.Class) []*cim.Association {
	var out []*cim.Association
	for _, a := range s.Associations() {
		r1, r2 := a.Endpoints()
		if r1.Target() == c || r2.Target() == c {
			out = append(out, a)
		}
	}
	return out
}

// ReferenceTo returns the first canonical reference of a targeting c.
func ReferenceTo(a *cim.Association, c *cim.Class) *cim.Reference {
	r1, r2 := a.Endpoints()
	switch c {
	case r1.Target():
		return r1
	case r2.Target():
		return r2
	}
	return nil
}

// SuggestedName returns the suggested field name of r, or "".
func SuggestedName(r *cim.Reference) string {
	if r == nil {
		return ""
	}
	n, err := cim.First[*erd.ReferenceSuggestedName](r)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(n.Name)
}

// KeyProperty returns the primary key property of c.
func KeyProperty(c *cim.Class) (*cim.Property, error) {
	for _, p := range c.Properties() {
		pk, err := cim.First[*erd.PrimaryKey](p)
		if err != nil {
			return nil, fmt.Errorf("class %q property %q: %w", c.Name(), p.Name(), err)
		}
		if pk.Key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("class %q has no primary key: %w", c.Name(), cim.ErrNotFound)
}

// ColumnName returns the mapped column name of p, falling back to its name.
func ColumnName(p *cim.Property) string {
	d, err := cim.First[*erd.MappingDetails](p)
	if err != nil || d.FieldName == "" {
		return p.Name()
	}
	return d.FieldName
}

// ForeignKeyName names the key column a holder class stores for a
// relationship: the suggested name of holderRef when set, otherwise the
// referenced class name followed by its capitalized key column.
func ForeignKeyName(holderRef *cim.Reference, referenced *cim.Class, key *cim.Property) string {
	if n := SuggestedName(holderRef); n != "" {
		return n
	}
	return referenced.Name() + UpperFirst(ColumnName(key))
}
