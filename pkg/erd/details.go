package erd

import (
	"fmt"
	"strconv"
	"strings"
)

// PrimaryKey marks whether a property is the key and whether it is generated.
type PrimaryKey struct {
	Key          bool
	AutoSequence bool
}

func (*PrimaryKey) VariantType() string { return TypePrimaryKey }

func (k *PrimaryKey) String() string {
	return fmt.Sprintf("primaryKey=%t,autoSequence=%t", k.Key, k.AutoSequence)
}

func (k *PrimaryKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PrimaryKey) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	k.Key = r.bool("primaryKey")
	k.AutoSequence = r.bool("autoSequence")
	return r.err
}

// MappingDetails carries storage hints for a property.
// Size and Precision are -1 when unset.
type MappingDetails struct {
	FieldName string
	Size      int
	Precision int
}

// NewMappingDetails returns mapping details with unset size and precision.
func NewMappingDetails(fieldName string) *MappingDetails {
	return &MappingDetails{FieldName: fieldName, Size: -1, Precision: -1}
}

func (*MappingDetails) VariantType() string { return TypeMappingDetails }

func (d *MappingDetails) String() string {
	return "fieldName=" + d.FieldName +
		",fieldSize=" + strconv.Itoa(d.Size) +
		",fieldPrec=" + strconv.Itoa(d.Precision)
}

func (d *MappingDetails) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *MappingDetails) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	name := r.pairs["fieldName"]
	if name == "null" {
		name = ""
	}
	d.FieldName = name
	d.Size = r.int("fieldSize")
	d.Precision = r.int("fieldPrec")
	return r.err
}

// Font is the display font of a diagram element.
type Font struct {
	Name string
	Size int
	Type int
}

func (*Font) VariantType() string { return TypeFont }

func (f *Font) String() string {
	return fmt.Sprintf("font=%s,size=%d,type=%d", f.Name, f.Size, f.Type)
}

func (f *Font) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Font) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	f.Name = r.str("font")
	f.Size = r.int("size")
	f.Type = r.int("type")
	return r.err
}

// Location is the diagram position of an element.
type Location struct {
	X, Y int
}

func (*Location) VariantType() string { return TypeLocation }

func (l *Location) String() string { return fmt.Sprintf("x=%d,y=%d", l.X, l.Y) }

func (l *Location) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Location) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	l.X = r.int("x")
	l.Y = r.int("y")
	return r.err
}

// Size is the diagram extent of an element.
type Size struct {
	Width, Height int
}

func (*Size) VariantType() string { return TypeSize }

func (s *Size) String() string { return fmt.Sprintf("width=%d,height=%d", s.Width, s.Height) }

func (s *Size) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Size) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	s.Width = r.int("width")
	s.Height = r.int("height")
	return r.err
}

// Color is an RGB display color.
type Color struct {
	R, G, B int
}

func (*Color) VariantType() string { return TypeColor }

func (c *Color) String() string { return fmt.Sprintf("r=%d,g=%d,b=%d", c.R, c.G, c.B) }

func (c *Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	c.R = r.int("r")
	c.G = r.int("g")
	c.B = r.int("b")
	return r.err
}

// Point is one vertex of a Path.
type Point struct {
	X, Y int
}

// Path is the routed line of an association on the diagram.
type Path struct {
	Points []Point
}

func (*Path) VariantType() string { return TypePath }

func (p *Path) String() string {
	parts := make([]string, len(p.Points))
	for i, pt := range p.Points {
		parts[i] = strconv.Itoa(pt.X) + ":" + strconv.Itoa(pt.Y)
	}
	return "points=" + strings.Join(parts, ";")
}

func (p *Path) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Path) UnmarshalText(text []byte) error {
	r := readPairs(string(text))
	raw := r.str("points")
	if r.err != nil {
		return r.err
	}
	p.Points = nil
	if raw == "" {
		return nil
	}
	for _, item := range strings.Split(raw, ";") {
		xs, ys, ok := strings.Cut(item, ":")
		if !ok {
			return fmt.Errorf("point %q: want x:y", item)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return fmt.Errorf("point %q: %w", item, err)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return fmt.Errorf("point %q: %w", item, err)
		}
		p.Points = append(p.Points, Point{X: x, Y: y})
	}
	return nil
}
