package erd

import "strings"

// Type names the logical scalar type of a property, e.g. "int" or "String".
type Type struct {
	Name string
}

func (*Type) VariantType() string               { return TypeType }
func (t *Type) String() string                  { return t.Name }
func (t *Type) MarshalText() ([]byte, error)    { return []byte(t.Name), nil }
func (t *Type) UnmarshalText(text []byte) error { t.Name = strings.TrimSpace(string(text)); return nil }

// ReferenceSuggestedName overrides the generated field or column name of a reference.
type ReferenceSuggestedName struct {
	Name string
}

func (*ReferenceSuggestedName) VariantType() string { return TypeReferenceSuggestedName }
func (n *ReferenceSuggestedName) String() string    { return n.Name }
func (n *ReferenceSuggestedName) MarshalText() ([]byte, error) {
	return []byte(n.Name), nil
}
func (n *ReferenceSuggestedName) UnmarshalText(text []byte) error {
	n.Name = strings.TrimSpace(string(text))
	return nil
}

// Description is free text documenting an element.
type Description struct {
	Text string
}

func (*Description) VariantType() string               { return TypeDescription }
func (d *Description) String() string                  { return d.Text }
func (d *Description) MarshalText() ([]byte, error)    { return []byte(d.Text), nil }
func (d *Description) UnmarshalText(text []byte) error { d.Text = string(text); return nil }

// Text is the content of a diagram text box.
type Text struct {
	Text string
}

func (*Text) VariantType() string               { return TypeText }
func (t *Text) String() string                  { return t.Text }
func (t *Text) MarshalText() ([]byte, error)    { return []byte(t.Text), nil }
func (t *Text) UnmarshalText(text []byte) error { t.Text = string(text); return nil }

// PhysicalLocation records the file a schema was loaded from.
type PhysicalLocation struct {
	Path string
}

func (*PhysicalLocation) VariantType() string { return TypePhysicalLocation }
func (l *PhysicalLocation) String() string    { return l.Path }
func (l *PhysicalLocation) MarshalText() ([]byte, error) {
	return []byte(l.Path), nil
}
func (l *PhysicalLocation) UnmarshalText(text []byte) error {
	l.Path = strings.TrimSpace(string(text))
	return nil
}

// Entity marks a class that becomes a table or an entity source file.
type Entity struct{}

func (*Entity) VariantType() string          { return TypeEntity }
func (*Entity) String() string               { return "" }
func (*Entity) MarshalText() ([]byte, error) { return nil, nil }
func (*Entity) UnmarshalText([]byte) error   { return nil }

// EntityAssociation marks an association between two entities.
type EntityAssociation struct{}

func (*EntityAssociation) VariantType() string          { return TypeEntityAssociation }
func (*EntityAssociation) String() string               { return "" }
func (*EntityAssociation) MarshalText() ([]byte, error) { return nil, nil }
func (*EntityAssociation) UnmarshalText([]byte) error   { return nil }

// CommentAssociation marks an association linking a comment to an element.
type CommentAssociation struct{}

func (*CommentAssociation) VariantType() string          { return TypeCommentAssociation }
func (*CommentAssociation) String() string               { return "" }
func (*CommentAssociation) MarshalText() ([]byte, error) { return nil, nil }
func (*CommentAssociation) UnmarshalText([]byte) error   { return nil }

// TextCommentAssociation marks an association linking a text box to an element.
type TextCommentAssociation struct{}

func (*TextCommentAssociation) VariantType() string          { return TypeTextCommentAssociation }
func (*TextCommentAssociation) String() string               { return "" }
func (*TextCommentAssociation) MarshalText() ([]byte, error) { return nil, nil }
func (*TextCommentAssociation) UnmarshalText([]byte) error   { return nil }

// TextualComment marks a class that is a diagram comment rather than an entity.
type TextualComment struct{}

func (*TextualComment) VariantType() string          { return TypeTextualComment }
func (*TextualComment) String() string               { return "" }
func (*TextualComment) MarshalText() ([]byte, error) { return nil, nil }
func (*TextualComment) UnmarshalText([]byte) error   { return nil }
