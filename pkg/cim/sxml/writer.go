package sxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/erdgen/pkg/cim"
)

// Writer serializes schemas depth-first: qualifiers, then triggers, then
// the kind-specific children of each element.
type Writer struct {
	// Indent is the per-level indentation. Empty writes a single line.
	Indent string
}

// NewWriter creates a writer that indents with two spaces.
func NewWriter() *Writer {
	return &Writer{Indent: "  "}
}

// Write encodes s to out. The document is rendered in memory first, so a
// failure writes nothing.
func (w *Writer) Write(out io.Writer, s *cim.Schema) error {
	var buf bytes.Buffer
	if err := w.render(&buf, s); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// WriteFile encodes s to path, creating parent directories.
func (w *Writer) WriteFile(path string, s *cim.Schema) error {
	var buf bytes.Buffer
	if err := w.render(&buf, s); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (w *Writer) render(buf *bytes.Buffer, s *cim.Schema) error {
	if s == nil {
		return fmt.Errorf("nil schema")
	}
	buf.WriteString(xml.Header)

	enc := &encoder{Encoder: xml.NewEncoder(buf)}
	enc.Indent("", w.Indent)

	model := xml.StartElement{Name: xml.Name{Local: "Model"}}
	if err := enc.EncodeToken(model); err != nil {
		return err
	}
	if err := enc.element(s); err != nil {
		return err
	}
	if err := enc.EncodeToken(model.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return nil
}

type encoder struct {
	*xml.Encoder
}

type elementWriter func(enc *encoder, e cim.Element) error

// writers selects the element writer for each kind.
var writers map[cim.Kind]elementWriter

func init() {
	writers = map[cim.Kind]elementWriter{
		cim.KindSchema:      writeSchema,
		cim.KindClass:       writeClass,
		cim.KindAssociation: writeAssociation,
		cim.KindProperty:    writeMember,
		cim.KindMethod:      writeMember,
		cim.KindReference:   writeReference,
		cim.KindTrigger:     writeTrigger,
	}
}

func (enc *encoder) element(e cim.Element) error {
	write, ok := writers[e.Kind()]
	if !ok {
		return fmt.Errorf("no writer for %s %q", e.Kind(), e.Name())
	}
	return write(enc, e)
}

func (enc *encoder) open(local string, attrs ...xml.Attr) (xml.StartElement, error) {
	start := xml.StartElement{Name: xml.Name{Local: local}, Attr: attrs}
	return start, enc.EncodeToken(start)
}

func (enc *encoder) close(start xml.StartElement) error {
	return enc.EncodeToken(start.End())
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// named writes the common attributes of e.
func named(e cim.Element) []xml.Attr {
	attrs := []xml.Attr{attr("Name", e.Name())}
	if s := e.Schema(); s != nil {
		attrs = append(attrs, attr("SchemaName", s.Name()))
	}
	return attrs
}

// common writes qualifiers, then triggers.
func (enc *encoder) common(e cim.Element) error {
	for _, q := range e.Qualifiers() {
		if err := writeQualifier(enc, q); err != nil {
			return err
		}
	}
	for _, t := range e.Triggers() {
		if err := enc.element(t); err != nil {
			return err
		}
	}
	return nil
}

func writeQualifier(enc *encoder, q *cim.Qualifier) error {
	text, err := q.Variant().MarshalText()
	if err != nil {
		return fmt.Errorf("qualifier %s: %w", q.VariantType(), err)
	}
	start, err := enc.open("Qualifier", attr("Type", q.VariantType()))
	if err != nil {
		return err
	}
	if len(text) > 0 {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.close(start)
}

func writeTrigger(enc *encoder, e cim.Element) error {
	t, ok := e.(*cim.Trigger)
	if !ok {
		return fmt.Errorf("trigger writer got %T", e)
	}
	start, err := enc.open("Trigger", attr("Name", t.Name()))
	if err != nil {
		return err
	}
	if body := t.Body(); body != "" {
		if err := enc.EncodeToken(xml.CharData(body)); err != nil {
			return err
		}
	}
	return enc.close(start)
}

func writeSchema(enc *encoder, e cim.Element) error {
	s, ok := e.(*cim.Schema)
	if !ok {
		return fmt.Errorf("schema writer got %T", e)
	}
	start, err := enc.open("Schema", attr("Name", s.Name()))
	if err != nil {
		return err
	}
	if err := enc.common(s); err != nil {
		return err
	}
	// Classes before associations: a reader resolves references against
	// the classes it has already seen.
	for _, c := range s.Classes() {
		if err := enc.element(c); err != nil {
			return err
		}
	}
	for _, a := range s.Associations() {
		if err := enc.element(a); err != nil {
			return err
		}
	}
	return enc.close(start)
}

func writeClass(enc *encoder, e cim.Element) error {
	c := cim.AsClass(e)
	if c == nil {
		return fmt.Errorf("class writer got %T", e)
	}
	start, err := enc.open("Class", named(c)...)
	if err != nil {
		return err
	}
	if err := enc.classBody(c); err != nil {
		return err
	}
	return enc.close(start)
}

func (enc *encoder) classBody(c *cim.Class) error {
	if err := enc.common(c); err != nil {
		return err
	}
	for _, p := range c.Properties() {
		if err := enc.element(p); err != nil {
			return err
		}
	}
	for _, m := range c.Methods() {
		if err := enc.element(m); err != nil {
			return err
		}
	}
	return nil
}

// writeAssociation nests the association's own class data in a template
// Class element, followed by its references.
func writeAssociation(enc *encoder, e cim.Element) error {
	a, ok := e.(*cim.Association)
	if !ok {
		return fmt.Errorf("association writer got %T", e)
	}
	start, err := enc.open("Association", named(a)...)
	if err != nil {
		return err
	}
	if err := writeClass(enc, a); err != nil {
		return err
	}
	for _, r := range a.References() {
		if err := enc.element(r); err != nil {
			return err
		}
	}
	return enc.close(start)
}

func writeMember(enc *encoder, e cim.Element) error {
	local := "Property"
	if e.Kind() == cim.KindMethod {
		local = "Method"
	}
	start, err := enc.open(local, attr("Name", e.Name()))
	if err != nil {
		return err
	}
	if err := enc.common(e); err != nil {
		return err
	}
	return enc.close(start)
}

func writeReference(enc *encoder, e cim.Element) error {
	r, ok := e.(*cim.Reference)
	if !ok {
		return fmt.Errorf("reference writer got %T", e)
	}
	attrs := []xml.Attr{attr("ClassName", r.Target().Name())}
	if r.Name() != "" {
		attrs = append(attrs, attr("Name", r.Name()))
	}
	start, err := enc.open("Reference", attrs...)
	if err != nil {
		return err
	}
	if err := enc.common(r); err != nil {
		return err
	}
	return enc.close(start)
}
