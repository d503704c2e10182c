package sxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/erdgen/pkg/cim"
)

// ErrNoSchema is returned when a document has no Model/Schema element.
var ErrNoSchema = errors.New("document has no Model/Schema element")

// Reader builds schemas from documents.
type Reader struct {
	// Factory rebuilds qualifier payloads. Required.
	Factory cim.VariantsFactory
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// NewReader creates a reader using factory.
func NewReader(factory cim.VariantsFactory, logger *slog.Logger) *Reader {
	return &Reader{Factory: factory, Logger: logger}
}

// Read parses a document. Any failure returns a *PersistenceError and no schema.
func (r *Reader) Read(in io.Reader) (*cim.Schema, error) {
	s, err := r.read(in)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}
	return s, nil
}

// ReadFile parses the document at path.
func (r *Reader) ReadFile(path string) (*cim.Schema, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided input
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	s, err := r.read(f)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}
	return s, nil
}

func (r *Reader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Reader) read(in io.Reader) (*cim.Schema, error) {
	if r.Factory == nil {
		return nil, errors.New("reader has no variants factory")
	}

	var doc xmlModel
	if err := xml.NewDecoder(in).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Schema == nil {
		return nil, ErrNoSchema
	}

	s := cim.NewSchema(doc.Schema.Name)

	// Schema qualifiers first: translator settings must be visible before
	// any class is processed.
	if err := r.addQualifiers(s, doc.Schema.Qualifiers); err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name(), err)
	}
	addTriggers(s, doc.Schema.Triggers)

	for _, xc := range doc.Schema.Classes {
		c, err := r.readClass(xc)
		if err != nil {
			return nil, err
		}
		s.Add(c)
	}

	for i, xa := range doc.Schema.Associations {
		a, err := r.readAssociation(s, xa)
		if err != nil {
			return nil, fmt.Errorf("association %d (%q): %w", i, xa.Name, err)
		}
		s.Add(a)
	}

	r.logger().Debug("schema read",
		slog.String("schema", s.Name()),
		slog.Int("classes", len(doc.Schema.Classes)),
		slog.Int("associations", len(doc.Schema.Associations)))
	return s, nil
}

func (r *Reader) readClass(xc xmlClass) (*cim.Class, error) {
	c := cim.NewClass(xc.Name)
	if err := r.fillClass(c, xc); err != nil {
		return nil, fmt.Errorf("class %q: %w", xc.Name, err)
	}
	return c, nil
}

// fillClass reads qualifiers, then properties, then methods.
func (r *Reader) fillClass(c *cim.Class, xc xmlClass) error {
	if err := r.addQualifiers(c, xc.Qualifiers); err != nil {
		return err
	}
	addTriggers(c, xc.Triggers)

	for _, xp := range xc.Properties {
		p := cim.NewProperty(xp.Name)
		if err := r.addQualifiers(p, xp.Qualifiers); err != nil {
			return fmt.Errorf("property %q: %w", xp.Name, err)
		}
		addTriggers(p, xp.Triggers)
		c.AddProperty(p)
	}
	for _, xm := range xc.Methods {
		m := cim.NewMethod(xm.Name)
		if err := r.addQualifiers(m, xm.Qualifiers); err != nil {
			return fmt.Errorf("method %q: %w", xm.Name, err)
		}
		addTriggers(m, xm.Triggers)
		c.AddMethod(m)
	}
	return nil
}

// readAssociation resolves reference targets against the schema built so
// far, i.e. every class and every earlier association.
func (r *Reader) readAssociation(s *cim.Schema, xa xmlAssociation) (*cim.Association, error) {
	if len(xa.References) < 2 {
		return nil, fmt.Errorf("%d references: %w", len(xa.References), cim.ErrTooFewReferences)
	}

	tmpl := cim.NewClass(xa.Name)
	if xa.Template != nil {
		if err := r.fillClass(tmpl, *xa.Template); err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
		if xa.Template.Name != "" {
			tmpl.SetName(xa.Template.Name)
		}
	}

	refs := make([]*cim.Reference, 0, len(xa.References))
	for _, xr := range xa.References {
		target, err := s.UniqueClass(xr.ClassName)
		if err != nil {
			return nil, fmt.Errorf("reference target: %w", err)
		}
		ref := cim.NewReference(target)
		ref.SetName(xr.Name)
		if err := r.addQualifiers(ref, xr.Qualifiers); err != nil {
			return nil, fmt.Errorf("reference to %q: %w", xr.ClassName, err)
		}
		addTriggers(ref, xr.Triggers)
		refs = append(refs, ref)
	}

	a, err := cim.NewAssociationFromTemplate(tmpl, refs[0], refs[1], refs[2:]...)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		ref.Target().AddRange(ref)
	}
	return a, nil
}

func (r *Reader) addQualifiers(e cim.Element, xqs []xmlQualifier) error {
	for _, xq := range xqs {
		v, err := r.Factory.Build(xq.Type, strings.TrimSpace(xq.Text))
		if err != nil {
			return err
		}
		q, err := cim.NewQualifier(v)
		if err != nil {
			return err
		}
		e.AddQualifier(q)
	}
	return nil
}

func addTriggers(e cim.Element, xts []xmlTrigger) {
	for _, xt := range xts {
		e.AddTrigger(cim.NewTrigger(xt.Name, xt.Body))
	}
}
