package cim_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/erdgen/pkg/cim"
)

type label struct{ text string }

func (*label) VariantType() string            { return "Label" }
func (l *label) MarshalText() ([]byte, error) { return []byte(l.text), nil }
func (l *label) UnmarshalText(b []byte) error { l.text = string(b); return nil }
func (l *label) String() string               { return l.text }

type weight struct{ n int }

func (*weight) VariantType() string            { return "Weight" }
func (w *weight) MarshalText() ([]byte, error) { return []byte(w.String()), nil }
func (w *weight) UnmarshalText(b []byte) error {
	_, err := fmt.Sscanf(string(b), "n=%d", &w.n)
	return err
}
func (w *weight) String() string { return fmt.Sprintf("n=%d", w.n) }

func TestNewQualifier_RejectsNil(t *testing.T) {
	_, err := cim.NewQualifier(nil)
	assert.ErrorIs(t, err, cim.ErrNilVariant)
	assert.Panics(t, func() { cim.MustQualifier(nil) })
}

func TestRegistry_Build(t *testing.T) {
	reg := cim.NewRegistry()
	reg.Register("Label", func() cim.Variant { return &label{} })
	reg.Register("Weight", func() cim.Variant { return &weight{} })

	tests := []struct {
		name    string
		tag     string
		text    string
		want    cim.Variant
		wantErr error
	}{
		{name: "label", tag: "Label", text: "hello", want: &label{text: "hello"}},
		{name: "weight", tag: "Weight", text: "n=7", want: &weight{n: 7}},
		{name: "unregistered", tag: "Color", text: "r=1", wantErr: cim.ErrUnsupportedVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Build(tt.tag, tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"Label", "Weight"}, reg.Types())
}

func TestRegistry_BuildBadPayload(t *testing.T) {
	reg := cim.NewRegistry()
	reg.Register("Weight", func() cim.Variant { return &weight{} })

	_, err := reg.Build("Weight", "heavy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Weight")
}

func TestElement_QualifierLookups(t *testing.T) {
	c := cim.NewClass("Person")
	first := cim.MustQualifier(&label{text: "a"})
	c.AddQualifier(first)
	c.AddQualifier(cim.MustQualifier(&label{text: "b"}))

	q, err := c.FirstQualifier("Label")
	require.NoError(t, err)
	assert.Same(t, first, q)
	assert.Len(t, c.QualifiersOf("Label"), 2)
	assert.True(t, c.HasQualifier("Label"))
	assert.False(t, c.HasQualifier("Weight"))

	l, err := cim.First[*label](c)
	require.NoError(t, err)
	assert.Equal(t, "a", l.text)
	assert.Len(t, cim.All[*label](c), 2)
	assert.False(t, cim.Has[*weight](c))
}

func TestElement_FirstQualifierNotFound(t *testing.T) {
	p := cim.NewProperty("id")

	q, err := p.FirstQualifier("Weight")
	assert.Nil(t, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, cim.ErrNotFound)

	var lookupErr *cim.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "Weight", lookupErr.Key)

	_, err = cim.First[*weight](p)
	assert.ErrorIs(t, err, cim.ErrNotFound)
}

func TestElement_RemoveQualifier(t *testing.T) {
	c := cim.NewClass("A")
	q := cim.MustQualifier(&label{text: "x"})
	c.AddQualifier(q)

	assert.True(t, c.RemoveQualifier(q))
	assert.False(t, c.RemoveQualifier(q))
	assert.Empty(t, c.Qualifiers())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	c := cim.NewClass("A")
	c.AddProperty(cim.NewProperty("id"))
	c.AddQualifier(cim.MustQualifier(&label{text: "x"}))

	props := c.Properties()
	props[0] = nil
	_ = append(props, cim.NewProperty("extra"))
	quals := c.Qualifiers()
	quals[0] = nil

	require.Len(t, c.Properties(), 1)
	assert.NotNil(t, c.Properties()[0])
	assert.NotNil(t, c.Qualifiers()[0])
}

func TestSchema_AttachesDescendants(t *testing.T) {
	s := cim.NewSchema("shop")
	assert.Same(t, s, s.Schema())

	person := cim.NewClass("Person")
	id := cim.NewProperty("id")
	person.AddProperty(id)
	order := cim.NewClass("Purchase")

	r1 := cim.NewReference(person)
	r2 := cim.NewReference(order)
	a, err := cim.NewAssociation(r1, r2)
	require.NoError(t, err)

	s.Add(person, order, a)

	assert.Same(t, s, person.Schema())
	assert.Same(t, s, id.Schema())
	assert.Same(t, s, r1.Schema())
	assert.Same(t, a, r1.Association())

	late := cim.NewProperty("name")
	person.AddProperty(late)
	assert.Same(t, s, late.Schema())

	got, ok := s.Lookup(late.ID())
	require.True(t, ok)
	assert.Equal(t, "name", got.Name())
}

func TestSchema_FirstOwnerWins(t *testing.T) {
	s1 := cim.NewSchema("one")
	s2 := cim.NewSchema("two")
	c := cim.NewClass("A")

	s1.Add(c)
	s2.Add(c)

	assert.Same(t, s1, c.Schema())
}

func TestSchema_Filters(t *testing.T) {
	s := cim.NewSchema("shop")
	a := cim.NewClass("A")
	a.AddQualifier(cim.MustQualifier(&label{text: "1"}))
	a.AddQualifier(cim.MustQualifier(&label{text: "2"}))
	b := cim.NewClass("B")
	assoc, err := cim.NewAssociation(cim.NewReference(a), cim.NewReference(b))
	require.NoError(t, err)
	assoc.SetName("A")
	s.Add(a, b, assoc)

	assert.Len(t, s.ElementsWith("Label"), 1, "an element matches once")
	assert.Len(t, s.ElementsNamed("A"), 2)
	assert.Len(t, s.ElementsOfKind(cim.KindClass), 2)
	assert.Len(t, s.Classes(), 2)
	assert.Len(t, s.Associations(), 1)
}

func TestSchema_Unique(t *testing.T) {
	s := cim.NewSchema("shop")
	s.Add(cim.NewClass("A"), cim.NewClass("B"), cim.NewClass("B"))

	tests := []struct {
		name    string
		lookup  string
		wantErr error
	}{
		{name: "single", lookup: "A"},
		{name: "missing", lookup: "C", wantErr: cim.ErrNotFound},
		{name: "duplicated", lookup: "B", wantErr: cim.ErrAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := s.Unique(tt.lookup)
			c, cerr := s.UniqueClass(tt.lookup)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, cerr, tt.wantErr)
				assert.Nil(t, e)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NoError(t, cerr)
			assert.Equal(t, tt.lookup, e.Name())
			assert.Equal(t, tt.lookup, c.Name())
		})
	}
}

func TestClass_SupertypeResolvesThroughSchema(t *testing.T) {
	s := cim.NewSchema("zoo")
	animal := cim.NewClass("Animal")
	cat := cim.NewClass("Cat")
	s.Add(animal, cat)

	cat.SetSupertype(animal)

	assert.Same(t, animal, cat.Supertype())
	require.Len(t, animal.Subtypes(), 1)
	assert.Same(t, cat, animal.Subtypes()[0])

	cat.SetSupertype(nil)
	assert.Nil(t, cat.Supertype())
	assert.Empty(t, animal.Subtypes())
}

func TestClass_Range(t *testing.T) {
	target := cim.NewClass("B")
	r := cim.NewReference(target)
	r.AddQualifier(cim.MustQualifier(&label{text: "x"}))
	target.AddRange(r)

	assert.Len(t, target.RangeWith("Label"), 1)
	assert.True(t, target.RemoveRange(r))
	assert.Empty(t, target.Range())
}

func TestNewReference_NilTargetPanics(t *testing.T) {
	assert.Panics(t, func() { cim.NewReference(nil) })
}

func TestNewAssociation(t *testing.T) {
	a, b := cim.NewClass("A"), cim.NewClass("B")

	_, err := cim.NewAssociation(cim.NewReference(a), nil)
	assert.ErrorIs(t, err, cim.ErrTooFewReferences)

	tmpl := cim.NewClass("Owns")
	tmpl.AddQualifier(cim.MustQualifier(&label{text: "t"}))
	tmpl.AddProperty(cim.NewProperty("since"))
	tmpl.AddMethod(cim.NewMethod("renew"))

	r1, r2, r3 := cim.NewReference(a), cim.NewReference(b), cim.NewReference(a)
	assoc, err := cim.NewAssociationFromTemplate(tmpl, r1, r2, r3)
	require.NoError(t, err)

	assert.Equal(t, cim.KindAssociation, assoc.Kind())
	assert.Equal(t, "Owns", assoc.Name())
	assert.Len(t, assoc.Properties(), 1)
	assert.Len(t, assoc.Methods(), 1)
	assert.True(t, assoc.HasQualifier("Label"))
	assert.Len(t, assoc.References(), 3)

	first, second := assoc.Endpoints()
	assert.Same(t, r1, first)
	assert.Same(t, r2, second)
	assert.Same(t, a, first.Target())
}

func TestTriggers(t *testing.T) {
	s := cim.NewSchema("s")
	c := cim.NewClass("A")
	s.Add(c)

	trg := cim.NewTrigger("audit", "INSERT INTO log VALUES (1)")
	c.AddTrigger(trg)

	assert.Same(t, s, trg.Schema())
	assert.Equal(t, "INSERT INTO log VALUES (1)", trg.Body())
	assert.True(t, c.RemoveTrigger(trg))
	assert.Empty(t, c.Triggers())
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	c := cim.NewClass("Busy")
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.AddProperty(cim.NewProperty(fmt.Sprintf("p%d_%d", i, j)))
				c.AddQualifier(cim.MustQualifier(&weight{n: j}))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				for _, p := range c.Properties() {
					_ = p.Name()
				}
				_ = c.QualifiersOf("Weight")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, c.Properties(), 400)
	assert.Len(t, c.Qualifiers(), 400)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Association", cim.KindAssociation.String())
	assert.Equal(t, "Unknown", cim.Kind(99).String())
}
