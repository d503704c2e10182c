package erd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
)

func TestVariants_RoundTrip(t *testing.T) {
	payloads := []cim.Variant{
		erd.NewReferenceMultiplicity(erd.NoneOrOne),
		erd.NewReferenceMultiplicity(erd.Many),
		&erd.PrimaryKey{Key: true, AutoSequence: true},
		&erd.MappingDetails{FieldName: "person_id", Size: 10, Precision: 2},
		erd.NewMappingDetails(""),
		&erd.Font{Name: "Arial", Size: 12, Type: 1},
		&erd.Location{X: -5, Y: 40},
		&erd.Size{Width: 120, Height: 80},
		&erd.Color{R: 255, G: 128, B: 0},
		&erd.Path{Points: []erd.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		&erd.Path{},
		&erd.Type{Name: "String"},
		&erd.ReferenceSuggestedName{Name: "owner"},
		&erd.Description{Text: "A customer of the shop"},
		&erd.Text{Text: "note"},
		&erd.PhysicalLocation{Path: "/tmp/shop.xem"},
		&erd.Entity{},
		&erd.EntityAssociation{},
		&erd.CommentAssociation{},
		&erd.TextCommentAssociation{},
		&erd.TextualComment{},
		&erd.SchemaTransformerPreferences{
			Transformer: "ERD to SQL",
			Properties:  map[string]string{"SQL Dialect": "MySQL", "SQL DDL Script Path": "/out"},
		},
		erd.NewSchemaTransformerPreferences("ERD to JPA"),
	}

	for _, x := range payloads {
		t.Run(x.VariantType()+"/"+x.String(), func(t *testing.T) {
			text, err := x.MarshalText()
			require.NoError(t, err)

			got, err := erd.Variants.Build(x.VariantType(), string(text))
			require.NoError(t, err)
			assert.Equal(t, x, got)
		})
	}
}

func TestVariants_AllRegistered(t *testing.T) {
	assert.Len(t, erd.Variants.Types(), 19)
	_, err := erd.Variants.Build("ErdModelUnknown", "")
	assert.ErrorIs(t, err, cim.ErrUnsupportedVariant)
}

func TestVariants_DocumentText(t *testing.T) {
	tests := []struct {
		tag  string
		text string
		want cim.Variant
	}{
		{erd.TypeReferenceMultiplicity, "NONE-OR-MANY", erd.NewReferenceMultiplicity(erd.NoneOrMany)},
		{erd.TypePrimaryKey, "primaryKey=true,autoSequence=false", &erd.PrimaryKey{Key: true}},
		{erd.TypePrimaryKey, "primaryKey=true", &erd.PrimaryKey{Key: true}},
		{erd.TypePrimaryKey, "autoSequence=true", &erd.PrimaryKey{AutoSequence: true}},
		{erd.TypeMappingDetails, "fieldName=null,fieldSize=-1,fieldPrec=-1", erd.NewMappingDetails("")},
		{erd.TypeMappingDetails, "fieldName=price,fieldSize=10,fieldPrec=2", &erd.MappingDetails{FieldName: "price", Size: 10, Precision: 2}},
		{erd.TypeFont, "font=Dialog,size=12,type=0", &erd.Font{Name: "Dialog", Size: 12}},
		{erd.TypeLocation, "x=10,y=20", &erd.Location{X: 10, Y: 20}},
		{erd.TypeSchemaTransformerPreferences, "transformer=ERD to SQL{SQL Dialect=PostgreSQL}",
			&erd.SchemaTransformerPreferences{Transformer: "ERD to SQL", Properties: map[string]string{"SQL Dialect": "PostgreSQL"}}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := erd.Variants.Build(tt.tag, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariants_BadText(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		text string
	}{
		{"unknown multiplicity", erd.TypeReferenceMultiplicity, "SOME"},
		{"non-boolean key", erd.TypePrimaryKey, "primaryKey=yes,autoSequence=false"},
		{"missing size", erd.TypeMappingDetails, "fieldName=x,fieldPrec=1"},
		{"non-numeric coordinate", erd.TypeLocation, "x=a,y=1"},
		{"bad point", erd.TypePath, "points=1-2"},
		{"preferences without braces", erd.TypeSchemaTransformerPreferences, "transformer=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := erd.Variants.Build(tt.tag, tt.text)
			assert.Error(t, err)
		})
	}
}

func TestCategory_Numbers(t *testing.T) {
	for n := 0; n <= 3; n++ {
		c, err := erd.CategoryFromNumber(n)
		require.NoError(t, err)
		assert.Equal(t, n, c.Number())
	}
	_, err := erd.CategoryFromNumber(4)
	assert.Error(t, err)

	assert.True(t, erd.One.IsSingle())
	assert.True(t, erd.NoneOrOne.IsSingle())
	assert.False(t, erd.Many.IsSingle())
}

func TestPreferences_RejectComma(t *testing.T) {
	p := erd.NewSchemaTransformerPreferences("x")
	p.Properties["list"] = "a,b"
	_, err := p.MarshalText()
	assert.Error(t, err)
}

func TestPreferences_StoreReplaces(t *testing.T) {
	s := erd.BuildSchema("shop")
	assert.Nil(t, erd.Preferences(s, "ERD to SQL"))

	erd.StorePreferences(s, "ERD to SQL", map[string]string{"SQL Dialect": "MySQL"})
	erd.StorePreferences(s, "ERD to JPA", map[string]string{"Package Name": "shop"})
	erd.StorePreferences(s, "ERD to SQL", map[string]string{"SQL Dialect": "Oracle"})

	assert.Len(t, s.QualifiersOf(erd.TypeSchemaTransformerPreferences), 2)
	assert.Equal(t, map[string]string{"SQL Dialect": "Oracle"}, erd.Preferences(s, "ERD to SQL"))
	assert.Equal(t, map[string]string{"Package Name": "shop"}, erd.Preferences(s, "ERD to JPA"))
}

func TestFactory(t *testing.T) {
	s := erd.BuildSchemaAt("shop", "/models/shop.xem")
	loc, err := cim.First[*erd.PhysicalLocation](s)
	require.NoError(t, err)
	assert.Equal(t, "/models/shop.xem", loc.Path)

	person := erd.BuildEntity("Person")
	id := erd.BuildProperty("id", "int", true, true)
	person.AddProperty(id)

	pk, err := cim.First[*erd.PrimaryKey](id)
	require.NoError(t, err)
	assert.True(t, pk.Key)
	assert.True(t, pk.AutoSequence)
	assert.True(t, cim.Has[*erd.MappingDetails](id))
	assert.True(t, cim.Has[*erd.Type](id))

	note := erd.BuildClass("Note")
	r1 := erd.BuildReference(person, erd.One)
	r2 := erd.SuggestName(erd.BuildReference(note, erd.NoneOrMany), "notes")
	a, err := erd.BuildEntityAssociation("has", r1, r2)
	require.NoError(t, err)
	s.Add(person, note, a)

	assert.True(t, erd.IsEntity(person))
	assert.False(t, erd.IsEntity(note))
	assert.False(t, erd.IsEntity(a))
	assert.Equal(t, []*cim.Class{person}, erd.Entities(s))
	assert.Equal(t, []*cim.Reference{r1}, person.Range())

	c, err := erd.MultiplicityOf(r2)
	require.NoError(t, err)
	assert.Equal(t, erd.NoneOrMany, c)
}
