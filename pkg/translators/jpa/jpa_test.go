package jpa_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/erdgen/internal/testutil"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/dialects/mysql"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/translator"
	"github.com/leapstack-labs/erdgen/pkg/translators/jpa"
	"github.com/leapstack-labs/erdgen/pkg/translators/sqlddl"
)

func entity(name string) *cim.Class {
	c := erd.BuildEntity(name)
	c.AddProperty(erd.BuildProperty("id", "int", true, false))
	return c
}

func relate(t *testing.T, s *cim.Schema, a *cim.Class, ca erd.Category, b *cim.Class, cb erd.Category) *cim.Association {
	t.Helper()
	assoc, err := erd.BuildEntityAssociation(a.Name()+"_"+b.Name(), erd.BuildReference(a, ca), erd.BuildReference(b, cb))
	require.NoError(t, err)
	s.Add(assoc)
	return assoc
}

func render(t *testing.T, s *cim.Schema) map[string]string {
	t.Helper()
	files, err := jpa.Render(s, "idetest.data", testutil.NewTestLogger(t))
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Name] = string(f.Content)
	}
	return out
}

func personOrder(t *testing.T) *cim.Schema {
	t.Helper()
	s := erd.BuildSchema("people")
	person := erd.BuildEntity("Person")
	person.AddProperty(erd.BuildProperty("id", "int", true, true))
	order := entity("Order")
	s.Add(person, order)
	relate(t, s, person, erd.One, order, erd.NoneOrMany)
	return s
}

func TestRender_PersonOrder(t *testing.T) {
	files := render(t, personOrder(t))
	require.Len(t, files, 2)

	want := `package idetest.data;

import java.io.Serializable;
import javax.persistence.Column;
import javax.persistence.Entity;
import javax.persistence.Id;
import javax.persistence.JoinColumn;
import javax.persistence.ManyToOne;
import javax.persistence.Table;
import javax.persistence.Version;

@Entity
@Table(name="Order")
public class Order implements Serializable {

	@Id
	@Column(name="id")
	private int id;

	@Version
	@Column(name="theVersionOfTheRecord")
	private int theVersionOfTheRecord;

	@ManyToOne
	@JoinColumn(name="PersonId")
	private Person person;


	public int getId(){
		return id;
	}
	public void setId(int id){
		this.id = id;
	}

	public int getRecordVersion(){
		return theVersionOfTheRecord;
	}

	public Person getPerson(){
		return person;
	}
	public void setPerson(Person person){
		this.person = person;
	}
}
`
	assert.Equal(t, want, files["Order.java"])

	person := files["Person.java"]
	assert.Contains(t, person, "\t@Id\n\t@GeneratedValue(strategy=GenerationType.AUTO)\n\t@Column(name=\"id\")\n")
	assert.Contains(t, person, "\t@OneToMany(mappedBy=\"person\")\n\tprivate Collection<Order> order = new ArrayList<>();\n")
	assert.Contains(t, person, "\tpublic Collection<Order> getOrder(){\n\t\treturn order;\n\t}\n")
	assert.Contains(t, person, "\tpublic void addOrder(Order item){\n\t\tthis.order.add(item);\n\t\tif(item.getPerson() != this){\n\t\t\titem.setPerson(this);\n\t\t}\n\t}\n")
	assert.Contains(t, person, "import java.util.ArrayList;\nimport java.util.Collection;\n")
	assert.NotContains(t, person, "JoinColumn")
	assert.NotContains(t, person, "@Size")
}

func TestRender_Shop(t *testing.T) {
	files := render(t, testutil.NewShop(t).Schema)
	assert.Len(t, files, 3, "comments are not entities")

	customer := files["Customer.java"]
	assert.Contains(t, customer, "\t@Basic\n\t@Column(name=\"full_name\")\n\tprivate String name;\n")
	assert.Contains(t, customer, "\t@OneToMany(mappedBy=\"customer\")\n\tprivate Collection<Purchase> purchase")
	assert.Contains(t, customer, "import javax.persistence.Basic;\n")

	purchase := files["Purchase.java"]
	assert.Contains(t, purchase, "\t@ManyToOne\n\t@JoinColumn(name=\"CustomerId\")\n\tprivate Customer customer;\n")
	assert.Contains(t, purchase, "\t@OneToOne(mappedBy=\"billedPurchase\")\n\tprivate Invoice invoice;\n")
	assert.Contains(t, purchase, "\tprivate long id;\n")
	assert.Contains(t, purchase, "\tprivate double total;\n")
	assert.NotContains(t, purchase, "@NotNull")

	invoice := files["Invoice.java"]
	assert.Contains(t, invoice, "\t@OneToOne\n\t@JoinColumn(name=\"billedPurchase\", nullable = false)\n\tprivate Purchase billedPurchase;\n")
	assert.Contains(t, invoice, "\tpublic Purchase getBilledPurchase(){\n")
	assert.Contains(t, invoice, "\tpublic void setBilledPurchase(Purchase billedPurchase){\n")
}

func TestRender_ManyToOneNullabilityMatchesDDL(t *testing.T) {
	tests := []struct {
		name        string
		one, many   erd.Category
		wantNotNull bool
	}{
		{"one to many", erd.One, erd.Many, true},
		{"one to optional many", erd.One, erd.NoneOrMany, false},
		{"optional one to many", erd.NoneOrOne, erd.Many, true},
		{"optional one to optional many", erd.NoneOrOne, erd.NoneOrMany, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := erd.BuildSchema("people")
			person, order := entity("Person"), entity("Order")
			s.Add(person, order)
			relate(t, s, person, tt.one, order, tt.many)

			plan, err := sqlddl.BuildPlan(s, testutil.NewTestLogger(t))
			require.NoError(t, err)
			script, err := sqlddl.Generate(plan, mysql.MySQL)
			require.NoError(t, err)
			sqlNotNull := strings.Contains(string(script), "\tPersonId INT NOT NULL,\n")

			src := render(t, s)["Order.java"]
			jpaNotNull := strings.Contains(src, "@JoinColumn(name=\"PersonId\", nullable = false)")

			assert.Equal(t, tt.wantNotNull, sqlNotNull, string(script))
			assert.Equal(t, sqlNotNull, jpaNotNull, src)
		})
	}
}

func TestRelationships_Roles(t *testing.T) {
	tests := []struct {
		name   string
		ca, cb erd.Category
		a, b   jpa.Relationship
	}{
		{
			name: "many to one",
			ca:   erd.Many, cb: erd.One,
			a: jpa.Relationship{Role: jpa.ManyToOne, Field: "b", JoinColumn: "BId", Mandatory: true},
			b: jpa.Relationship{Role: jpa.OneToMany, Field: "a", MappedBy: "b", Mandatory: true},
		},
		{
			name: "optional many to optional one",
			ca:   erd.NoneOrMany, cb: erd.NoneOrOne,
			a: jpa.Relationship{Role: jpa.ManyToOne, Field: "b", JoinColumn: "BId"},
			b: jpa.Relationship{Role: jpa.OneToMany, Field: "a", MappedBy: "b"},
		},
		{
			name: "one to one",
			ca:   erd.One, cb: erd.One,
			a: jpa.Relationship{Role: jpa.PrimaryOneToOne, Field: "b", MappedBy: "a", Mandatory: true},
			b: jpa.Relationship{Role: jpa.DetailsOneToOne, Field: "a", JoinColumn: "AId", Mandatory: true},
		},
		{
			name: "optional one to one",
			ca:   erd.NoneOrOne, cb: erd.NoneOrOne,
			a: jpa.Relationship{Role: jpa.PrimaryOneToOne, Field: "b", MappedBy: "a"},
			b: jpa.Relationship{Role: jpa.UniqueManyToOne, Field: "a", JoinColumn: "AId"},
		},
		{
			name: "optional details",
			ca:   erd.NoneOrOne, cb: erd.One,
			a: jpa.Relationship{Role: jpa.DetailsOneToOne, Field: "b", JoinColumn: "BId", Mandatory: true},
			b: jpa.Relationship{Role: jpa.PrimaryOneToOne, Field: "a", MappedBy: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := erd.BuildSchema("roles")
			a, b := entity("A"), entity("B")
			s.Add(a, b)
			assoc := relate(t, s, a, tt.ca, b, tt.cb)

			check := func(c *cim.Class, want jpa.Relationship, target *cim.Class) {
				t.Helper()
				rels, err := jpa.Relationships(s, c, nil)
				require.NoError(t, err)
				require.Len(t, rels, 1)
				want.Association = assoc
				want.Target = target
				assert.Equal(t, want, rels[0])
			}
			check(a, tt.a, b)
			check(b, tt.b, a)
		})
	}
}

func TestRender_SelfOneToMany(t *testing.T) {
	s := erd.BuildSchema("staff")
	emp := entity("Employee")
	s.Add(emp)
	assoc, err := erd.BuildEntityAssociation("manages",
		erd.BuildReference(emp, erd.NoneOrOne),
		erd.SuggestName(erd.BuildReference(emp, erd.NoneOrMany), "reports"))
	require.NoError(t, err)
	s.Add(assoc)

	rels, err := jpa.Relationships(s, emp, nil)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, jpa.SelfOneToMany, rels[0].Role)
	assert.Equal(t, "parentReports", rels[0].Parent())
	assert.Equal(t, "reports", rels[0].JoinColumn)

	src := render(t, s)["Employee.java"]
	assert.Contains(t, src, "\t@ManyToOne(optional=true)\n\t@JoinColumn(name=\"reports\")\n\tprivate Employee parentReports;\n")
	assert.Contains(t, src, "\t@OneToMany(mappedBy=\"parentReports\")\n\tprivate Collection<Employee> reports = new ArrayList<>();\n")
	assert.Contains(t, src, "\tpublic Employee getParentReports(){\n")
	assert.Contains(t, src, "\tpublic void addReports(Employee employee){\n\t\tthis.reports.add(employee);\n\t\tif(employee.getParentReports() != this){\n\t\t\temployee.setParentReports(this);\n")
}

func TestRender_SelfOneToOne(t *testing.T) {
	s := erd.BuildSchema("chain")
	link := entity("Link")
	s.Add(link)
	relate(t, s, link, erd.One, link, erd.NoneOrOne)

	src := render(t, s)["Link.java"]
	assert.Contains(t, src, "\t@OneToOne(optional=false)\n\t@JoinColumn(name=\"LinkId\", nullable = false)\n\tprivate Link parentLink;\n")
	assert.Contains(t, src, "\t@OneToOne(mappedBy=\"parentLink\")\n\tprivate Link link;\n")
	assert.Contains(t, src, "\tpublic void setLink(Link link){\n")
	assert.Contains(t, src, "\tpublic void setParentLink(Link parentLink){\n")
}

func TestRender_TemporalAndValidation(t *testing.T) {
	s := erd.BuildSchema("events")
	ev := entity("Event")
	ev.AddProperty(erd.BuildProperty("startsAt", "Date", false, false))
	ev.AddProperty(erd.BuildProperty("opensAt", "time", false, false))
	slot := entity("Slot")
	s.Add(ev, slot)
	relate(t, s, ev, erd.One, slot, erd.Many)

	src := render(t, s)["Event.java"]
	assert.Contains(t, src, "\t@Temporal(TemporalType.TIMESTAMP)\n\t@Column(name=\"startsAt\")\n\tprivate Date startsAt;\n")
	assert.Contains(t, src, "\t@Temporal(TemporalType.TIME)\n\t@Column(name=\"opensAt\")\n\tprivate Date opensAt;\n")
	assert.Contains(t, src, "\t@OneToMany(mappedBy=\"event\")\n\t@Size(min = 1)\n")
	for _, imp := range []string{"java.util.Date", "javax.persistence.Temporal", "javax.persistence.TemporalType", "javax.validation.constraints.Size"} {
		assert.Contains(t, src, "import "+imp+";\n")
	}
	assert.NotContains(t, src, "javax.persistence.Basic")
}

func TestRender_NotNullPrimary(t *testing.T) {
	s := erd.BuildSchema("pairs")
	a, b := entity("Husband"), entity("Wife")
	s.Add(a, b)
	relate(t, s, a, erd.One, b, erd.One)

	src := render(t, s)["Husband.java"]
	assert.Contains(t, src, "\t@OneToOne(mappedBy=\"husband\")\n\t@NotNull\n\tprivate Wife wife;\n")
	assert.Contains(t, src, "import javax.validation.constraints.NotNull;\n")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *cim.Schema
		want  error
	}{
		{
			name: "unmapped type",
			build: func(t *testing.T) *cim.Schema {
				s := erd.BuildSchema("bad")
				c := entity("Blob")
				c.AddProperty(erd.BuildProperty("data", "blob", false, false))
				s.Add(c)
				return s
			},
			want: jpa.ErrUnmappedType,
		},
		{
			name: "missing primary key qualifier",
			build: func(t *testing.T) *cim.Schema {
				s := erd.BuildSchema("bad")
				c := entity("Thing")
				c.AddProperty(cim.NewProperty("loose"))
				s.Add(c)
				return s
			},
			want: cim.ErrNotFound,
		},
		{
			name: "field clashes with relationship",
			build: func(t *testing.T) *cim.Schema {
				s := erd.BuildSchema("bad")
				person := entity("Person")
				order := entity("Order")
				order.AddProperty(erd.BuildProperty("person", "String", false, false))
				s.Add(person, order)
				relate(t, s, person, erd.One, order, erd.NoneOrMany)
				return s
			},
			want: cim.ErrAmbiguous,
		},
		{
			name: "duplicate entity",
			build: func(t *testing.T) *cim.Schema {
				s := erd.BuildSchema("bad")
				s.Add(entity("Twin"), entity("Twin"))
				return s
			},
			want: cim.ErrAmbiguous,
		},
		{
			name: "referenced class without key",
			build: func(t *testing.T) *cim.Schema {
				s := erd.BuildSchema("bad")
				keyless, child := erd.BuildEntity("Keyless"), entity("Child")
				s.Add(keyless, child)
				relate(t, s, keyless, erd.One, child, erd.NoneOrMany)
				return s
			},
			want: cim.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jpa.Render(tt.build(t), "idetest.data", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		logical  string
		name     string
		temporal string
	}{
		{"boolean", "boolean", ""},
		{"String", "String", ""},
		{"string", "String", ""},
		{"long", "long", ""},
		{"Date", "Date", "TIMESTAMP"},
		{"time", "Date", "TIME"},
	}
	for _, tt := range tests {
		t.Run(tt.logical, func(t *testing.T) {
			jt, err := jpa.TypeOf(tt.logical)
			require.NoError(t, err)
			assert.Equal(t, tt.name, jt.Name)
			assert.Equal(t, tt.temporal, jt.Temporal)
		})
	}

	_, err := jpa.TypeOf("decimal")
	assert.ErrorIs(t, err, jpa.ErrUnmappedType)
}

func TestValidPackageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"idetest.data", true},
		{"com.example.shop_v2", true},
		{"single", true},
		{"", false},
		{"com..example", false},
		{"com.1example", false},
		{"com.example.class", false},
		{"com-example", false},
		{"com.example.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jpa.ValidPackageName(tt.name))
		})
	}
}

func TestTranslator_Contract(t *testing.T) {
	tr, err := translator.New(jpa.Name, nil)
	require.NoError(t, err)
	assert.Equal(t, "xem", tr.Source())
	assert.Equal(t, "java", tr.Target())
	assert.Equal(t, jpa.Name, tr.Name())
	assert.Equal(t, map[string]any{
		jpa.PropPackageName: "idetest.data",
		jpa.PropPackagePath: "./data",
	}, tr.Properties())

	meta := tr.PropertiesMetadata()
	assert.Equal(t, translator.String, meta[jpa.PropPackageName].Type)
	assert.Equal(t, translator.Path, meta[jpa.PropPackagePath].Type)
}

func TestTranslator_ValidateProperties(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "data"), 0o750))

	tests := []struct {
		name   string
		props  map[string]any
		valid  bool
		errors int
	}{
		{name: "defaults with existing dir", props: nil, valid: true},
		{name: "missing dir", props: map[string]any{jpa.PropPackagePath: "./missing"}, errors: 1},
		{name: "bad package", props: map[string]any{jpa.PropPackageName: "com.1bad"}, errors: 1},
		{name: "both wrong", props: map[string]any{jpa.PropPackageName: "", jpa.PropPackagePath: "nope"}, errors: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := jpa.New(nil).ValidateProperties(out, tt.props)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Len(t, res.Errors, tt.errors)
		})
	}
}

func TestTranslator_Translate(t *testing.T) {
	out := t.TempDir()
	tr := jpa.New(testutil.NewTestLogger(t))
	require.NoError(t, tr.SetProperties(map[string]any{
		jpa.PropPackageName: "com.example.shop",
		jpa.PropPackagePath: "src/com/example/shop",
	}))

	require.NoError(t, tr.Translate(testutil.NewShop(t).Schema, out))

	dir := filepath.Join(out, "src", "com", "example", "shop")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"Customer.java", "Purchase.java", "Invoice.java"}, names)

	src, err := os.ReadFile(filepath.Join(dir, "Customer.java"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "package com.example.shop;\n"))
}

func TestTranslator_FailureWritesNothing(t *testing.T) {
	out := t.TempDir()
	s := testutil.NewShop(t).Schema
	bad := entity("Broken")
	bad.AddProperty(erd.BuildProperty("payload", "blob", false, false))
	s.Add(bad)

	err := jpa.New(nil).Translate(s, out)
	require.Error(t, err)

	var terr *translator.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, jpa.Name, terr.Translator)
	assert.Equal(t, "shop", terr.Schema)
	assert.ErrorIs(t, err, jpa.ErrUnmappedType)

	_, statErr := os.Stat(filepath.Join(out, "data"))
	assert.True(t, os.IsNotExist(statErr))
}
