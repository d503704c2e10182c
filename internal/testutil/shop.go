package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
)

// ShopDocument is a small schema document: customers place purchases, and
// each purchase has an optional one-to-one invoice.
const ShopDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Model>
  <Schema Name="shop">
    <Qualifier Type="SchemaTransformerPreferences">transformer=ERD to SQL{SQL Dialect=PostgreSQL}</Qualifier>
    <Class Name="Customer" SchemaName="shop">
      <Qualifier Type="ErdModelEntity"></Qualifier>
      <Qualifier Type="ErdModelLocation">x=10,y=20</Qualifier>
      <Property Name="id">
        <Qualifier Type="ErdModelType">int</Qualifier>
        <Qualifier Type="ErdModelPrimaryKey">primaryKey=true,autoSequence=true</Qualifier>
        <Qualifier Type="ErdModelMappingDetails">fieldName=null,fieldSize=-1,fieldPrec=-1</Qualifier>
      </Property>
      <Property Name="name">
        <Qualifier Type="ErdModelType">String</Qualifier>
        <Qualifier Type="ErdModelPrimaryKey">primaryKey=false,autoSequence=false</Qualifier>
        <Qualifier Type="ErdModelMappingDetails">fieldName=full_name,fieldSize=120,fieldPrec=-1</Qualifier>
      </Property>
      <Method Name="rename">
        <Qualifier Type="ErdModelDescription">Changes the display name</Qualifier>
      </Method>
    </Class>
    <Class Name="Purchase" SchemaName="shop">
      <Qualifier Type="ErdModelEntity"></Qualifier>
      <Trigger Name="audit">INSERT INTO audit_log VALUES (1)</Trigger>
      <Property Name="id">
        <Qualifier Type="ErdModelType">long</Qualifier>
        <Qualifier Type="ErdModelPrimaryKey">primaryKey=true,autoSequence=false</Qualifier>
        <Qualifier Type="ErdModelMappingDetails">fieldName=,fieldSize=-1,fieldPrec=-1</Qualifier>
      </Property>
      <Property Name="total">
        <Qualifier Type="ErdModelType">double</Qualifier>
        <Qualifier Type="ErdModelPrimaryKey">primaryKey=false,autoSequence=false</Qualifier>
        <Qualifier Type="ErdModelMappingDetails">fieldName=,fieldSize=10,fieldPrec=2</Qualifier>
      </Property>
    </Class>
    <Class Name="Invoice" SchemaName="shop">
      <Qualifier Type="ErdModelEntity"></Qualifier>
      <Property Name="id">
        <Qualifier Type="ErdModelType">int</Qualifier>
        <Qualifier Type="ErdModelPrimaryKey">primaryKey=true,autoSequence=false</Qualifier>
        <Qualifier Type="ErdModelMappingDetails">fieldName=,fieldSize=-1,fieldPrec=-1</Qualifier>
      </Property>
    </Class>
    <Class Name="Note" SchemaName="shop">
      <Qualifier Type="ErdModelTextualComment"></Qualifier>
      <Qualifier Type="ErdModelText">Remember to archive old purchases</Qualifier>
    </Class>
    <Association Name="places" SchemaName="shop">
      <Class Name="places">
        <Qualifier Type="ErdModelEntityAssociation"></Qualifier>
        <Qualifier Type="ErdModelPath">points=10:20;40:60</Qualifier>
      </Class>
      <Reference ClassName="Customer">
        <Qualifier Type="ErdModelReferenceMultiplicity">ONE</Qualifier>
      </Reference>
      <Reference ClassName="Purchase">
        <Qualifier Type="ErdModelReferenceMultiplicity">NONE-OR-MANY</Qualifier>
      </Reference>
    </Association>
    <Association Name="billed" SchemaName="shop">
      <Class Name="billed">
        <Qualifier Type="ErdModelEntityAssociation"></Qualifier>
      </Class>
      <Reference ClassName="Purchase">
        <Qualifier Type="ErdModelReferenceMultiplicity">ONE</Qualifier>
      </Reference>
      <Reference ClassName="Invoice">
        <Qualifier Type="ErdModelReferenceMultiplicity">NONE-OR-ONE</Qualifier>
        <Qualifier Type="ErdModelReferenceSuggestedName">billedPurchase</Qualifier>
      </Reference>
    </Association>
  </Schema>
</Model>
`

// Shop builds the model of ShopDocument in code.
type Shop struct {
	Schema   *cim.Schema
	Customer *cim.Class
	Purchase *cim.Class
	Invoice  *cim.Class
	Places   *cim.Association
	Billed   *cim.Association
}

// NewShop returns a fresh Shop model.
func NewShop(t testing.TB) *Shop {
	t.Helper()

	s := erd.BuildSchema("shop")
	customer := erd.BuildEntity("Customer")
	customer.AddProperty(erd.BuildProperty("id", "int", true, true))
	name := erd.BuildProperty("name", "String", false, false)
	details, err := cim.First[*erd.MappingDetails](name)
	require.NoError(t, err)
	details.FieldName = "full_name"
	details.Size = 120
	customer.AddProperty(name)

	purchase := erd.BuildEntity("Purchase")
	purchase.AddProperty(erd.BuildProperty("id", "long", true, false))
	total := erd.BuildProperty("total", "double", false, false)
	totalDetails, err := cim.First[*erd.MappingDetails](total)
	require.NoError(t, err)
	totalDetails.Size = 10
	totalDetails.Precision = 2
	purchase.AddProperty(total)

	invoice := erd.BuildEntity("Invoice")
	invoice.AddProperty(erd.BuildProperty("id", "int", true, false))

	places, err := erd.BuildEntityAssociation("places",
		erd.BuildReference(customer, erd.One),
		erd.BuildReference(purchase, erd.NoneOrMany))
	require.NoError(t, err)

	billed, err := erd.BuildEntityAssociation("billed",
		erd.BuildReference(purchase, erd.One),
		erd.SuggestName(erd.BuildReference(invoice, erd.NoneOrOne), "billedPurchase"))
	require.NoError(t, err)

	s.Add(customer, purchase, invoice, places, billed)
	return &Shop{
		Schema:   s,
		Customer: customer,
		Purchase: purchase,
		Invoice:  invoice,
		Places:   places,
		Billed:   billed,
	}
}
