// Package erd provides the entity-relationship payloads carried by cim
// qualifiers, the registry that rebuilds them from documents, and helpers
// for assembling ERD schemas.
package erd

import "github.com/leapstack-labs/erdgen/pkg/cim"

// Variant discriminators. The values are the tags stored in documents.
const (
	TypeCommentAssociation           = "ErdModelCommentAssociation"
	TypeEntityAssociation            = "ErdModelEntityAssociation"
	TypeReferenceMultiplicity        = "ErdModelReferenceMultiplicity"
	TypeTextCommentAssociation       = "ErdModelTextCommentAssociation"
	TypeReferenceSuggestedName       = "ErdModelReferenceSuggestedName"
	TypeDescription                  = "ErdModelDescription"
	TypeLocation                     = "ErdModelLocation"
	TypeMappingDetails               = "ErdModelMappingDetails"
	TypePhysicalLocation             = "ErdModelPhysicalLocation"
	TypePrimaryKey                   = "ErdModelPrimaryKey"
	TypeSize                         = "ErdModelSize"
	TypeFont                         = "ErdModelFont"
	TypeColor                        = "ErdModelColor"
	TypePath                         = "ErdModelPath"
	TypeEntity                       = "ErdModelEntity"
	TypeText                         = "ErdModelText"
	TypeTextualComment               = "ErdModelTextualComment"
	TypeType                         = "ErdModelType"
	TypeSchemaTransformerPreferences = "SchemaTransformerPreferences"
)

// Variants builds every ERD payload from its document tag.
var Variants = cim.NewRegistry()

func init() {
	Variants.Register(TypeCommentAssociation, func() cim.Variant { return &CommentAssociation{} })
	Variants.Register(TypeEntityAssociation, func() cim.Variant { return &EntityAssociation{} })
	Variants.Register(TypeReferenceMultiplicity, func() cim.Variant { return &ReferenceMultiplicity{} })
	Variants.Register(TypeTextCommentAssociation, func() cim.Variant { return &TextCommentAssociation{} })
	Variants.Register(TypeReferenceSuggestedName, func() cim.Variant { return &ReferenceSuggestedName{} })
	Variants.Register(TypeDescription, func() cim.Variant { return &Description{} })
	Variants.Register(TypeLocation, func() cim.Variant { return &Location{} })
	Variants.Register(TypeMappingDetails, func() cim.Variant { return NewMappingDetails("") })
	Variants.Register(TypePhysicalLocation, func() cim.Variant { return &PhysicalLocation{} })
	Variants.Register(TypePrimaryKey, func() cim.Variant { return &PrimaryKey{} })
	Variants.Register(TypeSize, func() cim.Variant { return &Size{} })
	Variants.Register(TypeFont, func() cim.Variant { return &Font{} })
	Variants.Register(TypeColor, func() cim.Variant { return &Color{} })
	Variants.Register(TypePath, func() cim.Variant { return &Path{} })
	Variants.Register(TypeEntity, func() cim.Variant { return &Entity{} })
	Variants.Register(TypeText, func() cim.Variant { return &Text{} })
	Variants.Register(TypeTextualComment, func() cim.Variant { return &TextualComment{} })
	Variants.Register(TypeType, func() cim.Variant { return &Type{} })
	Variants.Register(TypeSchemaTransformerPreferences, func() cim.Variant { return &SchemaTransformerPreferences{} })
}
