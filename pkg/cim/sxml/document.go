// Package sxml reads and writes cim schemas in the simple XML document format.
//
// A document has a Model root holding one Schema. Schema-level qualifiers
// come first, then classes, then associations; each association carries a
// template Class and two or more References that name their target class.
//
//	<Model>
//	  <Schema Name="shop">
//	    <Qualifier Type="SchemaTransformerPreferences">transformer=ERD to SQL{...}</Qualifier>
//	    <Class Name="Person" SchemaName="shop">
//	      <Qualifier Type="ErdModelEntity"></Qualifier>
//	      <Property Name="id">...</Property>
//	    </Class>
//	    <Association Name="places" SchemaName="shop">
//	      <Class Name="places">...</Class>
//	      <Reference ClassName="Person">...</Reference>
//	      <Reference ClassName="Purchase">...</Reference>
//	    </Association>
//	  </Schema>
//	</Model>
package sxml

import (
	"encoding/xml"
	"fmt"
)

type xmlModel struct {
	XMLName xml.Name   `xml:"Model"`
	Schema  *xmlSchema `xml:"Schema"`
}

type xmlSchema struct {
	Name         string           `xml:"Name,attr"`
	Qualifiers   []xmlQualifier   `xml:"Qualifier"`
	Triggers     []xmlTrigger     `xml:"Trigger"`
	Classes      []xmlClass       `xml:"Class"`
	Associations []xmlAssociation `xml:"Association"`
}

type xmlQualifier struct {
	Type string `xml:"Type,attr"`
	Text string `xml:",chardata"`
}

type xmlTrigger struct {
	Name string `xml:"Name,attr"`
	Body string `xml:",chardata"`
}

type xmlClass struct {
	Name       string         `xml:"Name,attr"`
	SchemaName string         `xml:"SchemaName,attr"`
	Qualifiers []xmlQualifier `xml:"Qualifier"`
	Triggers   []xmlTrigger   `xml:"Trigger"`
	Properties []xmlMember    `xml:"Property"`
	Methods    []xmlMember    `xml:"Method"`
}

// xmlMember is a Property or a Method.
type xmlMember struct {
	Name       string         `xml:"Name,attr"`
	Qualifiers []xmlQualifier `xml:"Qualifier"`
	Triggers   []xmlTrigger   `xml:"Trigger"`
}

type xmlAssociation struct {
	Name       string         `xml:"Name,attr"`
	SchemaName string         `xml:"SchemaName,attr"`
	Template   *xmlClass      `xml:"Class"`
	References []xmlReference `xml:"Reference"`
}

type xmlReference struct {
	ClassName  string         `xml:"ClassName,attr"`
	Name       string         `xml:"Name,attr"`
	Qualifiers []xmlQualifier `xml:"Qualifier"`
	Triggers   []xmlTrigger   `xml:"Trigger"`
}

// PersistenceError wraps every failure to read or write a document.
type PersistenceError struct {
	// Op is "read" or "write".
	Op string
	// Path is the file involved, when known.
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s schema: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
