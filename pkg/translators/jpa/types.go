package jpa

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnmappedType is returned for a logical type with no Java counterpart.
var ErrUnmappedType = errors.New("no Java type for logical type")

// JavaType is the field type generated for a logical type.
type JavaType struct {
	Name string
	// Temporal is the TemporalType constant for date and time fields.
	Temporal string
}

var javaTypes = map[string]JavaType{
	"boolean": {Name: "boolean"},
	"char":    {Name: "char"},
	"byte":    {Name: "byte"},
	"short":   {Name: "short"},
	"int":     {Name: "int"},
	"long":    {Name: "long"},
	"string":  {Name: "String"},
	"float":   {Name: "float"},
	"double":  {Name: "double"},
	"time":    {Name: "Date", Temporal: "TIME"},
	"date":    {Name: "Date", Temporal: "TIMESTAMP"},
}

// TypeOf returns the Java type of a logical type. Lookup ignores case.
func TypeOf(logical string) (JavaType, error) {
	jt, ok := javaTypes[strings.ToLower(logical)]
	if !ok {
		return JavaType{}, fmt.Errorf("%w: %q", ErrUnmappedType, logical)
	}
	return jt, nil
}
