// Package oracle provides the Oracle DDL dialect.
package oracle

import "github.com/leapstack-labs/erdgen/pkg/dialect"

// Config is the Oracle dialect configuration.
var Config = &dialect.Config{
	Name: "Oracle",
	Types: map[string]string{
		"boolean": "NUMBER",
		"char":    "CHAR",
		"byte":    "NUMBER",
		"short":   "NUMBER",
		"int":     "NUMBER",
		"long":    "NUMBER",
		"String":  "VARCHAR2",
		"float":   "BINARY_FLOAT",
		"double":  "BINARY_DOUBLE",
		"time":    "TIMESTAMP",
		"Date":    "TIMESTAMP",
	},
	Sizes: map[string]string{
		"boolean": "(1)",
		"char":    "(1)",
		"byte":    "(3)",
		"short":   "(5)",
		"int":     "(10)",
		"long":    "(19)",
		"String":  "(2000)",
	},
	VersionType:   "NUMBER(19)",
	AutoIncrement: "GENERATED BY DEFAULT AS IDENTITY",
	Quote:         `"`,
	QuoteEnd:      `"`,
}
