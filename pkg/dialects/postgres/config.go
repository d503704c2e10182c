// Package postgres provides the PostgreSQL DDL dialect.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/erdgen/pkg/dialect"

// Config is the PostgreSQL dialect configuration.
// Numeric types are all DECIMAL, distinguished by precision.
var Config = &dialect.Config{
	Name: "PostgreSQL",
	Types: map[string]string{
		"boolean": "DECIMAL",
		"char":    "CHAR",
		"byte":    "DECIMAL",
		"short":   "DECIMAL",
		"int":     "DECIMAL",
		"long":    "DECIMAL",
		"String":  "VARCHAR",
		"float":   "DECIMAL",
		"double":  "DECIMAL",
		"time":    "TIMESTAMP",
		"Date":    "TIMESTAMP",
	},
	Sizes: map[string]string{
		"boolean": "(1,0)",
		"char":    "(1)",
		"byte":    "(3,0)",
		"short":   "(5,0)",
		"int":     "(10,0)",
		"long":    "(19, 0)",
		"String":  "(2000)",
	},
	VersionType: "DECIMAL(19,0)",
	Quote:       `"`,
	QuoteEnd:    `"`,
}
