// Package mysql provides the MySQL DDL dialect.
package mysql

import "github.com/leapstack-labs/erdgen/pkg/dialect"

// Config is the MySQL dialect configuration.
var Config = &dialect.Config{
	Name: "MySQL",
	Types: map[string]string{
		"boolean": "BIT",
		"char":    "CHAR",
		"byte":    "TINYINT",
		"short":   "SMALLINT",
		"int":     "INT",
		"long":    "BIGINT",
		"String":  "VARCHAR",
		"float":   "FLOAT",
		"double":  "DOUBLE",
		"time":    "TIMESTAMP",
		"Date":    "TIMESTAMP",
	},
	Sizes: map[string]string{
		"long":   "(19)",
		"String": "(2000)",
	},
	VersionType:   "INT",
	AutoIncrement: "AUTO_INCREMENT",
	Quote:         "`",
	QuoteEnd:      "`",
}
