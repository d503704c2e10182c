package postgres

import (
	"github.com/leapstack-labs/erdgen/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// postgresReservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of identifiers likely to appear as
// entity or column names.
var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where",
	"all", "and", "any", "array", "as", "asc", "authorization",
	"both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "current_date", "current_time",
	"current_timestamp", "current_user", "default", "desc", "distinct",
	"do", "else", "end", "except", "false", "fetch", "for", "foreign",
	"grant", "having", "in", "initially", "intersect", "into", "lateral",
	"leading", "limit", "localtime", "not", "null", "offset", "on", "only",
	"or", "placing", "primary", "references", "returning", "session_user",
	"some", "then", "to", "trailing", "true", "union", "unique", "using",
	"variadic", "when", "window", "with",
}

// Postgres is the PostgreSQL dialect. Auto-sequence keys are written as
// plain key columns.
var Postgres = dialect.New(Config).
	WithReservedWords(postgresReservedWords...).
	Build()
