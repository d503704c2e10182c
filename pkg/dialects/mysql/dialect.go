package mysql

import (
	"github.com/leapstack-labs/erdgen/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

var mysqlReservedWords = []string{
	"add", "all", "alter", "and", "as", "asc", "between", "by", "case",
	"change", "check", "column", "condition", "constraint", "create",
	"cross", "database", "default", "delete", "desc", "describe",
	"distinct", "drop", "else", "exists", "false", "for", "foreign",
	"from", "group", "having", "in", "index", "insert", "interval", "into",
	"is", "join", "key", "keys", "like", "limit", "lock", "match", "not",
	"null", "on", "option", "or", "order", "primary", "range", "read",
	"references", "rename", "replace", "select", "set", "show", "table",
	"to", "true", "union", "unique", "update", "usage", "use", "values",
	"when", "where", "with", "write",
}

// MySQL is the MySQL dialect. Auto-sequence columns get AUTO_INCREMENT.
var MySQL = dialect.New(Config).
	WithReservedWords(mysqlReservedWords...).
	Build()
