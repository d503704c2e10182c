// Package dialect provides the SQL column and constraint writers used by the
// DDL translator.
//
// A dialect owns a closed table from logical property types to native
// column types and default sizes. Concrete dialects are registered from
// pkg/dialects/*/ packages.
package dialect

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
)

// ErrUnmappedType is returned when a logical type has no native column type.
var ErrUnmappedType = errors.New("unmapped logical type")

// VersionColumn is the optimistic-locking column every table carries.
const VersionColumn = "theVersionOfTheRecord"

// LogicalTypes lists the property types every dialect maps.
var LogicalTypes = []string{
	"boolean", "char", "byte", "short", "int", "long",
	"String", "float", "double", "time", "Date",
}

// Column is a resolved table column.
type Column struct {
	Name string
	// Type is the native column type, e.g. VARCHAR.
	Type string
	// Size is appended to Type verbatim, e.g. "(2000)" or " (10,2)".
	Size string
}

// ForeignKey describes a FOREIGN KEY constraint.
type ForeignKey struct {
	Column    string // key column in the holder table
	Table     string // referenced table
	RefColumn string // key column in the referenced table
}

// Writer formats columns and constraints for one database.
type Writer interface {
	Name() string
	SuggestSQLType(logicalType string) (string, error)
	SuggestSQLSize(logicalType string) (string, error)
	QuoteIdentifier(name string) string

	WriteDataColumn(w io.Writer, col Column, autoSequence, isKey bool) error
	WriteForeignKeyColumn(w io.Writer, col Column, modifiers string) error
	WriteVersionColumn(w io.Writer) error
	WritePrimaryKeyConstraint(w io.Writer, table string, keys []Column) error
	WriteForeignConstraint(w io.Writer, fk ForeignKey) error
}

// Config is the pure-data description of a dialect.
type Config struct {
	// Name is the display name, also the registry key (case-insensitive).
	Name string
	// Types maps logical types to native column types.
	Types map[string]string
	// Sizes maps logical types to default size suffixes. Missing means none.
	Sizes map[string]string
	// VersionType is the native type of the version column.
	VersionType string
	// AutoIncrement is appended to auto-sequence columns when set.
	AutoIncrement string
	// Quote and QuoteEnd delimit reserved identifiers.
	Quote    string
	QuoteEnd string
}

// Dialect is a table-driven Writer built from a Config.
type Dialect struct {
	name          string
	types         map[string]string
	sizes         map[string]string
	versionType   string
	autoIncrement string
	keyModifier   string
	quote         string
	quoteEnd      string
	reservedWords map[string]struct{}
}

var _ Writer = (*Dialect)(nil)

// Name returns the display name.
func (d *Dialect) Name() string {
	return d.name
}

// SuggestSQLType returns the native column type for a logical type.
// Lookup is case-insensitive.
func (d *Dialect) SuggestSQLType(logicalType string) (string, error) {
	t, ok := d.types[strings.ToLower(logicalType)]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrUnmappedType, logicalType, d.name)
	}
	return t, nil
}

// SuggestSQLSize returns the default size suffix for a logical type,
// which may be empty.
func (d *Dialect) SuggestSQLSize(logicalType string) (string, error) {
	key := strings.ToLower(logicalType)
	if _, ok := d.types[key]; !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrUnmappedType, logicalType, d.name)
	}
	return d.sizes[key], nil
}

// Types returns a copy of the logical to native type table.
func (d *Dialect) Types() map[string]string {
	return maps.Clone(d.types)
}

// IsReservedWord returns true if word needs quoting as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes name only if it is a reserved word.
func (d *Dialect) QuoteIdentifier(name string) string {
	if !d.IsReservedWord(name) {
		return name
	}
	return d.quote + name + d.quoteEnd
}

// WriteDataColumn writes one property column followed by ",\n".
func (d *Dialect) WriteDataColumn(w io.Writer, col Column, autoSequence, isKey bool) error {
	var sb strings.Builder
	sb.WriteString("\t" + d.QuoteIdentifier(col.Name) + " " + col.Type + col.Size)
	if autoSequence && d.autoIncrement != "" {
		sb.WriteString(" " + d.autoIncrement)
	}
	if isKey {
		sb.WriteString(d.keyModifier)
	}
	sb.WriteString(",\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteForeignKeyColumn writes a key column pointing at another table.
func (d *Dialect) WriteForeignKeyColumn(w io.Writer, col Column, modifiers string) error {
	_, err := fmt.Fprintf(w, "\t%s %s%s%s,\n", d.QuoteIdentifier(col.Name), col.Type, col.Size, modifiers)
	return err
}

// WriteVersionColumn writes the optimistic-locking column without a
// trailing separator.
func (d *Dialect) WriteVersionColumn(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\t%s %s NOT NULL", VersionColumn, d.versionType)
	return err
}

// WritePrimaryKeyConstraint writes nothing: key columns carry the
// constraint inline.
func (d *Dialect) WritePrimaryKeyConstraint(io.Writer, string, []Column) error {
	return nil
}

// WriteForeignConstraint writes a FOREIGN KEY clause without a separator.
func (d *Dialect) WriteForeignConstraint(w io.Writer, fk ForeignKey) error {
	_, err := fmt.Fprintf(w, "\tFOREIGN KEY (%s) REFERENCES %s (%s)",
		d.QuoteIdentifier(fk.Column), d.QuoteIdentifier(fk.Table), d.QuoteIdentifier(fk.RefColumn))
	return err
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// New creates a builder from a Config.
// Type and size keys are normalized to lower case.
func New(cfg *Config) *Builder {
	d := &Dialect{
		name:          cfg.Name,
		types:         make(map[string]string, len(cfg.Types)),
		sizes:         make(map[string]string, len(cfg.Sizes)),
		versionType:   cfg.VersionType,
		autoIncrement: cfg.AutoIncrement,
		keyModifier:   " NOT NULL UNIQUE PRIMARY KEY",
		quote:         cfg.Quote,
		quoteEnd:      cfg.QuoteEnd,
		reservedWords: make(map[string]struct{}),
	}
	for k, v := range cfg.Types {
		d.types[strings.ToLower(k)] = v
	}
	for k, v := range cfg.Sizes {
		d.sizes[strings.ToLower(k)] = v
	}
	if d.quote == "" {
		d.quote, d.quoteEnd = `"`, `"`
	}
	if d.quoteEnd == "" {
		d.quoteEnd = d.quote
	}
	return &Builder{dialect: d}
}

// KeyModifier replaces the suffix written after primary key columns.
func (b *Builder) KeyModifier(modifier string) *Builder {
	b.dialect.keyModifier = modifier
	return b
}

// WithReservedWords registers identifiers that must be quoted.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
