// Package sqlddl translates the entities of a schema into a SQL DDL
// script: DROP statements in reverse creation order, then one CREATE TABLE
// per entity with its data, foreign key and version columns.
package sqlddl

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/dialect"
	"github.com/leapstack-labs/erdgen/pkg/translator"

	// Dialects offered by the SQL Dialect property.
	_ "github.com/leapstack-labs/erdgen/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/erdgen/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/erdgen/pkg/dialects/postgres"
)

// Name is the display name of the translator.
const Name = "ERD to SQL"

// Property names.
const (
	PropScriptName = "SQL DDL Script Name"
	PropScriptPath = "SQL DDL Script Path"
	PropDialect    = "SQL Dialect"
)

// Defaults holds the default property values.
var Defaults = map[string]any{
	PropScriptName: "GeneratedDDL.sql",
	PropScriptPath: ".",
	PropDialect:    "MySQL",
}

func init() {
	translator.Register(Name, func(logger *slog.Logger) translator.Translator {
		return New(logger)
	})
}

// Settings is the decoded property bag.
type Settings struct {
	ScriptName string `property:"SQL DDL Script Name"`
	ScriptPath string `property:"SQL DDL Script Path"`
	Dialect    string `property:"SQL Dialect"`
}

// Translator generates SQL DDL scripts.
type Translator struct {
	translator.Base
	logger *slog.Logger
}

var _ translator.Translator = (*Translator)(nil)

// New creates a translator with default properties.
// A nil logger discards output.
func New(logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Translator{
		Base:   translator.NewBase(Defaults),
		logger: logger,
	}
}

// Source returns the input format tag.
func (t *Translator) Source() string { return "xem" }

// Target returns the output format tag.
func (t *Translator) Target() string { return "sql" }

// Name returns the display name.
func (t *Translator) Name() string { return Name }

// PropertiesMetadata describes the script name, path and dialect.
func (t *Translator) PropertiesMetadata() map[string]translator.PropertyMetadata {
	return map[string]translator.PropertyMetadata{
		PropScriptName: {Type: translator.String, Description: "file name of the generated script"},
		PropScriptPath: {Type: translator.Path, Description: "directory of the script, relative to the output path"},
		PropDialect:    {Type: translator.Set, Options: dialect.List(), Description: "target database"},
	}
}

// ValidateProperties checks props merged over the current properties.
func (t *Translator) ValidateProperties(_ string, props map[string]any) translator.ValidationResult {
	res := translator.Valid()
	var set Settings
	if err := translator.DecodeProperties(t.Merged(props), &set); err != nil {
		res.Addf("%v", err)
		return res
	}
	if _, ok := dialect.Get(set.Dialect); !ok {
		res.Addf("%s: unknown dialect %q, expected one of %s", PropDialect, set.Dialect, strings.Join(dialect.List(), ", "))
	}
	if strings.TrimSpace(set.ScriptName) == "" {
		res.Addf("%s must not be empty", PropScriptName)
	} else if strings.ContainsAny(set.ScriptName, `/\`) {
		res.Addf("%s %q must be a file name, not a path", PropScriptName, set.ScriptName)
	}
	return res
}

// Translate writes the DDL script of s. The script is rendered completely
// before the file is created.
func (t *Translator) Translate(s *cim.Schema, outputPath string) error {
	fail := func(err error) error {
		return &translator.Error{Translator: Name, Schema: s.Name(), Err: err}
	}

	var set Settings
	if err := translator.DecodeProperties(t.Properties(), &set); err != nil {
		return fail(err)
	}
	d, err := dialect.Lookup(set.Dialect)
	if err != nil {
		return fail(err)
	}

	plan, err := BuildPlan(s, t.logger)
	if err != nil {
		return fail(err)
	}
	script, err := Generate(plan, d)
	if err != nil {
		return fail(err)
	}

	dir := filepath.Join(outputPath, set.ScriptPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fail(fmt.Errorf("create output directory: %w", err))
	}
	path := filepath.Join(dir, set.ScriptName)
	if err := os.WriteFile(path, script, 0o600); err != nil {
		return fail(fmt.Errorf("write script: %w", err))
	}

	t.logger.Info("wrote DDL script",
		slog.String("path", path),
		slog.String("dialect", d.Name()),
		slog.Int("tables", len(plan.Tables)))
	return nil
}
