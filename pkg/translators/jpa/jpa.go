// Package jpa translates the entities of a schema into JPA-annotated Java
// classes, one source file per entity.
package jpa

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/translator"
)

// Name is the display name of the translator.
const Name = "ERD to JPA"

// Property names.
const (
	PropPackageName = "Package Name"
	PropPackagePath = "Package Path"
)

// Defaults holds the default property values.
var Defaults = map[string]any{
	PropPackageName: "idetest.data",
	PropPackagePath: "./data",
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var javaKeywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "false", "final", "finally", "float", "for", "goto", "if",
	"implements", "import", "instanceof", "int", "interface", "long", "native",
	"new", "null", "package", "private", "protected", "public", "return",
	"short", "static", "strictfp", "super", "switch", "synchronized", "this",
	"throw", "throws", "transient", "true", "try", "void", "volatile", "while",
}

func init() {
	translator.Register(Name, func(logger *slog.Logger) translator.Translator {
		return New(logger)
	})
}

// Settings is the decoded property bag.
type Settings struct {
	PackageName string `property:"Package Name"`
	PackagePath string `property:"Package Path"`
}

// Translator generates JPA entity classes.
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

func (t *Translator) Source() string { return "xem" }
func (t *Translator) Target() string { return "java" }
func (t *Translator) Name() string   { return Name }

// PropertiesMetadata describes the package name and directory.
func (t *Translator) PropertiesMetadata() map[string]translator.PropertyMetadata {
	return map[string]translator.PropertyMetadata{
		PropPackageName: {Type: translator.String, Description: "Java package of the generated classes"},
		PropPackagePath: {Type: translator.Path, Description: "existing directory of the package, relative to the output path"},
	}
}

// ValidPackageName reports whether name is a dotted sequence of Java
// identifiers.
func ValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for part := range strings.SplitSeq(name, ".") {
		if !identifier.MatchString(part) || slices.Contains(javaKeywords, part) {
			return false
		}
	}
	return true
}

// ValidateProperties checks props merged over the current properties.
// The package directory must already exist under outputPath.
func (t *Translator) ValidateProperties(outputPath string, props map[string]any) translator.ValidationResult {
	res := translator.Valid()
	var set Settings
	if err := translator.DecodeProperties(t.Merged(props), &set); err != nil {
		res.Addf("%v", err)
		return res
	}
	if !ValidPackageName(set.PackageName) {
		res.Addf("%s %q is not a valid Java package name", PropPackageName, set.PackageName)
	}
	dir := filepath.Join(outputPath, set.PackagePath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		res.Addf("%s %q does not exist under %s; create it or choose another directory", PropPackagePath, set.PackagePath, outputPath)
	}
	return res
}

// Translate writes one Java file per entity of s. Every file is rendered
// before the first one is written.
func (t *Translator) Translate(s *cim.Schema, outputPath string) error {
	fail := func(err error) error {
		return &translator.Error{Translator: Name, Schema: s.Name(), Err: err}
	}

	var set Settings
	if err := translator.DecodeProperties(t.Properties(), &set); err != nil {
		return fail(err)
	}
	if !ValidPackageName(set.PackageName) {
		return fail(fmt.Errorf("invalid package name %q", set.PackageName))
	}

	files, err := Render(s, set.PackageName, t.logger)
	if err != nil {
		return fail(err)
	}

	dir := filepath.Join(outputPath, set.PackagePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fail(fmt.Errorf("create package directory: %w", err))
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Content, 0o600); err != nil {
			return fail(fmt.Errorf("write %s: %w", f.Name, err))
		}
		t.logger.Debug("wrote entity class", slog.String("path", path))
	}

	t.logger.Info("wrote JPA entities",
		slog.String("dir", dir),
		slog.String("package", set.PackageName),
		slog.Int("classes", len(files)))
	return nil
}
