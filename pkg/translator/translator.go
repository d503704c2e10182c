// Package translator defines the contract every schema translator
// implements, plus the shared machinery around it: a factory registry,
// typed property decoding, per-schema preferences and a parallel runner.
//
// Concrete translators live in pkg/translators/*/ and register a factory
// from their init() functions.
package translator

import (
	"fmt"
	"maps"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/erdgen/pkg/cim"
)

// PropertyType describes how a property value is edited and validated.
type PropertyType int

// Property types.
const (
	String PropertyType = iota
	Path
	Integer
	Number
	Date
	Boolean
	Set
)

func (t PropertyType) String() string {
	switch t {
	case String:
		return "STRING"
	case Path:
		return "PATH"
	case Integer:
		return "INTEGER"
	case Number:
		return "NUMBER"
	case Date:
		return "DATE"
	case Boolean:
		return "BOOLEAN"
	case Set:
		return "SET"
	default:
		return "UNKNOWN"
	}
}

// PropertyMetadata describes one translator property.
type PropertyMetadata struct {
	Type PropertyType
	// Options lists the allowed values of a Set property.
	Options []string
	// Description is a one-line help text.
	Description string
}

// ValidationResult is the outcome of ValidateProperties.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Valid returns a passing result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Addf records a failure message.
func (r *ValidationResult) Addf(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Translator turns a schema into generated artifacts.
type Translator interface {
	// Source and Target are short format tags, e.g. "xem" and "sql".
	Source() string
	Target() string
	// Name is the display name, also the key of stored preferences.
	Name() string

	Properties() map[string]any
	SetProperties(props map[string]any) error
	PropertiesMetadata() map[string]PropertyMetadata
	ValidateProperties(outputPath string, props map[string]any) ValidationResult

	// Translate writes the artifacts for s under outputPath. Nothing is
	// written when it fails.
	Translate(s *cim.Schema, outputPath string) error
}

// Error is returned when a translation fails.
type Error struct {
	Translator string
	Schema     string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: schema %q: %v", e.Translator, e.Schema, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error for t translating s.
func Errorf(t Translator, s *cim.Schema, format string, args ...any) error {
	return &Error{Translator: t.Name(), Schema: s.Name(), Err: fmt.Errorf(format, args...)}
}

// ValidationError lists property problems found before any I/O.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid translator properties:\n  " + strings.Join(e.Messages, "\n  ")
}

// DefaultMetadata types every property of props as a String.
func DefaultMetadata(props map[string]any) map[string]PropertyMetadata {
	md := make(map[string]PropertyMetadata, len(props))
	for k := range props {
		md[k] = PropertyMetadata{Type: String}
	}
	return md
}

// DecodeProperties decodes a property bag into a struct tagged with
// `property:"Name"`. String values convert to the field types.
func DecodeProperties(props map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "property",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create property decoder: %w", err)
	}
	if err := dec.Decode(props); err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}
	return nil
}

// Base holds the property bag of a translator. Embed it and call
// NewBase with the defaults; keys outside the defaults are rejected.
type Base struct {
	props map[string]any
}

// NewBase returns a Base holding a copy of defaults.
func NewBase(defaults map[string]any) Base {
	return Base{props: maps.Clone(defaults)}
}

// Properties returns a copy of the current properties.
func (b *Base) Properties() map[string]any {
	return maps.Clone(b.props)
}

// SetProperties merges props into the current properties.
func (b *Base) SetProperties(props map[string]any) error {
	for k := range props {
		if _, ok := b.props[k]; !ok {
			return fmt.Errorf("unknown property %q", k)
		}
	}
	maps.Copy(b.props, props)
	return nil
}

// Merged returns the current properties overlaid with props.
func (b *Base) Merged(props map[string]any) map[string]any {
	out := maps.Clone(b.props)
	maps.Copy(out, props)
	return out
}

// StringProperties renders every property value as text.
func StringProperties(props map[string]any) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = fmt.Sprint(v)
	}
	return out
}
