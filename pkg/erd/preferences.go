package erd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/erdgen/pkg/cim"
)

// SchemaTransformerPreferences stores the property bag of one translator
// on the schema it was last run against.
//
// Text form: transformer=NAME{key=value,key=value}, keys sorted.
// Values cannot contain ',' since the grammar has no escaping.
type SchemaTransformerPreferences struct {
	Transformer string
	Properties  map[string]string
}

// NewSchemaTransformerPreferences returns an empty preference record.
func NewSchemaTransformerPreferences(transformer string) *SchemaTransformerPreferences {
	return &SchemaTransformerPreferences{Transformer: transformer, Properties: make(map[string]string)}
}

func (*SchemaTransformerPreferences) VariantType() string { return TypeSchemaTransformerPreferences }

func (p *SchemaTransformerPreferences) String() string {
	keys := make([]string, 0, len(p.Properties))
	for k := range p.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("transformer=")
	sb.WriteString(p.Transformer)
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(p.Properties[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

func (p *SchemaTransformerPreferences) MarshalText() ([]byte, error) {
	for k, v := range p.Properties {
		if strings.ContainsAny(k, ",={}") || strings.Contains(v, ",") {
			return nil, fmt.Errorf("preference %q=%q: ',' and key punctuation cannot be stored", k, v)
		}
	}
	return []byte(p.String()), nil
}

func (p *SchemaTransformerPreferences) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	open := strings.IndexByte(s, '{')
	if open < 0 || !strings.HasSuffix(s, "}") {
		return fmt.Errorf("preferences %q: want transformer=NAME{...}", s)
	}
	head := parsePairs(s[:open])
	name, ok := head["transformer"]
	if !ok {
		return fmt.Errorf("preferences %q: missing transformer name", s)
	}
	p.Transformer = name
	p.Properties = parsePairs(s[open+1 : len(s)-1])
	return nil
}

// Preferences returns the stored property bag for translator, or nil when
// the schema has none.
func Preferences(s *cim.Schema, translator string) map[string]string {
	for _, prefs := range cim.All[*SchemaTransformerPreferences](s) {
		if prefs.Transformer == translator {
			out := make(map[string]string, len(prefs.Properties))
			for k, v := range prefs.Properties {
				out[k] = v
			}
			return out
		}
	}
	return nil
}

// StorePreferences replaces the record for translator with props.
func StorePreferences(s *cim.Schema, translator string, props map[string]string) {
	for _, q := range s.QualifiersOf(TypeSchemaTransformerPreferences) {
		if prefs, ok := q.Variant().(*SchemaTransformerPreferences); ok && prefs.Transformer == translator {
			s.RemoveQualifier(q)
		}
	}
	prefs := NewSchemaTransformerPreferences(translator)
	for k, v := range props {
		prefs.Properties[k] = v
	}
	s.AddQualifier(cim.MustQualifier(prefs))
}
