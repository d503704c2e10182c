package output

// TranslatorInfo describes a registered translator.
type TranslatorInfo struct {
	Name       string         `json:"name" yaml:"name"`
	Source     string         `json:"source" yaml:"source"`
	Target     string         `json:"target" yaml:"target"`
	Properties []PropertyInfo `json:"properties" yaml:"properties"`
}

// PropertyInfo describes one translator property.
type PropertyInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Default     string   `json:"default" yaml:"default"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// DialectInfo describes a registered SQL dialect.
type DialectInfo struct {
	Name  string            `json:"name" yaml:"name"`
	Types []DialectTypeInfo `json:"types,omitempty" yaml:"types,omitempty"`
}

// DialectTypeInfo maps one logical type to its native column type.
type DialectTypeInfo struct {
	Logical string `json:"logical" yaml:"logical"`
	Native  string `json:"native" yaml:"native"`
	Size    string `json:"size,omitempty" yaml:"size,omitempty"`
}

// SchemaSummary is the inspect output.
type SchemaSummary struct {
	Name         string               `json:"name" yaml:"name"`
	Path         string               `json:"path,omitempty" yaml:"path,omitempty"`
	Classes      []ClassSummary       `json:"classes" yaml:"classes"`
	Associations []AssociationSummary `json:"associations" yaml:"associations"`
	Preferences  []PreferencesOutput  `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// ClassSummary describes a class of the schema.
type ClassSummary struct {
	Name       string            `json:"name" yaml:"name"`
	Entity     bool              `json:"entity" yaml:"entity"`
	Properties []PropertySummary `json:"properties" yaml:"properties"`
	Methods    []string          `json:"methods,omitempty" yaml:"methods,omitempty"`
	Triggers   []string          `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// PropertySummary describes a class property.
type PropertySummary struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Column  string `json:"column" yaml:"column"`
	Key     bool   `json:"key,omitempty" yaml:"key,omitempty"`
	AutoSeq bool   `json:"auto_sequence,omitempty" yaml:"auto_sequence,omitempty"`
}

// AssociationSummary describes a classified association.
type AssociationSummary struct {
	Name     string `json:"name" yaml:"name"`
	From     string `json:"from" yaml:"from"`
	FromMult string `json:"from_multiplicity,omitempty" yaml:"from_multiplicity,omitempty"`
	To       string `json:"to" yaml:"to"`
	ToMult   string `json:"to_multiplicity,omitempty" yaml:"to_multiplicity,omitempty"`
	Kind     string `json:"kind" yaml:"kind"`
	Self     bool   `json:"self,omitempty" yaml:"self,omitempty"`
	Holder   string `json:"holder,omitempty" yaml:"holder,omitempty"`
	Entity   bool   `json:"entity" yaml:"entity"`
}

// OrderOutput is the table creation order of a schema.
type OrderOutput struct {
	Schema        string       `json:"schema" yaml:"schema"`
	Tables        []string     `json:"tables" yaml:"tables"`
	Levels        []OrderLevel `json:"levels" yaml:"levels"`
	MandatoryOnly bool         `json:"mandatory_only,omitempty" yaml:"mandatory_only,omitempty"`
	TotalTables   int          `json:"total_tables" yaml:"total_tables"`
	TotalEdges    int          `json:"total_dependencies" yaml:"total_dependencies"`
}

// OrderLevel is a group of tables that can be created together.
type OrderLevel struct {
	Level  int          `json:"level" yaml:"level"`
	Tables []OrderTable `json:"tables" yaml:"tables"`
}

// OrderTable is a table with its ordering edges.
type OrderTable struct {
	Name      string   `json:"name" yaml:"name"`
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	UsedBy    []string `json:"used_by,omitempty" yaml:"used_by,omitempty"`
}

// PreferencesOutput is the stored property bag of one translator.
type PreferencesOutput struct {
	Translator string            `json:"translator" yaml:"translator"`
	Properties map[string]string `json:"properties" yaml:"properties"`
}

// TranslateOutput reports a translate run.
type TranslateOutput struct {
	RunID       string   `json:"run_id" yaml:"run_id"`
	Schema      string   `json:"schema" yaml:"schema"`
	OutputDir   string   `json:"output_dir" yaml:"output_dir"`
	Translators []string `json:"translators" yaml:"translators"`
	Saved       bool     `json:"preferences_saved,omitempty" yaml:"preferences_saved,omitempty"`
}
