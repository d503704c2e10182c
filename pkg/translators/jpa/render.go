package jpa

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/dialect"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/erd/relation"
)

// File is a rendered Java source file.
type File struct {
	Name    string
	Class   *cim.Class
	Content []byte
}

// field is a property field of an entity.
type field struct {
	Name    string
	Column  string
	Type    JavaType
	Key     bool
	AutoSeq bool
}

// Render renders one source file per entity of s into package pkg.
// Nothing is returned unless every entity renders.
func Render(s *cim.Schema, pkg string, logger *slog.Logger) ([]File, error) {
	entities := erd.Entities(s)
	seen := make(map[string]bool, len(entities))
	files := make([]File, 0, len(entities))

	for _, c := range entities {
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate entity %q: %w", c.Name(), cim.ErrAmbiguous)
		}
		seen[c.Name()] = true

		src, err := RenderClass(s, c, pkg, logger)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: c.Name() + ".java", Class: c, Content: src})
	}
	return files, nil
}

// RenderClass renders the entity source of c.
func RenderClass(s *cim.Schema, c *cim.Class, pkg string, logger *slog.Logger) ([]byte, error) {
	fields, err := fieldsOf(c)
	if err != nil {
		return nil, fmt.Errorf("class %q: %w", c.Name(), err)
	}
	rels, err := Relationships(s, c, logger)
	if err != nil {
		return nil, err
	}

	names := map[string]bool{dialect.VersionColumn: true}
	claim := func(name string) error {
		if names[name] {
			return fmt.Errorf("class %q: duplicate field %q: %w", c.Name(), name, cim.ErrAmbiguous)
		}
		names[name] = true
		return nil
	}
	for _, f := range fields {
		if err := claim(f.Name); err != nil {
			return nil, err
		}
	}
	for _, r := range rels {
		if err := claim(r.Field); err != nil {
			return nil, err
		}
		if r.Role == SelfOneToMany || r.Role == SelfOneToOne {
			if err := claim(r.Parent()); err != nil {
				return nil, err
			}
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "package %s;\n\n", pkg)
	for _, imp := range imports(fields, rels) {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	b.WriteString("\n@Entity\n")
	fmt.Fprintf(&b, "@Table(name=%q)\n", c.Name())
	fmt.Fprintf(&b, "public class %s implements Serializable {\n\n", c.Name())

	for _, f := range fields {
		writeField(&b, f)
	}
	b.WriteString("\t@Version\n")
	fmt.Fprintf(&b, "\t@Column(name=%q)\n", dialect.VersionColumn)
	fmt.Fprintf(&b, "\tprivate int %s;\n\n", dialect.VersionColumn)

	for _, r := range rels {
		writeRelationshipField(&b, r)
	}

	for _, f := range fields {
		writeAccessors(&b, f.Type.Name, f.Name)
	}
	b.WriteString("\n\tpublic int getRecordVersion(){\n")
	fmt.Fprintf(&b, "\t\treturn %s;\n\t}\n", dialect.VersionColumn)

	for _, r := range rels {
		writeRelationshipAccessors(&b, c, r)
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

func fieldsOf(c *cim.Class) ([]field, error) {
	fields := make([]field, 0, len(c.Properties()))
	for _, p := range c.Properties() {
		typ, err := cim.First[*erd.Type](p)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name(), err)
		}
		pk, err := cim.First[*erd.PrimaryKey](p)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name(), err)
		}
		jt, err := TypeOf(typ.Name)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name(), err)
		}
		fields = append(fields, field{
			Name:    p.Name(),
			Column:  relation.ColumnName(p),
			Type:    jt,
			Key:     pk.Key,
			AutoSeq: pk.Key && pk.AutoSequence,
		})
	}
	return fields, nil
}

// imports returns the sorted imports the fields and relationships use.
func imports(fields []field, rels []Relationship) []string {
	set := map[string]bool{
		"java.io.Serializable":      true,
		"javax.persistence.Column":  true,
		"javax.persistence.Entity":  true,
		"javax.persistence.Table":   true,
		"javax.persistence.Version": true,
	}
	for _, f := range fields {
		if f.Type.Name == "Date" {
			set["java.util.Date"] = true
		}
		switch {
		case f.Key:
			set["javax.persistence.Id"] = true
			if f.AutoSeq {
				set["javax.persistence.GeneratedValue"] = true
				set["javax.persistence.GenerationType"] = true
			}
		case f.Type.Temporal != "":
			set["javax.persistence.Temporal"] = true
			set["javax.persistence.TemporalType"] = true
		default:
			set["javax.persistence.Basic"] = true
		}
	}
	for _, r := range rels {
		if r.Owning() {
			set["javax.persistence.JoinColumn"] = true
		}
		switch r.Role {
		case ManyToOne, UniqueManyToOne:
			set["javax.persistence.ManyToOne"] = true
		case OneToMany:
			set["java.util.ArrayList"] = true
			set["java.util.Collection"] = true
			set["javax.persistence.OneToMany"] = true
			if r.Mandatory {
				set["javax.validation.constraints.Size"] = true
			}
		case PrimaryOneToOne:
			set["javax.persistence.OneToOne"] = true
			if r.Mandatory {
				set["javax.validation.constraints.NotNull"] = true
			}
		case DetailsOneToOne, SelfOneToOne:
			set["javax.persistence.OneToOne"] = true
		case SelfOneToMany:
			set["java.util.ArrayList"] = true
			set["java.util.Collection"] = true
			set["javax.persistence.ManyToOne"] = true
			set["javax.persistence.OneToMany"] = true
		}
	}

	out := make([]string, 0, len(set))
	for imp := range set {
		out = append(out, imp)
	}
	slices.Sort(out)
	return out
}

func writeField(b *bytes.Buffer, f field) {
	switch {
	case f.Key:
		b.WriteString("\t@Id\n")
		if f.AutoSeq {
			b.WriteString("\t@GeneratedValue(strategy=GenerationType.AUTO)\n")
		}
	case f.Type.Temporal != "":
		fmt.Fprintf(b, "\t@Temporal(TemporalType.%s)\n", f.Type.Temporal)
	default:
		b.WriteString("\t@Basic\n")
	}
	fmt.Fprintf(b, "\t@Column(name=%q)\n", f.Column)
	fmt.Fprintf(b, "\tprivate %s %s;\n\n", f.Type.Name, f.Name)
}

func joinColumn(b *bytes.Buffer, r Relationship) {
	switch {
	case r.Role == UniqueManyToOne:
		fmt.Fprintf(b, "\t@JoinColumn(name=%q, unique = true)\n", r.JoinColumn)
	case r.Mandatory:
		fmt.Fprintf(b, "\t@JoinColumn(name=%q, nullable = false)\n", r.JoinColumn)
	default:
		fmt.Fprintf(b, "\t@JoinColumn(name=%q)\n", r.JoinColumn)
	}
}

func writeRelationshipField(b *bytes.Buffer, r Relationship) {
	target := r.Target.Name()
	switch r.Role {
	case ManyToOne, UniqueManyToOne:
		b.WriteString("\t@ManyToOne\n")
		joinColumn(b, r)
		fmt.Fprintf(b, "\tprivate %s %s;\n\n", target, r.Field)
	case DetailsOneToOne:
		b.WriteString("\t@OneToOne\n")
		joinColumn(b, r)
		fmt.Fprintf(b, "\tprivate %s %s;\n\n", target, r.Field)
	case OneToMany:
		fmt.Fprintf(b, "\t@OneToMany(mappedBy=%q)\n", r.MappedBy)
		if r.Mandatory {
			b.WriteString("\t@Size(min = 1)\n")
		}
		fmt.Fprintf(b, "\tprivate Collection<%s> %s = new ArrayList<>();\n\n", target, r.Field)
	case PrimaryOneToOne:
		fmt.Fprintf(b, "\t@OneToOne(mappedBy=%q)\n", r.MappedBy)
		if r.Mandatory {
			b.WriteString("\t@NotNull\n")
		}
		fmt.Fprintf(b, "\tprivate %s %s;\n\n", target, r.Field)
	case SelfOneToMany:
		fmt.Fprintf(b, "\t@ManyToOne(optional=%t)\n", !r.Mandatory)
		joinColumn(b, r)
		fmt.Fprintf(b, "\tprivate %s %s;\n\n", target, r.Parent())
		fmt.Fprintf(b, "\t@OneToMany(mappedBy=%q)\n", r.MappedBy)
		fmt.Fprintf(b, "\tprivate Collection<%s> %s = new ArrayList<>();\n\n", target, r.Field)
	case SelfOneToOne:
		fmt.Fprintf(b, "\t@OneToOne(optional=%t)\n", !r.Mandatory)
		joinColumn(b, r)
		fmt.Fprintf(b, "\tprivate %s %s;\n\n", target, r.Parent())
		fmt.Fprintf(b, "\t@OneToOne(mappedBy=%q)\n", r.MappedBy)
		fmt.Fprintf(b, "\tprivate %s %s;\n\n", target, r.Field)
	}
}

func writeAccessors(b *bytes.Buffer, typ, name string) {
	upper := relation.UpperFirst(name)
	fmt.Fprintf(b, "\n\tpublic %s get%s(){\n\t\treturn %s;\n\t}\n", typ, upper, name)
	fmt.Fprintf(b, "\tpublic void set%s(%s %s){\n\t\tthis.%s = %s;\n\t}\n", upper, typ, name, name, name)
}

// writeAdder writes add<Field>, which also points the element back at
// this through its setter.
func writeAdder(b *bytes.Buffer, r Relationship) {
	target := r.Target.Name()
	param := relation.LowerFirst(target)
	if param == r.Field {
		param = "item"
	}
	back := relation.UpperFirst(r.MappedBy)
	fmt.Fprintf(b, "\tpublic void add%s(%s %s){\n", relation.UpperFirst(r.Field), target, param)
	fmt.Fprintf(b, "\t\tthis.%s.add(%s);\n", r.Field, param)
	fmt.Fprintf(b, "\t\tif(%s.get%s() != this){\n", param, back)
	fmt.Fprintf(b, "\t\t\t%s.set%s(this);\n", param, back)
	b.WriteString("\t\t}\n\t}\n")
}

func writeRelationshipAccessors(b *bytes.Buffer, c *cim.Class, r Relationship) {
	target := r.Target.Name()
	switch r.Role {
	case OneToMany:
		fmt.Fprintf(b, "\n\tpublic Collection<%s> get%s(){\n\t\treturn %s;\n\t}\n",
			target, relation.UpperFirst(r.Field), r.Field)
		writeAdder(b, r)
	case SelfOneToMany:
		writeAccessors(b, c.Name(), r.Parent())
		fmt.Fprintf(b, "\tpublic Collection<%s> get%s(){\n\t\treturn %s;\n\t}\n",
			target, relation.UpperFirst(r.Field), r.Field)
		writeAdder(b, r)
	case SelfOneToOne:
		writeAccessors(b, c.Name(), r.Parent())
		writeAccessors(b, target, r.Field)
	default:
		writeAccessors(b, target, r.Field)
	}
}
