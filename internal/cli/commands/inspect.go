package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/erd/relation"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document>",
		Short: "Summarize a schema document",
		Long: `Show the classes, properties and associations of a schema document.

Each association is classified by the multiplicity of its two ends, the
same way the translators see it.`,
		Example: `  erdgen inspect shop.xem
  erdgen inspect shop.xem --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			s, err := readSchema(args[0], cc.Logger)
			if err != nil {
				return err
			}
			summary, err := summarize(s)
			if err != nil {
				return err
			}
			return renderSummary(cc.Renderer, summary)
		},
	}
}

func summarize(s *cim.Schema) (output.SchemaSummary, error) {
	sum := output.SchemaSummary{Name: s.Name()}
	if loc, err := cim.First[*erd.PhysicalLocation](s); err == nil {
		sum.Path = loc.Path
	}

	for _, c := range s.Classes() {
		cs := output.ClassSummary{Name: c.Name(), Entity: erd.IsEntity(c)}
		for _, p := range c.Properties() {
			ps := output.PropertySummary{Name: p.Name(), Column: relation.ColumnName(p)}
			if typ, err := cim.First[*erd.Type](p); err == nil {
				ps.Type = typ.Name
			}
			if pk, err := cim.First[*erd.PrimaryKey](p); err == nil {
				ps.Key = pk.Key
				ps.AutoSeq = pk.Key && pk.AutoSequence
			}
			cs.Properties = append(cs.Properties, ps)
		}
		for _, m := range c.Methods() {
			cs.Methods = append(cs.Methods, m.Name())
		}
		for _, t := range c.Triggers() {
			cs.Triggers = append(cs.Triggers, t.Name())
		}
		sum.Classes = append(sum.Classes, cs)
	}

	for _, a := range s.Associations() {
		as, err := summarizeAssociation(a)
		if err != nil {
			return output.SchemaSummary{}, err
		}
		sum.Associations = append(sum.Associations, as)
	}

	for _, prefs := range cim.All[*erd.SchemaTransformerPreferences](s) {
		sum.Preferences = append(sum.Preferences, output.PreferencesOutput{
			Translator: prefs.Transformer,
			Properties: prefs.Properties,
		})
	}
	return sum, nil
}

func summarizeAssociation(a *cim.Association) (output.AssociationSummary, error) {
	r1, r2 := a.Endpoints()
	as := output.AssociationSummary{
		Name:   a.Name(),
		From:   r1.Target().Name(),
		To:     r2.Target().Name(),
		Entity: erd.IsEntity(r1.Target()) && erd.IsEntity(r2.Target()),
		Kind:   relation.Unsupported.String(),
	}

	shape, err := relation.Classify(a)
	if err != nil {
		// Only ERD relationships carry multiplicities.
		if !as.Entity {
			return as, nil
		}
		return output.AssociationSummary{}, fmt.Errorf("association %q: %w", a.Name(), err)
	}
	as.FromMult = shape.FirstCat.String()
	as.ToMult = shape.SecondCat.String()
	as.Kind = shape.Kind.String()
	as.Self = shape.Self
	if h := shape.Holder(); h != nil {
		as.Holder = h.Target().Name()
	}
	return as, nil
}

func renderSummary(r *output.Renderer, sum output.SchemaSummary) error {
	if r.IsData() {
		return r.Data(sum)
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		summaryMarkdown(r, sum)
		return nil
	}
	summaryText(r, sum)
	return nil
}

func classRows(c output.ClassSummary) [][]string {
	rows := make([][]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		key := ""
		switch {
		case p.AutoSeq:
			key = "PK (auto)"
		case p.Key:
			key = "PK"
		}
		rows = append(rows, []string{p.Name, p.Type, p.Column, key})
	}
	return rows
}

func associationRows(as []output.AssociationSummary) [][]string {
	rows := make([][]string, 0, len(as))
	for _, a := range as {
		kind := a.Kind
		if a.Self {
			kind = "self " + kind
		}
		rows = append(rows, []string{
			a.Name,
			endLabel(a.From, a.FromMult),
			endLabel(a.To, a.ToMult),
			kind,
			a.Holder,
		})
	}
	return rows
}

func endLabel(class, mult string) string {
	if mult == "" {
		return class
	}
	return fmt.Sprintf("%s (%s)", class, mult)
}

func summaryText(r *output.Renderer, sum output.SchemaSummary) {
	styles := r.Styles()

	r.Header(1, "Schema "+sum.Name)
	if sum.Path != "" {
		r.Println(styles.Muted.Render(sum.Path))
	}
	r.Println("")

	for _, c := range sum.Classes {
		label := c.Name
		if !c.Entity {
			label += " " + styles.Muted.Render("(not an entity)")
		}
		r.Println(styles.Header2.Render(label))
		if len(c.Properties) > 0 {
			r.Table([]string{"Property", "Type", "Column", "Key"}, classRows(c))
		}
		if len(c.Methods) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("methods:"), strings.Join(c.Methods, ", "))
		}
		if len(c.Triggers) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("triggers:"), strings.Join(c.Triggers, ", "))
		}
		r.Println("")
	}

	if len(sum.Associations) > 0 {
		r.Header(2, "Associations")
		r.Table([]string{"Name", "From", "To", "Kind", "Key holder"}, associationRows(sum.Associations))
		r.Println("")
	}

	for _, p := range sum.Preferences {
		r.Println(styles.Header2.Render("Preferences: " + p.Translator))
		for _, k := range sortedKeys(p.Properties) {
			r.Printf("  %s %s\n", styles.Name.Render(k+":"), p.Properties[k])
		}
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d classes, %d associations", len(sum.Classes), len(sum.Associations))))
}

func summaryMarkdown(r *output.Renderer, sum output.SchemaSummary) {
	r.Println(output.FormatHeader(1, "Schema "+sum.Name))
	r.Println("")
	if sum.Path != "" {
		r.Println(output.FormatKeyValue("Path", sum.Path))
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Classes"))
	r.Println("")
	for _, c := range sum.Classes {
		name := c.Name
		if !c.Entity {
			name += " (not an entity)"
		}
		r.Println(output.FormatHeader(3, name))
		r.Println("")
		if len(c.Properties) > 0 {
			r.Table([]string{"Property", "Type", "Column", "Key"}, classRows(c))
		}
		if len(c.Methods) > 0 {
			r.Println(output.FormatKeyValue("Methods", strings.Join(c.Methods, ", ")))
		}
		if len(c.Triggers) > 0 {
			r.Println(output.FormatKeyValue("Triggers", strings.Join(c.Triggers, ", ")))
		}
		if len(c.Methods)+len(c.Triggers) > 0 {
			r.Println("")
		}
	}

	if len(sum.Associations) > 0 {
		r.Println(output.FormatHeader(2, "Associations"))
		r.Println("")
		r.Table([]string{"Name", "From", "To", "Kind", "Key holder"}, associationRows(sum.Associations))
	}

	for _, p := range sum.Preferences {
		r.Println(output.FormatHeader(2, "Preferences: "+p.Translator))
		r.Println("")
		for _, k := range sortedKeys(p.Properties) {
			r.Println(output.FormatKeyValue(k, p.Properties[k]))
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Classes", fmt.Sprintf("%d", len(sum.Classes))))
	r.Println(output.FormatKeyValue("Associations", fmt.Sprintf("%d", len(sum.Associations))))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
