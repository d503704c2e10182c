package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/translator"
)

// NewTranslatorsCommand creates the translators command.
func NewTranslatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translators",
		Short: "List registered translators",
		Long: `List every registered translator with its source and target formats
and the properties it accepts, including their defaults.`,
		Example: `  erdgen translators
  erdgen translators --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return listTranslators(cc.Renderer, describeTranslators(cc))
		},
	}
}

func describeTranslators(cc *CommandContext) []output.TranslatorInfo {
	names := translator.List()
	infos := make([]output.TranslatorInfo, 0, len(names))
	for _, name := range names {
		t, err := translator.New(name, cc.Logger)
		if err != nil {
			continue
		}
		infos = append(infos, output.TranslatorInfo{
			Name:       t.Name(),
			Source:     t.Source(),
			Target:     t.Target(),
			Properties: describeProperties(t),
		})
	}
	return infos
}

func describeProperties(t translator.Translator) []output.PropertyInfo {
	props := t.Properties()
	meta := t.PropertiesMetadata()

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]output.PropertyInfo, 0, len(keys))
	for _, k := range keys {
		m, ok := meta[k]
		if !ok {
			m = translator.PropertyMetadata{Type: translator.String}
		}
		out = append(out, output.PropertyInfo{
			Name:        k,
			Type:        m.Type.String(),
			Default:     fmt.Sprint(props[k]),
			Description: m.Description,
			Options:     m.Options,
		})
	}
	return out
}

func listTranslators(r *output.Renderer, infos []output.TranslatorInfo) error {
	if r.IsData() {
		return r.Data(infos)
	}

	r.Header(1, "Translators")
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, info.Source, info.Target})
	}
	r.Table([]string{"Name", "Source", "Target"}, rows)

	for _, info := range infos {
		r.Println("")
		r.Header(2, info.Name+" properties")
		props := make([][]string, 0, len(info.Properties))
		for _, p := range info.Properties {
			typ := p.Type
			if len(p.Options) > 0 {
				typ += " (" + strings.Join(p.Options, ", ") + ")"
			}
			props = append(props, []string{p.Name, typ, p.Default, p.Description})
		}
		r.Table([]string{"Property", "Type", "Default", "Description"}, props)
	}
	return nil
}
