package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/translator"
)

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change translator preferences stored in a document",
		Long: `Translator properties can be stored in a schema document, one record
per translator. The translate command applies them over the defaults.`,
	}
	cmd.AddCommand(newPrefsShowCommand())
	cmd.AddCommand(newPrefsSetCommand())
	return cmd
}

func newPrefsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show <document>",
		Short:   "Show stored translator preferences",
		Example: `  erdgen prefs show shop.xem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			s, err := readSchema(args[0], cc.Logger)
			if err != nil {
				return err
			}
			return showPreferences(cc.Renderer, storedPreferences(s))
		},
	}
}

func newPrefsSetCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "set <document> key=value...",
		Short: "Store translator preferences in a document",
		Long: `Store properties for one translator in a schema document. Properties
already stored for the translator are kept unless overwritten. Keys must
be properties the translator knows.`,
		Example: `  erdgen prefs set shop.xem --translator "ERD to SQL" "SQL Dialect=Oracle"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			props, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			s, err := readSchema(args[0], cc.Logger)
			if err != nil {
				return err
			}
			if err := setPreferences(s, name, props, cc); err != nil {
				return err
			}
			if err := writeSchema(args[0], s); err != nil {
				return err
			}
			cc.Renderer.Success(fmt.Sprintf("stored %d %s preference(s) in %s", len(props), name, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "translator", "", "Translator display name")
	_ = cmd.MarkFlagRequired("translator")
	_ = cmd.RegisterFlagCompletionFunc("translator", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return translator.List(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// parseAssignments splits key=value arguments. Keys may contain spaces.
func parseAssignments(args []string) (map[string]any, error) {
	props := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q\nHint: use \"Property Name=value\"", arg)
		}
		if strings.Contains(value, ",") {
			return nil, fmt.Errorf("value of %q must not contain ','", key)
		}
		props[key] = value
	}
	return props, nil
}

// setPreferences merges props into the stored record of the named
// translator after checking every key against its properties.
func setPreferences(s *cim.Schema, name string, props map[string]any, cc *CommandContext) error {
	t, err := translator.New(name, cc.Logger)
	if err != nil {
		return err
	}
	if err := translator.LoadPreferences(t, s); err != nil {
		return err
	}
	if err := t.SetProperties(props); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	translator.SavePreferences(t, s)
	return nil
}

func storedPreferences(s *cim.Schema) []output.PreferencesOutput {
	var out []output.PreferencesOutput
	for _, prefs := range cim.All[*erd.SchemaTransformerPreferences](s) {
		out = append(out, output.PreferencesOutput{Translator: prefs.Transformer, Properties: prefs.Properties})
	}
	return out
}

func showPreferences(r *output.Renderer, prefs []output.PreferencesOutput) error {
	if r.IsData() {
		if prefs == nil {
			prefs = []output.PreferencesOutput{}
		}
		return r.Data(prefs)
	}

	r.Header(1, "Translator Preferences")
	if len(prefs) == 0 {
		r.Println("No preferences stored.")
		return nil
	}
	for _, p := range prefs {
		r.Header(2, p.Translator)
		rows := make([][]string, 0, len(p.Properties))
		for _, k := range sortedKeys(p.Properties) {
			rows = append(rows, []string{k, p.Properties[k]})
		}
		r.Table([]string{"Property", "Value"}, rows)
	}
	return nil
}
