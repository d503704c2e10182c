package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/config"
	"github.com/leapstack-labs/erdgen/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an erdgen.yaml configuration",
		Long: `Initialize a directory for erdgen with a default erdgen.yaml.

Use --example to also create a sample schema document (shop.xem) and the
output directories its translators need, so that 'erdgen translate
shop.xem' works right away.`,
		Example: `  # Initialize in current directory
  erdgen init

  # Initialize with a working example
  erdgen init --example

  # Initialize in a new directory
  erdgen init my-schema --example

  # Force overwrite existing config
  erdgen init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(cc.Renderer, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Also create a sample schema document")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", dir, err)
	}

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}
	groups := groupTemplateFiles(files)

	for _, group := range []struct{ key, title string }{
		{"config", "Configuration"},
		{"documents", "Schema Documents"},
		{"output", "Output"},
	} {
		if len(groups[group.key]) == 0 {
			continue
		}
		r.Header(2, group.title)
		for _, f := range groups[group.key] {
			r.Println("  " + f)
		}
		r.Println("")
	}

	r.Success("erdgen initialized in " + dir)
	r.Println("")
	r.Println("Next steps:")
	if template == "example" {
		r.Println("  erdgen inspect shop.xem     Summarize the example schema")
		r.Println("  erdgen doctor shop.xem      Check it for problems")
		r.Println("  erdgen translate shop.xem   Generate DDL and JPA classes into build/")
		return nil
	}
	r.Println("  1. Edit erdgen.yaml to choose translators and the output directory")
	r.Println("  2. Run 'erdgen doctor <document>' to check a schema document")
	r.Println("  3. Run 'erdgen translate <document>' to generate code")
	return nil
}
