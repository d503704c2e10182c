package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/pkg/cim/sxml"
)

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <document>",
		Short: "Rewrite a schema document in canonical form",
		Long: `Read a schema document and write it back out in canonical form.

Without --write the formatted document is printed to stdout.`,
		Example: `  erdgen fmt shop.xem
  erdgen fmt shop.xem --write`,
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
			if !write {
				return sxml.NewWriter().Write(cc.Renderer.Writer(), s)
			}
			if err := writeSchema(args[0], s); err != nil {
				return err
			}
			cc.Renderer.Success("formatted " + args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the document")
	return cmd
}
