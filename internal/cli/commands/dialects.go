package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	var types bool

	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List SQL dialects",
		Long:  `List the SQL dialects the DDL translator can target.`,
		Example: `  erdgen dialects
  erdgen dialects --types
  erdgen dialects --types --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			infos, err := describeDialects(types)
			if err != nil {
				return err
			}
			return listDialects(cc.Renderer, infos, types)
		},
	}

	cmd.Flags().BoolVar(&types, "types", false, "Show the logical type table of each dialect")
	return cmd
}

func describeDialects(withTypes bool) ([]output.DialectInfo, error) {
	names := dialect.List()
	infos := make([]output.DialectInfo, 0, len(names))
	for _, name := range names {
		d, err := dialect.Lookup(name)
		if err != nil {
			return nil, err
		}
		info := output.DialectInfo{Name: d.Name()}
		if withTypes {
			for _, logical := range dialect.LogicalTypes {
				native, err := d.SuggestSQLType(logical)
				if err != nil {
					return nil, err
				}
				size, err := d.SuggestSQLSize(logical)
				if err != nil {
					return nil, err
				}
				info.Types = append(info.Types, output.DialectTypeInfo{Logical: logical, Native: native, Size: size})
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func listDialects(r *output.Renderer, infos []output.DialectInfo, withTypes bool) error {
	if r.IsData() {
		return r.Data(infos)
	}

	r.Header(1, "Dialects")
	if !withTypes {
		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{info.Name})
		}
		r.Table([]string{"Name"}, rows)
		return nil
	}

	for _, info := range infos {
		r.Header(2, info.Name)
		rows := make([][]string, 0, len(info.Types))
		for _, t := range info.Types {
			rows = append(rows, []string{t.Logical, t.Native + t.Size})
		}
		r.Table([]string{"Logical", "Column type"}, rows)
		r.Println("")
	}
	return nil
}
