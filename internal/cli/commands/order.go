package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/translators/sqlddl"
)

// NewOrderCommand creates the order command.
func NewOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order <document>",
		Short: "Show the table creation order",
		Long: `Display the order in which the DDL script creates the entity tables.

Tables are grouped by level: a table only references tables of earlier
levels. Self references do not constrain the order. When optional keys
form a cycle only required keys are used; a cycle of required keys is
reported as an error.`,
		Example: `  erdgen order shop.xem
  erdgen order shop.xem --output json`,
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
			plan, err := sqlddl.BuildPlan(s, cc.Logger)
			if err != nil {
				return err
			}
			return renderOrder(cc.Renderer, s.Name(), plan)
		},
	}
}

func renderOrder(r *output.Renderer, schema string, plan *sqlddl.Plan) error {
	tables := make([]string, len(plan.Tables))
	for i, c := range plan.Tables {
		tables[i] = c.Name()
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return orderData(r, schema, tables, plan)
	case output.ModeMarkdown:
		return orderMarkdown(r, tables, plan)
	default:
		return orderText(r, tables, plan)
	}
}

// orderText outputs the order in styled text format.
func orderText(r *output.Renderer, tables []string, plan *sqlddl.Plan) error {
	styles := r.Styles()

	r.Header(1, "Table Creation Order")
	if plan.MandatoryOnly {
		r.Println(styles.Warning.Render("optional keys form a cycle; ordered by required keys only"))
	}

	for i, level := range plan.Levels() {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, table := range level {
			r.Printf("  %s\n", styles.Name.Render(table))
			if deps := plan.DependsOn(table); len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if users := plan.UsedBy(table); len(users) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(users, ", "))
			}
		}
		r.Println("")
	}

	r.Printf("%s %s\n", styles.Header2.Render("Order:"), strings.Join(tables, ", "))
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d tables, %d dependencies", len(tables), plan.Dependencies())))
	return nil
}

// orderMarkdown outputs the order in markdown format.
func orderMarkdown(r *output.Renderer, tables []string, plan *sqlddl.Plan) error {
	r.Println(output.FormatHeader(1, "Table Creation Order"))
	r.Println("")
	if plan.MandatoryOnly {
		r.Println("> Optional keys form a cycle; ordered by required keys only.")
		r.Println("")
	}

	for i, level := range plan.Levels() {
		name := fmt.Sprintf("Level %d", i)
		if i == 0 {
			name = "Level 0 (Independent)"
		}
		r.Println(output.FormatHeader(2, name))

		for _, table := range level {
			r.Printf("- %s\n", table)
			if deps := plan.DependsOn(table); len(deps) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
			}
			if users := plan.UsedBy(table); len(users) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(users, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Order", strings.Join(tables, ", ")))
	r.Println(output.FormatKeyValue("Total Tables", fmt.Sprintf("%d", len(tables))))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", plan.Dependencies())))
	return nil
}

// orderData outputs the order as JSON or YAML.
func orderData(r *output.Renderer, schema string, tables []string, plan *sqlddl.Plan) error {
	levels := plan.Levels()
	out := output.OrderOutput{
		Schema:        schema,
		Tables:        tables,
		Levels:        make([]output.OrderLevel, 0, len(levels)),
		MandatoryOnly: plan.MandatoryOnly,
		TotalTables:   len(tables),
		TotalEdges:    plan.Dependencies(),
	}

	for i, level := range levels {
		ol := output.OrderLevel{Level: i, Tables: make([]output.OrderTable, 0, len(level))}
		for _, table := range level {
			ol.Tables = append(ol.Tables, output.OrderTable{
				Name:      table,
				DependsOn: plan.DependsOn(table),
				UsedBy:    plan.UsedBy(table),
			})
		}
		out.Levels = append(out.Levels, ol)
	}
	return r.Data(out)
}
