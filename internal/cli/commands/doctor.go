package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/internal/dag"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/dialect"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/erd/relation"
	"github.com/leapstack-labs/erdgen/pkg/translators/sqlddl"
)

// Check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor <document>",
		Short: "Check a schema document for problems before translating it",
		Long: `Analyze a schema document for problems that make translators fail or
silently skip parts of the model.

The report includes:
- Document summary (classes, entities, associations, table levels)
- Health checks grouped by category (Schema, Relations, Translators)
- Health score (0-100)
- Actionable recommendations

Translator checks validate the translators selected with the
translators config key against output_dir.`,
		Example: `  # Run health check
  erdgen doctor shop.xem

  # Output as JSON
  erdgen doctor shop.xem --output json`,
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

			out := diagnose(cc, s)
			switch cc.Renderer.EffectiveMode() {
			case output.ModeJSON, output.ModeYAML:
				return cc.Renderer.Data(out)
			case output.ModeMarkdown:
				return renderDoctorMarkdown(cc.Renderer, out)
			default:
				return renderDoctorText(cc.Renderer, out)
			}
		},
	}
}

// DoctorOutput is the data output of the doctor command.
type DoctorOutput struct {
	Summary         DocumentSummary `json:"summary" yaml:"summary"`
	HealthChecks    []HealthCheck   `json:"health_checks" yaml:"health_checks"`
	Score           int             `json:"score" yaml:"score"`
	Recommendations []string        `json:"recommendations" yaml:"recommendations"`
	IssueCount      int             `json:"issue_count" yaml:"issue_count"`
}

// DocumentSummary contains document-level statistics.
type DocumentSummary struct {
	Schema       string `json:"schema" yaml:"schema"`
	Classes      int    `json:"classes" yaml:"classes"`
	Entities     int    `json:"entities" yaml:"entities"`
	Associations int    `json:"associations" yaml:"associations"`
	Depth        int    `json:"depth" yaml:"depth"`
	RootCount    int    `json:"root_count" yaml:"root_count"`
	LeafCount    int    `json:"leaf_count" yaml:"leaf_count"`
	EdgeCount    int    `json:"edge_count" yaml:"edge_count"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"`
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// doctorInput is what every rule inspects.
type doctorInput struct {
	cc     *CommandContext
	schema *cim.Schema
	plan   *sqlddl.Plan
	// planErr is set when no creation order could be built.
	planErr error
}

type doctorRule struct {
	ID             string
	Name           string
	Group          string
	Severity       string
	Recommendation string
	check          func(in *doctorInput) []string
}

var doctorRules = []doctorRule{
	{
		ID: "SC01", Name: "Entities have a primary key", Group: "schema", Severity: statusError,
		Recommendation: "Mark one property of every entity as primary key",
		check:          checkEntityKeys,
	},
	{
		ID: "SC02", Name: "Properties carry type, key and mapping qualifiers", Group: "schema", Severity: statusError,
		Recommendation: "Re-save the document with an ERD editor so every property gets its qualifiers",
		check:          checkPropertyQualifiers,
	},
	{
		ID: "SC03", Name: "Property types are logical types", Group: "schema", Severity: statusError,
		Recommendation: "Use one of the logical types listed by 'erdgen dialects --types'",
		check:          checkLogicalTypes,
	},
	{
		ID: "RL01", Name: "Relationships have multiplicities", Group: "relations", Severity: statusError,
		Recommendation: "Give both ends of every relationship a multiplicity",
		check:          checkMultiplicities,
	},
	{
		ID: "RL02", Name: "Relationship shapes are supported", Group: "relations", Severity: statusWarn,
		Recommendation: "Replace many-to-many relationships with an association entity",
		check:          checkShapes,
	},
	{
		ID: "RL03", Name: "Tables can be ordered", Group: "relations", Severity: statusError,
		Recommendation: "Make at least one relationship in every cycle optional",
		check:          checkOrder,
	},
	{
		ID: "RL04", Name: "Optional keys do not form cycles", Group: "relations", Severity: statusWarn,
		Recommendation: "Review relationship cycles; the DDL orders tables by required keys only",
		check:          checkOptionalCycles,
	},
	{
		ID: "TR01", Name: "Selected translators are valid", Group: "translators", Severity: statusError,
		Recommendation: "Fix the translator properties with 'erdgen prefs set' or the properties config section",
		check:          checkTranslators,
	},
}

func diagnose(cc *CommandContext, s *cim.Schema) *DoctorOutput {
	in := &doctorInput{cc: cc, schema: s}
	in.plan, in.planErr = sqlddl.BuildPlan(s, cc.Logger)

	checks := make([]HealthCheck, 0, len(doctorRules))
	issues := 0
	var recommendations []string
	for _, rule := range doctorRules {
		details := rule.check(in)
		status := statusPass
		if len(details) > 0 {
			status = rule.Severity
			recommendations = append(recommendations, rule.Recommendation)
		}
		issues += len(details)
		checks = append(checks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.SliceStable(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].RuleID < checks[j].RuleID
	})

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	summary := summarizeDocument(in)
	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Entities),
		Recommendations: recommendations,
		IssueCount:      issues,
	}
}

func summarizeDocument(in *doctorInput) DocumentSummary {
	summary := DocumentSummary{
		Schema:       in.schema.Name(),
		Classes:      len(in.schema.Classes()),
		Entities:     len(erd.Entities(in.schema)),
		Associations: len(in.schema.Associations()),
	}
	if in.plan == nil {
		return summary
	}
	summary.EdgeCount = in.plan.Dependencies()
	if levels := in.plan.Levels(); len(levels) > 0 {
		summary.Depth = len(levels)
		summary.RootCount = len(levels[0])
		summary.LeafCount = len(levels[len(levels)-1])
	}
	return summary
}

// calculateHealthScore computes a health score from 0-100. Errors weigh
// double, and each issue weighs less in larger documents.
func calculateHealthScore(checks []HealthCheck, entityCount int) int {
	score := 100.0

	penalty := 5.0
	if entityCount > 10 {
		penalty = 3.0
	}
	if entityCount > 50 {
		penalty = 2.0
	}

	for _, check := range checks {
		switch check.Status {
		case statusError:
			score -= float64(check.IssueCount) * penalty * 2
		case statusWarn:
			score -= float64(check.IssueCount) * penalty
		}
	}
	return int(max(score, 0))
}

func checkEntityKeys(in *doctorInput) []string {
	var details []string
	for _, c := range erd.Entities(in.schema) {
		if !hasKey(c) {
			details = append(details, fmt.Sprintf("%s has no primary key", c.Name()))
		}
	}
	return details
}

func hasKey(c *cim.Class) bool {
	for _, p := range c.Properties() {
		if pk, err := cim.First[*erd.PrimaryKey](p); err == nil && pk.Key {
			return true
		}
	}
	return false
}

func checkPropertyQualifiers(in *doctorInput) []string {
	var details []string
	for _, c := range erd.Entities(in.schema) {
		for _, p := range c.Properties() {
			var missing []string
			if _, err := cim.First[*erd.Type](p); err != nil {
				missing = append(missing, "type")
			}
			if _, err := cim.First[*erd.PrimaryKey](p); err != nil {
				missing = append(missing, "primary key")
			}
			if _, err := cim.First[*erd.MappingDetails](p); err != nil {
				missing = append(missing, "mapping details")
			}
			if len(missing) > 0 {
				details = append(details, fmt.Sprintf("%s.%s lacks %s", c.Name(), p.Name(), strings.Join(missing, ", ")))
			}
		}
	}
	return details
}

func checkLogicalTypes(in *doctorInput) []string {
	var details []string
	for _, c := range erd.Entities(in.schema) {
		for _, p := range c.Properties() {
			typ, err := cim.First[*erd.Type](p)
			if err != nil {
				continue
			}
			if !isLogicalType(typ.Name) {
				details = append(details, fmt.Sprintf("%s.%s has type %q", c.Name(), p.Name(), typ.Name))
			}
		}
	}
	return details
}

func isLogicalType(name string) bool {
	for _, t := range dialect.LogicalTypes {
		if strings.EqualFold(t, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// entityAssociations returns the associations between two entities.
func entityAssociations(s *cim.Schema) []*cim.Association {
	var out []*cim.Association
	for _, a := range s.Associations() {
		r1, r2 := a.Endpoints()
		if erd.IsEntity(r1.Target()) && erd.IsEntity(r2.Target()) {
			out = append(out, a)
		}
	}
	return out
}

func checkMultiplicities(in *doctorInput) []string {
	var details []string
	for _, a := range entityAssociations(in.schema) {
		if _, _, err := relation.Categories(a); err != nil {
			details = append(details, err.Error())
		}
	}
	return details
}

func checkShapes(in *doctorInput) []string {
	var details []string
	for _, a := range entityAssociations(in.schema) {
		shape, err := relation.Classify(a)
		if err != nil {
			continue
		}
		if shape.Kind == relation.Unsupported {
			details = append(details, fmt.Sprintf("%s (%s/%s) is skipped by translators", a.Name(), shape.FirstCat, shape.SecondCat))
		}
	}
	return details
}

func checkOrder(in *doctorInput) []string {
	if in.planErr == nil {
		return nil
	}
	var cycle *dag.CycleError
	if errors.As(in.planErr, &cycle) {
		return []string{fmt.Sprintf("required keys form a cycle: %s", strings.Join(cycle.Path, " -> "))}
	}
	return []string{in.planErr.Error()}
}

func checkOptionalCycles(in *doctorInput) []string {
	if in.plan == nil || !in.plan.MandatoryOnly {
		return nil
	}
	return []string{"optional keys form a cycle; tables are ordered by required keys only"}
}

func checkTranslators(in *doctorInput) []string {
	if len(in.cc.Cfg.Translators) == 0 {
		return nil
	}
	ts, err := prepareTranslators(in.cc, in.schema, in.cc.Logger)
	if err != nil {
		return []string{err.Error()}
	}
	var details []string
	for _, t := range ts {
		res := t.ValidateProperties(in.cc.Cfg.OutputDir, t.Properties())
		for _, msg := range res.Errors {
			details = append(details, t.Name()+": "+msg)
		}
	}
	return details
}

func statusIcon(styles *output.Styles, status string) string {
	switch status {
	case statusWarn:
		return styles.Warning.Render("!")
	case statusError:
		return styles.Error.Render("✗")
	default:
		return styles.Success.Render("✓")
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Schema Health Report: " + out.Summary.Schema))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Document Summary"))
	r.Printf("   Classes: %d | Entities: %d | Associations: %d\n", out.Summary.Classes, out.Summary.Entities, out.Summary.Associations)
	r.Printf("   Table Levels: %d | Roots: %d | Leaves: %d\n", out.Summary.Depth, out.Summary.RootCount, out.Summary.LeafCount)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Header2.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		status := fmt.Sprintf("%s %s: %s", statusIcon(styles, check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println(output.FormatHeader(1, "Schema Health Report: "+out.Summary.Schema))
	r.Println("")

	r.Println(output.FormatHeader(2, "Document Summary"))
	r.Println("")
	r.Println(output.FormatKeyValue("Classes", fmt.Sprint(out.Summary.Classes)))
	r.Println(output.FormatKeyValue("Entities", fmt.Sprint(out.Summary.Entities)))
	r.Println(output.FormatKeyValue("Associations", fmt.Sprint(out.Summary.Associations)))
	r.Println(output.FormatKeyValue("Table Levels", fmt.Sprint(out.Summary.Depth)))
	r.Println(output.FormatKeyValue("Root Tables", fmt.Sprint(out.Summary.RootCount)))
	r.Println(output.FormatKeyValue("Leaf Tables", fmt.Sprint(out.Summary.LeafCount)))
	r.Println("")

	r.Println(output.FormatHeader(2, "Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(output.FormatHeader(3, titleCaser.String(currentGroup)))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println(output.FormatHeader(2, "Health Score"))
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(output.FormatHeader(2, "Recommendations"))
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}
