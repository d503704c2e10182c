package sqlddl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/erdgen/internal/dag"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/erd/relation"
)

// ForeignKey is a key column a table holds for one relationship.
type ForeignKey struct {
	Holder      *cim.Class
	Referenced  *cim.Class
	Association *cim.Association
	Shape       relation.Classification
	// Name is the key column name in the holder table.
	Name string
	// Key is the primary key property of Referenced.
	Key *cim.Property
	// Modifiers are appended to the column type, e.g. " NOT NULL".
	Modifiers string
}

// Required reports whether the key must reference a row.
func (fk ForeignKey) Required() bool {
	return fk.Shape.Required()
}

func (fk ForeignKey) String() string {
	return fk.Holder.Name() + "." + fk.Name + " -> " + fk.Referenced.Name()
}

// Plan is the creation order of the entity tables of a schema.
type Plan struct {
	// Tables lists entity classes with referenced tables first.
	Tables []*cim.Class
	// MandatoryOnly is set when optional keys formed a cycle and only
	// required keys constrain the order.
	MandatoryOnly bool
	// ForwardKeys are keys whose referenced table is created after the
	// holder. Only an order by required keys leaves any.
	ForwardKeys []ForeignKey

	keys  map[*cim.Class][]ForeignKey
	graph *dag.Graph
}

// ForeignKeys returns the keys held by table, in association order.
func (p *Plan) ForeignKeys(table *cim.Class) []ForeignKey {
	return append([]ForeignKey(nil), p.keys[table]...)
}

// DependsOn returns the tables that must exist before table.
func (p *Plan) DependsOn(table string) []string {
	return p.graph.GetParents(table)
}

// UsedBy returns the tables that reference table.
func (p *Plan) UsedBy(table string) []string {
	return p.graph.GetChildren(table)
}

// Dependencies returns the number of ordering edges.
func (p *Plan) Dependencies() int {
	return p.graph.EdgeCount()
}

// Levels groups the tables into creation levels.
func (p *Plan) Levels() [][]string {
	levels, err := p.graph.GetExecutionLevels()
	if err != nil {
		// The graph sorted once already.
		return nil
	}
	return levels
}

// BuildPlan collects the foreign keys of every entity table of s and
// orders the tables so each comes after the tables it references.
//
// Every key constrains the order first. When that leaves a cycle only
// required keys are kept; a cycle of required keys fails with an error
// wrapping dag.ErrCycle.
func BuildPlan(s *cim.Schema, logger *slog.Logger) (*Plan, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tables := erd.Entities(s)
	seen := make(map[string]bool, len(tables))
	for _, c := range tables {
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate table %q: %w", c.Name(), cim.ErrAmbiguous)
		}
		seen[c.Name()] = true
	}

	p := &Plan{keys: make(map[*cim.Class][]ForeignKey, len(tables))}
	for _, c := range tables {
		keys, err := foreignKeysOf(s, c, logger)
		if err != nil {
			return nil, err
		}
		p.keys[c] = keys
	}

	g, sorted, err := p.order(tables, false)
	if errors.Is(err, dag.ErrCycle) {
		logger.Debug("optional keys form a cycle, ordering by required keys only",
			slog.String("schema", s.Name()), slog.Any("cycle", err))
		p.MandatoryOnly = true
		g, sorted, err = p.order(tables, true)
	}
	if err != nil {
		return nil, fmt.Errorf("order tables of %q: %w", s.Name(), err)
	}

	p.graph = g
	for _, n := range sorted {
		p.Tables = append(p.Tables, n.Data.(*cim.Class))
	}

	if p.MandatoryOnly {
		p.ForwardKeys = p.forwardKeys()
		names := make([]string, len(p.ForwardKeys))
		for i, fk := range p.ForwardKeys {
			names[i] = fk.String()
		}
		logger.Warn("optional keys form a cycle, some tables reference tables created after them",
			slog.String("schema", s.Name()),
			slog.Any("keys", names))
	}
	return p, nil
}

func (p *Plan) forwardKeys() []ForeignKey {
	pos := make(map[*cim.Class]int, len(p.Tables))
	for i, c := range p.Tables {
		pos[c] = i
	}
	var out []ForeignKey
	for _, c := range p.Tables {
		for _, fk := range p.keys[c] {
			if !fk.Shape.Self && pos[fk.Referenced] > pos[c] {
				out = append(out, fk)
			}
		}
	}
	return out
}

func (p *Plan) order(tables []*cim.Class, requiredOnly bool) (*dag.Graph, []*dag.Node, error) {
	g := dag.NewGraph()
	for _, c := range tables {
		g.AddNode(c.Name(), c)
	}
	for _, c := range tables {
		for _, fk := range p.keys[c] {
			if fk.Shape.Self || (requiredOnly && !fk.Required()) {
				continue
			}
			if err := g.AddEdge(fk.Referenced.Name(), c.Name()); err != nil {
				return nil, nil, err
			}
		}
	}
	sorted, err := g.TopologicalSort()
	return g, sorted, err
}

// foreignKeysOf returns the keys c holds. Associations touching a
// non-entity class are ignored; unsupported shapes are skipped.
func foreignKeysOf(s *cim.Schema, c *cim.Class, logger *slog.Logger) ([]ForeignKey, error) {
	var keys []ForeignKey
	names := make(map[string]bool)

	for _, a := range relation.AssociationsOf(s, c) {
		r1, r2 := a.Endpoints()
		if !erd.IsEntity(r1.Target()) || !erd.IsEntity(r2.Target()) {
			continue
		}
		shape, err := relation.Classify(a)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", c.Name(), err)
		}
		if shape.Kind == relation.Unsupported {
			logger.Warn("skipping unsupported association",
				slog.String("association", a.Name()),
				slog.String("first", shape.FirstCat.String()),
				slog.String("second", shape.SecondCat.String()))
			continue
		}

		fk := ForeignKey{Holder: c, Association: a, Shape: shape}
		var holderRef *cim.Reference
		if shape.Self {
			fk.Referenced = c
			holderRef = shape.Second
			fk.Modifiers = selfModifiers(shape)
		} else {
			if shape.Holder().Target() != c {
				continue
			}
			fk.Referenced = shape.Referenced().Target()
			holderRef = shape.Holder()
			fk.Modifiers = modifiers(shape)
		}

		key, err := relation.KeyProperty(fk.Referenced)
		if err != nil {
			return nil, fmt.Errorf("table %q references %q: %w", c.Name(), fk.Referenced.Name(), err)
		}
		fk.Key = key
		fk.Name = relation.ForeignKeyName(holderRef, fk.Referenced, key)

		if names[fk.Name] {
			return nil, fmt.Errorf("table %q: duplicate foreign key column %q: %w", c.Name(), fk.Name, cim.ErrAmbiguous)
		}
		names[fk.Name] = true
		keys = append(keys, fk)
	}
	return keys, nil
}

func modifiers(shape relation.Classification) string {
	switch shape.Kind {
	case relation.OneToMany:
		if shape.Mandatory {
			return " NOT NULL"
		}
		return ""
	case relation.OneToOne:
		return " UNIQUE "
	}
	return ""
}

func selfModifiers(shape relation.Classification) string {
	switch shape.Kind {
	case relation.OneToMany:
		if shape.Mandatory {
			return " NOT NULL"
		}
		return ""
	case relation.OneToOne:
		if shape.FirstCat == erd.One {
			return " UNIQUE NOT NULL"
		}
		return " UNIQUE"
	}
	return ""
}
