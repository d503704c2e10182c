package sqlddl

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/dialect"
	"github.com/leapstack-labs/erdgen/pkg/erd"
	"github.com/leapstack-labs/erdgen/pkg/erd/relation"
)

// precisionTypes take an explicit precision next to the size.
var precisionTypes = []string{"float", "double"}

// Generate renders the DROP and CREATE statements of p for d.
func Generate(p *Plan, d dialect.Writer) ([]byte, error) {
	var buf bytes.Buffer

	for _, c := range slices.Backward(p.Tables) {
		fmt.Fprintf(&buf, "DROP TABLE %s;\n", d.QuoteIdentifier(c.Name()))
	}
	buf.WriteString("\n")

	for _, c := range p.Tables {
		if err := writeTable(&buf, d, c, p.ForeignKeys(c)); err != nil {
			return nil, fmt.Errorf("table %q: %w", c.Name(), err)
		}
	}
	return buf.Bytes(), nil
}

func writeTable(w io.Writer, d dialect.Writer, c *cim.Class, keys []ForeignKey) error {
	if _, err := fmt.Fprintf(w, "CREATE TABLE %s (\n", d.QuoteIdentifier(c.Name())); err != nil {
		return err
	}

	var pkCols []dialect.Column
	for _, p := range c.Properties() {
		col, err := Column(d, p)
		if err != nil {
			return err
		}
		pk, err := cim.First[*erd.PrimaryKey](p)
		if err != nil {
			return fmt.Errorf("property %q: %w", p.Name(), err)
		}
		if pk.Key {
			pkCols = append(pkCols, col)
		}
		if err := d.WriteDataColumn(w, col, pk.AutoSequence, pk.Key); err != nil {
			return err
		}
	}

	constraints := make([]dialect.ForeignKey, 0, len(keys))
	for _, fk := range keys {
		keyCol, err := Column(d, fk.Key)
		if err != nil {
			return fmt.Errorf("key of %q: %w", fk.Referenced.Name(), err)
		}
		col := dialect.Column{Name: fk.Name, Type: keyCol.Type, Size: keyCol.Size}
		if err := d.WriteForeignKeyColumn(w, col, fk.Modifiers); err != nil {
			return err
		}
		constraints = append(constraints, dialect.ForeignKey{
			Column:    fk.Name,
			Table:     fk.Referenced.Name(),
			RefColumn: keyCol.Name,
		})
	}

	if err := d.WriteVersionColumn(w); err != nil {
		return err
	}
	if err := d.WritePrimaryKeyConstraint(w, c.Name(), pkCols); err != nil {
		return err
	}
	for _, fk := range constraints {
		if _, err := io.WriteString(w, ",\n"); err != nil {
			return err
		}
		if err := d.WriteForeignConstraint(w, fk); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n);\n\n")
	return err
}

// Column resolves the column of property p: its mapped name, the native
// type and either the mapped size or the dialect's default size.
func Column(d dialect.Writer, p *cim.Property) (dialect.Column, error) {
	typ, err := cim.First[*erd.Type](p)
	if err != nil {
		return dialect.Column{}, fmt.Errorf("property %q: %w", p.Name(), err)
	}
	details, err := cim.First[*erd.MappingDetails](p)
	if err != nil {
		return dialect.Column{}, fmt.Errorf("property %q: %w", p.Name(), err)
	}

	sqlType, err := d.SuggestSQLType(typ.Name)
	if err != nil {
		return dialect.Column{}, fmt.Errorf("property %q: %w", p.Name(), err)
	}

	var size string
	if details.Size >= 0 {
		var sb strings.Builder
		sb.WriteString(" (" + strconv.Itoa(details.Size))
		if details.Precision >= 0 && slices.Contains(precisionTypes, typ.Name) {
			sb.WriteString("," + strconv.Itoa(details.Precision))
		}
		sb.WriteString(")")
		size = sb.String()
	} else if size, err = d.SuggestSQLSize(typ.Name); err != nil {
		return dialect.Column{}, fmt.Errorf("property %q: %w", p.Name(), err)
	}

	return dialect.Column{Name: relation.ColumnName(p), Type: sqlType, Size: size}, nil
}
