package synth

import "github.com/DGarbs51/mockedup/internal/schema"

type TableKind string

const (
	DimensionTable TableKind = "dimension"
	FactTable      TableKind = "fact"
)

type ColumnRole string

const (
	KeyColumn        ColumnRole = "key"
	ForeignKeyColumn ColumnRole = "foreign_key"
	AttributeColumn  ColumnRole = "attribute"
)

// Column is one named, fully materialized column.
type Column struct {
	Name string
	Role ColumnRole
	Type schema.ColumnType
	// References names the dimension a foreign key column points at.
	References string
	Values     []any
}

// Table is a built dimension or fact table. The key column is always first;
// fact tables follow it with their foreign keys, then measures. Tables are not
// modified after they are returned.
type Table struct {
	Name    string
	Kind    TableKind
	Columns []Column
}

// RowCount returns the number of rows, which every column shares.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Key returns the surrogate key column.
func (t *Table) Key() *Column {
	return &t.Columns[0]
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Header returns the column names in table order.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// ForeignKeys returns the foreign key columns in link order.
func (t *Table) ForeignKeys() []Column {
	var fks []Column
	for _, c := range t.Columns {
		if c.Role == ForeignKeyColumn {
			fks = append(fks, c)
		}
	}
	return fks
}

// Dataset is the result of one synthesis run: dimensions first, then facts,
// each group in schema order.
type Dataset struct {
	// Seed reproduces this dataset when passed back to the Synthesizer.
	Seed        uint64
	Tables      []*Table
	Diagnostics []Diagnostic
}

// Table looks up a table by name.
func (d *Dataset) Table(name string) (*Table, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the table names in output order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Tables))
	for i, t := range d.Tables {
		names[i] = t.Name
	}
	return names
}
