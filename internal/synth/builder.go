package synth

import (
	"fmt"

	"github.com/DGarbs51/mockedup/internal/producer"
	"github.com/DGarbs51/mockedup/internal/schema"
)

// BuildDimension materializes a dimension: the key column 1..Rows followed by
// one independently generated column per declared column.
func BuildDimension(def schema.DimensionDef, reg *producer.Registry) (*Table, []Diagnostic) {
	t := &Table{
		Name:    def.Name,
		Kind:    DimensionTable,
		Columns: make([]Column, 0, 1+len(def.Columns)),
	}
	t.Columns = append(t.Columns, keyColumn(schema.DimensionKeyColumn, def.Rows))

	cols, diags := declaredColumns(def.Name, def.Columns, def.Rows, reg)
	t.Columns = append(t.Columns, cols...)
	return t, diags
}

// BuildFact materializes a fact: the fact key 1..Rows, one foreign key per
// linked dimension sampled uniformly with replacement from that dimension's
// key column, then the measures. Every linked dimension must be present in
// dims; a missing one is a programming error and panics.
func BuildFact(def schema.FactDef, dims map[string]*Table, reg *producer.Registry) (*Table, []Diagnostic) {
	t := &Table{
		Name:    def.Name,
		Kind:    FactTable,
		Columns: make([]Column, 0, 1+len(def.Dimensions)+len(def.Columns)),
	}
	t.Columns = append(t.Columns, keyColumn(schema.FactKeyColumn, def.Rows))

	var diags []Diagnostic
	pool := newKeyPool(reg.Source())
	for _, name := range def.Dimensions {
		dim, ok := dims[name]
		if !ok {
			panic(fmt.Sprintf("synth: fact %q links dimension %q which was not built", def.Name, name))
		}
		pool.add(name, dim.Key().Values)

		if n := pool.count(name); def.Rows > n {
			diags = append(diags, Diagnostic{
				Kind:    InsufficientDimensionRows,
				Table:   def.Name,
				Column:  schema.ForeignKeyColumn(name),
				Message: fmt.Sprintf("%d fact rows reference %d rows of %s; keys will repeat", def.Rows, n, name),
			})
		}

		values := make([]any, def.Rows)
		for i := range values {
			values[i] = pool.randomKey(name)
		}
		t.Columns = append(t.Columns, Column{
			Name:       schema.ForeignKeyColumn(name),
			Role:       ForeignKeyColumn,
			Type:       schema.Integer,
			References: name,
			Values:     values,
		})
	}

	cols, colDiags := declaredColumns(def.Name, def.Columns, def.Rows, reg)
	t.Columns = append(t.Columns, cols...)
	return t, append(diags, colDiags...)
}

func keyColumn(name string, rows int) Column {
	values := make([]any, rows)
	for i := range values {
		values[i] = i + 1
	}
	return Column{Name: name, Role: KeyColumn, Type: schema.Integer, Values: values}
}

// declaredColumns fills each declared column by calling its producer once per
// row, in row order. A column whose type has no producer degrades to
// producer.Unavailable on its own without affecting the others.
func declaredColumns(table string, defs []schema.ColumnDef, rows int, reg *producer.Registry) ([]Column, []Diagnostic) {
	var diags []Diagnostic
	cols := make([]Column, 0, len(defs))
	for _, def := range defs {
		produce, ok := reg.Resolve(def.Type, def.Constant)
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:    UnknownColumnType,
				Table:   table,
				Column:  def.Name,
				Message: fmt.Sprintf("type %q has no producer; filled with %q", def.Type, producer.Unavailable),
			})
		}
		values := make([]any, rows)
		for i := range values {
			values[i] = produce()
		}
		cols = append(cols, Column{Name: def.Name, Role: AttributeColumn, Type: def.Type, Values: values})
	}
	return cols, diags
}

// keyPool tracks the surrogate keys of built dimensions for foreign key sampling.
type keyPool struct {
	src  *producer.Source
	pool map[string][]any
}

func newKeyPool(src *producer.Source) *keyPool {
	return &keyPool{src: src, pool: make(map[string][]any)}
}

func (p *keyPool) add(table string, keys []any) {
	p.pool[table] = append(p.pool[table], keys...)
}

func (p *keyPool) randomKey(table string) any {
	keys := p.pool[table]
	return keys[p.src.IntN(len(keys))]
}

func (p *keyPool) count(table string) int {
	return len(p.pool[table])
}
