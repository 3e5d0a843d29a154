// Package schema holds the declarative star-schema model consumed by the
// synthesis engine, together with its validation rules and file loader.
package schema

const (
	// DimensionKeyColumn is the implicit surrogate key of every dimension table.
	DimensionKeyColumn = "ID"
	// FactKeyColumn is the implicit surrogate key of every fact table.
	FactKeyColumn = "Fact_ID"
)

// ForeignKeyColumn returns the name of the column a fact table uses to
// reference the given dimension.
func ForeignKeyColumn(dimension string) string {
	return dimension + "_" + DimensionKeyColumn
}

// ColumnDef defines a single declared column.
type ColumnDef struct {
	Name     string     `yaml:"name" json:"name"`
	Type     ColumnType `yaml:"type" json:"type"`
	Constant any        `yaml:"constant,omitempty" json:"constant,omitempty"`
}

// HasConstant reports whether the column is pinned to a fixed value.
// An empty string does not count as a constant.
func (c ColumnDef) HasConstant() bool {
	if c.Constant == nil {
		return false
	}
	if s, ok := c.Constant.(string); ok && s == "" {
		return false
	}
	return true
}

// DimensionDef defines a dimension table. The primary key column is implicit.
type DimensionDef struct {
	Name    string      `yaml:"name" json:"name"`
	Rows    int         `yaml:"rows" json:"rows"`
	Columns []ColumnDef `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// FactDef defines a fact table. The fact key and one foreign key per linked
// dimension are implicit; Columns lists the measures only.
type FactDef struct {
	Name       string      `yaml:"name" json:"name"`
	Rows       int         `yaml:"rows" json:"rows"`
	Dimensions []string    `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	Columns    []ColumnDef `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// Schema is a full synthesis request. Slices keep the authoring order so that
// seeded builds are reproducible.
type Schema struct {
	Dimensions []DimensionDef `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	Facts      []FactDef      `yaml:"facts,omitempty" json:"facts,omitempty"`
}

// Dimension looks up a dimension definition by name.
func (s *Schema) Dimension(name string) (DimensionDef, bool) {
	for _, d := range s.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return DimensionDef{}, false
}

// TableCount returns the number of declared tables.
func (s *Schema) TableCount() int {
	return len(s.Dimensions) + len(s.Facts)
}
