package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTableNameLength is the longest table name every sink can store; Excel
// caps sheet titles at 31 characters.
const MaxTableNameLength = 31

// tableNameForbidden holds characters that are illegal in sheet titles or
// would let a table name leave the CSV output directory.
const tableNameForbidden = `:\/?*[]`

// Limits bounds the size of a schema so a single request cannot exhaust memory.
type Limits struct {
	MaxRows    int
	MaxColumns int
	MaxTables  int
}

// DefaultLimits returns the caps applied when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxRows:    100000,
		MaxColumns: 64,
		MaxTables:  50,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxRows <= 0 {
		l.MaxRows = d.MaxRows
	}
	if l.MaxColumns <= 0 {
		l.MaxColumns = d.MaxColumns
	}
	if l.MaxTables <= 0 {
		l.MaxTables = d.MaxTables
	}
	return l
}

// Validate checks the schema against limits and returns a *ValidationError
// listing every problem, or nil. Non-positive limit fields fall back to
// DefaultLimits.
func (s *Schema) Validate(limits Limits) error {
	limits = limits.withDefaults()
	v := &validator{limits: limits, tables: make(map[string]string)}

	if n := s.TableCount(); n > limits.MaxTables {
		v.add(Issue{Err: ErrTooManyTables, Detail: fmt.Sprintf("%d tables, maximum is %d", n, limits.MaxTables)})
	}

	dimensions := make(map[string]bool, len(s.Dimensions))
	for i, d := range s.Dimensions {
		if !v.tableName(d.Name, "dimension", i) {
			continue
		}
		dimensions[d.Name] = true
		v.rows(d.Name, d.Rows)
		v.columns(d.Name, d.Columns, map[string]bool{DimensionKeyColumn: true})
	}

	for i, f := range s.Facts {
		if !v.tableName(f.Name, "fact", i) {
			continue
		}
		v.rows(f.Name, f.Rows)

		reserved := map[string]bool{FactKeyColumn: true}
		linked := make(map[string]bool, len(f.Dimensions))
		for _, dim := range f.Dimensions {
			if linked[dim] {
				v.add(Issue{Table: f.Name, Err: ErrDuplicateLink, Detail: dim})
				continue
			}
			linked[dim] = true
			if fk := ForeignKeyColumn(dim); fk == FactKeyColumn {
				v.add(Issue{Table: f.Name, Column: fk, Err: ErrReservedColumn, Detail: fmt.Sprintf("foreign key for %q", dim)})
			} else {
				reserved[fk] = true
			}
			if !dimensions[dim] {
				v.add(Issue{Table: f.Name, Err: ErrUnknownDimension, Detail: fmt.Sprintf("references %q", dim)})
			}
		}
		v.columns(f.Name, f.Columns, reserved)
	}

	if len(v.issues) > 0 {
		return &ValidationError{Issues: v.issues}
	}
	return nil
}

type validator struct {
	limits Limits
	tables map[string]string
	issues []Issue
}

func (v *validator) add(issue Issue) {
	v.issues = append(v.issues, issue)
}

// tableName records a table name and reports whether it is usable. Names
// are unique ignoring case, since sheet titles and some filesystems are.
func (v *validator) tableName(name, kind string, index int) bool {
	if name == "" {
		v.add(Issue{Err: ErrEmptyName, Detail: fmt.Sprintf("%s #%d", kind, index+1)})
		return false
	}
	if reason := invalidTableName(name); reason != "" {
		v.add(Issue{Table: name, Err: ErrInvalidTableName, Detail: reason})
		return false
	}
	key := strings.ToLower(name)
	if prev, ok := v.tables[key]; ok {
		v.add(Issue{Table: name, Err: ErrDuplicateTable, Detail: fmt.Sprintf("declared as %s and %s", prev, kind)})
		return false
	}
	v.tables[key] = kind
	return true
}

// invalidTableName returns why name cannot be used as a sheet title or file
// name, or "" when it can.
func invalidTableName(name string) string {
	switch {
	case utf8.RuneCountInString(name) > MaxTableNameLength:
		return fmt.Sprintf("longer than %d characters", MaxTableNameLength)
	case strings.ContainsAny(name, tableNameForbidden):
		return "contains one of " + tableNameForbidden
	case name == "." || name == "..":
		return "reserved path name"
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return "starts or ends with an apostrophe"
	}
	return ""
}

func (v *validator) rows(table string, rows int) {
	if rows < 1 || rows > v.limits.MaxRows {
		v.add(Issue{Table: table, Err: ErrRowCount, Detail: fmt.Sprintf("rows=%d, allowed 1..%d", rows, v.limits.MaxRows)})
	}
}

func (v *validator) columns(table string, cols []ColumnDef, reserved map[string]bool) {
	if len(cols) > v.limits.MaxColumns {
		v.add(Issue{Table: table, Err: ErrTooManyColumns, Detail: fmt.Sprintf("%d columns, maximum is %d", len(cols), v.limits.MaxColumns)})
	}
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		switch {
		case c.Name == "":
			v.add(Issue{Table: table, Err: ErrEmptyName, Detail: fmt.Sprintf("column #%d", i+1)})
			continue
		case reserved[c.Name]:
			v.add(Issue{Table: table, Column: c.Name, Err: ErrReservedColumn})
		case seen[c.Name]:
			v.add(Issue{Table: table, Column: c.Name, Err: ErrDuplicateColumn})
		}
		seen[c.Name] = true
		if c.Type == Custom && !c.HasConstant() {
			v.add(Issue{Table: table, Column: c.Name, Err: ErrMissingConstant})
		}
	}
}
