package synth

import "fmt"

type DiagnosticKind string

const (
	// UnknownColumnType: the column was filled with producer.Unavailable.
	UnknownColumnType DiagnosticKind = "unknown_column_type"
	// InsufficientDimensionRows: a fact has more rows than a linked
	// dimension, so repeated foreign keys are guaranteed. Informational.
	InsufficientDimensionRows DiagnosticKind = "insufficient_dimension_rows"
)

// Diagnostic is a non-fatal observation made while building a table.
type Diagnostic struct {
	Kind    DiagnosticKind
	Table   string
	Column  string
	Message string
}

func (d Diagnostic) String() string {
	if d.Column != "" {
		return fmt.Sprintf("%s: %s.%s: %s", d.Kind, d.Table, d.Column, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Table, d.Message)
}
