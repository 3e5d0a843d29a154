package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrDuplicateTable   = errors.New("duplicate table name")
	ErrInvalidTableName = errors.New("table name is not usable as a sheet or file name")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrDuplicateLink    = errors.New("dimension linked more than once")
	ErrRowCount         = errors.New("row count out of bounds")
	ErrTooManyColumns   = errors.New("too many columns")
	ErrTooManyTables    = errors.New("too many tables")
	ErrDuplicateColumn  = errors.New("duplicate column name")
	ErrReservedColumn   = errors.New("column name collides with an implicit key column")
	ErrMissingConstant  = errors.New("custom column requires a constant")
)

// Issue is one reason a schema was rejected. Table and Column are empty when
// the problem is not tied to one.
type Issue struct {
	Table  string
	Column string
	Err    error
	Detail string
}

func (i Issue) Error() string {
	var b strings.Builder
	switch {
	case i.Table != "" && i.Column != "":
		fmt.Fprintf(&b, "table %q column %q: ", i.Table, i.Column)
	case i.Table != "":
		fmt.Fprintf(&b, "table %q: ", i.Table)
	}
	b.WriteString(i.Err.Error())
	if i.Detail != "" {
		b.WriteString(" (")
		b.WriteString(i.Detail)
		b.WriteString(")")
	}
	return b.String()
}

func (i Issue) Unwrap() error { return i.Err }

// ValidationError reports every issue found in a schema. Nothing is built
// when it is returned.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("schema validation failed with %d issue(s): %s", len(e.Issues), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		errs[i] = issue
	}
	return errs
}
