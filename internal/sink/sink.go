// Package sink serializes synthesized datasets. Every sink writes tables in
// dataset order (dimensions before facts), a header of column names and then
// the rows in row order.
package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DGarbs51/mockedup/internal/schema"
	"github.com/DGarbs51/mockedup/internal/synth"
)

// Sink accepts a finished dataset.
type Sink interface {
	Write(ctx context.Context, ds *synth.Dataset) error
}

// Multi writes one dataset to several sinks concurrently. The dataset is
// read-only, so the sinks share it without copying.
type Multi []Sink

func (m Multi) Write(ctx context.Context, ds *synth.Dataset) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range m {
		g.Go(func() error { return s.Write(ctx, ds) })
	}
	return g.Wait()
}

// WithExtension appends ext to path unless it already ends with it.
func WithExtension(path, ext string) string {
	if filepath.Ext(path) == ext {
		return path
	}
	return path + ext
}

const dateLayout = "2006-01-02"

// isDate reports whether t carries no time of day.
func isDate(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// formatTime renders t as YYYY-MM-DD in date columns and as RFC 3339
// everywhere else.
func formatTime(k valueKind, t time.Time) string {
	if k == dateKind {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339)
}

// textTime replaces a time value with its text form for a column of kind k.
func textTime(k valueKind, v any) any {
	if t, ok := v.(time.Time); ok {
		return formatTime(k, t)
	}
	return v
}

// formatCell renders a value of a kind-k column for text-based containers.
func formatCell(k valueKind, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return formatTime(k, x)
	default:
		return fmt.Sprint(x)
	}
}

// valueKind classifies a column for typed containers by the Go type of its
// first value. Columns without rows fall back to text, keys are always
// integers.
type valueKind int

const (
	textKind valueKind = iota
	intKind
	floatKind
	boolKind
	dateKind
	timestampKind
)

func kindOf(c *synth.Column) valueKind {
	if c.Role != synth.AttributeColumn {
		return intKind
	}
	if len(c.Values) == 0 {
		return textKind
	}
	switch v := c.Values[0].(type) {
	case int, int64:
		return intKind
	case float64:
		return floatKind
	case bool:
		return boolKind
	case time.Time:
		if c.Type == schema.Date || c.Type == schema.Birthdate || (c.Type == schema.Custom && isDate(v)) {
			return dateKind
		}
		return timestampKind
	default:
		return textKind
	}
}

// typedValue converts v to the Go type drivers expect for kind k.
func typedValue(k valueKind, v any) any {
	switch k {
	case intKind:
		if i, ok := v.(int); ok {
			return int64(i)
		}
	case textKind:
		if _, ok := v.(string); !ok {
			return formatCell(k, v)
		}
	}
	return v
}

func columnKinds(t *synth.Table) []valueKind {
	kinds := make([]valueKind, len(t.Columns))
	for i := range t.Columns {
		kinds[i] = kindOf(&t.Columns[i])
	}
	return kinds
}

// typedRow returns row r with every value converted for its column kind.
func typedRow(t *synth.Table, kinds []valueKind, r int) []any {
	row := t.Row(r)
	for i, v := range row {
		row[i] = typedValue(kinds[i], v)
	}
	return row
}
