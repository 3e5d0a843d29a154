package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/DGarbs51/mockedup/internal/synth"
)

type jsonDataset struct {
	Seed   uint64      `json:"seed"`
	Tables []jsonTable `json:"tables"`
}

type jsonTable struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// JSON writes the whole dataset as one indented document.
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) Write(ctx context.Context, ds *synth.Dataset) error {
	doc := jsonDataset{Seed: ds.Seed, Tables: make([]jsonTable, 0, len(ds.Tables))}
	for _, t := range ds.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		jt := jsonTable{
			Name:    t.Name,
			Kind:    string(t.Kind),
			Columns: t.Header(),
			Rows:    make([][]any, t.RowCount()),
		}
		kinds := columnKinds(t)
		for r := range jt.Rows {
			row := t.Row(r)
			for i, v := range row {
				row[i] = textTime(kinds[i], v)
			}
			jt.Rows[r] = row
		}
		doc.Tables = append(doc.Tables, jt)
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
