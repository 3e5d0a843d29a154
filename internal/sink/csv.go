package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/DGarbs51/mockedup/internal/synth"
)

// CSV writes one <table>.csv file per table into a directory.
type CSV struct {
	dir string
	log *zap.Logger
}

func NewCSV(dir string, log *zap.Logger) *CSV {
	return &CSV{dir: dir, log: log}
}

func (c *CSV) Write(ctx context.Context, ds *synth.Dataset) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", c.dir, err)
	}
	for _, t := range ds.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := t.Name + ".csv"
		if !filepath.IsLocal(name) || filepath.Base(name) != name {
			return fmt.Errorf("write %s: table name is not a plain file name", t.Name)
		}
		path := filepath.Join(c.dir, name)
		if err := writeCSVFile(path, t); err != nil {
			return fmt.Errorf("write %s: %w", t.Name, err)
		}
		c.log.Debug("Wrote CSV", zap.String("table", t.Name), zap.String("path", path))
	}
	c.log.Info("Wrote CSV files", zap.String("dir", c.dir), zap.Int("tables", len(ds.Tables)))
	return nil
}

func writeCSVFile(path string, t *synth.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header()); err != nil {
		return err
	}
	kinds := columnKinds(t)
	record := make([]string, len(t.Columns))
	for r := range t.RowCount() {
		for i, c := range t.Columns {
			record[i] = formatCell(kinds[i], c.Values[r])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
