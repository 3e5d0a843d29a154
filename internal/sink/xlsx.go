package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/DGarbs51/mockedup/internal/synth"
)

const defaultSheet = "Sheet1"

// ErrSheetExists reports two tables whose names map to the same sheet; sheet
// titles compare case-insensitively.
var ErrSheetExists = errors.New("sheet already exists")

// XLSX writes a workbook with one sheet per table.
type XLSX struct {
	path string
	log  *zap.Logger
}

func NewXLSX(path string, log *zap.Logger) *XLSX {
	return &XLSX{path: path, log: log}
}

func (x *XLSX) Write(ctx context.Context, ds *synth.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range ds.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if idx, err := f.GetSheetIndex(t.Name); err != nil {
			return fmt.Errorf("sheet for %s: %w", t.Name, err)
		} else if i > 0 && idx >= 0 {
			return fmt.Errorf("sheet for %s: %w", t.Name, ErrSheetExists)
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return fmt.Errorf("sheet for %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("sheet for %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return fmt.Errorf("write sheet %s: %w", t.Name, err)
		}
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", x.path, err)
	}
	x.log.Info("Wrote workbook", zap.String("path", x.path), zap.Int("sheets", len(ds.Tables)))
	return nil
}

func writeSheet(f *excelize.File, t *synth.Table) error {
	sw, err := f.NewStreamWriter(t.Name)
	if err != nil {
		return err
	}

	header := make([]any, len(t.Columns))
	for i, name := range t.Header() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	kinds := columnKinds(t)
	for r := range t.RowCount() {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		row := t.Row(r)
		for i, v := range row {
			row[i] = textTime(kinds[i], v)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
