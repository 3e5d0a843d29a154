package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/DGarbs51/mockedup/internal/schema"
	"github.com/DGarbs51/mockedup/internal/synth"
)

func TestXLSX_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock_data.xlsx")
	require.NoError(t, NewXLSX(path, zap.NewNop()).Write(t.Context(), testDataset()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Dim_City", "Fact_Visit"}, f.GetSheetList())

	rows, err := f.GetRows("Dim_City")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "CityName", "Founded"}, rows[0])
	assert.Equal(t, []string{"1", "Oslo", "1048-01-01"}, rows[1])
	assert.Equal(t, []string{"2", "Lima", "1535-01-18"}, rows[2])

	rows, err = f.GetRows("Fact_Visit")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Fact_ID", "Dim_City_ID", "Rating", "Returning", "VisitedAt", "Mystery"}, rows[0])
	for i, row := range rows[1:] {
		require.Len(t, row, 6)
		assert.Equal(t, []string{"1", "2", "3"}[i], row[0])
		assert.Equal(t, "2026-10-16T09:30:00Z", row[4])
		assert.Equal(t, "N/A", row[5])
	}
}

func TestXLSX_WriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	path := filepath.Join(t.TempDir(), "mock_data.xlsx")
	err := NewXLSX(path, zap.NewNop()).Write(ctx, testDataset())
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestCSV_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, NewCSV(dir, zap.NewNop()).Write(t.Context(), testDataset()))

	records := readCSV(t, filepath.Join(dir, "Dim_City.csv"))
	assert.Equal(t, [][]string{
		{"ID", "CityName", "Founded"},
		{"1", "Oslo", "1048-01-01"},
		{"2", "Lima", "1535-01-18"},
	}, records)

	records = readCSV(t, filepath.Join(dir, "Fact_Visit.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, []string{"1", "2", "4.5", "true", "2026-10-16T09:30:00Z", "N/A"}, records[1])
	assert.Equal(t, []string{"3", "2", "5", "true", "2026-10-16T09:30:00Z", "N/A"}, records[3])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestJSON_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSON(&buf).Write(t.Context(), testDataset()))

	var doc struct {
		Seed   uint64 `json:"seed"`
		Tables []struct {
			Name    string   `json:"name"`
			Kind    string   `json:"kind"`
			Columns []string `json:"columns"`
			Rows    [][]any  `json:"rows"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, uint64(42), doc.Seed)
	require.Len(t, doc.Tables, 2)

	dim := doc.Tables[0]
	assert.Equal(t, "Dim_City", dim.Name)
	assert.Equal(t, string(synth.DimensionTable), dim.Kind)
	assert.Equal(t, []string{"ID", "CityName", "Founded"}, dim.Columns)
	assert.Equal(t, []any{float64(1), "Oslo", "1048-01-01"}, dim.Rows[0])

	fact := doc.Tables[1]
	assert.Equal(t, string(synth.FactTable), fact.Kind)
	require.Len(t, fact.Rows, 3)
	assert.Equal(t, []any{float64(2), float64(1), 3.25, true, "2026-10-16T09:30:00Z", "N/A"}, fact.Rows[1])
}

// midnightDataset holds a timestamp column whose every value falls on
// midnight, next to a date column with the same instant.
func midnightDataset() *synth.Dataset {
	midnight := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	return &synth.Dataset{Tables: []*synth.Table{{
		Name: "Dim_Day",
		Kind: synth.DimensionTable,
		Columns: []synth.Column{
			{Name: "ID", Role: synth.KeyColumn, Type: schema.Integer, Values: []any{1}},
			{Name: "Day", Role: synth.AttributeColumn, Type: schema.Date, Values: []any{midnight}},
			{Name: "LoggedAt", Role: synth.AttributeColumn, Type: schema.Timestamp, Values: []any{midnight}},
		},
	}}}
}

func TestFileSinks_TimestampAtMidnightKeepsTime(t *testing.T) {
	want := []string{"1", "2026-10-16", "2026-10-16T00:00:00Z"}

	dir := t.TempDir()
	require.NoError(t, NewCSV(dir, zap.NewNop()).Write(t.Context(), midnightDataset()))
	assert.Equal(t, want, readCSV(t, filepath.Join(dir, "Dim_Day.csv"))[1])

	path := filepath.Join(dir, "days.xlsx")
	require.NoError(t, NewXLSX(path, zap.NewNop()).Write(t.Context(), midnightDataset()))
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Dim_Day")
	require.NoError(t, err)
	assert.Equal(t, want, rows[1])

	var buf bytes.Buffer
	require.NoError(t, NewJSON(&buf).Write(t.Context(), midnightDataset()))
	var doc struct {
		Tables []struct {
			Rows [][]any `json:"rows"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []any{float64(1), want[1], want[2]}, doc.Tables[0].Rows[0])
}

func TestXLSX_SheetNamesDifferingByCase(t *testing.T) {
	ds := &synth.Dataset{Tables: []*synth.Table{
		{Name: "Sales", Kind: synth.DimensionTable, Columns: []synth.Column{
			{Name: "ID", Role: synth.KeyColumn, Type: schema.Integer, Values: []any{1, 2}},
			{Name: "A", Role: synth.AttributeColumn, Type: schema.Integer, Values: []any{5, 6}},
		}},
		{Name: "sales", Kind: synth.DimensionTable, Columns: []synth.Column{
			{Name: "ID", Role: synth.KeyColumn, Type: schema.Integer, Values: []any{1, 2, 3}},
		}},
	}}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	err := NewXLSX(path, zap.NewNop()).Write(t.Context(), ds)
	require.ErrorIs(t, err, ErrSheetExists)
	assert.NoFileExists(t, path)
}

func TestCSV_RejectsTableNameOutsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "out")
	ds := &synth.Dataset{Tables: []*synth.Table{{
		Name: "../escaped",
		Kind: synth.DimensionTable,
		Columns: []synth.Column{
			{Name: "ID", Role: synth.KeyColumn, Type: schema.Integer, Values: []any{1}},
		},
	}}}

	err := NewCSV(dir, zap.NewNop()).Write(t.Context(), ds)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(root, "escaped.csv"))
}
