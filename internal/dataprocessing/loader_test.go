package dataprocessing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
)

// writeWorkbook builds a workbook fixture with the given header and rows
// and saves it under dir.
func writeWorkbook(t *testing.T, dir, name string, header []string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for j, h := range header {
		col, err := excelize.ColumnNumberToName(j + 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, col+"1", h))
	}
	for i, row := range rows {
		for j, v := range row {
			col, err := excelize.ColumnNumberToName(j + 1)
			require.NoError(t, err)
			cell := fmt.Sprintf("%s%d", col, i+2)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

var salesHeader = []string{"Date", "Product", "Category", "Sales", "Quantity", "Price"}

func TestLoader_Load(t *testing.T) {
	tmpDir := t.TempDir()

	path := writeWorkbook(t, tmpDir, "sales.xlsx", salesHeader, [][]interface{}{
		{"2024-01-05", "Widget", "Tools", 100, 2, 50},
		{"2024-01-20", "Widget", "Tools", 50, 1, 50},
		{"2024-02-01", "Gadget", "Electronics", 75.5, 3, 25.17},
	})

	loader := NewLoader(slog.Default())
	records, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "Widget", first.Product)
	assert.Equal(t, "Tools", first.Category)
	assert.Equal(t, 100.0, first.Sales)
	assert.Equal(t, int64(2), first.Quantity)
	assert.Equal(t, 50.0, first.Price)
	assert.Equal(t, "2024-01", first.Month())

	// Input order is preserved.
	assert.Equal(t, "Gadget", records[2].Product)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := NewLoader(slog.Default())

	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
}

func TestLoader_Load_MissingColumn(t *testing.T) {
	tmpDir := t.TempDir()

	// No Category column: loading must fail, not silently corrupt.
	header := []string{"Date", "Product", "Sales", "Quantity", "Price"}
	path := writeWorkbook(t, tmpDir, "partial.xlsx", header, [][]interface{}{
		{"2024-01-05", "Widget", 100, 2, 50},
	})

	loader := NewLoader(slog.Default())
	_, err := loader.Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
}

func TestLoader_Load_SkipsUnparseableRows(t *testing.T) {
	tmpDir := t.TempDir()

	path := writeWorkbook(t, tmpDir, "mixed.xlsx", salesHeader, [][]interface{}{
		{"2024-01-05", "Widget", "Tools", 100, 2, 50},
		{"not-a-date", "Widget", "Tools", 100, 2, 50},
		{"2024-01-06", "Widget", "Tools", "oops", 2, 50},
		{"2024-01-07", "Widget", "Tools", -5, 2, 50}, // negative sales violates the invariant
		{"2024-01-08", "Gizmo", "Tools", 20, 1, 20},
	})

	loader := NewLoader(slog.Default())
	records, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Widget", records[0].Product)
	assert.Equal(t, "Gizmo", records[1].Product)
}

func TestLoader_Load_HeaderNotOnFirstRow(t *testing.T) {
	tmpDir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Quarterly sales export"))
	for j, h := range salesHeader {
		col, err := excelize.ColumnNumberToName(j + 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, col+"3", h))
	}
	row := []interface{}{"2024-03-01", "Widget", "Tools", 10, 1, 10}
	for j, v := range row {
		col, err := excelize.ColumnNumberToName(j + 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, col+"4", v))
	}
	path := filepath.Join(tmpDir, "offset.xlsx")
	require.NoError(t, f.SaveAs(path))

	loader := NewLoader(slog.Default())
	records, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Widget", records[0].Product)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"iso", "2024-01-05", "2024-01-05", true},
		{"us slash", "1/5/2024", "2024-01-05", true},
		{"excel default", "01-05-24", "2024-01-05", true},
		{"serial", "45296", "2024-01-05", true},
		{"garbage", "yesterday", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}
