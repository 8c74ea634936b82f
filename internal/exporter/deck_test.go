package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
)

func TestDeckWriter_Write(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "deck.xlsx")

	writer := NewDeckWriter(slog.Default())
	require.NoError(t, writer.Write(path, testSummary(), 10))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{slideCategoryShare, slideProductShare}, f.GetSheetList())

	title, err := f.GetCellValue(slideCategoryShare, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales by Category", title)

	label, err := f.GetCellValue(slideCategoryShare, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Tools", label)

	title, err = f.GetCellValue(slideProductShare, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales by Product", title)
}

func TestDeckWriter_Write_TopNBoundsProductSlide(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "deck.xlsx")

	writer := NewDeckWriter(slog.Default())
	require.NoError(t, writer.Write(path, testSummary(), 1))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(slideProductShare)
	require.NoError(t, err)
	// Title row plus exactly one product row.
	assert.Len(t, rows, 2)
}

func TestDeckWriter_Write_UnwritableDestination(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	writer := NewDeckWriter(slog.Default())
	err := writer.Write(filepath.Join(blocker, "deck.xlsx"), testSummary(), 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWrite))
}
