package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/pkg/contracts/domain"
)

const (
	slideCategoryShare = "Category Share"
	slideProductShare  = "Product Share"
)

// DeckWriter composes the slide-deck workbook: one sheet per slide, each
// carrying a title and a pie chart over its backing data.
type DeckWriter struct {
	logger *slog.Logger
}

// NewDeckWriter creates a deck writer.
func NewDeckWriter(logger *slog.Logger) *DeckWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckWriter{logger: logger}
}

// Write builds the deck at path with a category-share slide and a
// top-product-share slide, overwriting any existing file. topN bounds the
// product slide. Fails with a WRITE error when the destination is not
// writable.
func (d *DeckWriter) Write(path string, summary *domain.SalesSummary, topN int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := d.writeCategorySlide(f, summary.Categories); err != nil {
		return err
	}
	if err := d.writeProductSlide(f, summary.TopProducts(topN)); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.NewWriteError("failed to remove default sheet", err)
	}
	if idx, err := f.GetSheetIndex(slideCategoryShare); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewWriteError("failed to create deck directory", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewWriteError(fmt.Sprintf("failed to save deck workbook to %s", path), err)
	}

	d.logger.Info("slide deck generated", slog.String("path", path))

	return nil
}

func (d *DeckWriter) writeCategorySlide(f *excelize.File, categories []domain.CategorySummary) error {
	labels := make([]string, 0, len(categories))
	values := make([]float64, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, c.Category)
		values = append(values, c.TotalSales)
	}
	return d.writeSlide(f, slideCategoryShare, "Sales by Category", labels, values)
}

func (d *DeckWriter) writeProductSlide(f *excelize.File, products []domain.ProductSummary) error {
	labels := make([]string, 0, len(products))
	values := make([]float64, 0, len(products))
	for _, p := range products {
		labels = append(labels, p.Product)
		values = append(values, p.TotalSales)
	}
	return d.writeSlide(f, slideProductShare, "Sales by Product", labels, values)
}

// writeSlide lays out one slide: title cell, backing label/value columns,
// and a pie chart over them.
func (d *DeckWriter) writeSlide(f *excelize.File, sheet, title string, labels []string, values []float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewWriteError(fmt.Sprintf("failed to create slide sheet %s", sheet), err)
	}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return apperrors.NewWriteError("failed to write slide title", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err == nil {
		f.SetCellStyle(sheet, "A1", "A1", style)
	}

	for i := range labels {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), labels[i]); err != nil {
			return apperrors.NewWriteError("failed to write slide data", err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), values[i]); err != nil {
			return apperrors.NewWriteError("failed to write slide data", err)
		}
	}
	f.SetColWidth(sheet, "A", "A", 22)

	if len(labels) == 0 {
		return nil
	}

	lastRow := len(labels) + 1
	chart := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{
			{
				Name:       title,
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, lastRow),
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: title},
		},
		Legend: excelize.ChartLegend{
			Position: "right",
		},
	}
	if err := f.AddChart(sheet, "D2", chart); err != nil {
		return apperrors.NewWriteError(fmt.Sprintf("failed to embed pie chart on %s", sheet), err)
	}

	return nil
}
