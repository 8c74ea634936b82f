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
	sheetBasicStats    = "Basic Statistics"
	sheetCategories    = "Category Analysis"
	sheetTopProducts   = "Top Products"
	sheetMonthlyTrends = "Monthly Trends"
)

// ReportWriter writes the multi-sheet sales analysis workbook.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger}
}

// Write serializes the summary bundle to path, one sheet per summary type,
// overwriting any existing file. topN bounds the Top Products sheet. Fails
// with a WRITE error when the destination is not writable.
func (w *ReportWriter) Write(path string, summary *domain.SalesSummary, topN int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeBasicStats(f, summary.Overall); err != nil {
		return err
	}
	if err := w.writeCategories(f, summary.Categories); err != nil {
		return err
	}
	if err := w.writeTopProducts(f, summary.TopProducts(topN)); err != nil {
		return err
	}
	if err := w.writeMonthlyTrends(f, summary.Months); err != nil {
		return err
	}

	// Drop the default sheet so the report opens on Basic Statistics.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.NewWriteError("failed to remove default sheet", err)
	}
	idx, err := f.GetSheetIndex(sheetBasicStats)
	if err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewWriteError("failed to create report directory", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewWriteError(fmt.Sprintf("failed to save report workbook to %s", path), err)
	}

	w.logger.Info("excel report generated",
		slog.String("path", path),
		slog.Int("categories", len(summary.Categories)),
		slog.Int("products", len(summary.Products)),
		slog.Int("months", len(summary.Months)))

	return nil
}

func (w *ReportWriter) writeBasicStats(f *excelize.File, stats domain.OverallStats) error {
	if _, err := f.NewSheet(sheetBasicStats); err != nil {
		return apperrors.NewWriteError("failed to create basic statistics sheet", err)
	}

	currency, _ := w.currencyStyle(f)

	rows := []struct {
		label    string
		value    interface{}
		currency bool
	}{
		{"Total Records", stats.RecordCount, false},
		{"Date Range", fmt.Sprintf("%s to %s", stats.DateFrom.Format("2006-01-02"), stats.DateTo.Format("2006-01-02")), false},
		{"Total Sales Revenue", stats.TotalSales, true},
		{"Average Sales Amount", stats.AverageSale, true},
		{"Highest Single Sale", stats.HighestSale, true},
		{"Lowest Single Sale", stats.LowestSale, true},
		{"Total Products Sold", stats.TotalUnits, false},
		{"Total Unique Products", stats.UniqueProducts, false},
		{"Average Items Per Sale", stats.AvgItemsPerSale, false},
	}

	for i, row := range rows {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(sheetBasicStats, labelCell, row.label); err != nil {
			return apperrors.NewWriteError("failed to write basic statistics", err)
		}
		if err := f.SetCellValue(sheetBasicStats, valueCell, row.value); err != nil {
			return apperrors.NewWriteError("failed to write basic statistics", err)
		}
		if row.currency && currency != 0 {
			f.SetCellStyle(sheetBasicStats, valueCell, valueCell, currency)
		}
	}

	f.SetColWidth(sheetBasicStats, "A", "A", 24)
	f.SetColWidth(sheetBasicStats, "B", "B", 22)

	return nil
}

func (w *ReportWriter) writeCategories(f *excelize.File, categories []domain.CategorySummary) error {
	if _, err := f.NewSheet(sheetCategories); err != nil {
		return apperrors.NewWriteError("failed to create category analysis sheet", err)
	}

	headers := []string{"Category", "Total Sales", "Average Sales", "Number of Orders", "Units Sold", "Sales (%)", "Orders (%)"}
	if err := w.writeHeader(f, sheetCategories, headers); err != nil {
		return err
	}

	for i, c := range categories {
		row := i + 2
		cells := []interface{}{c.Category, c.TotalSales, c.AverageSales, c.OrderCount, c.UnitsSold, c.SalesShare, c.OrdersShare}
		if err := w.writeRow(f, sheetCategories, row, cells); err != nil {
			return err
		}
	}

	f.SetColWidth(sheetCategories, "A", "G", 16)
	return nil
}

func (w *ReportWriter) writeTopProducts(f *excelize.File, products []domain.ProductSummary) error {
	if _, err := f.NewSheet(sheetTopProducts); err != nil {
		return apperrors.NewWriteError("failed to create top products sheet", err)
	}

	headers := []string{"Product", "Total Sales", "Average Sales", "Number of Orders", "Units Sold", "Average Price"}
	if err := w.writeHeader(f, sheetTopProducts, headers); err != nil {
		return err
	}

	for i, p := range products {
		row := i + 2
		cells := []interface{}{p.Product, p.TotalSales, p.AverageSales, p.OrderCount, p.UnitsSold, p.AveragePrice}
		if err := w.writeRow(f, sheetTopProducts, row, cells); err != nil {
			return err
		}
	}

	f.SetColWidth(sheetTopProducts, "A", "F", 16)
	return nil
}

func (w *ReportWriter) writeMonthlyTrends(f *excelize.File, months []domain.MonthlySummary) error {
	if _, err := f.NewSheet(sheetMonthlyTrends); err != nil {
		return apperrors.NewWriteError("failed to create monthly trends sheet", err)
	}

	headers := []string{"Month", "Total Sales", "Average Sales", "Number of Orders", "Units Sold"}
	if err := w.writeHeader(f, sheetMonthlyTrends, headers); err != nil {
		return err
	}

	for i, m := range months {
		row := i + 2
		cells := []interface{}{m.Month, m.TotalSales, m.AverageSales, m.OrderCount, m.UnitsSold}
		if err := w.writeRow(f, sheetMonthlyTrends, row, cells); err != nil {
			return err
		}
	}

	f.SetColWidth(sheetMonthlyTrends, "A", "E", 16)

	if len(months) > 0 {
		if err := w.addTrendChart(f, len(months)); err != nil {
			return err
		}
	}

	return nil
}

// addTrendChart embeds a native line chart of monthly sales next to the
// trends table.
func (w *ReportWriter) addTrendChart(f *excelize.File, monthCount int) error {
	lastRow := monthCount + 1
	categories := fmt.Sprintf("'%s'!$A$2:$A$%d", sheetMonthlyTrends, lastRow)

	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Total Sales",
				Categories: categories,
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheetMonthlyTrends, lastRow),
			},
			{
				Name:       "Units Sold",
				Categories: categories,
				Values:     fmt.Sprintf("'%s'!$E$2:$E$%d", sheetMonthlyTrends, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Monthly Sales Trends"},
		},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
	}

	if err := f.AddChart(sheetMonthlyTrends, "G2", chart); err != nil {
		return apperrors.NewWriteError("failed to embed monthly trend chart", err)
	}
	return nil
}

func (w *ReportWriter) writeHeader(f *excelize.File, sheet string, headers []string) error {
	for j, header := range headers {
		col, _ := excelize.ColumnNumberToName(j + 1)
		if err := f.SetCellValue(sheet, col+"1", header); err != nil {
			return apperrors.NewWriteError(fmt.Sprintf("failed to write header for sheet %s", sheet), err)
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCol, _ := excelize.ColumnNumberToName(len(headers))
		f.SetCellStyle(sheet, "A1", endCol+"1", style)
	}
	return nil
}

func (w *ReportWriter) writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for j, v := range cells {
		col, _ := excelize.ColumnNumberToName(j + 1)
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v); err != nil {
			return apperrors.NewWriteError(fmt.Sprintf("failed to write row %d of sheet %s", row, sheet), err)
		}
	}
	return nil
}

// currencyStyle returns a reusable "$#,##0.00" cell style.
func (w *ReportWriter) currencyStyle(f *excelize.File) (int, error) {
	format := "$#,##0.00"
	return f.NewStyle(&excelize.Style{CustomNumFmt: &format})
}
