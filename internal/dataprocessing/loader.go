package dataprocessing

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/pkg/contracts/domain"
)

// requiredColumns is the fixed header schema of the input workbook.
var requiredColumns = []string{"date", "product", "category", "sales", "quantity", "price"}

// dateLayouts covers the date renderings excelize produces for typical
// workbooks plus the ISO form used throughout the reports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-06",
	time.RFC3339,
}

// Loader reads sales records from a fixed-schema workbook.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the workbook at path and returns its sales records in sheet
// order. It fails with a LOAD error when the file is missing, no sheet
// carries the required header, or a required column is absent. Rows whose
// date or numeric fields do not parse are skipped and counted.
func (l *Loader) Load(path string) ([]domain.SaleRecord, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, apperrors.NewLoadError(fmt.Sprintf("input workbook %s does not exist", path), err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open workbook", err)
	}
	defer f.Close()

	rows, sheetName, err := l.findDataSheet(f)
	if err != nil {
		return nil, err
	}

	headerRow, columnMap, err := l.mapColumns(rows)
	if err != nil {
		return nil, err
	}

	l.logger.Info("found sales data",
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	var records []domain.SaleRecord
	var skipped int

	for i := headerRow + 1; i < len(rows); i++ {
		record, ok := l.parseRow(rows[i], columnMap)
		if !ok {
			if !isEmptyRow(rows[i]) {
				skipped++
				l.logger.Debug("skipped unparseable row", slog.Int("row", i))
			}
			continue
		}
		records = append(records, record)
	}

	l.logOverview(records, skipped)

	return records, nil
}

// findDataSheet returns the rows of the first sheet whose leading rows
// contain the required header.
func (l *Loader) findDataSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if headerIndex(rows) >= 0 {
			return rows, name, nil
		}
	}
	return nil, "", apperrors.NewLoadError("could not find a sheet with the sales header", nil)
}

// headerIndex scans the leading rows for one containing every required
// column name. Returns -1 when none matches.
func headerIndex(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], " "))
		found := true
		for _, col := range requiredColumns {
			if !strings.Contains(rowText, col) {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}

// mapColumns locates the header row and maps each required column name to
// its cell index.
func (l *Loader) mapColumns(rows [][]string) (int, map[string]int, error) {
	headerRow := headerIndex(rows)
	if headerRow < 0 {
		return -1, nil, apperrors.NewLoadError("could not find header row in sales data", nil)
	}

	columnMap := make(map[string]int, len(requiredColumns))
	for j, header := range rows[headerRow] {
		name := strings.ToLower(strings.TrimSpace(header))
		for _, col := range requiredColumns {
			if name == col {
				columnMap[col] = j
			}
		}
	}

	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return -1, nil, apperrors.NewLoadError(fmt.Sprintf("required column missing: %s", col), nil)
		}
	}

	return headerRow, columnMap, nil
}

// parseRow converts one data row into a SaleRecord. Returns false for rows
// that are empty, truncated, or fail to parse, and for records violating
// the non-negative invariants.
func (l *Loader) parseRow(row []string, columnMap map[string]int) (domain.SaleRecord, bool) {
	cell := func(col string) string {
		idx := columnMap[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	dateStr := cell("date")
	product := cell("product")
	category := cell("category")
	if dateStr == "" || product == "" || category == "" {
		return domain.SaleRecord{}, false
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return domain.SaleRecord{}, false
	}

	sales, err := parseFloat(cell("sales"))
	if err != nil {
		return domain.SaleRecord{}, false
	}
	quantity, err := strconv.ParseInt(strings.ReplaceAll(cell("quantity"), ",", ""), 10, 64)
	if err != nil {
		return domain.SaleRecord{}, false
	}
	price, err := parseFloat(cell("price"))
	if err != nil {
		return domain.SaleRecord{}, false
	}

	if sales < 0 || quantity < 0 {
		return domain.SaleRecord{}, false
	}

	return domain.SaleRecord{
		Date:     date,
		Product:  product,
		Category: category,
		Sales:    sales,
		Quantity: quantity,
		Price:    price,
	}, true
}

// parseDate tries the known textual layouts, then falls back to treating
// the cell as an Excel serial date.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

// parseFloat parses a numeric cell, tolerating thousands separators and a
// leading currency symbol.
func parseFloat(s string) (float64, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	return strconv.ParseFloat(s, 64)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// logOverview mirrors the load summary the pipeline has always printed:
// record count, date range, distinct categories and products.
func (l *Loader) logOverview(records []domain.SaleRecord, skipped int) {
	if len(records) == 0 {
		l.logger.Warn("no sales records loaded", slog.Int("skipped_rows", skipped))
		return
	}

	minDate, maxDate := records[0].Date, records[0].Date
	categories := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, r := range records {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
		categories[r.Category] = struct{}{}
		products[r.Product] = struct{}{}
	}

	l.logger.Info("data loaded successfully",
		slog.Int("total_records", len(records)),
		slog.Int("skipped_rows", skipped),
		slog.String("date_from", minDate.Format("2006-01-02")),
		slog.String("date_to", maxDate.Format("2006-01-02")),
		slog.Int("total_categories", len(categories)),
		slog.Int("total_products", len(products)))
}
