// Package exporter serializes aggregated sales summaries into output files.
//
// This package contains three main components:
//
// ReportWriter: writes the multi-sheet analysis workbook (Basic Statistics,
// Category Analysis, Top Products, Monthly Trends) with an embedded line
// chart on the trends sheet.
//
// ChartRenderer: renders the monthly sales trend PNG with total sales on the
// primary axis and units sold on the secondary axis.
//
// DeckWriter: composes the slide-deck workbook, one sheet per slide, each
// carrying a pie chart (category share, top-product share).
//
// Example usage:
//
//	writer := exporter.NewReportWriter(logger)
//	err := writer.Write("sales_analysis_report.xlsx", summary, 10)
package exporter
