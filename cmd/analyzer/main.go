// Command analyzer runs the sales analysis pipeline: load the input
// workbook, aggregate, and write the report workbook, trend chart and slide
// deck. The report payload goes to stdout (plain text by default, or the
// function-wrapper JSON envelope with -emit json); logs go to stderr.
// Exit code 0 on success, 1 on any failure.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/config"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/dataprocessing"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/exporter"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/function"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/infrastructure"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/pkg/contracts/domain"
)

func main() {
	inputPath := flag.String("in", "", "input workbook (defaults to the configured input file)")
	outDir := flag.String("out-dir", "", "directory for report output (defaults to the configured paths)")
	emit := flag.String("emit", "text", "stdout payload format: text or json")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *inputPath == "" {
		*inputPath = cfg.Paths.InputFile
	}
	reportPath, chartPath, deckPath := cfg.OutputFiles(*outDir)

	logger.Info("starting sales analysis",
		slog.String("input", *inputPath),
		slog.String("report", reportPath),
		slog.String("chart", chartPath),
		slog.String("deck", deckPath))

	loader := dataprocessing.NewLoader(logger)
	records, err := loader.Load(*inputPath)
	if err != nil {
		logger.Error("Failed to load sales data", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("Input workbook contains no usable sales records", "input", *inputPath)
		os.Exit(1)
	}

	summary := dataprocessing.Aggregate(records)

	writer := exporter.NewReportWriter(logger)
	if err := writer.Write(reportPath, summary, cfg.Analysis.TopProducts); err != nil {
		logger.Error("Failed to write report workbook", "error", err)
		os.Exit(1)
	}

	renderer := exporter.NewChartRenderer(logger)
	if err := renderer.RenderTrend(chartPath, summary.Months); err != nil {
		logger.Error("Failed to render trend chart", "error", err)
		os.Exit(1)
	}

	deck := exporter.NewDeckWriter(logger)
	if err := deck.Write(deckPath, summary, cfg.Analysis.TopProducts); err != nil {
		logger.Error("Failed to write slide deck", "error", err)
		os.Exit(1)
	}

	logger.Info("analysis complete",
		slog.String("report", reportPath),
		slog.String("chart", chartPath),
		slog.String("deck", deckPath))

	switch *emit {
	case "json":
		if err := emitJSON(summary); err != nil {
			logger.Error("Failed to emit JSON payload", "error", err)
			os.Exit(1)
		}
	default:
		emitText(summary, cfg.Analysis.TopProducts)
	}
}

// emitJSON prints the function-wrapper envelope with the summary bundle as
// its body.
func emitJSON(summary *domain.SalesSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	resp := function.FunctionResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
	return json.NewEncoder(os.Stdout).Encode(resp)
}

// emitText prints the human-readable analysis summary.
func emitText(summary *domain.SalesSummary, topN int) {
	o := summary.Overall

	fmt.Println("=== BASIC STATISTICS ===")
	fmt.Printf("Total Records:          %d\n", o.RecordCount)
	fmt.Printf("Date Range:             %s to %s\n", o.DateFrom.Format("2006-01-02"), o.DateTo.Format("2006-01-02"))
	fmt.Printf("Total Sales Revenue:    $%.2f\n", o.TotalSales)
	fmt.Printf("Average Sales Amount:   $%.2f\n", o.AverageSale)
	fmt.Printf("Highest Single Sale:    $%.2f\n", o.HighestSale)
	fmt.Printf("Lowest Single Sale:     $%.2f\n", o.LowestSale)
	fmt.Printf("Total Products Sold:    %d\n", o.TotalUnits)
	fmt.Printf("Total Unique Products:  %d\n", o.UniqueProducts)
	fmt.Printf("Average Items Per Sale: %.1f\n", o.AvgItemsPerSale)

	fmt.Println("\n=== CATEGORY ANALYSIS ===")
	fmt.Println("Category | Total Sales | Avg Sales | Orders | Units | Sales% | Orders%")
	fmt.Println("---------|-------------|-----------|--------|-------|--------|--------")
	for _, c := range summary.Categories {
		fmt.Printf("%-8s | %11.2f | %9.2f | %6d | %5d | %5.2f%% | %5.2f%%\n",
			c.Category, c.TotalSales, c.AverageSales, c.OrderCount, c.UnitsSold, c.SalesShare, c.OrdersShare)
	}

	fmt.Printf("\n=== TOP %d PRODUCTS BY SALES ===\n", topN)
	fmt.Println("Product | Total Sales | Units | Avg Price")
	fmt.Println("--------|-------------|-------|----------")
	for _, p := range summary.TopProducts(topN) {
		fmt.Printf("%-7s | %11.2f | %5d | %9.2f\n",
			p.Product, p.TotalSales, p.UnitsSold, p.AveragePrice)
	}

	fmt.Println("\n=== MONTHLY TRENDS ===")
	fmt.Println("Month   | Total Sales | Orders | Units")
	fmt.Println("--------|-------------|--------|------")
	for _, m := range summary.Months {
		fmt.Printf("%-7s | %11.2f | %6d | %5d\n",
			m.Month, m.TotalSales, m.OrderCount, m.UnitsSold)
	}
}
