package domain

import (
	"time"
)

// OverallStats holds workbook-wide sales statistics.
type OverallStats struct {
	RecordCount     int       `json:"record_count"`
	TotalSales      float64   `json:"total_sales"`
	AverageSale     float64   `json:"average_sale"`
	HighestSale     float64   `json:"highest_sale"`
	LowestSale      float64   `json:"lowest_sale"`
	TotalUnits      int64     `json:"total_units"`
	UniqueProducts  int       `json:"unique_products"`
	AvgItemsPerSale float64   `json:"avg_items_per_sale"`
	DateFrom        time.Time `json:"date_from"`
	DateTo          time.Time `json:"date_to"`
}

// CategorySummary aggregates sales for a single category.
type CategorySummary struct {
	Category     string  `json:"category"`
	OrderCount   int     `json:"order_count"`
	TotalSales   float64 `json:"total_sales"`
	AverageSales float64 `json:"average_sales"`
	UnitsSold    int64   `json:"units_sold"`
	SalesShare   float64 `json:"sales_share"`  // percent of overall sales
	OrdersShare  float64 `json:"orders_share"` // percent of overall orders
}

// ProductSummary aggregates sales for a single product.
// Products are keyed by name alone: the same product name sold across
// categories rolls up into one row.
type ProductSummary struct {
	Product      string  `json:"product"`
	OrderCount   int     `json:"order_count"`
	TotalSales   float64 `json:"total_sales"`
	AverageSales float64 `json:"average_sales"`
	UnitsSold    int64   `json:"units_sold"`
	AveragePrice float64 `json:"average_price"` // total sales / units sold
}

// MonthlySummary aggregates sales for a single year-month.
type MonthlySummary struct {
	Month        string  `json:"month"` // "2006-01"
	OrderCount   int     `json:"order_count"`
	TotalSales   float64 `json:"total_sales"`
	AverageSales float64 `json:"average_sales"`
	UnitsSold    int64   `json:"units_sold"`
}

// SalesSummary is the full aggregation bundle produced from one input
// workbook. Categories and Products are sorted by total sales descending
// (ties keep first-encounter order), Months chronologically.
type SalesSummary struct {
	Overall    OverallStats      `json:"overall"`
	Categories []CategorySummary `json:"categories"`
	Products   []ProductSummary  `json:"products"`
	Months     []MonthlySummary  `json:"months"`
}

// TopProducts returns the first n product summaries, or all of them when
// fewer exist.
func (s *SalesSummary) TopProducts(n int) []ProductSummary {
	if n <= 0 || n >= len(s.Products) {
		return s.Products
	}
	return s.Products[:n]
}
