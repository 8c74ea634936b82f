package dataprocessing

import (
	"sort"

	"github.com/SakethVetcha/Excel-Sheet-Analyser/pkg/contracts/domain"
)

// Aggregate computes the full summary bundle from a sequence of sale
// records. It is a pure function: deterministic for identical input order,
// no side effects. Categories and products are sorted by total sales
// descending with ties broken by first-encounter order; months are sorted
// chronologically.
func Aggregate(records []domain.SaleRecord) *domain.SalesSummary {
	summary := &domain.SalesSummary{
		Overall:    overallStats(records),
		Categories: categorySummaries(records),
		Products:   productSummaries(records),
		Months:     monthlySummaries(records),
	}
	return summary
}

func overallStats(records []domain.SaleRecord) domain.OverallStats {
	stats := domain.OverallStats{RecordCount: len(records)}
	if len(records) == 0 {
		return stats
	}

	stats.HighestSale = records[0].Sales
	stats.LowestSale = records[0].Sales
	stats.DateFrom = records[0].Date
	stats.DateTo = records[0].Date

	products := make(map[string]struct{})
	for _, r := range records {
		stats.TotalSales += r.Sales
		stats.TotalUnits += r.Quantity
		if r.Sales > stats.HighestSale {
			stats.HighestSale = r.Sales
		}
		if r.Sales < stats.LowestSale {
			stats.LowestSale = r.Sales
		}
		if r.Date.Before(stats.DateFrom) {
			stats.DateFrom = r.Date
		}
		if r.Date.After(stats.DateTo) {
			stats.DateTo = r.Date
		}
		products[r.Product] = struct{}{}
	}

	stats.UniqueProducts = len(products)
	stats.AverageSale = stats.TotalSales / float64(len(records))
	stats.AvgItemsPerSale = float64(stats.TotalUnits) / float64(len(records))

	return stats
}

func categorySummaries(records []domain.SaleRecord) []domain.CategorySummary {
	index := make(map[string]int)
	var summaries []domain.CategorySummary

	var overallSales float64
	for _, r := range records {
		overallSales += r.Sales

		i, seen := index[r.Category]
		if !seen {
			i = len(summaries)
			index[r.Category] = i
			summaries = append(summaries, domain.CategorySummary{Category: r.Category})
		}
		summaries[i].OrderCount++
		summaries[i].TotalSales += r.Sales
		summaries[i].UnitsSold += r.Quantity
	}

	for i := range summaries {
		summaries[i].AverageSales = summaries[i].TotalSales / float64(summaries[i].OrderCount)
		if overallSales > 0 {
			summaries[i].SalesShare = summaries[i].TotalSales / overallSales * 100
		}
		if len(records) > 0 {
			summaries[i].OrdersShare = float64(summaries[i].OrderCount) / float64(len(records)) * 100
		}
	}

	// Stable keeps first-encounter order for equal totals.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalSales > summaries[j].TotalSales
	})

	return summaries
}

func productSummaries(records []domain.SaleRecord) []domain.ProductSummary {
	index := make(map[string]int)
	var summaries []domain.ProductSummary

	for _, r := range records {
		i, seen := index[r.Product]
		if !seen {
			i = len(summaries)
			index[r.Product] = i
			summaries = append(summaries, domain.ProductSummary{Product: r.Product})
		}
		summaries[i].OrderCount++
		summaries[i].TotalSales += r.Sales
		summaries[i].UnitsSold += r.Quantity
	}

	for i := range summaries {
		summaries[i].AverageSales = summaries[i].TotalSales / float64(summaries[i].OrderCount)
		if summaries[i].UnitsSold > 0 {
			summaries[i].AveragePrice = summaries[i].TotalSales / float64(summaries[i].UnitsSold)
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalSales > summaries[j].TotalSales
	})

	return summaries
}

func monthlySummaries(records []domain.SaleRecord) []domain.MonthlySummary {
	index := make(map[string]int)
	var summaries []domain.MonthlySummary

	for _, r := range records {
		month := r.Month()
		i, seen := index[month]
		if !seen {
			i = len(summaries)
			index[month] = i
			summaries = append(summaries, domain.MonthlySummary{Month: month})
		}
		summaries[i].OrderCount++
		summaries[i].TotalSales += r.Sales
		summaries[i].UnitsSold += r.Quantity
	}

	for i := range summaries {
		summaries[i].AverageSales = summaries[i].TotalSales / float64(summaries[i].OrderCount)
	}

	// "2006-01" keys sort chronologically as strings.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Month < summaries[j].Month
	})

	return summaries
}
