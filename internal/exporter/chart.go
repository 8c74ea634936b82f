package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/pkg/contracts/domain"
)

// ChartRenderer renders the monthly sales trend image.
type ChartRenderer struct {
	logger *slog.Logger
	width  int
	height int
}

// NewChartRenderer creates a chart renderer with the default canvas size.
func NewChartRenderer(logger *slog.Logger) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{logger: logger, width: 1280, height: 720}
}

// RenderTrend writes a PNG line chart of monthly totals to path: total
// sales on the primary axis, units sold on the secondary axis. Fails with a
// WRITE error when the destination is not writable.
func (c *ChartRenderer) RenderTrend(path string, months []domain.MonthlySummary) error {
	if len(months) == 0 {
		return apperrors.NewWriteError("no monthly data to chart", nil)
	}

	xs := make([]time.Time, 0, len(months))
	sales := make([]float64, 0, len(months))
	units := make([]float64, 0, len(months))
	for _, m := range months {
		t, err := time.Parse("2006-01", m.Month)
		if err != nil {
			return apperrors.NewWriteError(fmt.Sprintf("invalid month key %q", m.Month), err)
		}
		xs = append(xs, t)
		sales = append(sales, m.TotalSales)
		units = append(units, float64(m.UnitsSold))
	}

	// A single point gives the chart no x-range; pad it with the next
	// month so the render still succeeds.
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 1, 0))
		sales = append(sales, sales[0])
		units = append(units, units[0])
	}

	graph := chart.Chart{
		Title:  "Monthly Sales Trends",
		Width:  c.width,
		Height: c.height,
		XAxis: chart.XAxis{
			Name:           "Month",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Name: "Total Sales ($)",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Units Sold",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total Sales",
				XValues: xs,
				YValues: sales,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Units Sold",
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: units,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("ff7f0e"),
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewWriteError("failed to create chart directory", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return apperrors.NewWriteError(fmt.Sprintf("failed to create chart file %s", path), err)
	}
	defer out.Close()

	if err := graph.Render(chart.PNG, out); err != nil {
		return apperrors.NewWriteError("failed to render trend chart", err)
	}

	c.logger.Info("trend chart rendered",
		slog.String("path", path),
		slog.Int("months", len(months)))

	return nil
}
