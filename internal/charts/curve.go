// Package charts renders an interactive mana-curve chart for an assembled
// deck as a standalone HTML file.
package charts

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/deck"
)

// curveBuckets groups mana values 0-6 individually and 7+ together.
const curveBuckets = 8

// Config holds chart rendering configuration.
type Config struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
}

// DefaultConfig returns default chart configuration.
func DefaultConfig() Config {
	return Config{
		Title:  "Mana Curve",
		Width:  "900px",
		Height: "500px",
	}
}

// CurvePoint is one mana-value bucket of the deck.
type CurvePoint struct {
	Label string
	Count int
}

// Curve buckets the deck's nonland cards by mana value. Lands have no cast
// cost and would drown the zero column.
func Curve(rows []deck.Row) []CurvePoint {
	counts := make(map[int]int)
	for _, row := range rows {
		if row.Function == "Land" {
			continue
		}
		bucket := int(row.ManaValue)
		if bucket >= curveBuckets-1 {
			bucket = curveBuckets - 1
		}
		counts[bucket]++
	}

	buckets := make([]int, 0, len(counts))
	for b := range counts {
		buckets = append(buckets, b)
	}
	sort.Ints(buckets)

	points := make([]CurvePoint, 0, len(buckets))
	for _, b := range buckets {
		label := fmt.Sprintf("%d", b)
		if b == curveBuckets-1 {
			label = "7+"
		}
		points = append(points, CurvePoint{Label: label, Count: counts[b]})
	}
	return points
}

// RenderCurve writes the deck's mana-curve bar chart to outputPath.
func RenderCurve(rows []deck.Row, config Config, outputPath string) error {
	points := Curve(rows)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	xLabels := make([]string, len(points))
	yData := make([]opts.BarData, len(points))
	for i, p := range points {
		xLabels[i] = p.Label
		yData[i] = opts.BarData{Value: p.Count}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
