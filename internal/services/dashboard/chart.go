package dashboard

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/edforrester/folio/internal/models"
)

// RenderAllocationChart renders a PNG bar chart of current weight per ticker.
// Bars over their target weight are red, bars under are blue. Returns raw
// PNG bytes.
func RenderAllocationChart(aggregates []models.TickerAggregate) ([]byte, error) {
	if len(aggregates) == 0 {
		return nil, fmt.Errorf("no holdings to chart")
	}

	over := drawing.ColorFromHex("dc2626")  // red-600
	under := drawing.ColorFromHex("2563eb") // blue-600

	bars := make([]chart.Value, 0, len(aggregates))
	for i := range aggregates {
		agg := &aggregates[i]
		color := under
		if agg.CurrentWeight > agg.TargetWeight {
			color = over
		}
		bars = append(bars, chart.Value{
			Label: agg.Ticker,
			Value: agg.CurrentWeight,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Current Weight by Ticker (%)",
		Width:    60*len(bars) + 200,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render allocation chart: %w", err)
	}
	return buf.Bytes(), nil
}
