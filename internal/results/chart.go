package results

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"forestfire/internal/sweep"
)

func percentTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, 11)
	for v := 0; v <= 100; v += 10 {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	return ticks
}

// RenderChart draws the average burned percentage against tree density as
// a PNG.
func RenderChart(w io.Writer, s sweep.Summary) error {
	if len(s.Points) < 2 {
		return fmt.Errorf("chart needs at least two densities, got %d", len(s.Points))
	}
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.Density
		ys[i] = p.Mean
	}

	graph := chart.Chart{
		Width:  900,
		Height: 500,
		XAxis: chart.XAxis{
			Name:  "Tree density (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: percentTicks(),
		},
		YAxis: chart.YAxis{
			Name:  "Average burned (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: percentTicks(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "average burned",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 3.0,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// SaveChart renders the chart into the file at path.
func SaveChart(path string, s sweep.Summary) error {
	var buf bytes.Buffer
	if err := RenderChart(&buf, s); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
