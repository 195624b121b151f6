package export

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("1e1f22")
	chartLine       = drawing.ColorFromHex("6a0dad")
	chartDot        = drawing.ColorFromHex("ffd700")
	chartText       = drawing.ColorFromHex("dbdee1")
)

// GloryChart draws a squad's running point total, one point per match.
func GloryChart(squad string, series []int) ([]byte, error) {
	if len(series) < 2 {
		return noDataChart(fmt.Sprintf("%s has not battled yet", squad))
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, v := range series {
		xs[i] = float64(i)
		ys[i] = float64(v)
	}
	lo := min(0, slices.Min(ys))
	hi := max(lo+1, slices.Max(ys))

	graph := chart.Chart{
		Title:      squad + " glory",
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      800,
		Height:     400,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Name:           "Match",
			ValueFormatter: func(v any) string { return fmt.Sprintf("%.0f", v) },
			Style:          chart.Style{FontColor: chartText},
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    squad,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chartLine,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    chartDot,
			},
		}},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render glory chart: %w", err)
	}
	return buf.Bytes(), nil
}

func noDataChart(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render empty chart: %w", err)
	}
	return buf.Bytes(), nil
}
