// Package plot builds the diagnostic figures of the analysis: per-measurement
// histogram line plots and pseudocolor panel renderings of efficiency maps.
package plot

import (
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Figure is a chart that renders itself to PNG on demand.
type Figure struct {
	ch chart.Chart
}

// Render writes the figure as a PNG stream.
func (f *Figure) Render(w io.Writer) error {
	return f.ch.Render(chart.PNG, w)
}

// SavePNG renders the figure into a PNG file.
func (f *Figure) SavePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return f.Render(file)
}

// HistogramFigure builds the histogram line plot for one measurement: bin
// counts over bin lower edges, titled with the measurement label, with a text
// annotation marking the peak bin's edge value.
func HistogramFigure(label string, edges []float64, counts []int, peakEdge float64) *Figure {
	ys := make([]float64, len(counts))
	peakY := 0.0
	for i, c := range counts {
		ys[i] = float64(c)
		if edges[i] == peakEdge && ys[i] > peakY {
			peakY = ys[i]
		}
	}

	ch := chart.Chart{
		Title: fmt.Sprintf("measurement: %s", label),
		XAxis: chart.XAxis{
			Name: "photosynthetic efficiency (yii)",
		},
		YAxis: chart.YAxis{
			Name: "Plant Pixels",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    label,
				XValues: edges,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 1.5,
				},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{
						XValue: peakEdge,
						YValue: peakY,
						Label:  fmt.Sprintf("Peak Bin Value: %v", peakEdge),
					},
				},
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					FontColor:   chart.ColorGreen,
				},
			},
		},
	}

	return &Figure{ch: ch}
}
