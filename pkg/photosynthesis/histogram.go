package photosynthesis

import (
	"math"

	"phenoflux/pkg/plot"
)

// histogramBins is the fixed bin count over the efficiency domain [0, 1].
const histogramBins = 100

// HistogramTable is the per-measurement efficiency histogram: one count per
// bin plus each bin's lower edge. The measurement label rides along as
// metadata rather than naming a column.
type HistogramTable struct {
	// Label is the measurement label the histogram belongs to.
	Label string

	// Counts holds the number of values falling in each bin.
	Counts []int

	// Edges holds the lower edge of each bin.
	Edges []float64
}

// PeakEdge returns the lower edge of the bin with the highest count. The
// first such bin wins when several share the maximum.
func (t *HistogramTable) PeakEdge() float64 {
	peak := 0
	for i, c := range t.Counts {
		if c > t.Counts[peak] {
			peak = i
		}
	}
	return t.Edges[peak]
}

// RoundedEdges returns the bin edges rounded to the given number of decimal
// places, as used for histogram observation labels.
func (t *HistogramTable) RoundedEdges(decimals int) []float64 {
	scale := math.Pow(10, float64(decimals))
	rounded := make([]float64, len(t.Edges))
	for i, e := range t.Edges {
		rounded[i] = math.Round(e*scale) / scale
	}
	return rounded
}

// buildHistogram bins the strictly positive values into histogramBins
// equal-width bins spanning [0, 1] and builds the accompanying line-plot
// figure. Values outside the domain are excluded; the domain's top edge
// closes into the last bin.
func buildHistogram(values []float64, label string) (*HistogramTable, *plot.Figure) {
	counts := make([]int, histogramBins)
	edges := make([]float64, histogramBins)
	for i := range edges {
		edges[i] = float64(i) / histogramBins
	}

	for _, v := range values {
		if !(v > 0) || v > 1 {
			continue
		}
		bin := int(v * histogramBins)
		if bin == histogramBins {
			bin--
		}
		counts[bin]++
	}

	table := &HistogramTable{
		Label:  label,
		Counts: counts,
		Edges:  edges,
	}
	fig := plot.HistogramFigure(label, edges, counts, table.PeakEdge())
	return table, fig
}
