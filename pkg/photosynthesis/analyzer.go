// Package photosynthesis computes photosynthetic efficiency (YII) estimates
// from chlorophyll fluorescence image stacks. The efficiency quantity is the
// ratio of variable to maximal fluorescence: Fv/Fm for dark-adapted stacks
// and Fv'/Fm' per measurement for light-adapted stacks.
package photosynthesis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"phenoflux/pkg/debug"
	"phenoflux/pkg/fluor"
	"phenoflux/pkg/outputs"
	"phenoflux/pkg/plot"
)

// Method identifies this analysis routine in recorded observations.
const Method = "phenoflux.photosynthesis.AnalyzeEfficiency"

// Analyzer computes efficiency estimates and records the resulting
// observations and diagnostic visuals. The observation store and debug
// recorder are supplied by the caller; the analyzer only appends to them.
type Analyzer struct {
	results  *outputs.Results
	recorder *debug.Recorder
}

// NewAnalyzer creates an analyzer appending to the given results store and
// emitting visuals through the given recorder. A nil results store gets a
// private empty store; a nil recorder gets an inert one.
func NewAnalyzer(results *outputs.Results, recorder *debug.Recorder) *Analyzer {
	if results == nil {
		results = outputs.NewResults()
	}
	if recorder == nil {
		recorder = debug.NewRecorder(debug.None, "")
	}
	return &Analyzer{
		results:  results,
		recorder: recorder,
	}
}

// AnalyzeEfficiency computes the per-pixel efficiency map of a fluorescence
// stack under the given plant mask and aggregates per-measurement statistics.
//
// For every measurement it records four observations (median, mode, peak
// value and histogram frequencies of the positive efficiency values) and
// emits a histogram figure through the debug recorder. The full efficiency
// map is appended to the results' images of interest and rendered as one
// paneled pseudocolor visual.
//
// measurementLabels optionally renames the measurements in observation
// variable names; when nil the stack's native measurement coordinates are
// used. sample identifies the plant sample in the recorded observations.
//
// Pixels excluded by the mask, and pixels whose division degenerates (0/0 or
// division by zero), carry non-finite values in the returned map. This is not
// an error: the aggregate statistics skip them via the positive-value filter.
//
// The returned figure is the final measurement's histogram only; the
// histogram observations cover every measurement. Callers needing all figures
// must take them from the debug output directory.
func (a *Analyzer) AnalyzeEfficiency(stack *fluor.Stack, mask *fluor.Mask, measurementLabels []string, sample string) (*fluor.EfficiencyMap, *plot.Figure, error) {
	if mask.Rows != stack.Rows || mask.Cols != stack.Cols {
		return nil, nil, fmt.Errorf("mask needs to have shape %dx%d to match the stack", stack.Rows, stack.Cols)
	}
	if n := mask.DistinctValues(); n > 2 {
		return nil, nil, fmt.Errorf("mask must be a binary uint8 image, found %d distinct values", n)
	}
	if measurementLabels != nil && len(measurementLabels) != stack.NumMeasurements() {
		return nil, nil, fmt.Errorf("got %d measurement labels for a stack with %d measurements",
			len(measurementLabels), stack.NumMeasurements())
	}

	masked := maskStack(stack, mask)

	var yii *fluor.EfficiencyMap
	var err error
	switch stack.Variant {
	case fluor.DarkAdapted:
		yii, err = efficiencyRatio(masked, fluor.FrameFm, fluor.FrameF0)
	case fluor.LightAdapted:
		yii, err = efficiencyRatio(masked, fluor.FrameFmp, fluor.FrameFp)
	default:
		err = fmt.Errorf("unrecognized acquisition variant %v", stack.Variant)
	}
	if err != nil {
		return nil, nil, err
	}

	var lastFig *plot.Figure
	for i := range stack.Measurements {
		mlabel := stack.Measurements[i]
		if measurementLabels != nil {
			mlabel = measurementLabels[i]
		}

		vals := positiveValues(yii, i)
		median, mode, peak := summarize(vals)
		table, fig := buildHistogram(vals, mlabel)

		a.results.AddObservation(sample, "yii_median_"+mlabel, "median yii value",
			Method, "none", "float", median, "none")
		a.results.AddObservation(sample, "yii_mode_"+mlabel, "mode yii value",
			Method, "none", "float", mode, "none")
		a.results.AddObservation(sample, "yii_max_"+mlabel, "peak yii value",
			Method, "none", "float", peak, "none")
		a.results.AddObservation(sample, "yii_hist_"+mlabel, "yii frequencies",
			Method, "none", "list", table.Counts, table.RoundedEdges(2))

		a.recorder.Visual(fig, fmt.Sprintf("YII_%s_histogram.png", mlabel))
		lastFig = fig
	}

	// The frame axis is consumed by the ratio, so the map carries no frame
	// coordinates by construction.
	a.results.AddImage(yii)
	a.recorder.Image(plot.EfficiencyImage(yii, panelWrap(yii.NumMeasurements())), "YII_dataarray.png")

	return yii, lastFig, nil
}

// panelWrap is the number of panels per grid row in the paneled map visual;
// it grows with the measurement count, one extra panel per four measurements.
func panelWrap(measurements int) int {
	return int(math.Ceil(float64(measurements) / 4))
}

// maskStack copies the stack and writes NaN into every pixel column the mask
// excludes, across all frames and measurements.
func maskStack(stack *fluor.Stack, mask *fluor.Mask) *fluor.Stack {
	masked := fluor.NewStack(stack.Rows, stack.Cols, stack.FrameLabels, stack.Measurements, stack.Variant)
	copy(masked.Data, stack.Data)

	nan := math.NaN()
	for row := 0; row < stack.Rows; row++ {
		for col := 0; col < stack.Cols; col++ {
			if mask.At(row, col) > 0 {
				continue
			}
			for f := 0; f < stack.NumFrames(); f++ {
				for m := 0; m < stack.NumMeasurements(); m++ {
					masked.Set(row, col, f, m, nan)
				}
			}
		}
	}
	return masked
}

// efficiencyRatio computes (peak - base) / peak elementwise for each
// measurement, pairing the peak and base frames of the same measurement
// index. IEEE division carries the degenerate cases: 0/0 gives NaN, x/0 gives
// an infinity and NaN operands propagate.
func efficiencyRatio(stack *fluor.Stack, peakLabel, baseLabel string) (*fluor.EfficiencyMap, error) {
	pf, err := stack.FrameIndex(peakLabel)
	if err != nil {
		return nil, err
	}
	bf, err := stack.FrameIndex(baseLabel)
	if err != nil {
		return nil, err
	}

	em := fluor.NewEfficiencyMap(stack.Rows, stack.Cols, stack.Measurements)
	for m := 0; m < stack.NumMeasurements(); m++ {
		for row := 0; row < stack.Rows; row++ {
			for col := 0; col < stack.Cols; col++ {
				peak := stack.At(row, col, pf, m)
				base := stack.At(row, col, bf, m)
				em.Set(row, col, m, (peak-base)/peak)
			}
		}
	}
	return em, nil
}

// positiveValues collects the strictly positive values of one measurement
// slice. The filter drops NaN (masked and degenerate pixels) and
// non-positive estimates in one pass.
func positiveValues(em *fluor.EfficiencyMap, measurement int) []float64 {
	vals := make([]float64, 0, em.Rows*em.Cols)
	for row := 0; row < em.Rows; row++ {
		for col := 0; col < em.Cols; col++ {
			if v := em.At(row, col, measurement); v > 0 {
				vals = append(vals, v)
			}
		}
	}
	return vals
}

// summarize computes the median, mode and maximum of the values. The median
// averages the two middle values for even counts. With no values every
// statistic is NaN.
func summarize(vals []float64) (median, mode, max float64) {
	if len(vals) == 0 {
		nan := math.NaN()
		return nan, nan, nan
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	n := len(sorted)
	median = (sorted[(n-1)/2] + sorted[n/2]) / 2
	max = floats.Max(sorted)
	mode = modeOf(sorted)
	return median, mode, max
}

// modeOf returns the most frequent value of a sorted slice; ties resolve to
// the smallest value.
func modeOf(sorted []float64) float64 {
	mode := sorted[0]
	bestRun := 0
	run := 0
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		if run > bestRun {
			bestRun = run
			mode = v
		}
	}
	return mode
}
