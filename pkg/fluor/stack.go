// Package fluor defines the in-memory data model for chlorophyll fluorescence
// imaging: the labeled 4D acquisition stack, the binary plant mask, and the
// per-pixel efficiency map derived from them.
package fluor

import (
	"fmt"
	"strings"
)

// Variant identifies the acquisition protocol of a fluorescence stack. The
// protocol determines which frame pair enters the efficiency formula.
type Variant int

const (
	// DarkAdapted stacks are acquired after dark adaptation; efficiency is
	// computed as Fv/Fm = (Fm - F0) / Fm.
	DarkAdapted Variant = iota

	// LightAdapted stacks are acquired under actinic light; efficiency is
	// computed per measurement as (Fm' - F') / Fm' from the Fmp/Fp frames.
	LightAdapted
)

// String returns the lowercase tag used in acquisition metadata.
func (v Variant) String() string {
	switch v {
	case DarkAdapted:
		return "darkadapted"
	case LightAdapted:
		return "lightadapted"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant resolves an acquisition mode tag into a Variant. Matching is
// case-insensitive. Unrecognized tags are an error rather than a silent
// no-op, so a mislabeled stack fails at entry instead of producing nothing.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "darkadapted":
		return DarkAdapted, nil
	case "lightadapted":
		return LightAdapted, nil
	}
	return 0, fmt.Errorf("unrecognized acquisition variant %q (expected darkadapted or lightadapted)", name)
}

// Frame labels used by the efficiency formulas.
const (
	FrameF0  = "F0"  // minimal fluorescence, dark-adapted
	FrameFm  = "Fm"  // maximal fluorescence, dark-adapted
	FrameFp  = "Fp"  // steady-state fluorescence under light (F')
	FrameFmp = "Fmp" // maximal fluorescence under light (Fm')
)

// Stack is a labeled 4D fluorescence array with axes
// {row, column, frame, measurement}. Data is stored row-major in that axis
// order as a flat slice. FrameLabels and Measurements carry the coordinate
// labels of the trailing two axes; Variant tags the acquisition protocol.
//
// A Stack is an immutable input from the analyzer's point of view: analysis
// never writes through the Data slice it is handed.
type Stack struct {
	// Data holds the pixel values in {row, column, frame, measurement} order.
	Data []float64

	// Rows and Cols are the spatial extent of each frame.
	Rows int
	Cols int

	// FrameLabels names each slice along the frame axis, e.g. "F0", "Fm".
	FrameLabels []string

	// Measurements carries the native coordinate value of each repeated
	// acquisition, e.g. "t0", "t40", "t60".
	Measurements []string

	// Variant is the acquisition protocol of this stack.
	Variant Variant
}

// NewStack allocates a zero-filled stack with the given extents and labels.
func NewStack(rows, cols int, frameLabels, measurements []string, variant Variant) *Stack {
	return &Stack{
		Data:         make([]float64, rows*cols*len(frameLabels)*len(measurements)),
		Rows:         rows,
		Cols:         cols,
		FrameLabels:  frameLabels,
		Measurements: measurements,
		Variant:      variant,
	}
}

// NumFrames returns the length of the frame axis.
func (s *Stack) NumFrames() int {
	return len(s.FrameLabels)
}

// NumMeasurements returns the length of the measurement axis.
func (s *Stack) NumMeasurements() int {
	return len(s.Measurements)
}

func (s *Stack) index(row, col, frame, measurement int) int {
	return ((row*s.Cols+col)*len(s.FrameLabels)+frame)*len(s.Measurements) + measurement
}

// At returns the value at the given coordinates.
func (s *Stack) At(row, col, frame, measurement int) float64 {
	return s.Data[s.index(row, col, frame, measurement)]
}

// Set stores a value at the given coordinates.
func (s *Stack) Set(row, col, frame, measurement int, v float64) {
	s.Data[s.index(row, col, frame, measurement)] = v
}

// FrameIndex resolves a frame label to its position along the frame axis.
// A label that is not present in the stack is an error: the efficiency
// formula cannot be expressed without its frames.
func (s *Stack) FrameIndex(label string) (int, error) {
	for i, l := range s.FrameLabels {
		if l == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("frame label %q not present in stack (have %v)", label, s.FrameLabels)
}

// Mask is a 2D single-channel plant mask. Values are expected to be binary
// ({0, 255} or {0, 1}); any value greater than zero marks a plant pixel.
// The 8-bit dtype requirement of the analysis is carried by the element type.
type Mask struct {
	// Data holds the mask values in {row, column} order.
	Data []uint8

	// Rows and Cols are the spatial extent of the mask.
	Rows int
	Cols int
}

// NewMask allocates a zero-filled mask with the given extent.
func NewMask(rows, cols int) *Mask {
	return &Mask{
		Data: make([]uint8, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// At returns the mask value at the given coordinates.
func (m *Mask) At(row, col int) uint8 {
	return m.Data[row*m.Cols+col]
}

// Set stores a mask value at the given coordinates.
func (m *Mask) Set(row, col int, v uint8) {
	m.Data[row*m.Cols+col] = v
}

// DistinctValues counts the distinct byte values present in the mask. A
// binary mask has at most two.
func (m *Mask) DistinctValues() int {
	var seen [256]bool
	n := 0
	for _, v := range m.Data {
		if !seen[v] {
			seen[v] = true
			n++
		}
	}
	return n
}

// EfficiencyMap is a labeled 3D array of per-pixel efficiency estimates with
// axes {row, column, measurement}. The frame axis of the source stack is
// consumed by the efficiency formula, so no frame metadata survives here.
// NaN marks pixels excluded by the mask or produced by degenerate division.
type EfficiencyMap struct {
	// Data holds the efficiency values in {row, column, measurement} order.
	Data []float64

	// Rows and Cols are the spatial extent of each measurement panel.
	Rows int
	Cols int

	// Measurements carries the coordinate labels of the measurement axis.
	Measurements []string
}

// NewEfficiencyMap allocates a zero-filled efficiency map.
func NewEfficiencyMap(rows, cols int, measurements []string) *EfficiencyMap {
	return &EfficiencyMap{
		Data:         make([]float64, rows*cols*len(measurements)),
		Rows:         rows,
		Cols:         cols,
		Measurements: measurements,
	}
}

// NumMeasurements returns the length of the measurement axis.
func (e *EfficiencyMap) NumMeasurements() int {
	return len(e.Measurements)
}

func (e *EfficiencyMap) index(row, col, measurement int) int {
	return (row*e.Cols+col)*len(e.Measurements) + measurement
}

// At returns the efficiency value at the given coordinates.
func (e *EfficiencyMap) At(row, col, measurement int) float64 {
	return e.Data[e.index(row, col, measurement)]
}

// Set stores an efficiency value at the given coordinates.
func (e *EfficiencyMap) Set(row, col, measurement int, v float64) {
	e.Data[e.index(row, col, measurement)] = v
}
