package plot

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"phenoflux/pkg/fluor"
)

// panelGap is the pixel spacing between measurement panels in the grid.
const panelGap = 2

// EfficiencyImage renders an efficiency map as a grid of pseudocolor panels,
// one panel per measurement, at most perRow panels per grid row. Valid values
// map onto a blue-to-red HSV ramp over [0, 1]; non-finite pixels (masked out
// or degenerate) render dark gray.
func EfficiencyImage(em *fluor.EfficiencyMap, perRow int) image.Image {
	n := em.NumMeasurements()
	if n == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if perRow <= 0 || perRow > n {
		perRow = n
	}
	gridRows := (n + perRow - 1) / perRow

	width := perRow*(em.Cols+panelGap) - panelGap
	height := gridRows*(em.Rows+panelGap) - panelGap
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Background, visible only in the gaps and any unfilled grid cell.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	for m := 0; m < n; m++ {
		offX := (m % perRow) * (em.Cols + panelGap)
		offY := (m / perRow) * (em.Rows + panelGap)
		for row := 0; row < em.Rows; row++ {
			for col := 0; col < em.Cols; col++ {
				img.Set(offX+col, offY+row, efficiencyColor(em.At(row, col, m)))
			}
		}
	}

	return img
}

// efficiencyColor maps one efficiency value onto the pseudocolor ramp.
func efficiencyColor(v float64) color.Color {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return color.RGBA{R: 40, G: 40, B: 40, A: 255}
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	// Hue 240 (blue) for low efficiency down to 0 (red) for high.
	c := colorful.Hsv(240*(1-v), 1, 1)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
