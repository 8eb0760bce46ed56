// Package hyperspectral writes spectral image cubes in the ENVI format: a
// plain-text .hdr describing the cube plus a .raw file holding the values in
// band-interleaved-by-line (BIL) order.
package hyperspectral

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phenoflux/internal/version"
)

// enviFloat64 is the ENVI data type code for 64-bit floating point.
const enviFloat64 = 5

// SpectralData is an in-memory spectral cube with per-band wavelengths.
// Data is stored row-major in {line, sample, band} order.
type SpectralData struct {
	// Data holds the cube values in {line, sample, band} order.
	Data []float64

	// Lines, Samples and Bands are the cube extents.
	Lines   int
	Samples int
	Bands   int

	// Wavelengths carries one wavelength per band.
	Wavelengths []float64

	// WavelengthUnits names the wavelength unit, e.g. "nm".
	WavelengthUnits string

	// DefaultBands lists the bands an ENVI viewer should display initially.
	DefaultBands []int
}

// WriteData writes the cube as an ENVI .hdr/.raw pair. Any extension on
// filename is replaced; "maps/yii.raw" and "maps/yii" both produce
// maps/yii.hdr and maps/yii.raw.
func WriteData(filename string, s *SpectralData) error {
	if len(s.Data) != s.Lines*s.Samples*s.Bands {
		return fmt.Errorf("spectral data has %d values, expected %d for %dx%dx%d",
			len(s.Data), s.Lines*s.Samples*s.Bands, s.Lines, s.Samples, s.Bands)
	}
	if len(s.Wavelengths) != s.Bands {
		return fmt.Errorf("got %d wavelengths for %d bands", len(s.Wavelengths), s.Bands)
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if err := writeHeader(base+".hdr", s); err != nil {
		return err
	}
	return writeRaw(base+".raw", s)
}

func writeHeader(path string, s *SpectralData) error {
	var b strings.Builder
	b.WriteString("ENVI\n")
	fmt.Fprintf(&b, "; this file was created using phenoflux version %s\n", version.Version)
	b.WriteString("interleave = bil\n")
	fmt.Fprintf(&b, "samples = %d\n", s.Samples)
	fmt.Fprintf(&b, "lines = %d\n", s.Lines)
	fmt.Fprintf(&b, "bands = %d\n", s.Bands)
	fmt.Fprintf(&b, "data type = %d\n", enviFloat64)
	fmt.Fprintf(&b, "wavelength units = %s\n", s.WavelengthUnits)

	defaults := make([]string, len(s.DefaultBands))
	for i, band := range s.DefaultBands {
		defaults[i] = fmt.Sprintf("%d", band)
	}
	fmt.Fprintf(&b, "default bands = {%s}\n", strings.Join(defaults, ","))

	b.WriteString("wavelength = {\n")
	for i, wl := range s.Wavelengths {
		if i < len(s.Wavelengths)-1 {
			fmt.Fprintf(&b, "%g,\n", wl)
		} else {
			fmt.Fprintf(&b, "%g\n", wl)
		}
	}
	b.WriteString("}")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("error writing ENVI header: %w", err)
	}
	return nil
}

// writeRaw writes the cube values as little-endian float64 in BIL order:
// for each line, all samples of band 0, then band 1, and so on.
func writeRaw(path string, s *SpectralData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating ENVI raw file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for line := 0; line < s.Lines; line++ {
		for band := 0; band < s.Bands; band++ {
			for sample := 0; sample < s.Samples; sample++ {
				v := s.Data[(line*s.Samples+sample)*s.Bands+band]
				if err := binary.Write(w, binary.LittleEndian, v); err != nil {
					return fmt.Errorf("error writing ENVI raw data: %w", err)
				}
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing ENVI raw data: %w", err)
	}
	return nil
}
