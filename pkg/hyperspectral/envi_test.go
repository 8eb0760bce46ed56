package hyperspectral

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testCube() *SpectralData {
	// 2 lines x 3 samples x 2 bands, values enumerate {line, sample, band}
	s := &SpectralData{
		Data:            make([]float64, 2*3*2),
		Lines:           2,
		Samples:         3,
		Bands:           2,
		Wavelengths:     []float64{0, 1},
		WavelengthUnits: "none",
		DefaultBands:    []int{1},
	}
	for i := range s.Data {
		s.Data[i] = float64(i)
	}
	return s
}

// TestWriteDataHeader verifies the ENVI header fields.
func TestWriteDataHeader(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cube")
	if err := WriteData(base, testCube()); err != nil {
		t.Fatalf("WriteData failed: %v", err)
	}

	data, err := os.ReadFile(base + ".hdr")
	if err != nil {
		t.Fatalf("Failed to read header: %v", err)
	}
	hdr := string(data)

	if !strings.HasPrefix(hdr, "ENVI\n") {
		t.Errorf("Header must start with the ENVI magic line")
	}
	for _, want := range []string{
		"interleave = bil",
		"samples = 3",
		"lines = 2",
		"bands = 2",
		"data type = 5",
		"wavelength units = none",
		"default bands = {1}",
		"wavelength = {",
	} {
		if !strings.Contains(hdr, want) {
			t.Errorf("Header missing %q:\n%s", want, hdr)
		}
	}
}

// TestWriteDataRaw verifies the BIL interleave and little-endian encoding of
// the raw cube.
func TestWriteDataRaw(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cube.raw")
	cube := testCube()
	if err := WriteData(base, cube); err != nil {
		t.Fatalf("WriteData failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(base), "cube.raw"))
	if err != nil {
		t.Fatalf("Failed to read raw file: %v", err)
	}
	if len(data) != 2*3*2*8 {
		t.Fatalf("Expected %d bytes, got %d", 2*3*2*8, len(data))
	}

	value := func(i int) float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}

	// BIL order for line 0: samples 0..2 of band 0, then of band 1.
	// In {line, sample, band} storage those are values 0,2,4 then 1,3,5.
	want := []float64{0, 2, 4, 1, 3, 5}
	for i, w := range want {
		if got := value(i); got != w {
			t.Errorf("Expected raw value %v at position %d, got %v", w, i, got)
		}
	}
}

// TestWriteDataValidation verifies dimension mismatches are rejected.
func TestWriteDataValidation(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cube")

	bad := testCube()
	bad.Data = bad.Data[:5]
	if err := WriteData(base, bad); err == nil {
		t.Errorf("Expected error for truncated data")
	}

	bad = testCube()
	bad.Wavelengths = []float64{0}
	if err := WriteData(base, bad); err == nil {
		t.Errorf("Expected error for wavelength/band mismatch")
	}
}
