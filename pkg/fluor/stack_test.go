package fluor

import (
	"testing"
)

// TestParseVariant verifies the case-insensitive tag resolution and the
// rejection of unknown tags.
func TestParseVariant(t *testing.T) {
	cases := map[string]Variant{
		"darkadapted":  DarkAdapted,
		"DarkAdapted":  DarkAdapted,
		"LIGHTADAPTED": LightAdapted,
		"lightadapted": LightAdapted,
	}
	for tag, want := range cases {
		got, err := ParseVariant(tag)
		if err != nil {
			t.Errorf("ParseVariant(%q) failed: %v", tag, err)
		}
		if got != want {
			t.Errorf("ParseVariant(%q) = %v, want %v", tag, got, want)
		}
	}

	if _, err := ParseVariant("sunadapted"); err == nil {
		t.Errorf("Expected error for unrecognized variant tag")
	}
}

// TestStackIndexing verifies values round-trip through all four axes.
func TestStackIndexing(t *testing.T) {
	stack := NewStack(2, 3, []string{FrameF0, FrameFm}, []string{"t0", "t1"}, DarkAdapted)
	if len(stack.Data) != 2*3*2*2 {
		t.Fatalf("Expected %d values, got %d", 2*3*2*2, len(stack.Data))
	}

	n := 0.0
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			for f := 0; f < 2; f++ {
				for m := 0; m < 2; m++ {
					stack.Set(row, col, f, m, n)
					n++
				}
			}
		}
	}

	n = 0.0
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			for f := 0; f < 2; f++ {
				for m := 0; m < 2; m++ {
					if got := stack.At(row, col, f, m); got != n {
						t.Errorf("Expected %v at (%d,%d,%d,%d), got %v", n, row, col, f, m, got)
					}
					n++
				}
			}
		}
	}
}

// TestFrameIndex verifies label lookup and the error for missing labels.
func TestFrameIndex(t *testing.T) {
	stack := NewStack(1, 1, []string{FrameFp, FrameFmp}, []string{"t0"}, LightAdapted)

	idx, err := stack.FrameIndex(FrameFmp)
	if err != nil {
		t.Fatalf("FrameIndex(Fmp) failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("Expected frame index 1 for Fmp, got %d", idx)
	}

	if _, err := stack.FrameIndex(FrameFm); err == nil {
		t.Errorf("Expected error for frame label not present in stack")
	}
}

// TestMaskDistinctValues verifies the binarity helper.
func TestMaskDistinctValues(t *testing.T) {
	mask := NewMask(2, 2)
	if got := mask.DistinctValues(); got != 1 {
		t.Errorf("Expected 1 distinct value in a zero mask, got %d", got)
	}

	mask.Set(0, 0, 255)
	if got := mask.DistinctValues(); got != 2 {
		t.Errorf("Expected 2 distinct values, got %d", got)
	}

	mask.Set(0, 1, 128)
	if got := mask.DistinctValues(); got != 3 {
		t.Errorf("Expected 3 distinct values, got %d", got)
	}
}

// TestEfficiencyMapIndexing verifies the 3D map addressing.
func TestEfficiencyMapIndexing(t *testing.T) {
	em := NewEfficiencyMap(2, 2, []string{"t0", "t1"})
	em.Set(1, 0, 1, 0.42)
	if got := em.At(1, 0, 1); got != 0.42 {
		t.Errorf("Expected 0.42, got %v", got)
	}
	if got := em.At(1, 0, 0); got != 0 {
		t.Errorf("Expected untouched value 0, got %v", got)
	}
	if em.NumMeasurements() != 2 {
		t.Errorf("Expected 2 measurements, got %d", em.NumMeasurements())
	}
}
