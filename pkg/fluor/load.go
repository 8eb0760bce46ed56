package fluor

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Register the decoders for the frame image formats we accept.
	_ "image/jpeg"
	_ "image/png"
)

// LoadStack reads a fluorescence stack from a directory of grayscale frame
// images. Each file must be named <measurement>_<frame_label> with a .png,
// .jpg or .jpeg extension, e.g. "t0_F0.png" or "t40_Fmp.jpg". Measurements
// are ordered alphanumerically; every measurement must carry the same set of
// frame labels and all images must share one extent.
func LoadStack(dir string, variant Variant) (*Stack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading stack directory: %w", err)
	}

	// Collect measurement/frame coordinates from the filenames first so the
	// stack can be allocated with stable axis ordering.
	type frameFile struct {
		measurement string
		frame       string
		path        string
	}
	var files []frameFile
	measurementSet := map[string]bool{}
	frameSet := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		sep := strings.LastIndex(base, "_")
		if sep <= 0 || sep == len(base)-1 {
			return nil, fmt.Errorf("frame file %q does not match <measurement>_<frame_label>", entry.Name())
		}
		f := frameFile{
			measurement: base[:sep],
			frame:       base[sep+1:],
			path:        filepath.Join(dir, entry.Name()),
		}
		files = append(files, f)
		measurementSet[f.measurement] = true
		frameSet[f.frame] = true
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no frame images found in %s", dir)
	}

	measurements := sortedKeys(measurementSet)
	frames := sortedKeys(frameSet)

	var stack *Stack
	loaded := map[string]bool{}
	for _, f := range files {
		img, err := loadImage(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load frame %s: %w", f.path, err)
		}
		bounds := img.Bounds()
		if stack == nil {
			stack = NewStack(bounds.Dy(), bounds.Dx(), frames, measurements, variant)
		} else if bounds.Dy() != stack.Rows || bounds.Dx() != stack.Cols {
			return nil, fmt.Errorf("frame %s has extent %dx%d, expected %dx%d",
				f.path, bounds.Dy(), bounds.Dx(), stack.Rows, stack.Cols)
		}

		fi, err := stack.FrameIndex(f.frame)
		if err != nil {
			return nil, err
		}
		mi := indexOf(measurements, f.measurement)
		for row := 0; row < stack.Rows; row++ {
			for col := 0; col < stack.Cols; col++ {
				g := color.GrayModel.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row)).(color.Gray)
				stack.Set(row, col, fi, mi, float64(g.Y))
			}
		}
		loaded[f.measurement+"_"+f.frame] = true
	}

	// Every (measurement, frame) combination must exist or the frame axis
	// would carry undefined slices.
	for _, m := range measurements {
		for _, fl := range frames {
			if !loaded[m+"_"+fl] {
				return nil, fmt.Errorf("missing frame image for measurement %q, frame label %q", m, fl)
			}
		}
	}

	return stack, nil
}

// LoadMask reads a grayscale mask image. Pixel values are kept as raw 8-bit
// values; binarity is a precondition the analyzer checks, not something the
// loader enforces.
func LoadMask(path string) (*Mask, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask %s: %w", path, err)
	}
	bounds := img.Bounds()
	mask := NewMask(bounds.Dy(), bounds.Dx())
	for row := 0; row < mask.Rows; row++ {
		for col := 0; col < mask.Cols; col++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row)).(color.Gray)
			mask.Set(row, col, g.Y)
		}
	}
	return mask, nil
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
