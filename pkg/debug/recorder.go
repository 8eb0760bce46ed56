// Package debug writes diagnostic visuals produced during analysis. It is a
// side channel: failures to write an artifact are logged and swallowed so the
// computation's results are never affected by the state of the output
// directory.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Mode selects whether debug artifacts are written.
type Mode int

const (
	// None disables all artifact output.
	None Mode = iota

	// Print writes every artifact as a PNG file in the output directory.
	Print
)

// String returns the lowercase configuration tag for the mode.
func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Print:
		return "print"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a configuration tag into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "print":
		return Print, nil
	}
	return 0, fmt.Errorf("unrecognized debug mode %q (expected none or print)", s)
}

// Renderable is any figure that can render itself as a PNG stream.
type Renderable interface {
	Render(w io.Writer) error
}

// Recorder writes debug visuals into an output directory. Each artifact's
// filename is prefixed with a per-recorder device counter so repeated
// analysis steps in one run produce distinct files.
type Recorder struct {
	mode   Mode
	outDir string
	device int
	log    zerolog.Logger
}

// NewRecorder creates a recorder writing into outDir. With mode None the
// recorder is inert and never touches the filesystem.
func NewRecorder(mode Mode, outDir string) *Recorder {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("component", "debug").
		Logger()

	return &Recorder{
		mode:   mode,
		outDir: outDir,
		log:    logger,
	}
}

// Device returns the current device counter value.
func (r *Recorder) Device() int {
	return r.device
}

// Visual renders a figure into the output directory under the given name.
func (r *Recorder) Visual(fig Renderable, name string) {
	if r.mode != Print || fig == nil {
		return
	}
	path, err := r.nextPath(name)
	if err != nil {
		r.log.Error().Err(err).Str("name", name).Msg("debug visual skipped")
		return
	}

	file, err := os.Create(path)
	if err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("debug visual skipped")
		return
	}
	defer file.Close()

	if err := fig.Render(file); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("debug visual render failed")
		return
	}
	r.log.Debug().Str("path", path).Msg("debug visual written")
}

// Image writes a raster image into the output directory under the given name.
func (r *Recorder) Image(img image.Image, name string) {
	if r.mode != Print || img == nil {
		return
	}
	path, err := r.nextPath(name)
	if err != nil {
		r.log.Error().Err(err).Str("name", name).Msg("debug image skipped")
		return
	}

	file, err := os.Create(path)
	if err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("debug image skipped")
		return
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("debug image encode failed")
		return
	}
	r.log.Debug().Str("path", path).Msg("debug image written")
}

// nextPath advances the device counter and builds the artifact path, creating
// the output directory on first use.
func (r *Recorder) nextPath(name string) (string, error) {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return "", err
	}
	r.device++
	return filepath.Join(r.outDir, fmt.Sprintf("%d_%s", r.device, name)), nil
}
