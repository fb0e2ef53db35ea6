// Package stringart converts a raster image into an ordered sequence of
// pin-to-pin thread connections that, wound around nails on a physical
// frame, reproduce the source image. The package contains the whole
// optimization core: preprocessing, pin placement, candidate scoring, the
// coarse-to-fine greedy driver, gamma-correct compositing, refinement and
// the optional annealing/genetic post-passes.
package stringart

import (
	"fmt"

	"stringart/imageutil"
)

// FrameType selects the pin layout shape.
type FrameType string

const (
	FrameCircular    FrameType = "circular"
	FrameSquare      FrameType = "square"
	FrameRectangular FrameType = "rectangular"
)

// ColorMode selects the thread palette and compositing model.
type ColorMode string

const (
	// ColorModeMonochrome uses a single black thread.
	ColorModeMonochrome ColorMode = "monochrome"

	// ColorModeLAB interleaves the CMYK-style palette on one shared RGB
	// canvas, scoring each candidate against all palette colors in CIE LAB.
	ColorModeLAB ColorMode = "color"
)

// QualityPreset selects the stage-driver path and candidate pool sizes.
type QualityPreset string

const (
	PresetFast     QualityPreset = "fast"
	PresetBalanced QualityPreset = "balanced"
	PresetHigh     QualityPreset = "high"
)

// GenerationParams configures one generation job. Construct with
// DefaultParams and override fields; the zero value is not a valid
// configuration.
type GenerationParams struct {
	FrameType     FrameType     `json:"frameType"`
	PinCount      int           `json:"pinCount"`
	FrameSize     int           `json:"frameSize"`
	ThreadWidth   float64       `json:"threadWidth"`
	ThreadOpacity float64       `json:"threadOpacity"`
	ColorMode     ColorMode     `json:"colorMode"`
	MaxThreads    int           `json:"maxThreads"`
	QualityPreset QualityPreset `json:"qualityPreset"`

	UseEdgeDetection      bool `json:"useEdgeDetection"`
	UseSimulatedAnnealing bool `json:"useSimulatedAnnealing"`
	UsePinFatigue         bool `json:"usePinFatigue"`

	MinPinSkip int                `json:"minPinSkip"`
	ImageCrop  imageutil.CropSpec `json:"imageCrop"`

	// Seed fixes the random source so runs are reproducible. Zero selects
	// the fixed default seed; generation never consults the wall clock.
	Seed int64 `json:"seed,omitempty"`
}

// DefaultParams returns the documented defaults: a circular frame of 400
// pins, 10000 black threads at opacity 0.12, balanced preset with edge
// detection enabled.
func DefaultParams() GenerationParams {
	return GenerationParams{
		FrameType:        FrameCircular,
		PinCount:         400,
		FrameSize:        500,
		ThreadWidth:      0.4,
		ThreadOpacity:    0.12,
		ColorMode:        ColorModeMonochrome,
		MaxThreads:       10000,
		QualityPreset:    PresetBalanced,
		UseEdgeDetection: true,
		MinPinSkip:       2,
		ImageCrop:        imageutil.DefaultCrop,
	}
}

// Validate checks every field against its documented range. The returned
// error names the first offending field.
func (p GenerationParams) Validate() error {
	switch p.FrameType {
	case FrameCircular, FrameSquare, FrameRectangular:
	default:
		return fmt.Errorf("%w: frameType %q", ErrInvalidParams, p.FrameType)
	}
	// The documented UI range is [100, 800]; the engine itself accepts any
	// layout with at least 3 pins so degenerate test frames stay usable.
	if p.PinCount < 3 || p.PinCount > 800 {
		return fmt.Errorf("%w: pinCount %d not in [3, 800]", ErrInvalidParams, p.PinCount)
	}
	if p.FrameSize < 16 || p.FrameSize > 1000 {
		return fmt.Errorf("%w: frameSize %d not in [16, 1000]", ErrInvalidParams, p.FrameSize)
	}
	if p.ThreadWidth < 0.2 || p.ThreadWidth > 1.5 {
		return fmt.Errorf("%w: threadWidth %g not in [0.2, 1.5]", ErrInvalidParams, p.ThreadWidth)
	}
	if p.ThreadOpacity < 0.03 || p.ThreadOpacity > 0.35 {
		return fmt.Errorf("%w: threadOpacity %g not in [0.03, 0.35]", ErrInvalidParams, p.ThreadOpacity)
	}
	switch p.ColorMode {
	case ColorModeMonochrome, ColorModeLAB:
	default:
		return fmt.Errorf("%w: colorMode %q", ErrInvalidParams, p.ColorMode)
	}
	if p.MaxThreads < 1 || p.MaxThreads > 50000 {
		return fmt.Errorf("%w: maxThreads %d not in [1, 50000]", ErrInvalidParams, p.MaxThreads)
	}
	switch p.QualityPreset {
	case PresetFast, PresetBalanced, PresetHigh:
	default:
		return fmt.Errorf("%w: qualityPreset %q", ErrInvalidParams, p.QualityPreset)
	}
	if p.MinPinSkip < 1 || p.MinPinSkip > 50 {
		return fmt.Errorf("%w: minPinSkip %d not in [1, 50]", ErrInvalidParams, p.MinPinSkip)
	}
	return nil
}

// targetSize returns the optimization canvas edge length.
func (p GenerationParams) targetSize() int {
	if p.FrameSize < 512 {
		return p.FrameSize
	}
	return 512
}

// backgroundMinSkip returns the background-region min-skip policy for the
// configured preset.
func (p GenerationParams) backgroundMinSkip() int {
	switch p.QualityPreset {
	case PresetFast:
		return 8
	case PresetHigh:
		return 6
	default:
		return 7
	}
}

// candidatePool returns the edge-guided and random candidate counts for
// the configured preset.
func (p GenerationParams) candidatePool() (edge, random int) {
	if p.QualityPreset == PresetHigh {
		return 35, 15
	}
	return 25, 10
}

// threeStage reports whether the coarse-to-fine three-stage driver is
// used instead of a single greedy pass.
func (p GenerationParams) threeStage() bool {
	return p.QualityPreset == PresetHigh || p.ColorMode == ColorModeLAB
}

func (p GenerationParams) seed() int64 {
	if p.Seed != 0 {
		return p.Seed
	}
	return 0x5741A7 // fixed default; generation never consults the clock
}
