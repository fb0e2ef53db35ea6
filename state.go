package stringart

import (
	"image"
	"math/rand"

	"stringart/imageutil"
)

// ThreadConnection is one straight thread segment from one pin to
// another. Connections are appended strictly in execution order; later
// threads overlay earlier ones, so the log is never reordered. Local
// refinement mutates entries in place.
type ThreadConnection struct {
	FromPin   uint32 `json:"fromPin"`
	ToPin     uint32 `json:"toPin"`
	ColorHex  string `json:"color"`
	ColorName string `json:"colorName"`
}

// ProgressState is the single-owner mutable state of one generation job.
// It is created at the start of a run, threaded through the stage driver
// and refinement passes, and consumed once by the result assembler. Two
// jobs never share a ProgressState.
type ProgressState struct {
	Width  int
	Height int
	Pins   []Pin

	// Optimization targets, fixed after preprocessing.
	TargetGray *imageutil.GrayImage
	TargetRGB  *imageutil.RGBImage // nil in monochrome mode
	targetLAB  []labColor          // memoized per pixel, LAB mode only

	// Live canvases. ProgressGray starts white; ProgressRGB exists only in
	// color mode and starts white too.
	ProgressGray []uint8
	ProgressRGB  *imageutil.RGBImage

	// Density accumulates opacity in linear space, Overdraw counts thread
	// crossings per pixel.
	Density  []float32
	Overdraw []uint16

	// Edge pipeline output (zeroed when edge scoring is disabled).
	EdgeMap  []uint8
	EdgeTanX []float64
	EdgeTanY []float64

	// Multi-resolution mirrors; refreshed at checkpoints, consulted only
	// for scoring.
	pyramid *pyramid

	// Face region masks and policies.
	FaceMask []bool
	BodyMask []bool
	FaceBox  *image.Rectangle

	PinUsage   []uint32
	CurrentPin uint32

	Connections []ThreadConnection

	faceDetected bool
	workers      int

	lineCache   lineCache
	threadWidth int
	palette     []ThreadColor
	colorUsage  []int
	params      GenerationParams
	rng         *rand.Rand
}

// newProgressState allocates fresh state for one job. The canvases start
// white; the target images are retained as-is.
func newProgressState(params GenerationParams, pins []Pin, gray *imageutil.GrayImage, rgb *imageutil.RGBImage) *ProgressState {
	w, h := gray.Width, gray.Height
	n := w * h
	s := &ProgressState{
		Width:        w,
		Height:       h,
		Pins:         pins,
		TargetGray:   gray,
		ProgressGray: make([]uint8, n),
		Density:      make([]float32, n),
		Overdraw:     make([]uint16, n),
		EdgeMap:      make([]uint8, n),
		EdgeTanX:     make([]float64, n),
		EdgeTanY:     make([]float64, n),
		FaceMask:     make([]bool, n),
		BodyMask:     make([]bool, n),
		PinUsage:     make([]uint32, len(pins)),
		lineCache:    make(lineCache),
		threadWidth:  threadWidthPixels(params.ThreadWidth),
		palette:      paletteFor(params.ColorMode),
		params:       params,
		rng:          rand.New(rand.NewSource(params.seed())),
	}
	for i := range s.ProgressGray {
		s.ProgressGray[i] = 255
	}
	s.colorUsage = make([]int, len(s.palette))
	if params.ColorMode == ColorModeLAB {
		s.TargetRGB = rgb
		s.ProgressRGB = imageutil.NewRGBImage(w, h)
		s.targetLAB = make([]labColor, n)
		for i := 0; i < n; i++ {
			s.targetLAB[i] = rgbToLAB(rgb.Pix[i*3], rgb.Pix[i*3+1], rgb.Pix[i*3+2])
		}
	}
	s.pyramid = newPyramid(s)
	return s
}

// dropLineCache releases the rasterization memo to bound memory. Safe at
// any checkpoint.
func (s *ProgressState) dropLineCache() {
	s.lineCache = make(lineCache)
}

// record appends a connection, updates pin usage, palette usage and the
// current pin.
func (s *ProgressState) record(conn ThreadConnection) {
	s.Connections = append(s.Connections, conn)
	s.PinUsage[conn.FromPin]++
	s.PinUsage[conn.ToPin]++
	s.colorUsage[paletteIndex(s.palette, conn.ColorHex)]++
	s.CurrentPin = conn.ToPin
}
