package stringart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"

	"stringart/imageutil"
)

// ThreadColorCount reports how many threads of one palette color a result
// contains.
type ThreadColorCount struct {
	Color      string  `json:"color"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Result is the final output of one generation job. Connections are in
// execution order; the preview bitmap is reproducible from Connections,
// Pins and Params.ThreadOpacity alone.
type Result struct {
	ID           string             `json:"id"`
	Pins         []Pin              `json:"pins"`
	Connections  []ThreadConnection `json:"connections"`
	TotalThreads int                `json:"totalThreads"`
	Params       GenerationParams   `json:"params"`
	CreatedAt    string             `json:"createdAt"`

	// Preview is the base64-encoded BMP of the replayed connection log.
	Preview string `json:"preview"`

	ThreadColors []ThreadColorCount `json:"threadColors"`

	AccuracyScore float64 `json:"accuracyScore"`
	MSE           float64 `json:"mse"`
	SSIM          float64 `json:"ssim"`
}

// ProgressSnapshot is one progress stream entry. CurrentThread is
// monotone within a job.
type ProgressSnapshot struct {
	CurrentThread int
	TotalThreads  int
	StageLabel    string
	PreviewPNG    []byte
	Accuracy      *AccuracyMetrics
}

// assembleResult consumes the job state and emits the final record. The
// preview is rendered by replaying every connection onto a fresh white
// canvas at the uniform thread opacity with the optimization compositor,
// which makes the bitmap a pure function of the connection log.
func (s *ProgressState) assembleResult() (*Result, error) {
	preview := RenderPreview(s.Connections, s.Pins, s.Width, s.Height, s.params)
	encoded, err := encodePreviewBMP(preview)
	if err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}

	metrics := computeMetrics(s.TargetGray.Pix, s.ProgressGray)

	return &Result{
		ID:            uuid.NewString(),
		Pins:          s.Pins,
		Connections:   s.Connections,
		TotalThreads:  len(s.Connections),
		Params:        s.params,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Preview:       encoded,
		ThreadColors:  countThreadColors(s.Connections, s.palette),
		AccuracyScore: metrics.SimilarityPct,
		MSE:           metrics.MSE,
		SSIM:          metrics.SSIM,
	}, nil
}

// RenderPreview replays a connection log onto a white canvas with each
// thread's stored color at params.ThreadOpacity. Black threads reduce to
// the monochrome composite per channel, so one code path serves both
// color modes.
func RenderPreview(conns []ThreadConnection, pins []Pin, width, height int, params GenerationParams) *imageutil.RGBImage {
	canvas := imageutil.NewRGBImage(width, height)
	palette := paletteFor(params.ColorMode)
	widthPx := threadWidthPixels(params.ThreadWidth)
	alpha := params.ThreadOpacity

	for _, c := range conns {
		color := palette[paletteIndex(palette, c.ColorHex)]
		pa, pb := pins[c.FromPin], pins[c.ToPin]
		pixels := rasterizeLine(int(pa.X), int(pa.Y), int(pb.X), int(pb.Y), widthPx, width, height)
		for _, i := range pixels {
			r, g, b := compositeRGBForward(
				canvas.Pix[i*3], canvas.Pix[i*3+1], canvas.Pix[i*3+2], color, alpha)
			canvas.Pix[i*3] = r
			canvas.Pix[i*3+1] = g
			canvas.Pix[i*3+2] = b
		}
	}
	return canvas
}

// encodePreviewBMP serializes the preview canvas as a base64 BMP.
func encodePreviewBMP(canvas *imageutil.RGBImage) (string, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, canvas.ToImage()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePreview decodes a Result's base64 BMP preview back into pixels.
// Exposed for round-trip verification by callers and tests.
func DecodePreview(encoded string) (*imageutil.RGBImage, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding preview base64: %w", err)
	}
	img, err := bmp.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding preview bitmap: %w", err)
	}
	return imageutil.RGBImageFromImage(img), nil
}

// countThreadColors partitions the connection list by palette entry.
// Percentages are rounded to two decimals each, so for a non-empty log
// they sum to 100 up to that rounding (three equal shares give 99.99).
func countThreadColors(conns []ThreadConnection, palette []ThreadColor) []ThreadColorCount {
	counts := make([]int, len(palette))
	for _, c := range conns {
		counts[paletteIndex(palette, c.ColorHex)]++
	}

	out := make([]ThreadColorCount, len(palette))
	for i, color := range palette {
		pct := 0.0
		if len(conns) > 0 {
			pct = math.Round(10000*float64(counts[i])/float64(len(conns))) / 100
		}
		out[i] = ThreadColorCount{
			Color:      color.Hex,
			Name:       color.Name,
			Count:      counts[i],
			Percentage: pct,
		}
	}
	return out
}

// snapshotPreviewMax caps the edge length of in-flight preview images so
// a slow consumer is not shipped full-resolution frames every N/100
// threads. The final preview is always full resolution.
const snapshotPreviewMax = 256

// snapshot captures the live canvas for the progress stream, downscaled
// to the snapshot preview cap.
func (s *ProgressState) snapshot(current, total int, label string) ProgressSnapshot {
	w, h := s.Width, s.Height
	if w > snapshotPreviewMax || h > snapshotPreviewMax {
		scale := float64(snapshotPreviewMax) / float64(maxInt(w, h))
		w = maxInt(1, int(float64(w)*scale))
		h = maxInt(1, int(float64(h)*scale))
	}

	var buf bytes.Buffer
	if s.ProgressRGB != nil {
		small := imageutil.Resize(s.ProgressRGB, w, h, imageutil.InterpolationArea)
		_ = png.Encode(&buf, small.ToImage())
	} else {
		gray := &imageutil.GrayImage{Width: s.Width, Height: s.Height, Pix: s.ProgressGray}
		small := imageutil.ResizeGray(gray, w, h, imageutil.InterpolationArea)
		_ = png.Encode(&buf, small.ToImage())
	}

	metrics := computeMetrics(s.TargetGray.Pix, s.ProgressGray)
	return ProgressSnapshot{
		CurrentThread: current,
		TotalThreads:  total,
		StageLabel:    label,
		PreviewPNG:    buf.Bytes(),
		Accuracy:      &metrics,
	}
}
