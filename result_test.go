package stringart

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"testing"

	"stringart/imageutil"
)

// The preview bitmap must be reproducible from connections, pins and the
// thread opacity alone.
func TestPreviewReplayDeterminism(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 80
	params.MaxThreads = 150
	s := testState(t, params, imageutil.CreateDiagonalGradient(128, 128))

	if err := s.runGeneration(context.Background(), nil); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	result, err := s.assembleResult()
	if err != nil {
		t.Fatalf("assembling result: %v", err)
	}

	decoded, err := DecodePreview(result.Preview)
	if err != nil {
		t.Fatalf("decoding preview: %v", err)
	}
	replayed := RenderPreview(result.Connections, result.Pins, s.Width, s.Height, result.Params)

	if decoded.Width != replayed.Width || decoded.Height != replayed.Height {
		t.Fatalf("preview dimensions %dx%d, replay %dx%d",
			decoded.Width, decoded.Height, replayed.Width, replayed.Height)
	}
	for i := range replayed.Pix {
		if decoded.Pix[i] != replayed.Pix[i] {
			t.Fatalf("preview byte %d differs: %d vs %d", i, decoded.Pix[i], replayed.Pix[i])
		}
	}
}

func TestThreadColorCountsPartition(t *testing.T) {
	t.Parallel()
	conns := []ThreadConnection{
		{ColorHex: threadBlack.Hex, ColorName: threadBlack.Name},
		{ColorHex: threadBlack.Hex, ColorName: threadBlack.Name},
		{ColorHex: threadCyan.Hex, ColorName: threadCyan.Name},
		{ColorHex: threadMagenta.Hex, ColorName: threadMagenta.Name},
	}
	counts := countThreadColors(conns, labPalette)

	total := 0
	pct := 0.0
	for _, tc := range counts {
		total += tc.Count
		pct += tc.Percentage
	}
	if total != len(conns) {
		t.Errorf("counts should partition the log: %d vs %d", total, len(conns))
	}
	if math.Abs(pct-100) > 1 {
		t.Errorf("percentages should sum to ~100, got %f", pct)
	}
	if counts[0].Count != 2 {
		t.Errorf("expected 2 black threads, got %d", counts[0].Count)
	}
}

func TestThreadColorCountsEmptyLog(t *testing.T) {
	t.Parallel()
	counts := countThreadColors(nil, monochromePalette)
	if len(counts) != 1 || counts[0].Count != 0 || counts[0].Percentage != 0 {
		t.Errorf("empty log should produce a zeroed black entry, got %+v", counts)
	}
}

func TestResultFieldsPopulated(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 60
	params.MaxThreads = 50
	s := testState(t, params, imageutil.CreateDiagonalGradient(128, 128))

	if err := s.runGeneration(context.Background(), nil); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	result, err := s.assembleResult()
	if err != nil {
		t.Fatalf("assembling result: %v", err)
	}

	if result.ID == "" {
		t.Error("result needs an id")
	}
	if result.CreatedAt == "" {
		t.Error("result needs a creation timestamp")
	}
	if result.TotalThreads != len(result.Connections) {
		t.Errorf("total threads %d != connection count %d", result.TotalThreads, len(result.Connections))
	}
	if result.AccuracyScore < 0 || result.AccuracyScore > 100 {
		t.Errorf("accuracy score %f outside [0, 100]", result.AccuracyScore)
	}
	if result.SSIM < -1 || result.SSIM > 1 {
		t.Errorf("ssim %f outside [-1, 1]", result.SSIM)
	}
	if result.MSE < 0 {
		t.Errorf("mse %f negative", result.MSE)
	}
	checkResultWinding(t, result)
}

func TestSnapshotPreviewDownscaled(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 60
	s := testState(t, params, imageutil.CreateSolidGray(400, 400, 128))

	snap := s.snapshot(1, 10, "structure")
	if len(snap.PreviewPNG) == 0 {
		t.Fatal("snapshot should carry a preview")
	}
	img, err := png.Decode(bytes.NewReader(snap.PreviewPNG))
	if err != nil {
		t.Fatalf("decoding snapshot preview: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > snapshotPreviewMax || b.Dy() > snapshotPreviewMax {
		t.Errorf("snapshot preview %dx%d exceeds the %d px cap", b.Dx(), b.Dy(), snapshotPreviewMax)
	}
	if snap.StageLabel != "structure" || snap.CurrentThread != 1 || snap.TotalThreads != 10 {
		t.Errorf("snapshot metadata wrong: %+v", snap)
	}
}

// More threads must not leave the canvas further from the target than an
// untouched white canvas.
func TestGenerationBeatsWhiteCanvas(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 100
	params.MaxThreads = 400
	gray := imageutil.CreateDiagonalGradient(256, 256)
	s := testState(t, params, gray)

	if err := s.runGeneration(context.Background(), nil); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	white := make([]uint8, len(gray.Pix))
	for i := range white {
		white[i] = 255
	}
	whiteMSE := grayMSE(gray.Pix, white)
	finalMSE := grayMSE(gray.Pix, s.ProgressGray)
	if finalMSE >= whiteMSE {
		t.Errorf("400 threads should beat the blank canvas: %f vs %f", finalMSE, whiteMSE)
	}
}
