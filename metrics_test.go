package stringart

import (
	"math"
	"testing"
)

func TestMetricsIdenticalBuffers(t *testing.T) {
	t.Parallel()
	buf := make([]uint8, 64*64)
	for i := range buf {
		buf[i] = uint8(i % 251)
	}
	m := computeMetrics(buf, buf)
	if m.MSE != 0 {
		t.Errorf("identical buffers should have MSE 0, got %f", m.MSE)
	}
	if math.Abs(m.SSIM-1) > 1e-9 {
		t.Errorf("identical buffers should have SSIM ~1, got %f", m.SSIM)
	}
	if math.Abs(m.SimilarityPct-100) > 1e-6 {
		t.Errorf("identical buffers should score 100%%, got %f", m.SimilarityPct)
	}
}

func TestMetricsBlackVersusWhite(t *testing.T) {
	t.Parallel()
	black := make([]uint8, 32*32)
	white := make([]uint8, 32*32)
	for i := range white {
		white[i] = 255
	}
	m := computeMetrics(black, white)
	if m.MSE != maxMSE {
		t.Errorf("black vs white MSE should be %d, got %f", maxMSE, m.MSE)
	}
	if m.SimilarityPct < 0 || m.SimilarityPct > 100 {
		t.Errorf("similarity must clamp to [0, 100], got %f", m.SimilarityPct)
	}
	if m.SSIM < -1 || m.SSIM > 1 {
		t.Errorf("ssim outside [-1, 1]: %f", m.SSIM)
	}
}

func TestGrayMSE(t *testing.T) {
	t.Parallel()
	a := []uint8{0, 10, 20}
	b := []uint8{0, 10, 26}
	if got := grayMSE(a, b); got != 12 {
		t.Errorf("expected MSE (0+0+36)/3 = 12, got %f", got)
	}
	if got := grayMSE(nil, nil); got != 0 {
		t.Errorf("empty buffers should have MSE 0, got %f", got)
	}
}

func TestGraySSIMRange(t *testing.T) {
	t.Parallel()
	a := make([]uint8, 256)
	b := make([]uint8, 256)
	for i := range a {
		a[i] = uint8(i)
		b[i] = uint8(255 - i)
	}
	ssim := graySSIM(a, b)
	if ssim < -1 || ssim > 1 {
		t.Errorf("ssim outside [-1, 1]: %f", ssim)
	}
	// Perfectly anti-correlated signals have strongly negative structure.
	if ssim >= 0.5 {
		t.Errorf("anti-correlated buffers should not score high, got %f", ssim)
	}
}
