package stringart

import (
	"math"
	"testing"

	"stringart/imageutil"
)

func TestGammaRoundTrip(t *testing.T) {
	t.Parallel()
	for v := 0; v < 256; v++ {
		got := linearToSRGB(srgbToLinear(uint8(v)))
		if got != uint8(v) {
			t.Fatalf("gamma round trip of %d yielded %d", v, got)
		}
	}
}

func TestCompositeGrayForwardDarkens(t *testing.T) {
	t.Parallel()
	v := compositeGrayForward(200, 0.12)
	if v >= 200 {
		t.Errorf("forward composite should darken, 200 -> %d", v)
	}
	if compositeGrayForward(0, 0.12) != 0 {
		t.Error("black stays black under any opacity")
	}
}

func TestCompositeGrayReverseApproximatesInverse(t *testing.T) {
	t.Parallel()
	for _, v := range []uint8{255, 200, 128, 64} {
		forward := compositeGrayForward(v, 0.12)
		back := compositeGrayReverse(forward, 0.12)
		if diff := int(back) - int(v); diff < -2 || diff > 2 {
			t.Errorf("reverse(%d -> %d) = %d, drift %d beyond 8-bit tolerance", v, forward, back, diff)
		}
	}
}

func TestCompositeRGBBlackMatchesGray(t *testing.T) {
	t.Parallel()
	// A black thread has zero linear reflectance in every channel, so the
	// subtractive composite must collapse to the monochrome formula.
	for _, v := range []uint8{255, 180, 96} {
		r, g, b := compositeRGBForward(v, v, v, threadBlack, 0.2)
		want := compositeGrayForward(v, 0.2)
		if r != want || g != want || b != want {
			t.Errorf("black thread over gray %d: got (%d, %d, %d), want %d", v, r, g, b, want)
		}
	}
}

func TestCompositeCyanAbsorbsRed(t *testing.T) {
	t.Parallel()
	r, g, b := compositeRGBForward(255, 255, 255, threadCyan, 0.3)
	if r >= g || r >= b {
		t.Errorf("cyan thread should absorb red most: got (%d, %d, %d)", r, g, b)
	}
}

func TestDensityAccumulation(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 60
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 200))

	pixels := s.linePixels(0, 30)
	s.applyThread(pixels, threadBlack, 0.12)
	for _, i := range pixels {
		if math.Abs(float64(s.Density[i])-0.12) > 1e-6 {
			t.Fatalf("first thread should set density to alpha, got %f", s.Density[i])
		}
		if s.Overdraw[i] != 1 {
			t.Fatalf("overdraw should be 1, got %d", s.Overdraw[i])
		}
	}

	s.applyThread(pixels, threadBlack, 0.12)
	for _, i := range pixels {
		want := 0.12 + 0.12*(1-0.12)
		if math.Abs(float64(s.Density[i])-want) > 1e-5 {
			t.Fatalf("density source-over mismatch: got %f, want %f", s.Density[i], want)
		}
	}

	s.revertThread(pixels, threadBlack, 0.12)
	s.revertThread(pixels, threadBlack, 0.12)
	for _, i := range pixels {
		if s.Density[i] < 0 || s.Density[i] > 1e-5 {
			t.Fatalf("density should return to ~0 after reverts, got %f", s.Density[i])
		}
		if s.Overdraw[i] != 0 {
			t.Fatalf("overdraw should return to 0, got %d", s.Overdraw[i])
		}
	}
}

func TestDensityStaysBounded(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 60
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 200))

	pixels := s.linePixels(0, 30)
	for i := 0; i < 200; i++ {
		s.applyThread(pixels, threadBlack, 0.35)
	}
	for _, i := range pixels {
		if s.Density[i] < 0 || s.Density[i] > 1 {
			t.Fatalf("density escaped [0, 1]: %f", s.Density[i])
		}
	}
}
