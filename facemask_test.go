package stringart

import (
	"image"
	"testing"

	"stringart/imageutil"
)

func TestFallbackFaceBox(t *testing.T) {
	t.Parallel()
	box := fallbackFaceBox(512, 512)
	want := image.Rect(153, 76, 153+204, 76+256)
	if box != want {
		t.Errorf("fallback box %v, want %v", box, want)
	}
}

func TestBuildRegionMasks(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 100
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 128))

	box := image.Rect(40, 40, 80, 80)
	s.buildRegionMasks(&box)

	center := 60*s.Width + 60
	if !s.FaceMask[center] {
		t.Error("box center should be in the face mask")
	}
	if !s.BodyMask[center] {
		t.Error("face pixels are inside the body mask too")
	}

	corner := 2*s.Width + 2
	if s.FaceMask[corner] || s.BodyMask[corner] {
		t.Error("far corner should be background")
	}

	// The body box is wider and taller than the face box.
	bodyOnly := 95*s.Width + 60
	if s.FaceMask[bodyOnly] {
		t.Error("pixel below the face should be outside the 1.1x face mask")
	}
	if !s.BodyMask[bodyOnly] {
		t.Error("pixel below the face should be inside the 2.0x-height body mask")
	}
}

func TestEffectiveMinSkip(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 100
	params.MinPinSkip = 3
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 128))

	// No masks built: everything is background, balanced preset -> 7.
	if got := s.effectiveMinSkip(0, 50); got != 7 {
		t.Errorf("background pair should use preset skip 7, got %d", got)
	}

	// Build a face region covering some pins on the left edge.
	box := image.Rect(0, 30, 40, 100)
	s.buildRegionMasks(&box)

	var facePin, backgroundPin uint32
	foundFace := false
	for _, p := range s.Pins {
		i := int(p.Y)*s.Width + int(p.X)
		if s.FaceMask[i] && !foundFace {
			facePin = p.Index
			foundFace = true
		} else if !s.FaceMask[i] && !s.BodyMask[i] {
			backgroundPin = p.Index
		}
	}
	if !foundFace {
		t.Fatal("expected at least one pin inside the face region")
	}

	// The face policy overrides the background's 7 and is then floored at
	// the configured minimum of 3.
	wantFace := maxInt(faceMinSkip, params.MinPinSkip)
	if got := s.effectiveMinSkip(facePin, backgroundPin); got != wantFace {
		t.Errorf("face endpoint should force skip %d, got %d", wantFace, got)
	}

	// The configured minimum floors everything.
	s.params.MinPinSkip = 10
	if got := s.effectiveMinSkip(facePin, backgroundPin); got != 10 {
		t.Errorf("configured minimum should floor the policy, got %d", got)
	}
}

func TestLineFaceOverlap(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 100
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 128))

	if got := s.lineFaceOverlap([]int{1, 2, 3}); got != 0 {
		t.Errorf("no face box means zero overlap, got %f", got)
	}

	box := image.Rect(0, 0, 128, 64)
	s.buildRegionMasks(&box)

	// Two pixels inside, two outside.
	pixels := []int{
		10*s.Width + 10,
		20*s.Width + 20,
		120*s.Width + 10,
		120*s.Width + 20,
	}
	if got := s.lineFaceOverlap(pixels); got != 0.5 {
		t.Errorf("expected overlap 0.5, got %f", got)
	}
}

func TestOverdrawLimitsByRegion(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 100
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 128))
	box := image.Rect(50, 50, 70, 70)
	s.buildRegionMasks(&box)

	if got := s.overdrawLimit(60*s.Width + 60); got != faceOverdrawLimit {
		t.Errorf("face limit %f, got %f", faceOverdrawLimit, got)
	}
	if got := s.overdrawLimit(0); got != backgroundOverdrawLimit {
		t.Errorf("background limit %f, got %f", backgroundOverdrawLimit, got)
	}
}
