package stringart

import (
	"bytes"
	"image/png"
	"testing"

	"stringart/imageutil"
)

// testState builds a ProgressState directly from a synthetic grayscale
// target, bypassing decode and face detection for deterministic unit
// tests. Masks stay empty (everything background, no face detected).
func testState(t *testing.T, params GenerationParams, gray *imageutil.GrayImage) *ProgressState {
	t.Helper()
	var rgb *imageutil.RGBImage
	if params.ColorMode == ColorModeLAB {
		rgb = imageutil.NewRGBImage(gray.Width, gray.Height)
		for i := 0; i < gray.Width*gray.Height; i++ {
			v := gray.Pix[i]
			rgb.SetIndex(i, imageutil.RGB{R: v, G: v, B: v})
		}
	}
	pins := PlacePins(params.FrameType, params.PinCount, gray.Width, nil)
	s := newProgressState(params, pins, gray, rgb)
	s.workers = 1
	return s
}

// testStateRGB is testState for an explicit color target.
func testStateRGB(t *testing.T, params GenerationParams, rgb *imageutil.RGBImage) *ProgressState {
	t.Helper()
	gray := imageutil.GrayImageFromImage(rgb.ToImage())
	pins := PlacePins(params.FrameType, params.PinCount, rgb.Width, nil)
	s := newProgressState(params, pins, gray, rgb)
	s.workers = 1
	return s
}

// encodePNG serializes a grayscale image so engine-level tests can feed
// it through the full decode path.
func encodePNG(t *testing.T, img *imageutil.GrayImage) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToImage()); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

// checkWinding verifies the structural connection invariants: distinct
// endpoints, min-skip distance, and continuity of the physical winding.
func checkWinding(t *testing.T, s *ProgressState) {
	t.Helper()
	for k, c := range s.Connections {
		if c.FromPin == c.ToPin {
			t.Errorf("connection %d: from == to == %d", k, c.FromPin)
		}
		dist := circularDistance(c.FromPin, c.ToPin, len(s.Pins))
		if skip := s.effectiveMinSkip(c.FromPin, c.ToPin); dist < skip {
			t.Errorf("connection %d: distance %d below min skip %d", k, dist, skip)
		}
		if k > 0 && s.Connections[k-1].ToPin != c.FromPin {
			t.Errorf("connection %d: winding broken, prev to %d != from %d",
				k, s.Connections[k-1].ToPin, c.FromPin)
		}
	}
	if n := len(s.Connections); n > 0 && s.CurrentPin != s.Connections[n-1].ToPin {
		t.Errorf("current pin %d != last to pin %d", s.CurrentPin, s.Connections[n-1].ToPin)
	}
}

// checkResultWinding checks an assembled Result for distinct endpoints and
// continuity. Unlike checkWinding it does not check min-skip distance or
// the current pin, which need a ProgressState.
func checkResultWinding(t *testing.T, r *Result) {
	t.Helper()
	for k, c := range r.Connections {
		if c.FromPin == c.ToPin {
			t.Errorf("connection %d: from == to == %d", k, c.FromPin)
		}
		if k > 0 && r.Connections[k-1].ToPin != c.FromPin {
			t.Errorf("connection %d: winding broken", k)
		}
	}
}
