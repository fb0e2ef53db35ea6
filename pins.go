package stringart

import (
	"image"
	"math"
)

// Pin is one nail on the frame perimeter. Pins are indexed 0..count-1 in
// perimeter order; modular index distance therefore tracks geometric
// adjacency, which the min-skip policy relies on.
type Pin struct {
	Index uint32 `json:"index"`
	X     uint16 `json:"x"`
	Y     uint16 `json:"y"`
}

// pinDensityBoost is the extra pin density placed inside a detected face's
// angular sector, and pinOvershootLimit bounds how far the face-biased
// layout may exceed the requested count before re-indexing.
const (
	pinDensityBoost   = 1.4
	pinOvershootLimit = 0.15
)

// PlacePins generates the pin layout for a square canvas of the given
// size. faceBox may be nil; when present and the frame is circular, pin
// spacing is compressed inside the face's angular sector so detail-heavy
// regions get more anchor points. The resulting count may exceed the
// request by up to 15%; pins are re-indexed densely in perimeter order.
func PlacePins(frame FrameType, count, size int, faceBox *image.Rectangle) []Pin {
	if frame == FrameCircular {
		return placeCircularPins(count, size, faceBox)
	}
	return placeRectangularPins(count, size)
}

func placeCircularPins(count, size int, faceBox *image.Rectangle) []Pin {
	cx := float64(size) / 2
	cy := float64(size) / 2
	radius := float64(size)/2 - 5

	angles := make([]float64, 0, count)
	if faceBox == nil {
		for i := 0; i < count; i++ {
			angles = append(angles, 2*math.Pi*float64(i)/float64(count))
		}
	} else {
		angles = faceBiasedAngles(count, cx, cy, radius, *faceBox)
	}

	pins := make([]Pin, len(angles))
	for i, theta := range angles {
		pins[i] = Pin{
			Index: uint32(i),
			X:     clampUint16(cx + radius*math.Cos(theta)),
			Y:     clampUint16(cy + radius*math.Sin(theta)),
		}
	}
	return pins
}

// faceBiasedAngles walks the circle with a base angular step, compressing
// the step inside the face sector so roughly pinDensityBoost times the
// baseline density lands there. The walk may overshoot the requested
// count; the overshoot is clamped to pinOvershootLimit.
func faceBiasedAngles(count int, cx, cy, radius float64, face image.Rectangle) []float64 {
	faceCX := float64(face.Min.X+face.Max.X) / 2
	faceCY := float64(face.Min.Y+face.Max.Y) / 2
	faceTheta := math.Atan2(faceCY-cy, faceCX-cx)
	halfSector := math.Atan2(float64(face.Dx())/2, radius)

	baseStep := 2 * math.Pi / float64(count)
	denseStep := baseStep / pinDensityBoost
	maxPins := count + int(pinOvershootLimit*float64(count))

	var angles []float64
	theta := 0.0
	for theta < 2*math.Pi && len(angles) < maxPins {
		angles = append(angles, theta)
		if angularDistance(theta, faceTheta) <= halfSector {
			theta += denseStep
		} else {
			theta += baseStep
		}
	}
	return angles
}

// angularDistance returns the absolute angular difference in [0, pi].
func angularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// placeRectangularPins divides the perimeter into four equal sides, each
// carrying floor(count/4) equally spaced pins inset by a 5 px margin.
// Pins run clockwise from the top-left corner so index adjacency matches
// geometric adjacency.
func placeRectangularPins(count, size int) []Pin {
	perSide := count / 4
	margin := 5.0
	span := float64(size) - 2*margin

	pins := make([]Pin, 0, perSide*4)
	add := func(x, y float64) {
		pins = append(pins, Pin{
			Index: uint32(len(pins)),
			X:     clampUint16(x),
			Y:     clampUint16(y),
		})
	}

	for i := 0; i < perSide; i++ { // top, left to right
		add(margin+span*float64(i)/float64(perSide), margin)
	}
	for i := 0; i < perSide; i++ { // right, top to bottom
		add(margin+span, margin+span*float64(i)/float64(perSide))
	}
	for i := 0; i < perSide; i++ { // bottom, right to left
		add(margin+span-span*float64(i)/float64(perSide), margin+span)
	}
	for i := 0; i < perSide; i++ { // left, bottom to top
		add(margin, margin+span-span*float64(i)/float64(perSide))
	}
	return pins
}

// circularDistance returns the modular index distance between two pins.
func circularDistance(a, b uint32, pinCount int) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	if wrap := pinCount - d; wrap < d {
		return wrap
	}
	return d
}

func clampUint16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(math.Round(v))
}
