package stringart

import (
	"image"
	"os"
	"sync"

	pigo "github.com/esimov/pigo/core"
)

// Face region policies. Faces tolerate short threads and high density;
// the background does not.
const (
	faceMinSkip = 2
	bodyMinSkip = 4

	faceOverdrawLimit       = 0.80
	bodyOverdrawLimit       = 0.80
	backgroundOverdrawLimit = 0.90

	// A line whose face overlap reaches faceBonusOverlap earns the face
	// priority bonus and the saturation check in scoring.
	faceBonusOverlap = 0.30
)

// cascadeEnv names the environment variable pointing at the pigo
// facefinder cascade. The model is loaded lazily once per process and
// shared read-only by concurrent jobs.
const cascadeEnv = "STRINGART_CASCADE"

var (
	cascadeOnce sync.Once
	cascade     *pigo.Pigo
)

func loadCascade(path string) *pigo.Pigo {
	cascadeOnce.Do(func() {
		if path == "" {
			path = os.Getenv(cascadeEnv)
		}
		if path == "" {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		classifier, err := pigo.NewPigo().Unpack(data)
		if err != nil {
			return
		}
		cascade = classifier
	})
	return cascade
}

// detectFace runs the face detector on the preprocessed target (the
// coordinates must match the optimization canvas, so the original image
// is never used here). Returns nil when no face is found or the cascade
// is unavailable.
func detectFace(gray []uint8, width, height int, cascadePath string) *image.Rectangle {
	classifier := loadCascade(cascadePath)
	if classifier == nil {
		return nil
	}

	params := pigo.CascadeParams{
		MinSize:     width / 10,
		MaxSize:     width,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   height,
			Cols:   width,
			Dim:    width,
		},
	}
	dets := classifier.RunCascade(params, 0.0)
	dets = classifier.ClusterDetections(dets, 0.2)

	best := pigo.Detection{}
	for _, det := range dets {
		if det.Q >= 5.0 && det.Scale > best.Scale {
			best = det
		}
	}
	if best.Scale == 0 {
		return nil
	}
	half := best.Scale / 2
	rect := image.Rect(best.Col-half, best.Row-half, best.Col+half, best.Row+half).
		Intersect(image.Rect(0, 0, width, height))
	if rect.Empty() {
		return nil
	}
	return &rect
}

// fallbackFaceBox is the deterministic centred box used when detection
// fails: (0.4W, 0.5H) at (0.3W, 0.15H).
func fallbackFaceBox(width, height int) image.Rectangle {
	return image.Rect(
		int(0.3*float64(width)),
		int(0.15*float64(height)),
		int(0.3*float64(width))+int(0.4*float64(width)),
		int(0.15*float64(height))+int(0.5*float64(height)),
	)
}

// buildRegionMasks expands the face box by 1.1x for the face mask and
// builds the larger body box (1.6x width, 2.0x height) for the body
// mask. A nil box leaves the masks empty, classifying everything as
// background.
func (s *ProgressState) buildRegionMasks(box *image.Rectangle) {
	if box == nil {
		return
	}
	s.FaceBox = box

	face := scaleRect(*box, 1.1, 1.1, s.Width, s.Height)
	body := scaleRect(*box, 1.6, 2.0, s.Width, s.Height)

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := y*s.Width + x
			pt := image.Pt(x, y)
			s.FaceMask[i] = pt.In(face)
			s.BodyMask[i] = pt.In(body)
		}
	}
}

func scaleRect(r image.Rectangle, sx, sy float64, width, height int) image.Rectangle {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	halfW := float64(r.Dx()) / 2 * sx
	halfH := float64(r.Dy()) / 2 * sy
	return image.Rect(
		int(cx-halfW), int(cy-halfH),
		int(cx+halfW), int(cy+halfH),
	).Intersect(image.Rect(0, 0, width, height))
}

// pinRegionMinSkip returns the min-skip policy for the region a pin
// falls in.
func (s *ProgressState) pinRegionMinSkip(p uint32) int {
	pin := s.Pins[p]
	i := int(pin.Y)*s.Width + int(pin.X)
	if i < 0 || i >= len(s.FaceMask) {
		return s.params.backgroundMinSkip()
	}
	switch {
	case s.FaceMask[i]:
		return faceMinSkip
	case s.BodyMask[i]:
		return bodyMinSkip
	default:
		return s.params.backgroundMinSkip()
	}
}

// effectiveMinSkip combines the two endpoint policies: a face endpoint
// wins outright, otherwise the stricter of the two applies, floored at
// the configured minimum.
func (s *ProgressState) effectiveMinSkip(a, b uint32) int {
	skipA := s.pinRegionMinSkip(a)
	skipB := s.pinRegionMinSkip(b)
	skip := skipA
	if skipA == faceMinSkip || skipB == faceMinSkip {
		skip = faceMinSkip
	} else if skipB > skip {
		skip = skipB
	}
	if skip < s.params.MinPinSkip {
		skip = s.params.MinPinSkip
	}
	// Tiny frames: the region policy must never exceed the frame's own
	// maximum modular distance or no pair would be valid at all.
	if half := len(s.Pins) / 2; skip > half {
		skip = half
	}
	return skip
}

// validPair reports whether two pins may be connected under the min-skip
// policy.
func (s *ProgressState) validPair(a, b uint32) bool {
	if a == b {
		return false
	}
	return circularDistance(a, b, len(s.Pins)) >= s.effectiveMinSkip(a, b)
}

// lineFaceOverlap returns the fraction of a pixel run inside the face
// mask.
func (s *ProgressState) lineFaceOverlap(pixels []int) float64 {
	if s.FaceBox == nil || len(pixels) == 0 {
		return 0
	}
	inside := 0
	for _, i := range pixels {
		if s.FaceMask[i] {
			inside++
		}
	}
	return float64(inside) / float64(len(pixels))
}

// overdrawLimit returns the density ceiling for a pixel's region.
func (s *ProgressState) overdrawLimit(i int) float64 {
	switch {
	case s.FaceMask[i]:
		return faceOverdrawLimit
	case s.BodyMask[i]:
		return bodyOverdrawLimit
	default:
		return backgroundOverdrawLimit
	}
}
