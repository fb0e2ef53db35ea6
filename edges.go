package stringart

import (
	"math"

	"stringart/imageutil"
)

// edgePowerCurve is the exponent applied to the normalized Sobel
// magnitude. Being below 1, it lifts weaker responses toward the 255 peak.
const edgePowerCurve = 0.7

// computeEdges fills the state's edge magnitude map and tangent vectors
// from the grayscale target. A disabled edge pipeline leaves everything
// zero, which neutralizes every edge term downstream.
func (s *ProgressState) computeEdges() {
	if !s.params.UseEdgeDetection {
		return
	}
	res := imageutil.Sobel(s.TargetGray, edgePowerCurve)
	copy(s.EdgeMap, res.Magnitude)
	copy(s.EdgeTanX, res.TangentX)
	copy(s.EdgeTanY, res.TangentY)
}

// edgeAlignment scores how well the straight line between two pins runs
// along local edges. Five evenly spaced samples project the edge tangent
// onto the line direction, weighted by edge magnitude. Returns a value in
// [0, 1].
func (s *ProgressState) edgeAlignment(a, b uint32) float64 {
	pa, pb := s.Pins[a], s.Pins[b]
	dx := float64(pb.X) - float64(pa.X)
	dy := float64(pb.Y) - float64(pa.Y)
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return 0
	}
	dx /= length
	dy /= length

	const samples = 5
	var total float64
	for i := 0; i < samples; i++ {
		t := (float64(i) + 0.5) / samples
		x := int(math.Round(float64(pa.X) + t*(float64(pb.X)-float64(pa.X))))
		y := int(math.Round(float64(pa.Y) + t*(float64(pb.Y)-float64(pa.Y))))
		if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
			continue
		}
		idx := y*s.Width + x
		proj := math.Abs(s.EdgeTanX[idx]*dx + s.EdgeTanY[idx]*dy)
		total += proj * float64(s.EdgeMap[idx]) / 255
	}
	return total / samples
}
