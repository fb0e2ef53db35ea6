package stringart

import "math"

// Simulated annealing bounds. Iterations are capped so a long streak of
// rejected proposals cannot deteriorate the canvas through reverse-
// composite drift.
const (
	annealStartTemp = 150.0
	annealCooling   = 0.97
	annealMaxIters  = 1000
	annealShare     = 0.2

	backtrackWindow        = 100
	backtrackSSIMThreshold = 0.001
)

// simulatedAnnealing perturbs random pivots, accepting score-losing moves
// with probability exp(delta/T) while the temperature lasts. Monochrome
// only; the LAB loop's per-color evaluation fills the same role.
func (s *ProgressState) simulatedAnnealing() {
	if s.params.ColorMode == ColorModeLAB || len(s.Connections) == 0 {
		return
	}
	alpha := s.params.ThreadOpacity
	iters := minInt(annealMaxIters, int(annealShare*float64(s.params.MaxThreads)))

	temp := annealStartTemp
	for iter := 0; iter < iters; iter++ {
		k := s.rng.Intn(len(s.Connections))
		s.annealStep(k, alpha, temp)
		temp *= annealCooling
	}
}

// annealStep proposes one random alternative pivot for connection k and
// accepts by the Metropolis rule.
func (s *ProgressState) annealStep(k int, alpha, temp float64) {
	last := k == len(s.Connections)-1
	cur := s.Connections[k]
	from := cur.FromPin
	oldPivot := cur.ToPin
	color := s.palette[paletteIndex(s.palette, cur.ColorHex)]

	var nextTo uint32
	var nextColor ThreadColor
	if !last {
		next := s.Connections[k+1]
		nextTo = next.ToPin
		nextColor = s.palette[paletteIndex(s.palette, next.ColorHex)]
	}

	proposal, ok := s.randomValidPin(from)
	if !ok || proposal == oldPivot || (!last && !s.validPair(proposal, nextTo)) {
		return
	}

	s.revertThread(s.linePixels(from, oldPivot), color, alpha)
	if !last {
		s.revertThread(s.linePixels(oldPivot, nextTo), nextColor, alpha)
	}

	score := func(pivot uint32) float64 {
		total := s.perceptualScore(from, pivot, s.linePixels(from, pivot), alpha)
		if !last {
			total += s.perceptualScore(pivot, nextTo, s.linePixels(pivot, nextTo), alpha)
		}
		return total
	}

	oldScore := score(oldPivot)
	newScore := score(proposal)
	delta := newScore - oldScore

	accept := delta >= 0
	if !accept && temp > 0 {
		accept = s.rng.Float64() < math.Exp(delta/temp)
	}

	pivot := oldPivot
	if accept {
		pivot = proposal
		shared := uint32(2)
		if last {
			shared = 1
		}
		s.PinUsage[oldPivot] -= shared
		s.PinUsage[pivot] += shared
		s.Connections[k].ToPin = pivot
		if !last {
			s.Connections[k+1].FromPin = pivot
		} else {
			s.CurrentPin = pivot
		}
	}

	s.applyThread(s.linePixels(from, pivot), color, alpha)
	if !last {
		s.applyThread(s.linePixels(pivot, nextTo), nextColor, alpha)
	}
}

// backtrack pops tail connections whose removal improves global SSIM by
// at least backtrackSSIMThreshold, inspecting at most backtrackWindow
// threads. Popping only from the tail keeps the winding continuous.
func (s *ProgressState) backtrack() {
	alpha := s.params.ThreadOpacity
	before := graySSIM(s.TargetGray.Pix, s.ProgressGray)

	for i := 0; i < backtrackWindow && len(s.Connections) > 0; i++ {
		tail := s.Connections[len(s.Connections)-1]
		color := s.palette[paletteIndex(s.palette, tail.ColorHex)]
		pixels := s.linePixels(tail.FromPin, tail.ToPin)

		s.revertThread(pixels, color, alpha)
		after := graySSIM(s.TargetGray.Pix, s.ProgressGray)
		if after-before >= backtrackSSIMThreshold {
			s.PinUsage[tail.FromPin]--
			s.PinUsage[tail.ToPin]--
			s.colorUsage[paletteIndex(s.palette, tail.ColorHex)]--
			s.Connections = s.Connections[:len(s.Connections)-1]
			s.CurrentPin = tail.FromPin
			before = after
			continue
		}
		s.applyThread(pixels, color, alpha)
		break
	}
}
