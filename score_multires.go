package stringart

// Multi-resolution combination weights. Staleness of up to one refresh
// interval in the mirrors shifts scores by well under the margin these
// weights leave to the full-resolution term.
const (
	weightLowRes  = 0.2
	weightMidRes  = 0.3
	weightFullRes = 0.5

	// Candidates whose low-resolution estimate falls below this are
	// rejected before the mid and full passes run.
	lowResRejectThreshold = -10
)

// scoreLine is the monochrome selection score: a cheap low-resolution
// MSE estimate gates the candidate, then the mid and full resolution
// terms are blended in.
func (s *ProgressState) scoreLine(a, b uint32, alpha float64) float64 {
	pixels := s.linePixels(a, b)
	if len(pixels) == 0 {
		return rejectScore
	}

	p := s.pyramid
	low := mirrorMSEScore(s, a, b, alpha, p.lowTarget, p.lowProgress, p.lowW, p.lowH)
	if low < lowResRejectThreshold {
		return rejectScore
	}
	mid := mirrorMSEScore(s, a, b, alpha, p.midTarget, p.midProgress, p.midW, p.midH)
	full := s.perceptualScore(a, b, pixels, alpha)

	return weightLowRes*low + weightMidRes*mid + weightFullRes*full
}

// mirrorMSEScore simulates the thread on a pyramid mirror and sums the
// MSE improvement, normalized by the scaled line length. It deliberately
// skips every other scoring term; the mirrors exist to answer "does this
// thread move large-scale structure the right way" as cheaply as
// possible.
func mirrorMSEScore(s *ProgressState, a, b uint32, alpha float64, target, progress []uint8, w, h int) float64 {
	pixels := s.scaledLinePixels(a, b, w, h)
	if len(pixels) == 0 {
		return 0
	}
	var improvement float64
	for _, i := range pixels {
		t := float64(target[i])
		cur := float64(progress[i])
		newVal := float64(compositeGrayForward(progress[i], alpha))
		improvement += (t-cur)*(t-cur) - (t-newVal)*(t-newVal)
	}
	return improvement / float64(len(pixels))
}
