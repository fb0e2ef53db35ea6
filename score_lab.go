package stringart

import "math"

// LAB score combination weights.
const (
	weightDeltaE         = 0.65
	weightLABEdge        = 0.20
	weightLABOverdraw    = 0.10
	weightColorImbalance = 0.05
	labUsageDecay        = 0.997
)

// labScore evaluates placing one palette thread between two pins on the
// shared RGB canvas. Improvement is measured as the per-pixel reduction
// in CIE76 distance to the memoized target LAB values.
func (s *ProgressState) labScore(a, b uint32, color ThreadColor, colorIdx int, alpha float64) float64 {
	pixels := s.linePixels(a, b)
	n := len(pixels)
	if n == 0 {
		return rejectScore
	}

	var deltaEImprovement float64
	var edgeBonus float64
	var overdrawPenalty float64

	for _, i := range pixels {
		r := s.ProgressRGB.Pix[i*3]
		g := s.ProgressRGB.Pix[i*3+1]
		bl := s.ProgressRGB.Pix[i*3+2]
		nr, ng, nb := compositeRGBForward(r, g, bl, color, alpha)

		target := s.targetLAB[i]
		deltaEImprovement += deltaE76(target, rgbToLAB(r, g, bl)) - deltaE76(target, rgbToLAB(nr, ng, nb))

		edgeBonus += float64(s.EdgeMap[i]) / 255
		overdrawPenalty += float64(s.Overdraw[i]) * 0.1
		if float64(s.Density[i]) > s.overdrawLimit(i) {
			overdrawPenalty++
		}
	}

	edgeBonus += s.edgeAlignment(a, b) * alignmentWeight

	fn := float64(n)
	score := weightDeltaE*deltaEImprovement/fn +
		weightLABEdge*edgeBonus/fn -
		weightLABOverdraw*overdrawPenalty/fn -
		weightColorImbalance*s.colorImbalance(colorIdx)

	score *= math.Pow(labUsageDecay, float64(s.PinUsage[b]))
	return s.applyFacePriority(score, pixels, edgeBonus/fn)
}

// colorImbalance measures how far one palette color runs ahead of an
// even split of the threads placed so far.
func (s *ProgressState) colorImbalance(colorIdx int) float64 {
	total := len(s.Connections)
	if total == 0 {
		return 0
	}
	expected := float64(total) / float64(len(s.palette))
	if expected <= 0 {
		return 0
	}
	excess := (float64(s.colorUsage[colorIdx]) - expected) / expected
	if excess < 0 {
		return 0
	}
	return excess
}
