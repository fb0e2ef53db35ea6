package stringart

import "math"

// SSIM stabilization constants for an 8-bit intensity range.
const (
	ssimC1 = 6.5025
	ssimC2 = 58.5225
)

// Perceptual score combination weights.
const (
	weightSSIM      = 0.40
	weightMSE       = 0.25
	weightEdge      = 0.20
	weightSmooth    = 0.10
	weightOverdraw  = 0.05
	ssimScoreScale  = 1000
	alignmentWeight = 5.0
)

// rejectScore marks a candidate that must never be selected: degenerate
// geometry or a failed low-resolution pre-check.
const rejectScore = -1e18

// perceptualScore evaluates placing a black thread of the given opacity
// between two pins on the monochrome canvas. The score blends local SSIM
// and MSE improvement with an edge bonus, a smoothness penalty and an
// overdraw penalty, each normalized by the pixel count, then applies the
// length, fatigue and face modifiers.
func (s *ProgressState) perceptualScore(a, b uint32, pixels []int, alpha float64) float64 {
	n := len(pixels)
	if n == 0 {
		return rejectScore
	}

	newVals := make([]float64, n)
	var mseImprovement float64
	var edgeBonus float64
	var overdrawPenalty float64

	for k, i := range pixels {
		target := float64(s.TargetGray.Pix[i])
		current := float64(s.ProgressGray[i])
		newVal := float64(compositeGrayForward(s.ProgressGray[i], alpha))
		newVals[k] = newVal

		mseImprovement += (target-current)*(target-current) - (target-newVal)*(target-newVal)
		edgeBonus += float64(s.EdgeMap[i]) / 255

		darkness := (255 - current) / 255
		if darkness > 0.5 {
			overdrawPenalty += (darkness - 0.5) * 2
		}
		overdrawPenalty += float64(s.Overdraw[i]) * 0.1
		if float64(s.Density[i]) > s.overdrawLimit(i) {
			overdrawPenalty++
		}
	}

	ssimBefore := s.lineSSIM(pixels, nil)
	ssimAfter := s.lineSSIM(pixels, newVals)
	ssimImprovement := (ssimAfter - ssimBefore) * ssimScoreScale

	var smoothness float64
	for k := 1; k < n; k++ {
		smoothness += math.Abs(newVals[k]-newVals[k-1]) / 255
	}

	edgeBonus += s.edgeAlignment(a, b) * alignmentWeight

	fn := float64(n)
	score := weightSSIM*ssimImprovement/fn +
		weightMSE*mseImprovement/fn +
		weightEdge*edgeBonus/fn -
		weightSmooth*smoothness/fn -
		weightOverdraw*overdrawPenalty/fn

	score *= s.lengthPreference(n)
	score *= s.fatigueMultiplier(a, b)
	return s.applyFacePriority(score, pixels, edgeBonus/fn)
}

// lineSSIM computes SSIM between the target and either the current canvas
// (vals == nil) or a simulated pixel run, restricted to the line's pixel
// set.
func (s *ProgressState) lineSSIM(pixels []int, vals []float64) float64 {
	n := float64(len(pixels))
	var meanT, meanV float64
	for k, i := range pixels {
		meanT += float64(s.TargetGray.Pix[i])
		if vals == nil {
			meanV += float64(s.ProgressGray[i])
		} else {
			meanV += vals[k]
		}
	}
	meanT /= n
	meanV /= n

	var varT, varV, covar float64
	for k, i := range pixels {
		dt := float64(s.TargetGray.Pix[i]) - meanT
		var dv float64
		if vals == nil {
			dv = float64(s.ProgressGray[i]) - meanV
		} else {
			dv = vals[k] - meanV
		}
		varT += dt * dt
		varV += dv * dv
		covar += dt * dv
	}
	varT /= n
	varV /= n
	covar /= n

	return ((2*meanT*meanV + ssimC1) * (2*covar + ssimC2)) /
		((meanT*meanT + meanV*meanV + ssimC1) * (varT + varV + ssimC2))
}

// lengthPreference nudges selection toward mid-length threads: short
// stitches and frame-spanning chords both render poorly.
func (s *ProgressState) lengthPreference(n int) float64 {
	minDim := s.Width
	if s.Height < minDim {
		minDim = s.Height
	}
	l := float64(n) / (0.3 * float64(minDim))
	switch {
	case l >= 0.2 && l < 1.2:
		return 1.15
	case l >= 1.5:
		return 0.85
	default:
		return 1
	}
}

// fatigueMultiplier discourages reusing worn pin pairs when pin fatigue
// is enabled.
func (s *ProgressState) fatigueMultiplier(a, b uint32) float64 {
	if !s.params.UsePinFatigue {
		return 1
	}
	usage := int(s.PinUsage[a]) + int(s.PinUsage[b])
	if usage <= 50 {
		return 1
	}
	return 1 / math.Pow(1.005, float64(usage-50))
}

// applyFacePriority raises face-relevant lines and suppresses lines into
// already-saturated face regions.
func (s *ProgressState) applyFacePriority(score float64, pixels []int, edgePerPixel float64) float64 {
	overlap := s.lineFaceOverlap(pixels)
	if overlap < faceBonusOverlap {
		return score
	}
	score += edgePerPixel * overlap * 2.0

	var faceDensity float64
	facePixels := 0
	for _, i := range pixels {
		if s.FaceMask[i] {
			faceDensity += float64(s.Density[i])
			facePixels++
		}
	}
	if facePixels > 0 && faceDensity/float64(facePixels) > 0.85 {
		score *= 0.3
	}
	return score
}
