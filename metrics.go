package stringart

import (
	"gonum.org/v1/gonum/stat"
)

// AccuracyMetrics summarizes how well a canvas reproduces its target.
type AccuracyMetrics struct {
	MSE           float64 `json:"mse"`
	SSIM          float64 `json:"ssim"`
	SimilarityPct float64 `json:"accuracyScore"`
}

// maxMSE is the largest possible mean squared error for 8-bit pixels.
const maxMSE = 255 * 255

// computeMetrics measures a monochrome canvas against the target and
// derives the blended similarity percentage.
func computeMetrics(target, canvas []uint8) AccuracyMetrics {
	mse := grayMSE(target, canvas)
	ssim := graySSIM(target, canvas)
	similarity := 0.6*(1-mse/maxMSE)*100 + 0.4*ssim*100
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 100 {
		similarity = 100
	}
	return AccuracyMetrics{MSE: mse, SSIM: ssim, SimilarityPct: similarity}
}

// grayMSE is the mean squared error between two equally sized buffers.
func grayMSE(target, canvas []uint8) float64 {
	if len(target) == 0 {
		return 0
	}
	var sum float64
	for i := range target {
		d := float64(target[i]) - float64(canvas[i])
		sum += d * d
	}
	return sum / float64(len(target))
}

// graySSIM computes the global SSIM between two buffers using the
// standard C1/C2 stabilizers over the 8-bit intensity range.
func graySSIM(target, canvas []uint8) float64 {
	if len(target) == 0 {
		return 1
	}
	t := make([]float64, len(target))
	c := make([]float64, len(canvas))
	for i := range target {
		t[i] = float64(target[i])
		c[i] = float64(canvas[i])
	}

	meanT := stat.Mean(t, nil)
	meanC := stat.Mean(c, nil)
	varT := stat.Variance(t, nil)
	varC := stat.Variance(c, nil)
	covar := stat.Covariance(t, c, nil)

	return ((2*meanT*meanC + ssimC1) * (2*covar + ssimC2)) /
		((meanT*meanT + meanC*meanC + ssimC1) * (varT + varC + ssimC2))
}
