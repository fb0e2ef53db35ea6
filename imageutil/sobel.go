package imageutil

import "math"

// SobelResult holds the per-pixel gradient information produced by Sobel.
// Magnitude is normalized to [0, 255] and then power-curved; an exponent
// below 1 lifts weaker edges toward the peak. TangentX/TangentY form a unit
// vector along the edge (perpendicular to the gradient); both are zero
// where the gradient vanishes.
type SobelResult struct {
	Width     int
	Height    int
	Magnitude []uint8
	TangentX  []float64
	TangentY  []float64
}

// sobelKernelX and sobelKernelY are the standard 3x3 Sobel operators.
var (
	sobelKernelX = NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
	sobelKernelY = NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
)

// Sobel computes gradient magnitude and edge tangent vectors for a
// grayscale image using 3x3 Sobel operators with a zero border. The
// magnitude map is normalized to the full [0, 255] range and then raised
// to the given power curve exponent (values below 1 raise every nonzero
// response, weak ones most, while the peak stays at 255).
func Sobel(img *GrayImage, powerCurve float64) *SobelResult {
	width, height := img.Width, img.Height
	gx := ConvolveGrayFloat(img, sobelKernelX, BorderZero)
	gy := ConvolveGrayFloat(img, sobelKernelY, BorderZero)

	res := &SobelResult{
		Width:     width,
		Height:    height,
		Magnitude: make([]uint8, width*height),
		TangentX:  make([]float64, width*height),
		TangentY:  make([]float64, width*height),
	}

	// The one-pixel output border stays zero: the kernel never fits there
	// and phantom frame edges would pollute candidate scoring.
	mag := make([]float64, width*height)
	maxMag := 0.0
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			m := math.Hypot(gx[i], gy[i])
			mag[i] = m
			if m > maxMag {
				maxMag = m
			}
			if m > 1e-9 {
				// Edge tangent is the gradient rotated a quarter turn.
				res.TangentX[i] = -gy[i] / m
				res.TangentY[i] = gx[i] / m
			}
		}
	}

	if maxMag < 1e-9 {
		return res
	}
	for i := range mag {
		norm := mag[i] / maxMag
		res.Magnitude[i] = clampUint8(255 * math.Pow(norm, powerCurve))
	}
	return res
}
