package stringart

import "math"

// labColor is a CIE LAB triple under the D65 illuminant.
type labColor struct {
	L, A, B float64
}

// D65 reference white in XYZ.
const (
	refX = 0.95047
	refY = 1.00000
	refZ = 1.08883
)

// rgbToLAB converts an 8-bit RGB pixel to CIE LAB (D65). The conversion
// is pure; the LAB scorer memoizes target pixels once per job and calls
// this in its inner loop only for the current and simulated pixels.
func rgbToLAB(r, g, b uint8) labColor {
	rl := srgbToLinear(r)
	gl := srgbToLinear(g)
	bl := srgbToLinear(b)

	x := (0.4124564*rl + 0.3575761*gl + 0.1804375*bl) / refX
	y := (0.2126729*rl + 0.7151522*gl + 0.0721750*bl) / refY
	z := (0.0193339*rl + 0.1191920*gl + 0.9503041*bl) / refZ

	fx := labF(x)
	fy := labF(y)
	fz := labF(z)

	return labColor{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// deltaE76 is the CIE76 color difference: Euclidean distance in LAB.
func deltaE76(a, b labColor) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}
