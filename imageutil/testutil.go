package imageutil

// Synthetic test patterns used by the engine's tests. Kept in the main
// package tree so cmd tooling can reuse them for smoke runs.

// CreateSolidGray creates a constant-value grayscale image.
func CreateSolidGray(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// CreateVerticalBar creates a white image with a black vertical bar
// spanning columns [x0, x1).
func CreateVerticalBar(width, height, x0, x1 int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := x0; x < x1 && x < width; x++ {
			img.Pix[y*width+x] = 0
		}
	}
	return img
}

// CreateDiagonalGradient creates a left-dark to right-light gradient.
func CreateDiagonalGradient(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*width+x] = uint8(255 * x / (width - 1))
		}
	}
	return img
}

// CreateQuadrants creates an RGB image with four solid quadrant colors,
// in reading order: top-left, top-right, bottom-left, bottom-right.
func CreateQuadrants(width, height int, tl, tr, bl, br RGB) *RGBImage {
	img := NewRGBImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := tl
			switch {
			case x >= width/2 && y < height/2:
				c = tr
			case x < width/2 && y >= height/2:
				c = bl
			case x >= width/2 && y >= height/2:
				c = br
			}
			img.Set(x, y, c)
		}
	}
	return img
}
