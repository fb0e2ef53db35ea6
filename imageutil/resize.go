package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom, the highest quality choice for
	// downscaling photographic sources.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	InterpolationNearest
)

func scalerFor(interp Interpolation) draw.Scaler {
	switch interp {
	case InterpolationArea:
		return draw.CatmullRom
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGBImage to the specified dimensions.
func Resize(img *RGBImage, width, height int, interp Interpolation) *RGBImage {
	src := img.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scalerFor(interp).Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return RGBImageFromImage(dst)
}

// ResizeGray resizes a GrayImage to the specified dimensions.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	src := img.ToImage()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	scalerFor(interp).Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	out := &GrayImage{Width: width, Height: height, Pix: make([]uint8, width*height)}
	copy(out.Pix, dst.Pix)
	return out
}
