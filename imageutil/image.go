// Package imageutil provides pure Go raster utilities for the string-art
// engine: flat-buffer image types, resizing, convolution, Sobel gradients,
// and the source-image preparation pipeline.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with the standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// GrayImage is a single-channel image with a flat pixel buffer. The buffer
// layout is row-major with no padding, so index y*Width+x addresses (x, y).
// Value 255 is white, 0 is black.
type GrayImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGrayImage creates a white GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	pix := make([]uint8, width*height)
	for i := range pix {
		pix[i] = 255
	}
	return &GrayImage{Width: width, Height: height, Pix: pix}
}

// NewBlackGrayImage creates a zero-filled GrayImage.
func NewBlackGrayImage(width, height int) *GrayImage {
	return &GrayImage{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// GrayImageFromImage converts any image.Image to a GrayImage using the
// standard luminance weights.
func GrayImageFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray.Pix[(y-bounds.Min.Y)*gray.Width+(x-bounds.Min.X)] = clampUint8(lum)
		}
	}
	return gray
}

// At returns the value at (x, y).
func (img *GrayImage) At(x, y int) uint8 {
	return img.Pix[y*img.Width+x]
}

// Set sets the value at (x, y).
func (img *GrayImage) Set(x, y int, v uint8) {
	img.Pix[y*img.Width+x] = v
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	clone := &GrayImage{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	copy(clone.Pix, img.Pix)
	return clone
}

// ToImage converts the GrayImage to a standard image.Gray.
func (img *GrayImage) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pix)
	return out
}

// RGBImage is a three-channel image with a flat interleaved pixel buffer.
// Pixel (x, y) occupies bytes [3*(y*Width+x), 3*(y*Width+x)+3).
type RGBImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGBImage creates a white RGBImage with the specified dimensions.
func NewRGBImage(width, height int) *RGBImage {
	pix := make([]uint8, width*height*3)
	for i := range pix {
		pix[i] = 255
	}
	return &RGBImage{Width: width, Height: height, Pix: pix}
}

// RGBImageFromImage converts any image.Image to an RGBImage.
func RGBImageFromImage(img image.Image) *RGBImage {
	bounds := img.Bounds()
	rgb := NewRGBImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			i := ((y-bounds.Min.Y)*rgb.Width + (x - bounds.Min.X)) * 3
			rgb.Pix[i] = uint8(r >> 8)
			rgb.Pix[i+1] = uint8(g >> 8)
			rgb.Pix[i+2] = uint8(b >> 8)
		}
	}
	return rgb
}

// At returns the RGB value at (x, y).
func (img *RGBImage) At(x, y int) RGB {
	i := (y*img.Width + x) * 3
	return RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// AtIndex returns the RGB value at flat pixel index i.
func (img *RGBImage) AtIndex(i int) RGB {
	return RGB{R: img.Pix[i*3], G: img.Pix[i*3+1], B: img.Pix[i*3+2]}
}

// Set sets the RGB value at (x, y).
func (img *RGBImage) Set(x, y int, c RGB) {
	i := (y*img.Width + x) * 3
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
}

// SetIndex sets the RGB value at flat pixel index i.
func (img *RGBImage) SetIndex(i int, c RGB) {
	img.Pix[i*3] = c.R
	img.Pix[i*3+1] = c.G
	img.Pix[i*3+2] = c.B
}

// Clone creates a deep copy of the image.
func (img *RGBImage) Clone() *RGBImage {
	clone := &RGBImage{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	copy(clone.Pix, img.Pix)
	return clone
}

// ToImage converts the RGBImage to a standard image.RGBA.
func (img *RGBImage) ToImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		out.Pix[i*4] = img.Pix[i*3]
		out.Pix[i*4+1] = img.Pix[i*3+1]
		out.Pix[i*4+2] = img.Pix[i*3+2]
		out.Pix[i*4+3] = 255
	}
	return out
}
