package stringart

import (
	"fmt"

	"stringart/imageutil"
)

// ThreadColor is one palette entry. Linear holds the gamma-decoded
// channels so the compositor never re-decodes them per pixel.
type ThreadColor struct {
	Hex    string
	Name   string
	RGB    imageutil.RGB
	Linear [3]float64
}

// The interleaved-color palette: black plus CMY-leaning accents. The hex
// values are part of the external contract and must not drift.
var (
	threadBlack   = newThreadColor("#000000", "black")
	threadCyan    = newThreadColor("#00BCD4", "cyan")
	threadMagenta = newThreadColor("#E91E63", "magenta")
	threadYellow  = newThreadColor("#FFEB3B", "yellow")

	monochromePalette = []ThreadColor{threadBlack}
	labPalette        = []ThreadColor{threadBlack, threadCyan, threadMagenta, threadYellow}
)

// paletteFor returns the palette for a color mode.
func paletteFor(mode ColorMode) []ThreadColor {
	if mode == ColorModeLAB {
		return labPalette
	}
	return monochromePalette
}

// paletteIndex returns the palette slot for a stored hex color, falling
// back to black for colors outside the palette.
func paletteIndex(palette []ThreadColor, hex string) int {
	for i, c := range palette {
		if c.Hex == hex {
			return i
		}
	}
	return 0
}

func newThreadColor(hex, name string) ThreadColor {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02X%02X%02X", &r, &g, &b); err != nil {
		panic(fmt.Sprintf("bad palette hex %q: %v", hex, err))
	}
	return ThreadColor{
		Hex:  hex,
		Name: name,
		RGB:  imageutil.RGB{R: r, G: g, B: b},
		Linear: [3]float64{
			srgbToLinear(r),
			srgbToLinear(g),
			srgbToLinear(b),
		},
	}
}
