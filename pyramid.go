package stringart

// pyramid holds the 1/4 and 1/2 scale mirrors of the target image and the
// progress canvas. Downsampling is a box filter performed in linear light;
// averaging gamma-encoded bytes would yield darker-than-truth mirrors and
// mislead structure scoring. Target mirrors are computed once, progress
// mirrors are refreshed at checkpoints and at stage ends.
type pyramid struct {
	lowW, lowH int
	midW, midH int

	lowTarget   []uint8
	midTarget   []uint8
	lowProgress []uint8
	midProgress []uint8
}

func newPyramid(s *ProgressState) *pyramid {
	p := &pyramid{
		lowW: maxInt(1, s.Width/4),
		lowH: maxInt(1, s.Height/4),
		midW: maxInt(1, s.Width/2),
		midH: maxInt(1, s.Height/2),
	}
	p.lowTarget = boxDownsample(s.TargetGray.Pix, s.Width, s.Height, p.lowW, p.lowH)
	p.midTarget = boxDownsample(s.TargetGray.Pix, s.Width, s.Height, p.midW, p.midH)
	p.refresh(s)
	return p
}

// refresh recomputes the progress mirrors from the full-resolution canvas.
func (p *pyramid) refresh(s *ProgressState) {
	p.lowProgress = boxDownsample(s.ProgressGray, s.Width, s.Height, p.lowW, p.lowH)
	p.midProgress = boxDownsample(s.ProgressGray, s.Width, s.Height, p.midW, p.midH)
}

// boxDownsample averages source pixels per destination cell in linear
// light and re-encodes the mean.
func boxDownsample(src []uint8, srcW, srcH, dstW, dstH int) []uint8 {
	dst := make([]uint8, dstW*dstH)
	for dy := 0; dy < dstH; dy++ {
		y0 := dy * srcH / dstH
		y1 := (dy + 1) * srcH / dstH
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for dx := 0; dx < dstW; dx++ {
			x0 := dx * srcW / dstW
			x1 := (dx + 1) * srcW / dstW
			if x1 <= x0 {
				x1 = x0 + 1
			}
			var sum float64
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += srgbToLinear(src[y*srcW+x])
				}
			}
			mean := sum / float64((y1-y0)*(x1-x0))
			dst[dy*dstW+dx] = linearToSRGB(mean)
		}
	}
	return dst
}

// scaledLinePixels rasterizes the pin pair at a reduced scale. Used by
// the cheap low/mid resolution score estimates; not cached since the
// lines are short.
func (s *ProgressState) scaledLinePixels(a, b uint32, dstW, dstH int) []int {
	pa, pb := s.Pins[a], s.Pins[b]
	x0 := int(pa.X) * dstW / s.Width
	y0 := int(pa.Y) * dstH / s.Height
	x1 := int(pb.X) * dstW / s.Width
	y1 := int(pb.Y) * dstH / s.Height
	return rasterizeLine(x0, y0, x1, y1, 1, dstW, dstH)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
