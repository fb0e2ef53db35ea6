package stringart

import "math"

// lineKey identifies a cached rasterization. Endpoints are stored
// min-first so (a, b) and (b, a) share an entry.
type lineKey struct {
	lo, hi uint32
	width  int
}

// lineCache memoizes Bresenham pixel runs per job. It is purely a memo:
// discarding it at a checkpoint changes cost, never output.
type lineCache map[lineKey][]int

// threadWidthPixels converts a physical thread width in millimetres to
// the rasterized line thickness in pixels.
func threadWidthPixels(mm float64) int {
	px := int(math.Round(2 * mm))
	if px < 1 {
		return 1
	}
	return px
}

// linePixels returns the pixel indices covered by the thread between two
// pins, consulting the cache first. The slice is shared with the cache
// and must not be mutated.
func (s *ProgressState) linePixels(a, b uint32) []int {
	key := lineKey{lo: a, hi: b, width: s.threadWidth}
	if a > b {
		key.lo, key.hi = b, a
	}
	if pixels, ok := s.lineCache[key]; ok {
		return pixels
	}
	pa, pb := s.Pins[a], s.Pins[b]
	pixels := rasterizeLine(int(pa.X), int(pa.Y), int(pb.X), int(pb.Y), s.threadWidth, s.Width, s.Height)
	s.lineCache[key] = pixels
	return pixels
}

// rasterizeLine walks the Bresenham line from (x0, y0) to (x1, y1) and
// optionally thickens it perpendicular to the line direction. Each core
// Bresenham pixel is emitted before its own perpendicular offsets, so
// every core pixel is included; thickness adds offsets up to
// floor((w-1)/2) on each side. Out-of-bounds pixels are
// dropped and duplicates removed while preserving traversal order.
func rasterizeLine(x0, y0, x1, y1, width, imgW, imgH int) []int {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	// Perpendicular step for thickening.
	var px, py float64
	if width > 1 {
		length := math.Hypot(float64(x1-x0), float64(y1-y0))
		if length > 0 {
			px = -float64(y1-y0) / length
			py = float64(x1-x0) / length
		}
	}
	halfWidth := (width - 1) / 2

	var pixels []int
	seen := make(map[int]struct{})
	emit := func(x, y int) {
		if x < 0 || x >= imgW || y < 0 || y >= imgH {
			return
		}
		i := y*imgW + x
		if _, dup := seen[i]; dup {
			return
		}
		seen[i] = struct{}{}
		pixels = append(pixels, i)
	}

	x, y := x0, y0
	for {
		emit(x, y)
		for o := 1; o <= halfWidth; o++ {
			emit(x+int(math.Round(px*float64(o))), y+int(math.Round(py*float64(o))))
			emit(x-int(math.Round(px*float64(o))), y-int(math.Round(py*float64(o))))
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return pixels
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
