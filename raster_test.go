package stringart

import (
	"testing"

	"stringart/imageutil"
)

func TestRasterizeLineEndpoints(t *testing.T) {
	t.Parallel()
	pixels := rasterizeLine(2, 3, 17, 11, 1, 32, 32)
	if len(pixels) == 0 {
		t.Fatal("expected pixels for a non-degenerate line")
	}
	first := pixels[0]
	last := pixels[len(pixels)-1]
	if first != 3*32+2 {
		t.Errorf("line should start at (2, 3), first pixel index %d", first)
	}
	if last != 11*32+17 {
		t.Errorf("line should end at (17, 11), last pixel index %d", last)
	}
}

func TestRasterizeLineHorizontalLength(t *testing.T) {
	t.Parallel()
	pixels := rasterizeLine(0, 5, 20, 5, 1, 32, 32)
	if len(pixels) != 21 {
		t.Errorf("horizontal 0..20 line should cover 21 pixels, got %d", len(pixels))
	}
}

func TestRasterizeLineDegenerate(t *testing.T) {
	t.Parallel()
	pixels := rasterizeLine(7, 7, 7, 7, 1, 32, 32)
	if len(pixels) != 1 {
		t.Errorf("coincident endpoints should rasterize one pixel, got %d", len(pixels))
	}
}

func TestRasterizeLineThickness(t *testing.T) {
	t.Parallel()
	thin := rasterizeLine(0, 16, 31, 16, 1, 32, 32)
	thick := rasterizeLine(0, 16, 31, 16, 3, 32, 32)
	if len(thick) != 3*len(thin) {
		t.Errorf("width-3 horizontal line should triple coverage: thin %d, thick %d", len(thin), len(thick))
	}
}

func TestRasterizeLineStaysInBounds(t *testing.T) {
	t.Parallel()
	pixels := rasterizeLine(0, 0, 31, 31, 5, 32, 32)
	for _, i := range pixels {
		if i < 0 || i >= 32*32 {
			t.Fatalf("pixel index %d out of bounds", i)
		}
	}
}

func TestThreadWidthPixels(t *testing.T) {
	t.Parallel()
	cases := []struct {
		mm   float64
		want int
	}{
		{0.2, 1},
		{0.4, 1},
		{0.5, 1},
		{0.8, 2},
		{1.5, 3},
	}
	for _, tc := range cases {
		if got := threadWidthPixels(tc.mm); got != tc.want {
			t.Errorf("threadWidthPixels(%g) = %d, want %d", tc.mm, got, tc.want)
		}
	}
}

func TestLineCacheIsPureMemo(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.PinCount = 60
	params.MaxThreads = 100
	s := testState(t, params, imageutil.CreateSolidGray(128, 128, 128))

	cached := s.linePixels(3, 40)
	if len(s.lineCache) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(s.lineCache))
	}

	// Same pair reversed hits the same entry.
	s.linePixels(40, 3)
	if len(s.lineCache) != 1 {
		t.Errorf("reversed pair should share the cache entry, got %d entries", len(s.lineCache))
	}

	// Dropping the cache must not change output.
	s.dropLineCache()
	fresh := s.linePixels(3, 40)
	if len(fresh) != len(cached) {
		t.Fatalf("cache drop changed output length: %d vs %d", len(fresh), len(cached))
	}
	for i := range fresh {
		if fresh[i] != cached[i] {
			t.Fatalf("cache drop changed pixel %d: %d vs %d", i, fresh[i], cached[i])
		}
	}
}
