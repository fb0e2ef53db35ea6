package stringart

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultParamsAreValid(t *testing.T) {
	t.Parallel()
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params should validate, got %v", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*GenerationParams)
		field  string
	}{
		{"pin count too low", func(p *GenerationParams) { p.PinCount = 2 }, "pinCount"},
		{"pin count too high", func(p *GenerationParams) { p.PinCount = 801 }, "pinCount"},
		{"frame size zero", func(p *GenerationParams) { p.FrameSize = 0 }, "frameSize"},
		{"thread width", func(p *GenerationParams) { p.ThreadWidth = 2.0 }, "threadWidth"},
		{"opacity too low", func(p *GenerationParams) { p.ThreadOpacity = 0.01 }, "threadOpacity"},
		{"opacity too high", func(p *GenerationParams) { p.ThreadOpacity = 0.5 }, "threadOpacity"},
		{"max threads", func(p *GenerationParams) { p.MaxThreads = 0 }, "maxThreads"},
		{"min pin skip", func(p *GenerationParams) { p.MinPinSkip = 0 }, "minPinSkip"},
		{"frame type", func(p *GenerationParams) { p.FrameType = "hexagonal" }, "frameType"},
		{"color mode", func(p *GenerationParams) { p.ColorMode = "sepia" }, "colorMode"},
		{"quality preset", func(p *GenerationParams) { p.QualityPreset = "ultra" }, "qualityPreset"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := DefaultParams()
			tc.mutate(&params)
			err := params.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q should name field %q", err, tc.field)
			}
		})
	}
}

func TestTargetSizeCapped(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	params.FrameSize = 1000
	if got := params.targetSize(); got != 512 {
		t.Errorf("expected target size capped at 512, got %d", got)
	}
	params.FrameSize = 256
	if got := params.targetSize(); got != 256 {
		t.Errorf("expected target size 256, got %d", got)
	}
}

func TestStageSelectionByPreset(t *testing.T) {
	t.Parallel()
	params := DefaultParams()
	if params.threeStage() {
		t.Error("balanced monochrome should use the single-pass driver")
	}
	params.QualityPreset = PresetHigh
	if !params.threeStage() {
		t.Error("high preset should use the three-stage driver")
	}
	params = DefaultParams()
	params.ColorMode = ColorModeLAB
	if !params.threeStage() {
		t.Error("LAB color mode should use the three-stage driver")
	}
}

func TestBackgroundMinSkipByPreset(t *testing.T) {
	t.Parallel()
	for preset, want := range map[QualityPreset]int{
		PresetFast:     8,
		PresetBalanced: 7,
		PresetHigh:     6,
	} {
		params := DefaultParams()
		params.QualityPreset = preset
		if got := params.backgroundMinSkip(); got != want {
			t.Errorf("%s: expected background min skip %d, got %d", preset, want, got)
		}
	}
}
