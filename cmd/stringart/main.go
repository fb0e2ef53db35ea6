// Command stringart converts an image into a pin-to-pin thread winding
// and writes the preview bitmap plus the full result record.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"

	"stringart"
)

func main() {
	var (
		input    = flag.String("input", "", "source image (png/jpeg/gif/tiff)")
		output   = flag.String("output", "stringart.bmp", "preview bitmap output path")
		jsonOut  = flag.String("json", "", "optional result JSON output path")
		pins     = flag.Int("pins", 400, "pin count on the frame perimeter")
		threads  = flag.Int("threads", 10000, "total threads to place")
		frame    = flag.String("frame", "circular", "frame type: circular, square, rectangular")
		preset   = flag.String("preset", "balanced", "quality preset: fast, balanced, high")
		color    = flag.Bool("color", false, "use the interleaved color palette")
		anneal   = flag.Bool("anneal", false, "run the simulated annealing post-pass")
		fatigue  = flag.Bool("fatigue", false, "enable pin fatigue scoring")
		opacity  = flag.Float64("opacity", 0.12, "per-thread opacity")
		width    = flag.Float64("width", 0.4, "thread width in mm")
		seed     = flag.Int64("seed", 0, "random seed (0 = fixed default)")
		cascade  = flag.String("cascade", "", "pigo facefinder cascade path")
		quiet    = flag.Bool("quiet", false, "suppress progress output")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	imageBytes, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("reading %s: %v", *input, err)
	}

	params := stringart.DefaultParams()
	params.PinCount = *pins
	params.MaxThreads = *threads
	params.FrameType = stringart.FrameType(*frame)
	params.QualityPreset = stringart.QualityPreset(*preset)
	params.ThreadOpacity = *opacity
	params.ThreadWidth = *width
	params.UseSimulatedAnnealing = *anneal
	params.UsePinFatigue = *fatigue
	params.Seed = *seed
	if *color {
		params.ColorMode = stringart.ColorModeLAB
	}

	engine := stringart.NewEngine(stringart.WithCascadeFile(*cascade))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	job, err := engine.Generate(ctx, imageBytes, params)
	if err != nil {
		log.Fatalf("starting generation: %v", err)
	}

	go func() {
		<-ctx.Done()
		job.Cancel()
	}()

	for snap := range job.Progress() {
		if *quiet {
			continue
		}
		line := fmt.Sprintf("[%s] thread %s / %s",
			snap.StageLabel,
			humanize.Comma(int64(snap.CurrentThread)),
			humanize.Comma(int64(snap.TotalThreads)))
		if snap.Accuracy != nil {
			line += fmt.Sprintf("  similarity %.1f%%", snap.Accuracy.SimilarityPct)
		}
		fmt.Println(line)
	}

	result, err := job.Result()
	if err != nil {
		log.Fatalf("generation failed: %v", err)
	}

	preview, err := base64.StdEncoding.DecodeString(result.Preview)
	if err != nil {
		log.Fatalf("decoding preview: %v", err)
	}
	if err := os.WriteFile(*output, preview, 0o644); err != nil {
		log.Fatalf("writing %s: %v", *output, err)
	}

	if *jsonOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encoding result: %v", err)
		}
		if err := os.WriteFile(*jsonOut, data, 0o644); err != nil {
			log.Fatalf("writing %s: %v", *jsonOut, err)
		}
	}

	fmt.Printf("placed %s threads in %s (similarity %.1f%%, ssim %.3f)\n",
		humanize.Comma(int64(result.TotalThreads)),
		time.Since(start).Round(time.Millisecond),
		result.AccuracyScore,
		result.SSIM)
	for _, tc := range result.ThreadColors {
		if tc.Count == 0 {
			continue
		}
		fmt.Printf("  %-8s %s threads (%.1f%%)\n", tc.Name, humanize.Comma(int64(tc.Count)), tc.Percentage)
	}
}
