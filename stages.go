package stringart

import (
	"context"
	"sync"
)

// stageSpec parameterizes one pass of the greedy loop. The coarse-to-fine
// policy is a flat sequence of passes over the same loop, not a recursive
// structure.
type stageSpec struct {
	label       string
	threads     int
	minSkip     int
	opacityMult float64
	alphaCeil   float64
	faceBoost   float64
}

// Stage shares and opacity multipliers for the three-stage path.
const (
	structureShare = 0.25
	midShare       = 0.35

	pyramidRefreshSlices  = 150
	snapshotSlices        = 100
	faceRefinementCap     = 2000
	faceRefinementShare   = 0.2
	faceRefinementBoost   = 1.5
	faceRefinementOpacity = 0.7
)

// progressFunc receives periodic snapshots from the driver. The callback
// runs on the driver goroutine; it must not block indefinitely.
type progressFunc func(snapshot ProgressSnapshot)

// stagePlan builds the stage sequence for the configured preset. The
// three-stage coarse-to-fine plan serves the high preset and LAB color
// mode; other presets run one uniform greedy pass.
func stagePlan(params GenerationParams) []stageSpec {
	n := params.MaxThreads
	base := params.MinPinSkip
	if params.threeStage() {
		structure := int(structureShare * float64(n))
		mid := int(midShare * float64(n))
		fine := n - structure - mid
		return []stageSpec{
			{label: "structure", threads: structure, minSkip: maxInt(base, params.PinCount/6), opacityMult: 1.3, alphaCeil: 0.5},
			{label: "mid detail", threads: mid, minSkip: maxInt(base, params.PinCount/15), opacityMult: 1.1, alphaCeil: 0.5},
			{label: "fine detail", threads: fine, minSkip: base, opacityMult: 0.8},
		}
	}
	return []stageSpec{
		{label: "greedy", threads: n, minSkip: base, opacityMult: 1},
	}
}

func (spec stageSpec) alpha(base float64) float64 {
	a := base * spec.opacityMult
	if spec.alphaCeil > 0 && a > spec.alphaCeil {
		a = spec.alphaCeil
	}
	return a
}

// runGeneration drives every stage plus the face refinement pass,
// emitting progress snapshots and honouring cancellation between
// threads. Returns ErrCancelled if the context is done before the run
// completes.
func (s *ProgressState) runGeneration(ctx context.Context, sink progressFunc) error {
	s.computeEdges()

	total := s.params.MaxThreads
	refreshEvery := maxInt(1, total/pyramidRefreshSlices)
	snapshotEvery := maxInt(1, total/snapshotSlices)

	placed := 0
	for _, spec := range stagePlan(s.params) {
		for t := 0; t < spec.threads; t++ {
			if err := ctx.Err(); err != nil {
				return ErrCancelled
			}
			s.placeThread(spec)
			placed++
			if placed%refreshEvery == 0 {
				s.pyramid.refresh(s)
			}
			if sink != nil && placed%snapshotEvery == 0 {
				sink(s.snapshot(placed, total, spec.label))
			}
		}
		s.pyramid.refresh(s)
	}

	if s.faceDetected {
		if err := s.faceRefinementPass(ctx, sink, placed); err != nil {
			return err
		}
	}
	return nil
}

// placeThread runs one greedy step: generate candidates, score them on
// the worker pool, composite the winner and record the connection. When
// nothing scorable exists the fallback is a uniformly random valid end
// pin; when not even that exists the thread is skipped so the driver can
// never deadlock.
func (s *ProgressState) placeThread(spec stageSpec) {
	edgeCount, randCount := s.params.candidatePool()
	candidates := s.candidatePins(s.CurrentPin, edgeCount, randCount, spec.minSkip)
	alpha := spec.alpha(s.params.ThreadOpacity)

	best, bestColor, bestScore := s.bestCandidate(candidates, alpha, spec.faceBoost, nil)
	if bestScore <= rejectScore {
		fallback, ok := s.randomValidPin(s.CurrentPin)
		if !ok {
			return
		}
		best, bestColor = fallback, 0
	}

	color := s.palette[bestColor]
	s.applyThread(s.linePixels(s.CurrentPin, best), color, alpha)
	s.record(ThreadConnection{
		FromPin:   s.CurrentPin,
		ToPin:     best,
		ColorHex:  color.Hex,
		ColorName: color.Name,
	})
}

// bestCandidate scores every candidate (or candidate/color pair in LAB
// mode) concurrently and reduces to the winner. Scoring is read-only
// against shared state; the only write happens after the reduction, so
// the fan-out is safe.
func (s *ProgressState) bestCandidate(candidates []uint32, alpha, faceBoost float64, filter func(uint32) bool) (uint32, int, float64) {
	type job struct {
		pin      uint32
		colorIdx int
	}
	var jobs []job
	for _, c := range candidates {
		if filter != nil && !filter(c) {
			continue
		}
		if s.params.ColorMode == ColorModeLAB {
			for ci := range s.palette {
				jobs = append(jobs, job{pin: c, colorIdx: ci})
			}
		} else {
			jobs = append(jobs, job{pin: c})
		}
	}
	if len(jobs) == 0 {
		return 0, 0, rejectScore
	}

	// Rasterize up front: the line cache is not safe for concurrent
	// writes, and every scorer needs the pixels anyway.
	for _, j := range jobs {
		s.linePixels(s.CurrentPin, j.pin)
	}

	scores := make([]float64, len(jobs))
	var wg sync.WaitGroup
	workers := s.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (len(jobs) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := minInt(lo+chunk, len(jobs))
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for k := lo; k < hi; k++ {
				j := jobs[k]
				if s.params.ColorMode == ColorModeLAB {
					scores[k] = s.labScore(s.CurrentPin, j.pin, s.palette[j.colorIdx], j.colorIdx, alpha)
				} else {
					scores[k] = s.scoreLine(s.CurrentPin, j.pin, alpha)
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	bestIdx := -1
	bestScore := rejectScore
	for k, score := range scores {
		if faceBoost > 0 {
			score *= faceBoost
		}
		if score > bestScore {
			bestScore = score
			bestIdx = k
		}
	}
	if bestIdx < 0 {
		return 0, 0, rejectScore
	}
	return jobs[bestIdx].pin, jobs[bestIdx].colorIdx, bestScore
}

// faceRefinementPass adds extra threads biased toward the face region:
// candidates whose midpoint lands in the face mask, scored with a face
// boost at reduced opacity.
func (s *ProgressState) faceRefinementPass(ctx context.Context, sink progressFunc, placed int) error {
	extra := minInt(faceRefinementCap, int(faceRefinementShare*float64(s.params.MaxThreads)))
	alpha := s.params.ThreadOpacity * faceRefinementOpacity
	edgeCount, randCount := s.params.candidatePool()

	inFace := func(to uint32) bool {
		pa, pb := s.Pins[s.CurrentPin], s.Pins[to]
		mx := (int(pa.X) + int(pb.X)) / 2
		my := (int(pa.Y) + int(pb.Y)) / 2
		return s.FaceMask[my*s.Width+mx]
	}

	total := s.params.MaxThreads
	snapshotEvery := maxInt(1, total/snapshotSlices)
	for t := 0; t < extra; t++ {
		if err := ctx.Err(); err != nil {
			return ErrCancelled
		}
		candidates := s.candidatePins(s.CurrentPin, edgeCount, randCount, s.params.MinPinSkip)
		best, bestColor, bestScore := s.bestCandidate(candidates, alpha, faceRefinementBoost, inFace)
		if bestScore <= rejectScore {
			// No face-biased candidate; fall back to the unfiltered pool.
			best, bestColor, bestScore = s.bestCandidate(candidates, alpha, faceRefinementBoost, nil)
		}
		if bestScore <= rejectScore {
			continue
		}
		color := s.palette[bestColor]
		s.applyThread(s.linePixels(s.CurrentPin, best), color, alpha)
		s.record(ThreadConnection{
			FromPin:   s.CurrentPin,
			ToPin:     best,
			ColorHex:  color.Hex,
			ColorName: color.Name,
		})
		placed++
		if sink != nil && placed%snapshotEvery == 0 {
			sink(s.snapshot(placed, total, "face refinement"))
		}
	}
	return nil
}
