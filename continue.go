package stringart

import (
	"context"
	"fmt"

	"stringart/imageutil"
)

// Continue extends a previous result with additional threads. The
// original target image is not persisted inside a Result, so the caller
// must resupply the same source bytes; substituting the current canvas
// for the target would make the continuation meaningless, and this
// implementation refuses to do it silently.
func (e *Engine) Continue(ctx context.Context, prev *Result, imageBytes []byte, additionalThreads int) (*Job, error) {
	if prev == nil || len(prev.Connections) == 0 {
		return nil, ErrNoConnections
	}
	if len(imageBytes) == 0 {
		return nil, ErrTargetRequired
	}
	if additionalThreads < 1 {
		return nil, fmt.Errorf("%w: additionalThreads %d", ErrInvalidParams, additionalThreads)
	}
	if err := prev.Params.Validate(); err != nil {
		return nil, err
	}

	job := newJob(ctx)
	go func() {
		defer close(job.done)
		defer close(job.progress)
		job.result, job.err = e.runContinue(job, prev, imageBytes, additionalThreads)
	}()
	return job, nil
}

func (e *Engine) runContinue(job *Job, prev *Result, imageBytes []byte, additionalThreads int) (*Result, error) {
	params := prev.Params
	size := params.targetSize()
	gray, rgb, fallback := imageutil.Prepare(imageBytes, params.ImageCrop, size)
	if fallback {
		e.logger.Printf("source image undecodable, using fallback gradient")
	}

	// Reuse the stored pins verbatim: the replayed connections reference
	// them by index and the coordinates must match exactly.
	s := newProgressState(params, prev.Pins, gray, rgb)
	s.workers = e.workers

	faceBox := detectFace(gray.Pix, size, size, e.cascadePath)
	s.faceDetected = faceBox != nil
	if faceBox == nil {
		box := fallbackFaceBox(size, size)
		faceBox = &box
	}
	s.buildRegionMasks(faceBox)
	s.computeEdges()

	// Replay the existing winding onto the fresh canvas at the uniform
	// thread opacity.
	alpha := params.ThreadOpacity
	for _, c := range prev.Connections {
		color := s.palette[paletteIndex(s.palette, c.ColorHex)]
		s.applyThread(s.linePixels(c.FromPin, c.ToPin), color, alpha)
		s.record(c)
	}
	s.pyramid.refresh(s)

	// A single greedy pass extends the winding; scoring and policies are
	// unchanged from fresh generation.
	spec := stageSpec{label: "continue", threads: additionalThreads, minSkip: params.MinPinSkip, opacityMult: 1}
	total := len(prev.Connections) + additionalThreads
	refreshEvery := maxInt(1, additionalThreads/pyramidRefreshSlices)
	snapshotEvery := maxInt(1, additionalThreads/snapshotSlices)

	for t := 0; t < additionalThreads; t++ {
		if err := job.ctx.Err(); err != nil {
			return nil, ErrCancelled
		}
		s.placeThread(spec)
		if (t+1)%refreshEvery == 0 {
			s.pyramid.refresh(s)
		}
		if (t+1)%snapshotEvery == 0 {
			job.emit(s.snapshot(len(s.Connections), total, spec.label))
		}
	}

	return s.assembleResult()
}
