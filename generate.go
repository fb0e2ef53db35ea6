package stringart

import (
	"context"
	"image"
	"log"
	"runtime"

	"github.com/google/uuid"

	"stringart/imageutil"
)

// Engine runs generation jobs. One Engine may serve many concurrent
// jobs; each job owns its ProgressState exclusively, so the Engine
// itself carries only configuration.
type Engine struct {
	workers     int
	cascadePath string
	logger      *log.Logger
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// NewEngine creates an Engine. Defaults: one scoring worker per CPU, the
// cascade path from the STRINGART_CASCADE environment variable, and the
// standard logger.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		workers: runtime.NumCPU(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithWorkers sets the candidate-scoring worker count.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCascadeFile sets the pigo facefinder cascade path, overriding the
// STRINGART_CASCADE environment variable.
func WithCascadeFile(path string) EngineOption {
	return func(e *Engine) {
		e.cascadePath = path
	}
}

// WithLogger sets the warning logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Job is the handle for one running generation. Progress snapshots are
// delivered on a buffered channel; slow consumers miss intermediate
// snapshots rather than stalling the driver.
type Job struct {
	id       string
	ctx      context.Context
	progress chan ProgressSnapshot
	cancel   context.CancelFunc
	done     chan struct{}

	result *Result
	err    error
}

// ID returns the job's opaque identifier.
func (j *Job) ID() string { return j.id }

// Progress returns the snapshot stream. The channel is closed when the
// job finishes.
func (j *Job) Progress() <-chan ProgressSnapshot { return j.progress }

// Cancel requests termination. The result future then resolves
// ErrCancelled; partial connections are discarded.
func (j *Job) Cancel() { j.cancel() }

// Result blocks until the job finishes and returns the final record or
// the terminal error.
func (j *Job) Result() (*Result, error) {
	<-j.done
	return j.result, j.err
}

// Generate starts a job converting the source image into a thread
// winding under the given parameters. Fatal conditions (invalid params,
// cancellation) resolve the result future with an error; recoverable
// ones (undecodable image, missing face detector) are logged and worked
// around.
func (e *Engine) Generate(ctx context.Context, imageBytes []byte, params GenerationParams) (*Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	job := newJob(ctx)
	go func() {
		defer close(job.done)
		defer close(job.progress)
		job.result, job.err = e.run(job, imageBytes, params)
	}()
	return job, nil
}

func newJob(ctx context.Context) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		id:       uuid.NewString(),
		progress: make(chan ProgressSnapshot, 16),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	j.ctx = ctx
	return j
}

// emit delivers a snapshot without blocking the driver.
func (j *Job) emit(snap ProgressSnapshot) {
	select {
	case j.progress <- snap:
	default:
	}
}

func (e *Engine) run(job *Job, imageBytes []byte, params GenerationParams) (*Result, error) {
	s, fallback, err := e.prepareState(imageBytes, params)
	if err != nil {
		return nil, err
	}
	if fallback {
		job.emit(ProgressSnapshot{
			CurrentThread: 0,
			TotalThreads:  params.MaxThreads,
			StageLabel:    "warning: source image undecodable, using fallback gradient",
		})
	}

	if err := s.runGeneration(job.ctx, job.emit); err != nil {
		return nil, err
	}

	if replaced := s.refineConnections(); replaced > 0 {
		e.logger.Printf("local refinement replaced %d threads", replaced)
	}
	if params.UseSimulatedAnnealing {
		s.simulatedAnnealing()
		s.backtrack()
	}
	if params.QualityPreset == PresetHigh && params.ColorMode == ColorModeMonochrome {
		s.geneticRefinement()
	}
	if err := job.ctx.Err(); err != nil {
		return nil, ErrCancelled
	}

	return s.assembleResult()
}

// prepareState runs preprocessing, face detection, pin placement and
// state allocation: everything static that the optimization loop reads.
func (e *Engine) prepareState(imageBytes []byte, params GenerationParams) (*ProgressState, bool, error) {
	size := params.targetSize()
	gray, rgb, fallback := imageutil.Prepare(imageBytes, params.ImageCrop, size)
	if fallback {
		e.logger.Printf("source image undecodable, using fallback gradient")
	}

	faceBox := detectFace(gray.Pix, size, size, e.cascadePath)
	detected := faceBox != nil
	if !detected {
		box := fallbackFaceBox(size, size)
		faceBox = &box
	}

	var pinFaceBias *image.Rectangle
	if detected && params.FrameType == FrameCircular {
		pinFaceBias = faceBox
	}
	pins := PlacePins(params.FrameType, params.PinCount, size, pinFaceBias)

	s := newProgressState(params, pins, gray, rgb)
	s.workers = e.workers
	s.faceDetected = detected
	s.buildRegionMasks(faceBox)
	return s, fallback, nil
}
