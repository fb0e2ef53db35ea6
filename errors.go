package stringart

import "errors"

var (
	// ErrInvalidParams reports a GenerationParams field outside its
	// documented range. The wrapping error names the field.
	ErrInvalidParams = errors.New("invalid generation params")

	// ErrCancelled is resolved by a job's result future after the caller
	// cancels it. It is a terminal state, not a failure.
	ErrCancelled = errors.New("generation cancelled")

	// ErrTargetRequired is returned by Continue when the caller does not
	// resupply the source image. The original target is not persisted in a
	// Result and the current canvas is not an acceptable surrogate.
	ErrTargetRequired = errors.New("continue requires the original source image")

	// ErrNoConnections is returned by Continue when the previous result
	// holds no connections to extend.
	ErrNoConnections = errors.New("previous result has no connections")
)
