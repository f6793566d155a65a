package gpu

import "errors"

var (
	// ErrNoBackend is returned when no GPU backend is registered.
	ErrNoBackend = errors.New("nuft/gpu: no backend registered")

	// ErrBackendUnavailable is returned when the backend is registered but not
	// available on the current system (no adapter, driver missing).
	ErrBackendUnavailable = errors.New("nuft/gpu: backend unavailable")

	// ErrNotImplemented is returned for unsupported element kinds or foreign
	// buffer types.
	ErrNotImplemented = errors.New("nuft/gpu: not implemented")

	// ErrInvalidLength is returned for negative or zero-sized allocations and
	// launch dimensions.
	ErrInvalidLength = errors.New("nuft/gpu: invalid length")

	// ErrLengthMismatch is returned when host and device lengths disagree.
	ErrLengthMismatch = errors.New("nuft/gpu: length mismatch")
)
