package core

import "errors"

// Sentinel errors shared by the kernel, the normalizer and the executors.
// Context is attached with fmt.Errorf("...: %w", err); match with errors.Is.
var (
	// ErrEmptyFrequencyGrid is returned when a series is paired with a
	// frequency grid of length zero.
	ErrEmptyFrequencyGrid = errors.New("nuft: empty frequency grid")

	// ErrShapeMismatch is returned when values, times and weights disagree in
	// their leading dimension or row lengths, or when an input shape is not
	// supported for its role.
	ErrShapeMismatch = errors.New("nuft: shape mismatch")

	// ErrFrequencyGridWiderThanTimeGrid is a warning, never returned as an
	// error. It is recorded when a rectangular frequency grid has more columns
	// than the rectangular time grid and the sample arenas were zero-padded.
	ErrFrequencyGridWiderThanTimeGrid = errors.New("nuft: frequency grid wider than time grid")
)
