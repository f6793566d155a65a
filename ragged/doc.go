// Package ragged normalizes batches of variable-length series into
// rectangular arenas.
//
// An [Arena] is one flat row-major buffer with a fixed stride plus an explicit
// valid length per row. Positions past a row's length are zero padding. The
// explicit lengths replace any in-band end-of-series marker, so a genuine
// sample time of exactly 0 is never mistaken for padding.
//
// [Normalize] accepts values, times, frequencies and weights in any of the
// shapes described by [Input] and validates them before any computation
// starts.
package ragged
