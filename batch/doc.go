// Package batch evaluates the non-uniform Fourier transform for many series at
// once.
//
// Inputs are normalized by the ragged package, a Strategy is selected from the
// shapes of the time and frequency grids and the requested execution mode, and
// the batch is dispatched to a sequential, parallel or GPU executor. Every
// executor writes into a ragged result arena whose row i has exactly as many
// valid entries as series i has frequencies.
package batch
