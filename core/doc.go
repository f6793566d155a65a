// Package core holds the configuration, sentinel errors and small numeric
// helpers shared by the transform kernel, the ragged normalizer and the
// batch executors.
package core
