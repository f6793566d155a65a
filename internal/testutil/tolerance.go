package testutil

import (
	"fmt"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-nuft/core"
)

// RequireComplexNearlyEqual fails t if got and want differ in length or if any
// element pair differs by more than relTol relative to the larger modulus
// (absolute near zero).
func RequireComplexNearlyEqual(t testing.TB, got, want []complex128, relTol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !core.ComplexNearlyEqual(got[i], want[i], relTol) {
			t.Fatalf("index %d: got %v, want %v (diff %v > tol %v)", i, got[i], want[i], cmplx.Abs(got[i]-want[i]), relTol)
		}
	}
}

// RequireSliceNearlyEqual is RequireComplexNearlyEqual for real slices.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, relTol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !core.NearlyEqual(got[i], want[i], relTol) {
			t.Fatalf("index %d: got %v, want %v (tol %v)", i, got[i], want[i], relTol)
		}
	}
}

// MaxComplexDiff returns the largest |a[i]-b[i]|.
// Returns an error if the slices differ in length.
func MaxComplexDiff(a, b []complex128) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		if d := cmplx.Abs(a[i] - b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
