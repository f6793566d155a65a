package core

import (
	"math"
	"math/cmplx"
)

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps, using an absolute
// comparison near zero and a relative one elsewhere.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}
	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}
	return diff/largest <= eps
}

// ComplexNearlyEqual is NearlyEqual on the modulus of the difference.
func ComplexNearlyEqual(a, b complex128, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	diff := cmplx.Abs(a - b)
	if diff <= eps {
		return true
	}
	largest := math.Max(cmplx.Abs(a), cmplx.Abs(b))
	if largest == 0 {
		return diff <= eps
	}
	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AngularFrequency converts a frequency in Hz to radians per unit time.
func AngularFrequency(hz float64) float64 {
	return 2 * math.Pi * hz
}
