package testutil

import (
	"math"
	"math/rand"
	"sort"
)

// IrregularTimes returns n sorted, strictly positive sample times spread over
// (0, span]. The same seed always yields the same grid.
func IrregularTimes(seed int64, n int, span float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = span * (0.001 + 0.999*rng.Float64())
	}
	sort.Float64s(out)
	return out
}

// SineAt samples amplitude*sin(omega*t + phase) at the given times.
func SineAt(times []float64, omega, amplitude, phase float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = amplitude * math.Sin(omega*t+phase)
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// PositiveWeights returns length weights drawn from [0.5, 1.5).
func PositiveWeights(seed int64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = 0.5 + rng.Float64()
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
