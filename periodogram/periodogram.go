// Package periodogram computes the generalized Lomb-Scargle periodogram of an
// irregularly sampled series on a grid of ordinary (Hz) frequencies.
package periodogram

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/kernel"
)

// ErrInvalidRange is returned for grids with a non-finite, negative or
// inverted frequency range.
var ErrInvalidRange = errors.New("periodogram: invalid frequency range")

// Peak is the highest-power bin of a periodogram.
type Peak struct {
	Index     int
	Frequency float64
	Power     float64
}

// LombScargle returns the Lomb-Scargle power of s at every frequency in
// freqsHz. Frequencies are converted to angular frequencies before
// evaluation; a zero frequency yields the squared DC term.
func LombScargle(s kernel.Series, freqsHz []float64, opts ...core.Option) ([]float64, error) {
	if len(freqsHz) == 0 {
		return nil, core.ErrEmptyFrequencyGrid
	}
	omegas := make([]float64, len(freqsHz))
	for i, f := range freqsHz {
		omegas[i] = core.AngularFrequency(f)
	}
	_, power, err := kernel.TransformPower(s, omegas, opts...)
	if err != nil {
		return nil, err
	}
	return power, nil
}

// FrequencyGrid returns n evenly spaced frequencies from fMin to fMax
// inclusive.
func FrequencyGrid(fMin, fMax float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, core.ErrEmptyFrequencyGrid
	}
	if !core.IsFinite(fMin) || !core.IsFinite(fMax) || fMin < 0 || fMax < fMin {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, fMin, fMax)
	}
	if n == 1 {
		return []float64{fMin}, nil
	}
	return floats.Span(make([]float64, n), fMin, fMax), nil
}

// AngularGrid is FrequencyGrid converted to angular frequencies.
func AngularGrid(fMin, fMax float64, n int) ([]float64, error) {
	grid, err := FrequencyGrid(fMin, fMax, n)
	if err != nil {
		return nil, err
	}
	floats.Scale(2*math.Pi, grid)
	return grid, nil
}

// FindPeak returns the bin with maximum power. Ties resolve to the lowest index.
func FindPeak(freqs, power []float64) (Peak, error) {
	if len(freqs) == 0 {
		return Peak{}, core.ErrEmptyFrequencyGrid
	}
	if len(freqs) != len(power) {
		return Peak{}, fmt.Errorf("periodogram: %d frequencies, %d powers: %w", len(freqs), len(power), core.ErrShapeMismatch)
	}
	i := floats.MaxIdx(power)
	return Peak{Index: i, Frequency: freqs[i], Power: power[i]}, nil
}
