package periodogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/internal/testutil"
	"github.com/cwbudde/algo-nuft/kernel"
)

func TestLombScargleFindsInjectedFrequency(t *testing.T) {
	const f0 = 0.37
	times := testutil.IrregularTimes(11, 200, 100)
	values := testutil.SineAt(times, 2*math.Pi*f0, 1.5, 0.4)
	noise := testutil.DeterministicNoise(12, 0.2, len(times))
	for i := range values {
		values[i] += noise[i]
	}

	freqs, err := FrequencyGrid(0.01, 1, 991)
	require.NoError(t, err)
	power, err := LombScargle(kernel.Series{Values: values, Times: times}, freqs)
	require.NoError(t, err)

	peak, err := FindPeak(freqs, power)
	require.NoError(t, err)
	assert.InDelta(t, f0, peak.Frequency, 0.005)
	assert.Equal(t, power[peak.Index], peak.Power)
}

func TestLombScargleMatchesCoefficients(t *testing.T) {
	times := testutil.IrregularTimes(3, 40, 10)
	s := kernel.Series{Values: testutil.DeterministicNoise(4, 1, 40), Times: times, Weights: testutil.PositiveWeights(5, 40)}
	freqs := []float64{0, 0.2, 0.45, 1.3}

	power, err := LombScargle(s, freqs, core.WithSign(-1))
	require.NoError(t, err)

	omegas := make([]float64, len(freqs))
	for i, f := range freqs {
		omegas[i] = core.AngularFrequency(f)
	}
	coeffs, err := kernel.Transform(s, omegas)
	require.NoError(t, err)
	want := make([]float64, len(coeffs))
	require.NoError(t, kernel.PowerFromCoefficients(want, coeffs, omegas))
	testutil.RequireSliceNearlyEqual(t, power, want, 1e-9)
}

func TestLombScargleErrors(t *testing.T) {
	s := kernel.Series{Values: []float64{1, 2}, Times: []float64{0, 1}}
	_, err := LombScargle(s, nil)
	require.ErrorIs(t, err, core.ErrEmptyFrequencyGrid)

	_, err = LombScargle(kernel.Series{Values: []float64{1}, Times: []float64{0, 1}}, []float64{1})
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestFrequencyGrid(t *testing.T) {
	grid, err := FrequencyGrid(1, 2, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.25, 1.5, 1.75, 2}, grid, 1e-15)

	grid, err = FrequencyGrid(0.5, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, grid)

	angular, err := AngularGrid(0, 1, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, math.Pi, 2 * math.Pi}, angular, 1e-15)

	tests := []struct {
		name       string
		fMin, fMax float64
		n          int
		want       error
	}{
		{"no bins", 0, 1, 0, core.ErrEmptyFrequencyGrid},
		{"inverted", 2, 1, 3, ErrInvalidRange},
		{"negative", -1, 1, 3, ErrInvalidRange},
		{"nan", math.NaN(), 1, 3, ErrInvalidRange},
		{"inf", 0, math.Inf(1), 3, ErrInvalidRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FrequencyGrid(tc.fMin, tc.fMax, tc.n)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFindPeak(t *testing.T) {
	peak, err := FindPeak([]float64{1, 2, 3, 4}, []float64{0.1, 5, 5, 2})
	require.NoError(t, err)
	assert.Equal(t, Peak{Index: 1, Frequency: 2, Power: 5}, peak)

	_, err = FindPeak(nil, nil)
	require.ErrorIs(t, err, core.ErrEmptyFrequencyGrid)
	_, err = FindPeak([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}
