package batch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/gpu"
	"github.com/cwbudde/algo-nuft/internal/testutil"
	"github.com/cwbudde/algo-nuft/kernel"
	"github.com/cwbudde/algo-nuft/ragged"
)

var quiet = core.WithLogger(slog.New(slog.DiscardHandler))

// job is a batch in raw form plus the per-series expectation source.
type job struct {
	values, times, omegas, weights ragged.Input
	series                         int
}

func (j job) expected(t *testing.T, opts ...core.Option) [][]complex128 {
	t.Helper()
	b, err := ragged.Normalize(j.values, j.times, j.omegas, j.weights, nil)
	require.NoError(t, err)
	out := make([][]complex128, b.Series())
	for i := range out {
		out[i], err = kernel.Transform(b.SeriesAt(i), b.OmegasAt(i), opts...)
		require.NoError(t, err)
	}
	return out
}

func makeJob(timesShared, omegasShared, weighted bool) job {
	const series = 7
	lens := []int{9, 4, 13, 9, 6, 20, 3}
	if timesShared {
		lens = []int{11, 11, 11, 11, 11, 11, 11}
	}

	sharedTimes := testutil.IrregularTimes(99, 11, 30)
	sharedGrid := []float64{0, 0.15, 0.6, 1.1, 2.3}

	var values, times, grids, weights [][]float64
	for i := range series {
		ts := sharedTimes
		if !timesShared {
			ts = testutil.IrregularTimes(int64(i+1), lens[i], 30)
		}
		times = append(times, ts)
		values = append(values, testutil.SineAt(ts, 0.2*float64(i+1), 1+float64(i), 0.1))
		grids = append(grids, sharedGrid[:1+i%len(sharedGrid)])
		weights = append(weights, testutil.PositiveWeights(int64(50+i), lens[i]))
	}

	j := job{values: ragged.PerSeries(values), series: series}
	if timesShared {
		j.times = ragged.Shared(sharedTimes)
	} else {
		j.times = ragged.PerSeries(times)
	}
	if omegasShared {
		j.omegas = ragged.Shared(sharedGrid)
	} else {
		j.omegas = ragged.PerSeries(grids)
	}
	if weighted {
		j.weights = ragged.PerSeries(weights)
	}
	return j
}

func TestComputeRaggedLengths(t *testing.T) {
	res, err := Compute(
		ragged.PerSeries([][]float64{{1, 2, 3}, {1, 2, 3, 4, 5}}),
		ragged.PerSeries([][]float64{{0.5, 1.7, 2.2}, {0.1, 0.9, 2.4, 3.3, 4.8}}),
		ragged.PerSeries([][]float64{{0.3, 0.8}, {0, 0.3, 0.8, 1.6}}),
		ragged.Input{},
		quiet,
	)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, res.Lengths())
	assert.Zero(t, res.Padded(0)[2])
	assert.Zero(t, res.Padded(0)[3])

	want, err := kernel.Transform(kernel.Series{
		Values: []float64{1, 2, 3, 4, 5},
		Times:  []float64{0.1, 0.9, 2.4, 3.3, 4.8},
	}, []float64{0, 0.3, 0.8, 1.6})
	require.NoError(t, err)
	testutil.RequireComplexNearlyEqual(t, res.Row(1), want, 1e-12)
}

func TestEveryStrategyMatchesKernel(t *testing.T) {
	opts := []core.Option{core.WithSign(-1), core.WithTimeZero(0.75)}

	for _, s := range Strategies() {
		for _, weighted := range []bool{false, true} {
			name := s.String()
			if weighted {
				name += " weighted"
			}
			t.Run(name, func(t *testing.T) {
				j := makeJob(s.Times == Shared, s.Omegas == Shared, weighted)
				runOpts := append([]core.Option{quiet, core.WithParallel(s.Mode == Parallel), core.WithWorkers(3)}, opts...)

				b, err := ragged.Normalize(j.values, j.times, j.omegas, j.weights, nil)
				require.NoError(t, err)
				require.Equal(t, s, Select(b, core.ApplyOptions(runOpts...)))

				res, err := Compute(j.values, j.times, j.omegas, j.weights, runOpts...)
				require.NoError(t, err)
				want := j.expected(t, opts...)
				require.Equal(t, j.series, res.Rows())
				for i := range want {
					testutil.RequireComplexNearlyEqual(t, res.Row(i), want[i], 1e-9)
				}
			})
		}
	}
}

func TestSharedWeightsUseBasis(t *testing.T) {
	ts := testutil.IrregularTimes(3, 16, 10)
	w := testutil.PositiveWeights(4, 16)
	values := [][]float64{
		testutil.SineAt(ts, 1.3, 2, 0),
		testutil.DeterministicNoise(5, 1, 16),
	}
	grid := []float64{0, 0.4, 1.3, 2.9}

	res, err := Compute(ragged.PerSeries(values), ragged.Shared(ts), ragged.Shared(grid), ragged.Shared(w), quiet, core.WithParallel(false))
	require.NoError(t, err)
	for i, v := range values {
		want, err := kernel.Transform(kernel.Series{Values: v, Times: ts, Weights: w}, grid)
		require.NoError(t, err)
		testutil.RequireComplexNearlyEqual(t, res.Row(i), want, 1e-9)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	j := makeJob(false, false, true)
	seq, err := Compute(j.values, j.times, j.omegas, j.weights, quiet, core.WithParallel(false))
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 3, 7, 64} {
		par, err := Compute(j.values, j.times, j.omegas, j.weights, quiet, core.WithWorkers(workers))
		require.NoError(t, err)
		for i := range seq.Rows() {
			testutil.RequireComplexNearlyEqual(t, par.Row(i), seq.Row(i), 1e-9)
		}
	}
}

func TestComputeGPUMode(t *testing.T) {
	gpu.RegisterHostBackend()
	t.Cleanup(func() { gpu.RegisterBackend(nil) })

	j := makeJob(false, true, true)
	seq, seqPower, err := ComputePower(j.values, j.times, j.omegas, j.weights, quiet, core.WithParallel(false))
	require.NoError(t, err)
	dev, devPower, err := ComputePower(j.values, j.times, j.omegas, j.weights, quiet, core.WithGPU(true))
	require.NoError(t, err)

	assert.Equal(t, seq.Lengths(), dev.Lengths())
	for i := range seq.Rows() {
		testutil.RequireComplexNearlyEqual(t, dev.Row(i), seq.Row(i), 1e-9)
		testutil.RequireSliceNearlyEqual(t, devPower.Row(i), seqPower.Row(i), 1e-9)
	}
}

func TestComputeGPUWithoutBackend(t *testing.T) {
	gpu.RegisterBackend(nil)
	j := makeJob(true, true, false)
	_, err := Compute(j.values, j.times, j.omegas, j.weights, quiet, core.WithGPU(true))
	require.ErrorIs(t, err, gpu.ErrNoBackend)
}

func TestComputePowerMatchesKernel(t *testing.T) {
	ts := testutil.IrregularTimes(8, 25, 40)
	v := testutil.SineAt(ts, 0.9, 1, 0.2)
	grid := []float64{0, 0.3, 0.9, 1.4}

	_, power, err := ComputePower(ragged.PerSeries([][]float64{v}), ragged.Shared(ts), ragged.Shared(grid), ragged.Input{}, quiet)
	require.NoError(t, err)
	_, want, err := kernel.TransformPower(kernel.Series{Values: v, Times: ts}, grid)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, power.Row(0), want, 1e-9)
}

func TestComputeErrors(t *testing.T) {
	vals := ragged.PerSeries([][]float64{{1, 2}, {3, 4, 5}})
	times := ragged.PerSeries([][]float64{{1, 2}, {3, 4, 5}})

	_, err := Compute(vals, times, ragged.Shared(nil), ragged.Input{}, quiet)
	require.ErrorIs(t, err, core.ErrEmptyFrequencyGrid)

	_, err = Compute(vals, ragged.PerSeries([][]float64{{1, 2}, {3, 4}}), ragged.Shared([]float64{1}), ragged.Input{}, quiet)
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, _, err = ComputePower(vals, times, ragged.Shared([]float64{1}), ragged.PerSeries([][]float64{{1}}), quiet)
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestComputeBatchLogsStrategy(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	j := makeJob(true, true, false)
	b, err := ragged.Normalize(j.values, j.times, j.omegas, j.weights, logger)
	require.NoError(t, err)

	res, err := ComputeBatch(b, core.WithLogger(logger), core.WithParallel(false))
	require.NoError(t, err)
	assert.Equal(t, j.series, res.Rows())
	assert.Contains(t, logs.String(), `strategy="times=shared omegas=shared mode=sequential"`)
	assert.Contains(t, logs.String(), "series=7")
}

func TestStrategiesTable(t *testing.T) {
	all := Strategies()
	require.Len(t, all, 8)
	seen := map[Strategy]bool{}
	for _, s := range all {
		assert.NotEqual(t, GPU, s.Mode)
		seen[s] = true
	}
	assert.Len(t, seen, 8)

	assert.Equal(t, "gpu", GPU.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
	assert.Equal(t, "Shape(5)", Shape(5).String())
}

func TestSelectPrefersGPU(t *testing.T) {
	b, err := ragged.Normalize(ragged.PerSeries([][]float64{{1}}), ragged.Shared([]float64{1}), ragged.PerSeries([][]float64{{1}}), ragged.Input{}, nil)
	require.NoError(t, err)
	s := Select(b, core.ApplyOptions(core.WithGPU(true)))
	assert.Equal(t, Strategy{Times: Shared, Omegas: PerSeries, Mode: GPU}, s)
}
