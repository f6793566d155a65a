package batch

import (
	"fmt"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/gpu"
	"github.com/cwbudde/algo-nuft/kernel"
	"github.com/cwbudde/algo-nuft/ragged"
)

// Compute normalizes the operands and returns one row of coefficients per
// series. Row i of the result has len(omegas for series i) valid entries.
//
// Shape errors are reported before any series is transformed. A frequency
// grid wider than the time grid is not an error; it is logged through the
// configured logger.
func Compute(values, times, omegas, weights ragged.Input, opts ...core.Option) (*ragged.Arena[complex128], error) {
	coeffs, _, err := compute(values, times, omegas, weights, false, opts)
	return coeffs, err
}

// ComputePower is Compute that also returns the Lomb-Scargle power of every
// coefficient, in an arena shaped like the coefficients.
func ComputePower(values, times, omegas, weights ragged.Input, opts ...core.Option) (*ragged.Arena[complex128], *ragged.Arena[float64], error) {
	return compute(values, times, omegas, weights, true, opts)
}

// ComputeBatch transforms an already normalized batch.
func ComputeBatch(b *ragged.Batch, opts ...core.Option) (*ragged.Arena[complex128], error) {
	out, err := run(b, false, core.ApplyOptions(opts...))
	return out.coeffs, err
}

func compute(values, times, omegas, weights ragged.Input, withPower bool, opts []core.Option) (*ragged.Arena[complex128], *ragged.Arena[float64], error) {
	cfg := core.ApplyOptions(opts...)
	b, err := ragged.Normalize(values, times, omegas, weights, cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	out, err := run(b, withPower, cfg)
	if err != nil {
		return nil, nil, err
	}
	return out.coeffs, out.power, nil
}

func run(b *ragged.Batch, withPower bool, cfg core.TransformConfig) (output, error) {
	s := Select(b, cfg)
	cfg.Logger.Debug("nuft batch",
		"strategy", s.String(),
		"series", b.Series(),
		"frequencies", b.MaxFrequencies(),
		"weighted", b.Weighted(),
		"workers", cfg.Workers)

	if s.Mode == GPU {
		return runGPU(b, withPower, cfg)
	}

	exec, ok := executors[s]
	if !ok {
		return output{}, fmt.Errorf("batch: no executor for %s", s)
	}
	out := newOutput(b, withPower)
	if err := exec(b, out, cfg); err != nil {
		return output{}, fmt.Errorf("batch: %s: %w", s, err)
	}
	return out, nil
}

func runGPU(b *ragged.Batch, withPower bool, cfg core.TransformConfig) (output, error) {
	e, err := gpu.NewExecutor()
	if err != nil {
		return output{}, fmt.Errorf("batch: %w", err)
	}
	coeffs, err := e.Run(b, cfg)
	if err != nil {
		return output{}, fmt.Errorf("batch: %w", err)
	}
	out := output{coeffs: coeffs}
	if !withPower {
		return out, nil
	}

	out.power = b.NewPower()
	for i := range b.Series() {
		_, power := out.row(i)
		if err := kernel.PowerFromCoefficients(power, coeffs.Row(i), b.OmegasAt(i)); err != nil {
			return output{}, fmt.Errorf("batch: series %d: %w", i, err)
		}
	}
	return out, nil
}
