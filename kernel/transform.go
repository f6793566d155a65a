package kernel

import (
	"github.com/cwbudde/algo-nuft/core"
)

// Transform returns one coefficient per angular frequency for a single series.
//
// Recognized options are core.WithSign and core.WithTimeZero. An empty omegas
// fails with core.ErrEmptyFrequencyGrid before any work is done.
func Transform(s Series, omegas []float64, opts ...core.Option) ([]complex128, error) {
	out, _, err := transform(s, omegas, false, opts)
	return out, err
}

// TransformPower is Transform that additionally returns the Lomb-Scargle power
// sumr^2/scos2 + sumi^2/ssin2 for every frequency (|X|^2 at omega == 0).
func TransformPower(s Series, omegas []float64, opts ...core.Option) ([]complex128, []float64, error) {
	return transform(s, omegas, true, opts)
}

func transform(s Series, omegas []float64, withPower bool, opts []core.Option) ([]complex128, []float64, error) {
	if len(omegas) == 0 {
		return nil, nil, core.ErrEmptyFrequencyGrid
	}
	cfg := core.ApplyOptions(opts...)

	p, err := Prepare(s)
	if err != nil {
		return nil, nil, err
	}

	out := make([]complex128, len(omegas))
	var power []float64
	if withPower {
		power = make([]float64, len(omegas))
	}
	if err := p.Into(out, power, omegas, cfg.Sign, cfg.TimeZero); err != nil {
		return nil, nil, err
	}
	return out, power, nil
}
