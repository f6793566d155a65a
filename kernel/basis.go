package kernel

import (
	"fmt"

	"github.com/cwbudde/algo-nuft/core"
)

// Basis caches the sampling-dependent part of the transform, tau and the
// cosine/sine energies, for a time grid and frequency grid shared by many
// series. Only the projection of each series' values remains per series.
type Basis struct {
	times  []float64
	omegas []float64
	tau    []float64
	cos2   []float64
	sin2   []float64
}

// NewBasis precomputes tau, scos2 and ssin2 for every frequency. weights may
// be nil.
func NewBasis(times, weights, omegas []float64) (*Basis, error) {
	if len(omegas) == 0 {
		return nil, core.ErrEmptyFrequencyGrid
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("kernel: basis has no sample times: %w", core.ErrShapeMismatch)
	}
	if weights != nil && len(weights) != len(times) {
		return nil, fmt.Errorf("kernel: basis weights length %d != times length %d: %w", len(weights), len(times), core.ErrShapeMismatch)
	}

	grid := &Prepared{times: times, weights: weights}
	b := &Basis{
		times:  times,
		omegas: omegas,
		tau:    make([]float64, len(omegas)),
		cos2:   make([]float64, len(omegas)),
		sin2:   make([]float64, len(omegas)),
	}
	for k, omega := range omegas {
		if omega == 0 {
			continue
		}
		tau := grid.tau(omega)
		b.tau[k] = tau
		b.cos2[k], b.sin2[k] = grid.energies(omega, tau)
	}
	return b, nil
}

// Len returns the number of frequencies.
func (b *Basis) Len() int { return len(b.omegas) }

// Tau returns the phase offset for frequency index k.
func (b *Basis) Tau(k int) float64 { return b.tau[k] }

// ProjectInto evaluates every frequency of b for the prepared series. The
// series must have been sampled on the basis time grid with the basis weights.
func (p *Prepared) ProjectInto(dst []complex128, power []float64, b *Basis, sign, t0 float64) error {
	if err := checkRow(dst, power, b.Len()); err != nil {
		return err
	}
	if p.Len() != len(b.times) {
		return fmt.Errorf("kernel: series length %d != basis length %d: %w", p.Len(), len(b.times), core.ErrShapeMismatch)
	}
	for k, omega := range b.omegas {
		var (
			c  complex128
			pw float64
		)
		if omega == 0 {
			c, pw = p.dc, dcPower(p.dc)
		} else {
			sumr, sumi := p.project(omega, b.tau[k])
			c, pw = combine(omega, b.tau[k], sumr, sumi, b.cos2[k], b.sin2[k], sign, t0)
		}
		dst[k] = c
		if power != nil {
			power[k] = pw
		}
	}
	return nil
}
