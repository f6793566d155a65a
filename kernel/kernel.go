package kernel

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-nuft/core"
)

// Prepared is a validated series whose values have already been multiplied by
// their weights. It is immutable and safe for concurrent use.
type Prepared struct {
	values  []float64
	times   []float64
	weights []float64
	dc      complex128
}

// Prepare validates s and performs the one-time weight premultiplication.
// The input slices are never modified.
func Prepare(s Series) (*Prepared, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := s.Len()
	p := &Prepared{
		values:  s.Values,
		times:   s.Times,
		weights: s.Weights,
	}
	if s.Weighted() {
		wv := make([]float64, n)
		vecmath.MulBlock(wv, s.Weights, s.Values)
		p.values = wv
	}

	// stat.Mean treats nil weights as all ones.
	p.dc = complex(stat.Mean(s.Values, s.Weights)/math.Sqrt(float64(n)), 0)
	return p, nil
}

// Len returns the number of samples.
func (p *Prepared) Len() int { return len(p.times) }

// DC returns the zero-frequency coefficient, mean(values)/sqrt(n). With
// weights the mean is the weighted mean, so DC is sum(w*v)/(sum(w)*sqrt(n)).
func (p *Prepared) DC() complex128 { return p.dc }

// Coefficient returns the transform coefficient and the Lomb-Scargle power at
// angular frequency omega.
func (p *Prepared) Coefficient(omega, sign, t0 float64) (complex128, float64) {
	if omega == 0 {
		return p.dc, dcPower(p.dc)
	}
	tau := p.tau(omega)
	scos2, ssin2 := p.energies(omega, tau)
	sumr, sumi := p.project(omega, tau)
	return combine(omega, tau, sumr, sumi, scos2, ssin2, sign, t0)
}

// Into evaluates every frequency in omegas into dst[:len(omegas)]. power may be
// nil; otherwise it receives the Lomb-Scargle power for each frequency.
func (p *Prepared) Into(dst []complex128, power []float64, omegas []float64, sign, t0 float64) error {
	if err := checkRow(dst, power, len(omegas)); err != nil {
		return err
	}
	for k, omega := range omegas {
		c, pw := p.Coefficient(omega, sign, t0)
		dst[k] = c
		if power != nil {
			power[k] = pw
		}
	}
	return nil
}

func (p *Prepared) tau(omega float64) float64 {
	var csum, ssum float64
	if p.weights == nil {
		for _, t := range p.times {
			s, c := math.Sincos(2 * omega * t)
			csum += c
			ssum += s
		}
	} else {
		for i, t := range p.times {
			s, c := math.Sincos(2 * omega * t)
			csum += p.weights[i] * c
			ssum += p.weights[i] * s
		}
	}
	return 0.5 * math.Atan2(ssum, csum)
}

// energies returns sum w*cos^2(omega*t - tau) and sum w*sin^2(omega*t - tau).
func (p *Prepared) energies(omega, tau float64) (scos2, ssin2 float64) {
	if p.weights == nil {
		for _, t := range p.times {
			s, c := math.Sincos(omega*t - tau)
			scos2 += c * c
			ssin2 += s * s
		}
		return scos2, ssin2
	}
	for i, t := range p.times {
		s, c := math.Sincos(omega*t - tau)
		scos2 += p.weights[i] * c * c
		ssin2 += p.weights[i] * s * s
	}
	return scos2, ssin2
}

// project accumulates the (already weighted) values against the shifted basis.
func (p *Prepared) project(omega, tau float64) (sumr, sumi float64) {
	for i, t := range p.times {
		s, c := math.Sincos(omega*t - tau)
		sumr += p.values[i] * c
		sumi += p.values[i] * s
	}
	return sumr, sumi
}

func combine(omega, tau, sumr, sumi, scos2, ssin2, sign, t0 float64) (complex128, float64) {
	ftReal := sumr / math.Sqrt(2*scos2)
	ftImag := sign * sumi / math.Sqrt(2*ssin2)
	phi := tau - omega*t0
	return complex(ftReal, ftImag) * cmplx.Exp(complex(0, phi)), sumr*sumr/scos2 + sumi*sumi/ssin2
}

func dcPower(dc complex128) float64 {
	re, im := real(dc), imag(dc)
	return re*re + im*im
}

func checkRow(dst []complex128, power []float64, n int) error {
	if n == 0 {
		return core.ErrEmptyFrequencyGrid
	}
	if len(dst) < n {
		return fmt.Errorf("kernel: output length %d < %d frequencies: %w", len(dst), n, core.ErrShapeMismatch)
	}
	if power != nil && len(power) < n {
		return fmt.Errorf("kernel: power length %d < %d frequencies: %w", len(power), n, core.ErrShapeMismatch)
	}
	return nil
}
