// Package simulate generates regularly sampled sinusoids with additive
// Gaussian noise and evaluates their Schuster periodogram, for experiments
// with the transform and periodogram packages.
package simulate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/kernel"
)

// ErrNotSimulated is returned by operations that need an observation before
// Simulate has been called.
var ErrNotSimulated = errors.New("simulate: no observation, call Simulate first")

// SinusoidConfig describes the true signal A*cos(2*pi*t/Period + Phase)
// sampled N times at spacing Dt, observed with Gaussian noise of standard
// deviation Sigma.
type SinusoidConfig struct {
	Dt        float64
	N         int
	Period    float64
	Amplitude float64
	Phase     float64
	Sigma     float64
}

func (c SinusoidConfig) validate() error {
	switch {
	case !(c.Dt > 0) || math.IsInf(c.Dt, 0):
		return fmt.Errorf("simulate: sample spacing must be > 0: %v", c.Dt)
	case c.N < 2:
		return fmt.Errorf("simulate: need at least 2 samples: %d", c.N)
	case !(c.Period > 0) || math.IsInf(c.Period, 0):
		return fmt.Errorf("simulate: period must be > 0: %v", c.Period)
	case !core.IsFinite(c.Amplitude) || !core.IsFinite(c.Phase):
		return fmt.Errorf("simulate: amplitude and phase must be finite")
	case !(c.Sigma >= 0) || math.IsInf(c.Sigma, 0):
		return fmt.Errorf("simulate: noise sigma must be >= 0: %v", c.Sigma)
	}
	return nil
}

// Option configures a Sinusoid.
type Option func(*Sinusoid)

// WithSeed sets the deterministic seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(s *Sinusoid) {
		s.seed = seed
	}
}

// Sinusoid simulates noisy observations of a single sinusoid.
type Sinusoid struct {
	cfg    SinusoidConfig
	seed   uint64
	noise  distuv.Normal
	times  []float64
	signal []float64
	y      []float64
}

// NewSinusoid validates cfg and precomputes the sample times and the
// noise-free signal.
func NewSinusoid(cfg SinusoidConfig, opts ...Option) (*Sinusoid, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Sinusoid{cfg: cfg, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.noise = distuv.Normal{
		Mu:    0,
		Sigma: cfg.Sigma,
		Src:   rand.NewPCG(s.seed, s.seed),
	}
	s.times, s.signal = s.sample(cfg.N)
	return s, nil
}

// Config returns the simulator configuration.
func (s *Sinusoid) Config() SinusoidConfig { return s.cfg }

// Duration returns (N-1)*Dt.
func (s *Sinusoid) Duration() float64 { return float64(s.cfg.N-1) * s.cfg.Dt }

// Frequency returns the true frequency 1/Period.
func (s *Sinusoid) Frequency() float64 { return 1 / s.cfg.Period }

// Omega returns the true angular frequency.
func (s *Sinusoid) Omega() float64 { return 2 * math.Pi / s.cfg.Period }

// Times returns a copy of the sample times.
func (s *Sinusoid) Times() []float64 { return append([]float64(nil), s.times...) }

// Signal returns a copy of the noise-free signal at the sample times.
func (s *Sinusoid) Signal() []float64 { return append([]float64(nil), s.signal...) }

// SignalAt evaluates the noise-free signal on nt evenly spaced times covering
// the same duration, for plotting a smooth model curve.
func (s *Sinusoid) SignalAt(nt int) (times, signal []float64, err error) {
	if nt < 2 {
		return nil, nil, fmt.Errorf("simulate: need at least 2 evaluation points: %d", nt)
	}
	times, signal = s.sample(nt)
	return times, signal, nil
}

func (s *Sinusoid) sample(n int) (times, signal []float64) {
	times = floats.Span(make([]float64, n), 0, s.Duration())
	signal = make([]float64, n)
	w := s.Omega()
	for i, t := range times {
		signal[i] = s.cfg.Amplitude * math.Cos(w*t+s.cfg.Phase)
	}
	return times, signal
}

// Simulate draws a fresh noise realization, stores the observation and
// returns a copy of it. Successive calls continue the seeded stream.
func (s *Sinusoid) Simulate() []float64 {
	s.y = make([]float64, len(s.signal))
	for i, v := range s.signal {
		s.y[i] = v + s.noise.Rand()
	}
	return append([]float64(nil), s.y...)
}

// Observation returns the last simulated observation as a transform input.
func (s *Sinusoid) Observation() (kernel.Series, error) {
	if s.y == nil {
		return kernel.Series{}, ErrNotSimulated
	}
	return kernel.Series{Values: s.Observed(), Times: s.Times()}, nil
}

// Observed returns a copy of the last observation, or nil before Simulate.
func (s *Sinusoid) Observed() []float64 {
	if s.y == nil {
		return nil
	}
	return append([]float64(nil), s.y...)
}

// FourierFrequencies returns N/2 frequencies evenly spaced from 0 to the
// Nyquist frequency 0.5/Dt.
func (s *Sinusoid) FourierFrequencies() []float64 {
	n := s.cfg.N / 2
	if n < 2 {
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, 0.5/s.cfg.Dt)
}

// Periodogram evaluates the Schuster periodogram (C^2 + S^2)/N of the last
// observation directly at each frequency in Hz.
func (s *Sinusoid) Periodogram(freqs []float64) ([]float64, error) {
	if s.y == nil {
		return nil, ErrNotSimulated
	}
	if len(freqs) == 0 {
		return nil, core.ErrEmptyFrequencyGrid
	}
	out := make([]float64, len(freqs))
	n := float64(len(s.y))
	for k, f := range freqs {
		w := core.AngularFrequency(f)
		var c, sn float64
		for i, t := range s.times {
			si, ci := math.Sincos(w * t)
			c += s.y[i] * ci
			sn += s.y[i] * si
		}
		out[k] = (c*c + sn*sn) / n
	}
	return out, nil
}

// FFTPeriodogram evaluates the Schuster periodogram at the DFT frequencies of
// the observation. With over <= 1 the observation is used as is; otherwise it
// is followed by over*N zeros, giving (over+1)*N points. It returns the
// size/2+1 non-negative frequencies k/(size*Dt) and their power.
func (s *Sinusoid) FFTPeriodogram(over int) (freqs, power []float64, err error) {
	if s.y == nil {
		return nil, nil, ErrNotSimulated
	}
	size := len(s.y)
	if over > 1 {
		size *= over + 1
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, nil, fmt.Errorf("simulate: fft plan %d: %w", size, err)
	}
	in := make([]complex128, size)
	for i, v := range s.y {
		in[i] = complex(v, 0)
	}
	spectrum := make([]complex128, size)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, nil, fmt.Errorf("simulate: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(spectrum[k])
		im[k] = imag(spectrum[k])
	}
	power = make([]float64, bins)
	vecmath.Power(power, re, im)
	vecmath.ScaleBlock(power, power, 1/float64(len(s.y)))

	freqs = make([]float64, bins)
	df := 1 / (float64(size) * s.cfg.Dt)
	for k := range freqs {
		freqs[k] = float64(k) * df
	}
	return freqs, power, nil
}
