package ragged

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/kernel"
)

// Batch is a validated, normalized batch job. Shared operands keep a single
// row; use Rectangular for a fully broadcast copy.
type Batch struct {
	Values  *Arena[float64]
	Times   *Arena[float64]
	Omegas  *Arena[float64]
	Weights *Arena[float64] // nil when unweighted

	TimesShared   bool
	OmegasShared  bool
	WeightsShared bool

	// Warnings holds non-fatal conditions found during normalization, such as
	// core.ErrFrequencyGridWiderThanTimeGrid.
	Warnings []error
}

// Normalize validates the operands and packs them into arenas. All shape
// errors are reported here, before any transform work starts.
//
// values must be KindPerSeries or KindMatrix. times and omegas must be
// present. weights may be absent.
func Normalize(values, times, omegas, weights Input, logger *slog.Logger) (*Batch, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, op := range []struct {
		name string
		in   Input
	}{{"values", values}, {"times", times}, {"omegas", omegas}, {"weights", weights}} {
		if err := op.in.validate(op.name); err != nil {
			return nil, err
		}
	}

	switch values.Kind() {
	case KindPerSeries, KindMatrix:
	default:
		return nil, fmt.Errorf("ragged: values must hold one row per series, got %s: %w", values.Kind(), core.ErrShapeMismatch)
	}
	n := values.Rows()
	for i := range n {
		if len(values.Row(i)) == 0 {
			return nil, fmt.Errorf("ragged: series %d has no samples: %w", i, core.ErrShapeMismatch)
		}
	}

	if times.Kind() == KindAbsent {
		return nil, fmt.Errorf("ragged: times are required: %w", core.ErrShapeMismatch)
	}
	if err := matchSamples("times", values, times); err != nil {
		return nil, err
	}
	if weights.Kind() != KindAbsent {
		if err := matchSamples("weights", values, weights); err != nil {
			return nil, err
		}
	}
	if err := checkOmegas(n, omegas); err != nil {
		return nil, err
	}

	b := &Batch{
		Values:        values.arena(),
		Times:         times.arena(),
		Omegas:        omegas.arena(),
		Weights:       weights.arena(),
		TimesShared:   times.Kind() == KindShared,
		OmegasShared:  omegas.Kind() == KindShared,
		WeightsShared: weights.Kind() == KindShared,
	}

	if times.rectangular() && omegas.rectangular() && omegas.width() > times.width() {
		width := omegas.width()
		logger.Warn("frequency grid wider than time grid, zero-padding samples",
			"frequencies", width,
			"samples", times.width(),
			"series", n)
		b.Warnings = append(b.Warnings, fmt.Errorf("ragged: %d frequencies vs %d samples: %w",
			width, times.width(), core.ErrFrequencyGridWiderThanTimeGrid))
		b.Values = b.Values.Widen(width)
		b.Times = b.Times.Widen(width)
		if b.Weights != nil {
			b.Weights = b.Weights.Widen(width)
		}
	}

	return b, nil
}

// matchSamples checks that in has the same row structure as values.
func matchSamples(name string, values, in Input) error {
	n := values.Rows()
	if in.Kind() != KindShared && in.Rows() != n {
		return fmt.Errorf("ragged: %s %s vs values %s: %w", name, in.shape(), values.shape(), core.ErrShapeMismatch)
	}
	for i := range n {
		if got, want := len(in.Row(i)), len(values.Row(i)); got != want {
			return fmt.Errorf("ragged: series %d has %d %s for %d values: %w", i, got, name, want, core.ErrShapeMismatch)
		}
	}
	return nil
}

func checkOmegas(n int, omegas Input) error {
	switch omegas.Kind() {
	case KindAbsent:
		return core.ErrEmptyFrequencyGrid
	case KindShared:
		if len(omegas.Row(0)) == 0 {
			return core.ErrEmptyFrequencyGrid
		}
		return nil
	}
	if omegas.Rows() != n {
		return fmt.Errorf("ragged: omegas %s for %d series: %w", omegas.shape(), n, core.ErrShapeMismatch)
	}
	for i := range n {
		if len(omegas.Row(i)) == 0 {
			return fmt.Errorf("ragged: series %d: %w", i, core.ErrEmptyFrequencyGrid)
		}
	}
	return nil
}

// Series returns the number of series.
func (b *Batch) Series() int { return b.Values.Rows() }

// Weighted reports whether the batch carries weights.
func (b *Batch) Weighted() bool { return b.Weights != nil }

// TimesAt returns the sample times of series i.
func (b *Batch) TimesAt(i int) []float64 {
	if b.TimesShared {
		return b.Times.Row(0)
	}
	return b.Times.Row(i)
}

// WeightsAt returns the weights of series i, or nil when unweighted.
func (b *Batch) WeightsAt(i int) []float64 {
	switch {
	case b.Weights == nil:
		return nil
	case b.WeightsShared:
		return b.Weights.Row(0)
	default:
		return b.Weights.Row(i)
	}
}

// OmegasAt returns the frequency grid of series i.
func (b *Batch) OmegasAt(i int) []float64 {
	if b.OmegasShared {
		return b.Omegas.Row(0)
	}
	return b.Omegas.Row(i)
}

// SeriesAt returns series i as a kernel input. The slices alias the arenas.
func (b *Batch) SeriesAt(i int) kernel.Series {
	return kernel.Series{
		Values:  b.Values.Row(i),
		Times:   b.TimesAt(i),
		Weights: b.WeightsAt(i),
	}
}

// MaxFrequencies returns the longest frequency grid in the batch.
func (b *Batch) MaxFrequencies() int {
	m := 0
	for i := range b.Omegas.Rows() {
		m = max(m, b.Omegas.Len(i))
	}
	return m
}

// NewResult allocates the coefficient arena: one row per series, valid length
// equal to that series' frequency count, trailing columns zero.
func (b *Batch) NewResult() *Arena[complex128] {
	return newOutput[complex128](b)
}

// NewPower allocates a power arena shaped like NewResult.
func (b *Batch) NewPower() *Arena[float64] {
	return newOutput[float64](b)
}

func newOutput[T Element](b *Batch) *Arena[T] {
	out := NewArena[T](b.Series(), b.MaxFrequencies())
	for i := range b.Series() {
		out.SetLen(i, len(b.OmegasAt(i)))
	}
	return out
}

// Rectangular returns a copy of the batch in which every operand has one row
// per series and values, times and weights share one stride. This is the
// fixed-stride layout required by device execution.
func (b *Batch) Rectangular() *Batch {
	n := b.Series()
	width := max(b.Values.Stride(), b.Times.Stride())
	if b.Weights != nil {
		width = max(width, b.Weights.Stride())
	}

	expand := func(a *Arena[float64], shared bool) *Arena[float64] {
		if a == nil {
			return nil
		}
		if shared {
			a = a.Broadcast(n)
		} else {
			a = a.Clone()
		}
		return a
	}

	return &Batch{
		Values:   b.Values.Widen(width).Clone(),
		Times:    expand(b.Times.Widen(width), b.TimesShared),
		Omegas:   expand(b.Omegas, b.OmegasShared),
		Weights:  expand(widenOrNil(b.Weights, width), b.WeightsShared),
		Warnings: append([]error(nil), b.Warnings...),
	}
}

func widenOrNil(a *Arena[float64], width int) *Arena[float64] {
	if a == nil {
		return nil
	}
	return a.Widen(width)
}
