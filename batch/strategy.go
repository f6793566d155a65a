package batch

import (
	"fmt"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/ragged"
)

// Shape tells whether a grid is shared by every series or given per series.
type Shape uint8

const (
	Shared Shape = iota
	PerSeries
)

func (s Shape) String() string {
	switch s {
	case Shared:
		return "shared"
	case PerSeries:
		return "per-series"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Mode is the execution backend.
type Mode uint8

const (
	Sequential Mode = iota
	Parallel
	GPU
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	case GPU:
		return "gpu"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Strategy identifies one executor.
type Strategy struct {
	Times  Shape
	Omegas Shape
	Mode   Mode
}

func (s Strategy) String() string {
	return fmt.Sprintf("times=%s omegas=%s mode=%s", s.Times, s.Omegas, s.Mode)
}

// Select picks the strategy for a normalized batch. GPU takes precedence over
// Parallel.
func Select(b *ragged.Batch, cfg core.TransformConfig) Strategy {
	s := Strategy{Times: PerSeries, Omegas: PerSeries, Mode: Sequential}
	if b.TimesShared {
		s.Times = Shared
	}
	if b.OmegasShared {
		s.Omegas = Shared
	}
	switch {
	case cfg.GPU:
		s.Mode = GPU
	case cfg.Parallel:
		s.Mode = Parallel
	}
	return s
}

// executors maps every CPU strategy to its implementation. GPU strategies are
// not listed; they are routed to the gpu package regardless of shape.
var executors = map[Strategy]executor{
	{Shared, Shared, Sequential}:       sequential(bindBasis),
	{Shared, PerSeries, Sequential}:    sequential(bindRows),
	{PerSeries, Shared, Sequential}:    sequential(bindRows),
	{PerSeries, PerSeries, Sequential}: sequential(bindRows),
	{Shared, Shared, Parallel}:         parallel(bindBasis),
	{Shared, PerSeries, Parallel}:      parallel(bindRows),
	{PerSeries, Shared, Parallel}:      parallel(bindRows),
	{PerSeries, PerSeries, Parallel}:   parallel(bindRows),
}

// Strategies returns every CPU strategy with a registered executor.
func Strategies() []Strategy {
	out := make([]Strategy, 0, len(executors))
	for _, m := range []Mode{Sequential, Parallel} {
		for _, t := range []Shape{Shared, PerSeries} {
			for _, o := range []Shape{Shared, PerSeries} {
				s := Strategy{Times: t, Omegas: o, Mode: m}
				if _, ok := executors[s]; ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
