package batch

import (
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/kernel"
	"github.com/cwbudde/algo-nuft/ragged"
)

// output holds the destination arenas. power is nil when only coefficients
// are requested.
type output struct {
	coeffs *ragged.Arena[complex128]
	power  *ragged.Arena[float64]
}

func newOutput(b *ragged.Batch, withPower bool) output {
	out := output{coeffs: b.NewResult()}
	if withPower {
		out.power = b.NewPower()
	}
	return out
}

// row returns the destination slices of series i, cut to its grid length.
func (o output) row(i int) ([]complex128, []float64) {
	n := o.coeffs.Len(i)
	dst := o.coeffs.Padded(i)[:n]
	if o.power == nil {
		return dst, nil
	}
	return dst, o.power.Padded(i)[:n]
}

// rowFunc computes series i into its destination row.
type rowFunc func(i int) error

// binder prepares whatever is shared between rows and returns the per-row
// function. All validation that can fail happens in the binder or in the row
// function before it writes.
type binder func(b *ragged.Batch, out output, cfg core.TransformConfig) (rowFunc, error)

type executor func(b *ragged.Batch, out output, cfg core.TransformConfig) error

// bindRows evaluates each series against its own time and frequency grids.
func bindRows(b *ragged.Batch, out output, cfg core.TransformConfig) (rowFunc, error) {
	return func(i int) error {
		p, err := kernel.Prepare(b.SeriesAt(i))
		if err != nil {
			return err
		}
		dst, power := out.row(i)
		return p.Into(dst, power, b.OmegasAt(i), cfg.Sign, cfg.TimeZero)
	}, nil
}

// bindBasis evaluates series sampled on one time grid against one frequency
// grid. When the weights are shared too, tau and the energies depend only on
// the grids and are computed once for the whole batch.
func bindBasis(b *ragged.Batch, out output, cfg core.TransformConfig) (rowFunc, error) {
	if b.Weighted() && !b.WeightsShared {
		return bindRows(b, out, cfg)
	}
	basis, err := kernel.NewBasis(b.TimesAt(0), b.WeightsAt(0), b.OmegasAt(0))
	if err != nil {
		return nil, err
	}
	return func(i int) error {
		p, err := kernel.Prepare(b.SeriesAt(i))
		if err != nil {
			return err
		}
		dst, power := out.row(i)
		return p.ProjectInto(dst, power, basis, cfg.Sign, cfg.TimeZero)
	}, nil
}

// sequential runs every row on the calling goroutine in order.
func sequential(bind binder) executor {
	return func(b *ragged.Batch, out output, cfg core.TransformConfig) error {
		fn, err := bind(b, out, cfg)
		if err != nil {
			return err
		}
		for i := range b.Series() {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
}

// parallel splits the rows into contiguous chunks, one goroutine per chunk,
// with at most cfg.Workers running at once. Chunks are disjoint so no
// synchronization is needed on the output arenas.
func parallel(bind binder) executor {
	return func(b *ragged.Batch, out output, cfg core.TransformConfig) error {
		fn, err := bind(b, out, cfg)
		if err != nil {
			return err
		}
		n := b.Series()
		workers := min(max(cfg.Workers, 1), n)
		if workers <= 1 {
			for i := range n {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		}

		chunk := (n + workers - 1) / workers
		var g errgroup.Group
		g.SetLimit(workers)
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			g.Go(func() error {
				for i := start; i < end; i++ {
					if err := fn(i); err != nil {
						return err
					}
				}
				return nil
			})
		}
		return g.Wait()
	}
}
