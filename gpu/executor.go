package gpu

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/ragged"
)

// Executor runs normalized batches on the registered backend.
type Executor struct {
	backend Backend
	cfg     ExecutorConfig
}

// NewExecutor binds an executor to the currently registered backend.
func NewExecutor(opts ...Option) (*Executor, error) {
	b := getBackend()
	if b == nil {
		return nil, ErrNoBackend
	}
	if !b.Available() {
		return nil, ErrBackendUnavailable
	}
	return &Executor{backend: b, cfg: applyOptions(opts)}, nil
}

// ComputeBatch runs b on the registered backend with default launch settings.
func ComputeBatch(b *ragged.Batch, opts ...core.Option) (*ragged.Arena[complex128], error) {
	e, err := NewExecutor()
	if err != nil {
		return nil, err
	}
	return e.Run(b, core.ApplyOptions(opts...))
}

// Run evaluates b and returns the coefficient arena. Shared operands are
// broadcast, weights are multiplied into the values once on the host, and
// the per-series sample and frequency counts are uploaded alongside the
// padded data. Run blocks until the device has finished. An empty batch
// returns an empty result without touching the device.
func (e *Executor) Run(b *ragged.Batch, cfg core.TransformConfig) (res *ragged.Arena[complex128], err error) {
	if b.Series() == 0 {
		return b.NewResult(), nil
	}
	r := b.Rectangular()
	n := r.Series()
	stride := r.Values.Stride()
	freqs := r.Omegas.Stride()

	values := r.Values.Data()
	weights := make([]float64, n*stride)
	if r.Weights != nil {
		copy(weights, r.Weights.Data())
		vecmath.MulBlockInPlace(values, weights)
	} else {
		for i := range weights {
			weights[i] = 1
		}
	}

	ctx, err := e.backend.NewContext(e.cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", err)
	}
	defer func() { err = errors.Join(err, ctx.Close()) }()

	alloc := newAllocator(ctx)
	defer func() { err = errors.Join(err, alloc.close()) }()

	args := KernelArgs{
		Values:      alloc.upload(ElementFloat64, values),
		Times:       alloc.upload(ElementFloat64, r.Times.Data()),
		Weights:     alloc.upload(ElementFloat64, weights),
		Omegas:      alloc.upload(ElementFloat64, r.Omegas.Data()),
		SampleLens:  alloc.upload(ElementInt32, lengths32(r.Values)),
		OmegaLens:   alloc.upload(ElementInt32, lengths32(r.Omegas)),
		Out:         alloc.buffer(ElementComplex128, n*freqs),
		Series:      n,
		Stride:      stride,
		Frequencies: freqs,
		Sign:        cfg.Sign,
		TimeZero:    cfg.TimeZero,
	}
	if alloc.err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", alloc.err)
	}

	kern, err := ctx.NewKernel()
	if err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", err)
	}
	defer func() { err = errors.Join(err, kern.Close()) }()

	stream, err := ctx.NewStream()
	if err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", err)
	}
	defer func() { err = errors.Join(err, stream.Close()) }()

	cfg.Logger.Debug("nuft gpu launch",
		"backend", e.backend.Info().Name,
		"series", n,
		"frequencies", freqs,
		"stride", stride,
		"block_x", e.cfg.Block.X,
		"block_y", e.cfg.Block.Y)

	if err := kern.Launch(stream, args, e.cfg.Block); err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", err)
	}
	if err := stream.Synchronize(); err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", err)
	}

	res = b.NewResult()
	if err := args.Out.Download(res.Data()); err != nil {
		return nil, fmt.Errorf("nuft/gpu: %w", err)
	}
	return res, nil
}

func lengths32[T ragged.Element](a *ragged.Arena[T]) []int32 {
	out := make([]int32, a.Rows())
	for i := range out {
		out[i] = int32(a.Len(i))
	}
	return out
}

// allocator creates buffers and remembers the first error so a launch can be
// assembled without checking every allocation.
type allocator struct {
	ctx  Context
	bufs []Buffer
	err  error
}

func newAllocator(ctx Context) *allocator {
	return &allocator{ctx: ctx}
}

func (a *allocator) buffer(kind ElementKind, n int) Buffer {
	if a.err != nil {
		return nil
	}
	buf, err := a.ctx.NewBuffer(n, kind)
	if err != nil {
		a.err = fmt.Errorf("allocate %d x %s: %w", n, kind, err)
		return nil
	}
	a.bufs = append(a.bufs, buf)
	return buf
}

func (a *allocator) upload(kind ElementKind, src any) Buffer {
	var n int
	switch s := src.(type) {
	case []float64:
		n = len(s)
	case []int32:
		n = len(s)
	}
	buf := a.buffer(kind, n)
	if buf == nil {
		return nil
	}
	if err := buf.Upload(src); err != nil {
		a.err = fmt.Errorf("upload %s: %w", kind, err)
		return nil
	}
	return buf
}

func (a *allocator) close() error {
	var errs []error
	for _, b := range a.bufs {
		errs = append(errs, b.Close())
	}
	return errors.Join(errs...)
}
