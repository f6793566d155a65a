package gpu

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// HostBackend emulates a device on the CPU. Every launch block runs on its
// own goroutine and every unit inside a block runs the same scalar kernel a
// device thread would. It is always available and computes in float64.
type HostBackend struct {
	device DeviceInfo
}

// NewHostBackend returns a host backend with a single emulated device.
func NewHostBackend() *HostBackend {
	return &HostBackend{
		device: DeviceInfo{
			Name:    "HostGPU",
			Vendor:  "nuft",
			Driver:  "host",
			Threads: runtime.GOMAXPROCS(0),
		},
	}
}

func (b *HostBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "host",
		Version:     "0.1",
		Description: "CPU-emulated device, one goroutine per launch block",
		Precision:   64,
	}
}

func (b *HostBackend) Available() bool { return true }

func (b *HostBackend) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{b.device}, nil
}

func (b *HostBackend) NewContext(deviceIndex int) (Context, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("host backend: device index %d out of range", deviceIndex)
	}
	return &hostContext{device: b.device}, nil
}

// RegisterHostBackend registers the host backend as the active backend.
func RegisterHostBackend() {
	RegisterBackend(NewHostBackend())
}

type hostContext struct {
	device DeviceInfo
}

func (c *hostContext) Device() DeviceInfo { return c.device }

func (c *hostContext) NewBuffer(n int, kind ElementKind) (Buffer, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}
	buf := &hostBuffer{kind: kind, n: n}
	switch kind {
	case ElementFloat64:
		buf.f64 = make([]float64, n)
	case ElementInt32:
		buf.i32 = make([]int32, n)
	case ElementComplex128:
		buf.c128 = make([]complex128, n)
	default:
		return nil, ErrNotImplemented
	}
	return buf, nil
}

func (c *hostContext) NewStream() (Stream, error) {
	return &hostStream{}, nil
}

func (c *hostContext) NewKernel() (KernelImpl, error) {
	return hostKernel{}, nil
}

func (c *hostContext) Close() error { return nil }

type hostBuffer struct {
	kind ElementKind
	n    int
	f64  []float64
	i32  []int32
	c128 []complex128
}

func (b *hostBuffer) Len() int          { return b.n }
func (b *hostBuffer) Kind() ElementKind { return b.kind }

func (b *hostBuffer) Upload(src any) error {
	switch data := src.(type) {
	case []float64:
		return hostCopy(b.kind == ElementFloat64, b.f64, data)
	case []int32:
		return hostCopy(b.kind == ElementInt32, b.i32, data)
	case []complex128:
		return hostCopy(b.kind == ElementComplex128, b.c128, data)
	default:
		return ErrNotImplemented
	}
}

func (b *hostBuffer) Download(dst any) error {
	switch data := dst.(type) {
	case []float64:
		return hostCopy(b.kind == ElementFloat64, data, b.f64)
	case []int32:
		return hostCopy(b.kind == ElementInt32, data, b.i32)
	case []complex128:
		return hostCopy(b.kind == ElementComplex128, data, b.c128)
	default:
		return ErrNotImplemented
	}
}

func (b *hostBuffer) Close() error {
	b.f64, b.i32, b.c128 = nil, nil, nil
	b.n = 0
	return nil
}

func hostCopy[T any](kindOK bool, dst, src []T) error {
	if !kindOK {
		return ErrNotImplemented
	}
	if len(dst) != len(src) {
		return ErrLengthMismatch
	}
	copy(dst, src)
	return nil
}

type hostStream struct {
	wg sync.WaitGroup
}

func (s *hostStream) Synchronize() error {
	s.wg.Wait()
	return nil
}

func (s *hostStream) Close() error {
	s.wg.Wait()
	return nil
}

type hostKernel struct{}

func (hostKernel) Close() error { return nil }

func (hostKernel) Launch(s Stream, args KernelArgs, block Dims) error {
	stream, ok := s.(*hostStream)
	if !ok {
		return fmt.Errorf("host kernel: foreign stream %T: %w", s, ErrNotImplemented)
	}
	if block.X <= 0 || block.Y <= 0 {
		return fmt.Errorf("host kernel: block %dx%d: %w", block.X, block.Y, ErrInvalidLength)
	}
	if err := args.validate(); err != nil {
		return fmt.Errorf("host kernel: %w", err)
	}

	bufs, err := hostArgs(args)
	if err != nil {
		return err
	}

	grid := args.Grid()
	blocks := grid.Blocks(block)
	for by := range blocks.Y {
		for bx := range blocks.X {
			stream.wg.Go(func() {
				for ty := range block.Y {
					row := by*block.Y + ty
					if row >= grid.Y {
						break
					}
					for tx := range block.X {
						col := bx*block.X + tx
						if col >= grid.X {
							break
						}
						bufs.unit(row, col)
					}
				}
			})
		}
	}
	return nil
}

// hostView is the device memory seen by one launch.
type hostView struct {
	values, times, weights, omegas []float64
	sampleLens, omegaLens          []int32
	out                            []complex128
	stride, freqs                  int
	sign, t0                       float64
}

func hostArgs(a KernelArgs) (*hostView, error) {
	bufs := []Buffer{a.Values, a.Times, a.Weights, a.Omegas, a.SampleLens, a.OmegaLens, a.Out}
	hb := make([]*hostBuffer, len(bufs))
	for i, b := range bufs {
		h, ok := b.(*hostBuffer)
		if !ok {
			return nil, fmt.Errorf("host kernel: foreign buffer %T: %w", b, ErrNotImplemented)
		}
		hb[i] = h
	}
	return &hostView{
		values:     hb[0].f64,
		times:      hb[1].f64,
		weights:    hb[2].f64,
		omegas:     hb[3].f64,
		sampleLens: hb[4].i32,
		omegaLens:  hb[5].i32,
		out:        hb[6].c128,
		stride:     a.Stride,
		freqs:      a.Frequencies,
		sign:       a.Sign,
		t0:         a.TimeZero,
	}, nil
}

// unit computes output cell (row, col). Padding columns past the series'
// frequency count are left untouched.
func (v *hostView) unit(row, col int) {
	if col >= int(v.omegaLens[row]) {
		return
	}
	n := int(v.sampleLens[row])
	base := row * v.stride
	t := v.times[base : base+n]
	w := v.weights[base : base+n]
	wv := v.values[base : base+n]
	omega := v.omegas[row*v.freqs+col]
	idx := row*v.freqs + col

	if omega == 0 {
		var sumwv, sumw float64
		for i := range n {
			sumwv += wv[i]
			sumw += w[i]
		}
		v.out[idx] = complex(sumwv/sumw/math.Sqrt(float64(n)), 0)
		return
	}

	var csum, ssum float64
	for i := range n {
		s, c := math.Sincos(2 * omega * t[i])
		csum += w[i] * c
		ssum += w[i] * s
	}
	tau := 0.5 * math.Atan2(ssum, csum)

	var sumr, sumi, scos2, ssin2 float64
	for i := range n {
		s, c := math.Sincos(omega*t[i] - tau)
		sumr += wv[i] * c
		sumi += wv[i] * s
		scos2 += w[i] * c * c
		ssin2 += w[i] * s * s
	}

	re := sumr / math.Sqrt(2*scos2)
	im := v.sign * sumi / math.Sqrt(2*ssin2)
	ps, pc := math.Sincos(tau - omega*v.t0)
	v.out[idx] = complex(re*pc-im*ps, re*ps+im*pc)
}
