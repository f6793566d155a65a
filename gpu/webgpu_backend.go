//go:build webgpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// WebGPUBackend runs the transform kernel as a WGSL compute shader. Device
// arithmetic is float32; expect agreement with the CPU executors to roughly
// 1e-4 relative.
type WebGPUBackend struct {
	mu       sync.Mutex
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     DeviceInfo
	initErr  error
}

// NewWebGPUBackend requests a high-performance adapter. If no adapter or
// native library is present the backend is returned but reports itself
// unavailable.
func NewWebGPUBackend() *WebGPUBackend {
	b := &WebGPUBackend{}
	b.initErr = b.init()
	return b
}

func (b *WebGPUBackend) init() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return fmt.Errorf("webgpu: request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return fmt.Errorf("webgpu: request device: %w", err)
	}
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return fmt.Errorf("webgpu: no queue")
	}

	info := adapter.GetInfo()
	b.instance, b.adapter, b.device, b.queue = instance, adapter, device, queue
	b.info = DeviceInfo{Name: info.Device, Vendor: info.Vendor, Driver: info.Description}
	return nil
}

// RegisterWebGPUBackend registers a WebGPU backend if an adapter is found.
func RegisterWebGPUBackend() error {
	b := NewWebGPUBackend()
	if !b.Available() {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, b.initErr)
	}
	RegisterBackend(b)
	return nil
}

func (b *WebGPUBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "webgpu",
		Version:     "0.1",
		Description: "WGSL compute shader via go-webgpu",
		Precision:   32,
	}
}

func (b *WebGPUBackend) Available() bool { return b.initErr == nil }

func (b *WebGPUBackend) Devices() ([]DeviceInfo, error) {
	if !b.Available() {
		return nil, ErrBackendUnavailable
	}
	return []DeviceInfo{b.info}, nil
}

func (b *WebGPUBackend) NewContext(deviceIndex int) (Context, error) {
	if !b.Available() {
		return nil, ErrBackendUnavailable
	}
	if deviceIndex != 0 {
		return nil, fmt.Errorf("webgpu backend: device index %d out of range", deviceIndex)
	}
	return &webgpuContext{backend: b}, nil
}

// Release frees the device. The backend is unusable afterwards.
func (b *WebGPUBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.initErr = ErrBackendUnavailable
}

type webgpuContext struct {
	backend *WebGPUBackend
}

func (c *webgpuContext) Device() DeviceInfo { return c.backend.info }

func (c *webgpuContext) NewBuffer(n int, kind ElementKind) (Buffer, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}
	var width int
	switch kind {
	case ElementFloat64, ElementInt32:
		width = 4
	case ElementComplex128:
		width = 8
	default:
		return nil, ErrNotImplemented
	}
	size := uint64(n * width)
	buf := c.backend.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	return &webgpuBuffer{ctx: c, buf: buf, kind: kind, n: n, size: size}, nil
}

func (c *webgpuContext) NewStream() (Stream, error) {
	return &webgpuStream{}, nil
}

func (c *webgpuContext) NewKernel() (KernelImpl, error) {
	return &webgpuKernel{ctx: c}, nil
}

func (c *webgpuContext) Close() error { return nil }

type webgpuBuffer struct {
	ctx  *webgpuContext
	buf  *wgpu.Buffer
	kind ElementKind
	n    int
	size uint64
}

func (b *webgpuBuffer) Len() int          { return b.n }
func (b *webgpuBuffer) Kind() ElementKind { return b.kind }

// Upload narrows host data to the 32-bit device layout.
func (b *webgpuBuffer) Upload(src any) error {
	raw := make([]byte, b.size)
	switch data := src.(type) {
	case []float64:
		if b.kind != ElementFloat64 {
			return ErrNotImplemented
		}
		if len(data) != b.n {
			return ErrLengthMismatch
		}
		for i, v := range data {
			binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(float32(v)))
		}
	case []int32:
		if b.kind != ElementInt32 {
			return ErrNotImplemented
		}
		if len(data) != b.n {
			return ErrLengthMismatch
		}
		for i, v := range data {
			binary.LittleEndian.PutUint32(raw[4*i:], uint32(v))
		}
	default:
		return ErrNotImplemented
	}

	dev := b.ctx.backend
	staging := dev.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             b.size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()
	//nolint:gosec // mapped range is exactly b.size bytes
	copy(unsafe.Slice((*byte)(staging.GetMappedRange(0, b.size)), b.size), raw)
	staging.Unmap()

	encoder := dev.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, b.buf, 0, b.size)
	dev.queue.Submit(encoder.Finish(nil))
	return nil
}

// Download widens the device results back to complex128.
func (b *webgpuBuffer) Download(dst any) error {
	out, ok := dst.([]complex128)
	if !ok || b.kind != ElementComplex128 {
		return ErrNotImplemented
	}
	if len(out) != b.n {
		return ErrLengthMismatch
	}

	dev := b.ctx.backend
	staging := dev.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  b.size,
	})
	defer staging.Release()

	encoder := dev.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(b.buf, 0, staging, 0, b.size)
	dev.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(dev.device, wgpu.MapModeRead, 0, b.size); err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	//nolint:gosec // mapped range is exactly b.size bytes
	raw := unsafe.Slice((*byte)(staging.GetMappedRange(0, b.size)), b.size)
	for i := range out {
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[8*i:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[8*i+4:]))
		out[i] = complex(float64(re), float64(im))
	}
	staging.Unmap()
	return nil
}

func (b *webgpuBuffer) Close() error {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
	return nil
}

// webgpuStream relies on queue ordering: a Download submitted after a launch
// maps its staging copy only once the launch has completed.
type webgpuStream struct{}

func (s *webgpuStream) Synchronize() error { return nil }
func (s *webgpuStream) Close() error       { return nil }

type webgpuKernel struct {
	ctx       *webgpuContext
	pipelines map[Dims]*wgpu.ComputePipeline
	shaders   []*wgpu.ShaderModule
}

func (k *webgpuKernel) pipeline(block Dims) *wgpu.ComputePipeline {
	if p, ok := k.pipelines[block]; ok {
		return p
	}
	if k.pipelines == nil {
		k.pipelines = make(map[Dims]*wgpu.ComputePipeline)
	}
	dev := k.ctx.backend.device
	shader := dev.CreateShaderModuleWGSL(transformShader(block))
	p := dev.CreateComputePipelineSimple(nil, shader, "main")
	k.shaders = append(k.shaders, shader)
	k.pipelines[block] = p
	return p
}

func (k *webgpuKernel) Launch(s Stream, args KernelArgs, block Dims) error {
	if _, ok := s.(*webgpuStream); !ok {
		return fmt.Errorf("webgpu kernel: foreign stream %T: %w", s, ErrNotImplemented)
	}
	if block.X <= 0 || block.Y <= 0 {
		return fmt.Errorf("webgpu kernel: block %dx%d: %w", block.X, block.Y, ErrInvalidLength)
	}
	if err := args.validate(); err != nil {
		return fmt.Errorf("webgpu kernel: %w", err)
	}

	bufs := []Buffer{args.Values, args.Times, args.Weights, args.Omegas, args.SampleLens, args.OmegaLens, args.Out}
	entries := make([]wgpu.BindGroupEntry, 0, len(bufs)+1)
	for i, b := range bufs {
		wb, ok := b.(*webgpuBuffer)
		if !ok {
			return fmt.Errorf("webgpu kernel: foreign buffer %T: %w", b, ErrNotImplemented)
		}
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), wb.buf, 0, wb.size))
	}

	dev := k.ctx.backend
	params := make([]byte, 32)
	binary.LittleEndian.PutUint32(params[0:], uint32(args.Series))
	binary.LittleEndian.PutUint32(params[4:], uint32(args.Stride))
	binary.LittleEndian.PutUint32(params[8:], uint32(args.Frequencies))
	binary.LittleEndian.PutUint32(params[16:], math.Float32bits(float32(args.Sign)))
	binary.LittleEndian.PutUint32(params[20:], math.Float32bits(float32(args.TimeZero)))
	uniform := dev.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             uint64(len(params)),
		MappedAtCreation: wgpu.True,
	})
	defer uniform.Release()
	//nolint:gosec // mapped range is exactly len(params) bytes
	copy(unsafe.Slice((*byte)(uniform.GetMappedRange(0, uint64(len(params)))), len(params)), params)
	uniform.Unmap()
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(bufs)), uniform, 0, uint64(len(params))))

	pipeline := k.pipeline(block)
	bindGroup := dev.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), entries)
	defer bindGroup.Release()

	grid := args.Grid().Blocks(block)
	encoder := dev.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32(grid.X), uint32(grid.Y), 1)
	pass.End()
	dev.queue.Submit(encoder.Finish(nil))
	return nil
}

func (k *webgpuKernel) Close() error {
	for _, p := range k.pipelines {
		p.Release()
	}
	for _, s := range k.shaders {
		s.Release()
	}
	k.pipelines, k.shaders = nil, nil
	return nil
}

func transformShader(block Dims) string {
	return fmt.Sprintf(transformWGSL, block.X, block.Y)
}

const transformWGSL = `
struct Params {
    series: u32,
    stride: u32,
    freqs: u32,
    _pad0: u32,
    sign: f32,
    t0: f32,
    _pad1: f32,
    _pad2: f32,
};

@group(0) @binding(0) var<storage, read> values: array<f32>;
@group(0) @binding(1) var<storage, read> times: array<f32>;
@group(0) @binding(2) var<storage, read> weights: array<f32>;
@group(0) @binding(3) var<storage, read> omegas: array<f32>;
@group(0) @binding(4) var<storage, read> sample_lens: array<u32>;
@group(0) @binding(5) var<storage, read> omega_lens: array<u32>;
@group(0) @binding(6) var<storage, read_write> out: array<vec2<f32>>;
@group(0) @binding(7) var<uniform> params: Params;

@compute @workgroup_size(%d, %d, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let col = gid.x;
    let row = gid.y;
    if (row >= params.series || col >= omega_lens[row]) {
        return;
    }
    let n = sample_lens[row];
    let base = row * params.stride;
    let idx = row * params.freqs + col;
    let omega = omegas[idx];

    if (omega == 0.0) {
        var swv = 0.0;
        var sw = 0.0;
        for (var i = 0u; i < n; i = i + 1u) {
            swv = swv + values[base + i];
            sw = sw + weights[base + i];
        }
        out[idx] = vec2<f32>(swv / sw / sqrt(f32(n)), 0.0);
        return;
    }

    var cs = 0.0;
    var ss = 0.0;
    for (var i = 0u; i < n; i = i + 1u) {
        let a = 2.0 * omega * times[base + i];
        cs = cs + weights[base + i] * cos(a);
        ss = ss + weights[base + i] * sin(a);
    }
    let tau = 0.5 * atan2(ss, cs);

    var sumr = 0.0;
    var sumi = 0.0;
    var scos2 = 0.0;
    var ssin2 = 0.0;
    for (var i = 0u; i < n; i = i + 1u) {
        let a = omega * times[base + i] - tau;
        let c = cos(a);
        let s = sin(a);
        let w = weights[base + i];
        sumr = sumr + values[base + i] * c;
        sumi = sumi + values[base + i] * s;
        scos2 = scos2 + w * c * c;
        ssin2 = ssin2 + w * s * s;
    }

    let re = sumr / sqrt(2.0 * scos2);
    let im = params.sign * sumi / sqrt(2.0 * ssin2);
    let phi = tau - omega * params.t0;
    out[idx] = vec2<f32>(re * cos(phi) - im * sin(phi), re * sin(phi) + im * cos(phi));
}
`
