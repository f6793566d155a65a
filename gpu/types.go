package gpu

import "fmt"

// ElementKind is the element type of a device buffer.
type ElementKind uint8

const (
	ElementFloat64 ElementKind = iota
	ElementInt32
	ElementComplex128
)

func (k ElementKind) String() string {
	switch k {
	case ElementFloat64:
		return "float64"
	case ElementInt32:
		return "int32"
	case ElementComplex128:
		return "complex128"
	default:
		return fmt.Sprintf("ElementKind(%d)", uint8(k))
	}
}

// DeviceInfo describes a device.
type DeviceInfo struct {
	Name    string
	Vendor  string
	Driver  string
	Threads int
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
	// Precision is the floating-point width used on the device, 32 or 64.
	Precision int
}

// Dims is a two-dimensional extent. X runs over frequencies, Y over series.
type Dims struct {
	X, Y int
}

// Blocks returns the number of blocks of size block needed to cover d.
func (d Dims) Blocks(block Dims) Dims {
	return Dims{
		X: (d.X + block.X - 1) / block.X,
		Y: (d.Y + block.Y - 1) / block.Y,
	}
}

// KernelArgs binds device buffers for one launch. Sample buffers are
// Series x Stride, frequency and output buffers Series x Frequencies, length
// buffers have one int32 per series.
//
// Values must already be multiplied by Weights. Weights is all ones for
// unweighted batches.
type KernelArgs struct {
	Values     Buffer
	Times      Buffer
	Weights    Buffer
	Omegas     Buffer
	SampleLens Buffer
	OmegaLens  Buffer
	Out        Buffer

	Series      int
	Stride      int
	Frequencies int

	Sign     float64
	TimeZero float64
}

// Grid is the launch extent: one unit per output cell.
func (a KernelArgs) Grid() Dims {
	return Dims{X: a.Frequencies, Y: a.Series}
}

func (a KernelArgs) validate() error {
	if a.Series <= 0 || a.Stride <= 0 || a.Frequencies <= 0 {
		return fmt.Errorf("launch %dx%d stride %d: %w", a.Series, a.Frequencies, a.Stride, ErrInvalidLength)
	}
	checks := []struct {
		name string
		buf  Buffer
		kind ElementKind
		n    int
	}{
		{"values", a.Values, ElementFloat64, a.Series * a.Stride},
		{"times", a.Times, ElementFloat64, a.Series * a.Stride},
		{"weights", a.Weights, ElementFloat64, a.Series * a.Stride},
		{"omegas", a.Omegas, ElementFloat64, a.Series * a.Frequencies},
		{"sample lengths", a.SampleLens, ElementInt32, a.Series},
		{"omega lengths", a.OmegaLens, ElementInt32, a.Series},
		{"out", a.Out, ElementComplex128, a.Series * a.Frequencies},
	}
	for _, c := range checks {
		if c.buf == nil {
			return fmt.Errorf("%s buffer missing: %w", c.name, ErrNotImplemented)
		}
		if c.buf.Kind() != c.kind {
			return fmt.Errorf("%s buffer is %s, want %s: %w", c.name, c.buf.Kind(), c.kind, ErrNotImplemented)
		}
		if c.buf.Len() != c.n {
			return fmt.Errorf("%s buffer has %d elements, want %d: %w", c.name, c.buf.Len(), c.n, ErrLengthMismatch)
		}
	}
	return nil
}
