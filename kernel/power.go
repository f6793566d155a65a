package kernel

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nuft/core"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	buf.data = core.EnsureLen(buf.data, 2*n)
	return buf.data[:n], buf.data[n : 2*n], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// PowerFromCoefficients recovers the Lomb-Scargle power from coefficients that
// were produced for omegas. Because the phase factor has unit modulus,
// power = 2*|X|^2 for omega != 0 and |X|^2 at omega == 0.
//
// dst, coeffs and omegas must have the same length. This lets executors that
// only produce coefficients, such as the GPU path, report power as well.
func PowerFromCoefficients(dst []float64, coeffs []complex128, omegas []float64) error {
	if len(coeffs) != len(omegas) || len(dst) != len(coeffs) {
		return fmt.Errorf("kernel: power lengths dst=%d coeffs=%d omegas=%d: %w",
			len(dst), len(coeffs), len(omegas), core.ErrShapeMismatch)
	}
	if len(coeffs) == 0 {
		return nil
	}

	re, im, buf := getScratch(len(coeffs))
	defer putScratch(buf)
	for i, c := range coeffs {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst, re, im)
	vecmath.ScaleBlock(dst, dst, 2)
	for i, omega := range omegas {
		if omega == 0 {
			dst[i] *= 0.5
		}
	}
	return nil
}
