package kernel

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-nuft/internal/testutil"
)

func BenchmarkPrepared_Into(b *testing.B) {
	sizes := []int{64, 256, 1024}
	bins := []int{16, 128}
	for _, n := range sizes {
		for _, nb := range bins {
			b.Run(fmt.Sprintf("%dx%d", n, nb), func(b *testing.B) {
				times := testutil.IrregularTimes(1, n, 100)
				p, err := Prepare(Series{Values: testutil.DeterministicNoise(2, 1, n), Times: times})
				if err != nil {
					b.Fatal(err)
				}
				omegas := make([]float64, nb)
				for i := range omegas {
					omegas[i] = 0.01 * float64(i+1)
				}
				dst := make([]complex128, nb)
				b.ResetTimer()
				for range b.N {
					_ = p.Into(dst, nil, omegas, 1, 0)
				}
			})
		}
	}
}

func BenchmarkPrepared_ProjectInto(b *testing.B) {
	const n, nb = 1024, 128
	times := testutil.IrregularTimes(1, n, 100)
	omegas := make([]float64, nb)
	for i := range omegas {
		omegas[i] = 0.01 * float64(i+1)
	}
	basis, err := NewBasis(times, nil, omegas)
	if err != nil {
		b.Fatal(err)
	}
	p, err := Prepare(Series{Values: testutil.DeterministicNoise(2, 1, n), Times: times})
	if err != nil {
		b.Fatal(err)
	}
	dst := make([]complex128, nb)
	b.ResetTimer()
	for range b.N {
		_ = p.ProjectInto(dst, nil, basis, 1, 0)
	}
}
