package ragged

import "github.com/cwbudde/algo-nuft/core"

// Element is the set of element types an Arena can hold.
type Element interface {
	~float64 | ~complex128
}

// Arena is a ragged two-dimensional array stored as one rectangular buffer.
// Row i occupies data[i*stride : (i+1)*stride]; only its first Len(i) entries
// are meaningful and the remainder is zero.
type Arena[T Element] struct {
	data    []T
	stride  int
	lengths []int
}

// NewArena returns a zero-filled arena whose rows all have length zero.
func NewArena[T Element](rows, stride int) *Arena[T] {
	if rows < 0 {
		rows = 0
	}
	if stride < 0 {
		stride = 0
	}
	return &Arena[T]{
		data:    make([]T, rows*stride),
		stride:  stride,
		lengths: make([]int, rows),
	}
}

// FromRows copies rows into a new arena padded to the longest row.
func FromRows[T Element](rows [][]T) *Arena[T] {
	a := NewArena[T](len(rows), core.MaxLen(rows))
	for i, r := range rows {
		a.lengths[i] = core.CopyInto(a.Padded(i), r)
	}
	return a
}

// wrapDense views data as a fully populated rows x cols arena without copying.
func wrapDense[T Element](data []T, rows, cols int) *Arena[T] {
	lengths := make([]int, rows)
	for i := range lengths {
		lengths[i] = cols
	}
	return &Arena[T]{data: data[:rows*cols], stride: cols, lengths: lengths}
}

// Rows returns the number of rows.
func (a *Arena[T]) Rows() int { return len(a.lengths) }

// Stride returns the padded row width.
func (a *Arena[T]) Stride() int { return a.stride }

// Len returns the valid length of row i.
func (a *Arena[T]) Len(i int) int { return a.lengths[i] }

// SetLen sets the valid length of row i, clamped to [0, Stride()].
func (a *Arena[T]) SetLen(i, n int) {
	a.lengths[i] = max(0, min(n, a.stride))
}

// Lengths returns a copy of the per-row valid lengths.
func (a *Arena[T]) Lengths() []int {
	return append([]int(nil), a.lengths...)
}

// Data returns the backing row-major buffer, padding included.
func (a *Arena[T]) Data() []T { return a.data }

// Row returns the valid part of row i. The slice aliases the arena.
func (a *Arena[T]) Row(i int) []T {
	off := i * a.stride
	end := off + a.lengths[i]
	return a.data[off:end:end]
}

// Padded returns row i including its zero padding. The slice aliases the arena.
func (a *Arena[T]) Padded(i int) []T {
	off := i * a.stride
	return a.data[off : off+a.stride : off+a.stride]
}

// Ragged returns one slice per row trimmed to its valid length.
func (a *Arena[T]) Ragged() [][]T {
	out := make([][]T, a.Rows())
	for i := range out {
		out[i] = a.Row(i)
	}
	return out
}

// Dense returns one slice per row including zero padding.
func (a *Arena[T]) Dense() [][]T {
	out := make([][]T, a.Rows())
	for i := range out {
		out[i] = a.Padded(i)
	}
	return out
}

// Widen returns a copy of the arena with the given stride. The extra columns
// are zero and the valid lengths are unchanged. If stride does not exceed the
// current stride, a itself is returned.
func (a *Arena[T]) Widen(stride int) *Arena[T] {
	if stride <= a.stride {
		return a
	}
	out := NewArena[T](a.Rows(), stride)
	for i := range a.lengths {
		core.CopyInto(out.Padded(i), a.Padded(i))
		out.lengths[i] = a.lengths[i]
	}
	return out
}

// Broadcast returns an arena with rows copies of row 0.
func (a *Arena[T]) Broadcast(rows int) *Arena[T] {
	out := NewArena[T](rows, a.stride)
	if a.Rows() == 0 {
		return out
	}
	for i := range rows {
		core.CopyInto(out.Padded(i), a.Padded(0))
		out.lengths[i] = a.lengths[0]
	}
	return out
}

// Clone returns a deep copy of the arena.
func (a *Arena[T]) Clone() *Arena[T] {
	return &Arena[T]{
		data:    append([]T(nil), a.data...),
		stride:  a.stride,
		lengths: a.Lengths(),
	}
}
