package ragged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRowsPadsWithZeros(t *testing.T) {
	a := FromRows([][]float64{{1, 2, 3}, {4}, {5, 6, 7, 8, 9}})
	require.Equal(t, 3, a.Rows())
	assert.Equal(t, 5, a.Stride())
	assert.Equal(t, []int{3, 1, 5}, a.Lengths())

	assert.Equal(t, []float64{1, 2, 3}, a.Row(0))
	assert.Equal(t, []float64{4, 0, 0, 0, 0}, a.Padded(1))
	assert.Equal(t, []float64{1, 2, 3, 0, 0, 4, 0, 0, 0, 0, 5, 6, 7, 8, 9}, a.Data())
}

func TestArenaRaggedAndDense(t *testing.T) {
	a := FromRows([][]complex128{{1, 2}, {3, 4, 5, 6}})
	rows := a.Ragged()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 4)

	dense := a.Dense()
	assert.Equal(t, []complex128{1, 2, 0, 0}, dense[0])
}

func TestArenaRowAppendKeepsPadding(t *testing.T) {
	a := FromRows([][]float64{{1}, {2, 3}})
	row := a.Row(0)
	row = append(row, 42)
	assert.Equal(t, []float64{1, 42}, row)
	assert.Equal(t, []float64{1, 0}, a.Padded(0))
	assert.Equal(t, []float64{2, 3}, a.Row(1))
}

func TestArenaWiden(t *testing.T) {
	a := FromRows([][]float64{{1, 2}, {3}})
	assert.Same(t, a, a.Widen(2))

	w := a.Widen(4)
	assert.Equal(t, 4, w.Stride())
	assert.Equal(t, []int{2, 1}, w.Lengths())
	assert.Equal(t, []float64{1, 2, 0, 0, 3, 0, 0, 0}, w.Data())
}

func TestArenaBroadcast(t *testing.T) {
	a := FromRows([][]float64{{7, 8, 9}})
	b := a.Broadcast(3)
	require.Equal(t, 3, b.Rows())
	for i := range 3 {
		assert.Equal(t, []float64{7, 8, 9}, b.Row(i))
	}
	assert.Equal(t, 0, NewArena[float64](0, 2).Broadcast(2).Len(1))
}

func TestArenaSetLenClamps(t *testing.T) {
	a := NewArena[float64](1, 3)
	a.SetLen(0, 10)
	assert.Equal(t, 3, a.Len(0))
	a.SetLen(0, -1)
	assert.Equal(t, 0, a.Len(0))
}

func TestArenaCloneIsIndependent(t *testing.T) {
	a := FromRows([][]float64{{1, 2}, {3}})
	c := a.Clone()
	a.Row(0)[0] = 9
	a.SetLen(1, 0)
	assert.Equal(t, []float64{1, 2}, c.Row(0))
	assert.Equal(t, []int{2, 1}, c.Lengths())
	assert.Equal(t, []float64{9, 2, 3, 0}, a.Data())
}

func TestNewArenaNegativeShape(t *testing.T) {
	a := NewArena[complex128](-1, -1)
	assert.Equal(t, 0, a.Rows())
	assert.Equal(t, 0, a.Stride())
}
