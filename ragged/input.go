package ragged

import (
	"fmt"

	"github.com/cwbudde/algo-nuft/core"
)

// Kind tags the shape of an Input.
type Kind uint8

const (
	// KindAbsent is the zero Input; only valid for weights.
	KindAbsent Kind = iota
	// KindShared is a single row applied identically to every series.
	KindShared
	// KindPerSeries is one row per series; rows may differ in length.
	KindPerSeries
	// KindMatrix is a dense row-major rows x cols block.
	KindMatrix
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindShared:
		return "shared"
	case KindPerSeries:
		return "per-series"
	case KindMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Input describes one batch operand: values, times, frequencies or weights.
// The zero value is an absent operand.
type Input struct {
	kind Kind
	row  []float64
	rows [][]float64
	data []float64
	nrow int
	ncol int
}

// Shared broadcasts row to every series.
func Shared(row []float64) Input {
	return Input{kind: KindShared, row: row}
}

// PerSeries supplies one row per series. Rows may have different lengths.
func PerSeries(rows [][]float64) Input {
	return Input{kind: KindPerSeries, rows: rows}
}

// Matrix supplies a dense row-major block with one row per series.
// len(data) must equal rows*cols; this is checked by Normalize.
func Matrix(data []float64, rows, cols int) Input {
	return Input{kind: KindMatrix, data: data, nrow: rows, ncol: cols}
}

// Kind returns the shape tag.
func (in Input) Kind() Kind { return in.kind }

// Rows returns the number of rows: 1 for shared, 0 for absent.
func (in Input) Rows() int {
	switch in.kind {
	case KindShared:
		return 1
	case KindPerSeries:
		return len(in.rows)
	case KindMatrix:
		return in.nrow
	default:
		return 0
	}
}

// Row returns row i. For shared inputs every index maps to the single row.
func (in Input) Row(i int) []float64 {
	switch in.kind {
	case KindShared:
		return in.row
	case KindPerSeries:
		return in.rows[i]
	case KindMatrix:
		return in.data[i*in.ncol : (i+1)*in.ncol]
	default:
		return nil
	}
}

func (in Input) shape() string {
	switch in.kind {
	case KindShared:
		return fmt.Sprintf("shared(%d)", len(in.row))
	case KindPerSeries:
		return fmt.Sprintf("per-series(%d rows, max %d)", len(in.rows), core.MaxLen(in.rows))
	case KindMatrix:
		return fmt.Sprintf("matrix(%dx%d)", in.nrow, in.ncol)
	default:
		return "absent"
	}
}

// rectangular reports whether every row has the same length.
func (in Input) rectangular() bool {
	switch in.kind {
	case KindShared, KindMatrix:
		return true
	case KindPerSeries:
		for _, r := range in.rows {
			if len(r) != len(in.rows[0]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// width returns the length of the longest row.
func (in Input) width() int {
	switch in.kind {
	case KindShared:
		return len(in.row)
	case KindPerSeries:
		return core.MaxLen(in.rows)
	case KindMatrix:
		return in.ncol
	default:
		return 0
	}
}

func (in Input) validate(name string) error {
	if in.kind != KindMatrix {
		return nil
	}
	if in.nrow < 0 || in.ncol < 0 || len(in.data) != in.nrow*in.ncol {
		return fmt.Errorf("ragged: %s matrix data length %d != %d x %d: %w",
			name, len(in.data), in.nrow, in.ncol, core.ErrShapeMismatch)
	}
	return nil
}

func (in Input) arena() *Arena[float64] {
	switch in.kind {
	case KindShared:
		return FromRows([][]float64{in.row})
	case KindPerSeries:
		return FromRows(in.rows)
	case KindMatrix:
		return wrapDense(in.data, in.nrow, in.ncol)
	default:
		return nil
	}
}
