package ragged_test

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-nuft/ragged"
)

func ExampleNormalize() {
	b, err := ragged.Normalize(
		ragged.PerSeries([][]float64{{1, 2, 3}, {1, 2, 3, 4, 5}}),
		ragged.PerSeries([][]float64{{0, 1, 2}, {0, 1, 2, 3, 4}}),
		ragged.PerSeries([][]float64{{0.5, 1}, {0.5, 1, 1.5, 2}}),
		ragged.Input{},
		slog.Default(),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	res := b.NewResult()
	fmt.Println(b.Series(), res.Stride(), res.Lengths())
	// Output: 2 4 [2 4]
}

func ExampleFromRows() {
	a := ragged.FromRows([][]float64{{1, 2}, {3}})
	fmt.Println(a.Row(1), a.Padded(1))
	// Output: [3] [3 0]
}
