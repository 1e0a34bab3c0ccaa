// Package eval scores imputed matrices against ground truth.
package eval

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lacunabench/lacuna/mask"
)

// Evaluator is an interface for scoring an imputed matrix against the ground
// truth matrix, restricted to a set of masked positions.
type Evaluator interface {
	Score(imputed, truth mat.Matrix, at mask.Mask) float64
	Name() string
}

// MSE scores the mean squared error over masked positions. It is the sole
// accuracy measure of the benchmark.
var MSE Evaluator = meanSquaredError{}

type meanSquaredError struct{}

func (meanSquaredError) Name() string {
	return "mse"
}

func (meanSquaredError) Score(imputed, truth mat.Matrix, at mask.Mask) float64 {
	var (
		sum float64
		n   int
	)
	for i := range at {
		for j := range at[i] {
			if at[i][j] {
				d := imputed.At(i, j) - truth.At(i, j)
				sum += d * d
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
