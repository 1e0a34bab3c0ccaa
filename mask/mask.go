// Package mask generates missingness masks over dense matrices.
//
// A mask marks the entries of a matrix that the harness treats as missing.
// Two generation mechanisms are provided: missing-at-random, where each
// entry is masked independently with a fixed probability, and
// missing-not-at-random, where the masked rows of a column are selected by
// the values of another, fully observed column.
package mask

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Mask is a dense boolean grid with the same shape as the matrix it masks.
// A true entry marks a position designated missing.
type Mask [][]bool

// New creates an empty mask of the given shape.
func New(rows, cols int) Mask {
	m := make(Mask, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

// Dims returns the shape of the mask.
func (m Mask) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Count returns the number of masked entries.
func (m Mask) Count() int {
	var n int
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				n++
			}
		}
	}
	return n
}

// Or returns a new mask with the entries masked in either m or o.
// Both masks must have the same shape.
func (m Mask) Or(o Mask) Mask {
	rows, cols := m.Dims()
	u := New(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			u[i][j] = m[i][j] || o[i][j]
		}
	}
	return u
}

// Apply returns a copy of x with every masked entry set to NaN, the missing
// sentinel understood by the imputers. x itself is never modified.
func Apply(x mat.Matrix, m Mask) *mat.Dense {
	out := mat.DenseCopyOf(x)
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				out.Set(i, j, math.NaN())
			}
		}
	}
	return out
}

// Generate draws a missingness mask for x from rng.
//
// When missingAtRandom is true, each entry is masked independently with
// probability percentMissing/100. Otherwise a missing-not-at-random mask is
// drawn: a random count k in [2, cols) of affected columns is chosen, each
// affected column is paired with a random unaffected driver column, and a
// contiguous run of rows/k entries, taken from a random offset in the
// driver-sorted row order, is masked in the affected column. The run is
// strictly shorter than the column, so no column is ever fully masked, and
// driver columns remain fully observed.
//
// All randomness comes from rng; seeding it once per run makes mask draws
// reproducible.
func Generate(rng *rand.Rand, x mat.Matrix, percentMissing float64, missingAtRandom bool) (Mask, error) {
	rows, cols := x.Dims()
	m := New(rows, cols)

	if missingAtRandom {
		p := percentMissing / 100
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if rng.Float64() < p {
					m[i][j] = true
				}
			}
		}
		return m, nil
	}

	if cols < 3 {
		return nil, errors.Errorf("mask: structured missingness requires at least 3 columns, got %d", cols)
	}

	// Split the columns into affected and unaffected at random.
	nAffected := 2 + rng.Intn(cols-2)
	perm := rng.Perm(cols)
	affected := perm[:nAffected]
	unaffected := perm[nAffected:]

	run := rows / nAffected
	if rows-run-1 < 1 {
		return nil, errors.Errorf("mask: structured missingness requires more than %d rows, got %d", run+1, rows)
	}

	for _, col := range affected {
		// The missingness of this column depends on the values of a random
		// unaffected column.
		driver := unaffected[rng.Intn(len(unaffected))]

		order := argsortColumn(x, driver)
		start := rng.Intn(rows - run - 1)
		for _, row := range order[start : start+run] {
			m[row][col] = true
		}
	}

	return m, nil
}

// argsortColumn returns row indices ordered by ascending value in column j.
func argsortColumn(x mat.Matrix, j int) []int {
	rows, _ := x.Dims()
	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x.At(order[a], j) < x.At(order[b], j)
	})
	return order
}
