package impute

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MatrixFactorization fills missing entries with a low-rank reconstruction
// fit by alternating ridge least squares over the observed entries.
// Parameterized by the target rank and the l2_penalty regularization
// strength. Factor initialization is drawn from an internally seeded
// generator, so repeated calls with the same input are deterministic.
type MatrixFactorization struct {
	seed    int64
	maxIter int
	tol     float64
}

// NewMatrixFactorization creates a matrix factorization imputer whose factor
// initialization is derived from seed.
func NewMatrixFactorization(seed int64) *MatrixFactorization {
	return &MatrixFactorization{
		seed:    seed,
		maxIter: 50,
		tol:     1e-5,
	}
}

func (*MatrixFactorization) Name() string {
	return "matrix_factorization"
}

func (m *MatrixFactorization) FitTransform(x *mat.Dense, params Params) (*mat.Dense, error) {
	rows, cols := x.Dims()
	rank := int(params["rank"])
	l2 := params["l2_penalty"]
	// An overparameterized rank is fine with l2 > 0; only a non-positive
	// rank has no factorization at all.
	if rank < 1 {
		return nil, errors.Errorf("matrix_factorization: invalid rank %d", rank)
	}
	if l2 < 0 {
		return nil, errors.Errorf("matrix_factorization: negative l2_penalty %v", l2)
	}

	// Observed entries indexed by row and by column.
	var (
		rowIdx = make([][]int, rows)
		rowVal = make([][]float64, rows)
		colIdx = make([][]int, cols)
		colVal = make([][]float64, cols)
		nObs   int
	)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); observed(v) {
				rowIdx[i] = append(rowIdx[i], j)
				rowVal[i] = append(rowVal[i], v)
				colIdx[j] = append(colIdx[j], i)
				colVal[j] = append(colVal[j], v)
				nObs++
			}
		}
	}
	if nObs == 0 {
		return nil, errors.New("matrix_factorization: no observed entries")
	}

	rng := rand.New(rand.NewSource(m.seed))
	u := mat.NewDense(rows, rank, nil)
	v := mat.NewDense(cols, rank, nil)
	for i := 0; i < rows; i++ {
		for r := 0; r < rank; r++ {
			u.Set(i, r, 0.1*rng.NormFloat64())
		}
	}
	for j := 0; j < cols; j++ {
		for r := 0; r < rank; r++ {
			v.Set(j, r, 0.1*rng.NormFloat64())
		}
	}

	prev := math.Inf(1)
	for iter := 0; iter < m.maxIter; iter++ {
		if err := solveFactor(u, v, rowIdx, rowVal, l2); err != nil {
			return nil, errors.Wrap(err, "matrix_factorization: row update")
		}
		if err := solveFactor(v, u, colIdx, colVal, l2); err != nil {
			return nil, errors.Wrap(err, "matrix_factorization: column update")
		}

		var loss float64
		for i := 0; i < rows; i++ {
			for n, j := range rowIdx[i] {
				d := rowVal[i][n] - dot(u, i, v, j)
				loss += d * d
			}
		}
		loss /= float64(nObs)
		logger.Printf("matrix_factorization rank=%d l2=%g iter=%d loss=%g", rank, l2, iter, loss)

		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, errors.Errorf("matrix_factorization: diverged at iteration %d", iter)
		}
		if math.Abs(prev-loss) < m.tol*math.Max(loss, 1) {
			break
		}
		prev = loss
	}

	out := mat.DenseCopyOf(x)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !observed(x.At(i, j)) {
				out.Set(i, j, dot(u, i, v, j))
			}
		}
	}
	return out, nil
}

// solveFactor updates each row f of target to minimize the ridge least
// squares objective sum_n (vals[f][n] - target_f . fixed_{idx[f][n]})^2 +
// l2 |target_f|^2, holding fixed constant. Rows with no observed entries are
// left untouched.
func solveFactor(target, fixed *mat.Dense, idx [][]int, vals [][]float64, l2 float64) error {
	_, rank := target.Dims()
	for f := range idx {
		if len(idx[f]) == 0 {
			continue
		}

		g := mat.NewDense(rank, rank, nil)
		rhs := mat.NewDense(rank, 1, nil)
		for r := 0; r < rank; r++ {
			g.Set(r, r, l2)
		}
		for n, other := range idx[f] {
			for a := 0; a < rank; a++ {
				fa := fixed.At(other, a)
				rhs.Set(a, 0, rhs.At(a, 0)+vals[f][n]*fa)
				for b := 0; b < rank; b++ {
					g.Set(a, b, g.At(a, b)+fa*fixed.At(other, b))
				}
			}
		}

		var sol mat.Dense
		if err := sol.Solve(g, rhs); err != nil {
			return errors.Wrapf(err, "singular system for factor row %d", f)
		}
		for r := 0; r < rank; r++ {
			target.Set(f, r, sol.At(r, 0))
		}
	}
	return nil
}

// dot is the inner product of row a of u with row b of v.
func dot(u *mat.Dense, a int, v *mat.Dense, b int) float64 {
	_, rank := u.Dims()
	var s float64
	for r := 0; r < rank; r++ {
		s += u.At(a, r) * v.At(b, r)
	}
	return s
}
