package search_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/lacunabench/lacuna/impute"
	"github.com/lacunabench/lacuna/mask"
	"github.com/lacunabench/lacuna/search"
)

// recordingImputer counts invocations and tracks the fewest missing
// sentinels seen in any input, returning a fixed fill.
type recordingImputer struct {
	calls   int
	minNaNs int
	fill    float64
}

func newRecordingImputer(fill float64) *recordingImputer {
	return &recordingImputer{minNaNs: math.MaxInt, fill: fill}
}

func (r *recordingImputer) Name() string { return "recording" }

func (r *recordingImputer) FitTransform(x *mat.Dense, _ impute.Params) (*mat.Dense, error) {
	r.calls++
	rows, cols := x.Dims()
	var nans int
	out := mat.DenseCopyOf(x)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(x.At(i, j)) {
				nans++
				out.Set(i, j, r.fill)
			}
		}
	}
	if nans < r.minNaNs {
		r.minNaNs = nans
	}
	return out, nil
}

func randomMatrix(rng *rand.Rand, rows, cols int) *mat.Dense {
	x := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}
	return x
}

func TestSearchInvokesImputerPerCandidatePlusRefit(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x := randomMatrix(rng, 30, 4)
	m, err := mask.Generate(rng, x, 10, true)
	require.NoError(t, err)

	imp := newRecordingImputer(0)
	grid := search.Grid{
		{Name: "a", Values: []float64{1, 2}},
		{Name: "b", Values: []float64{1, 2, 3}},
	}

	_, _, err = search.Search(imp, grid, x, m, search.WithRand(rng))
	require.NoError(t, err)
	assert.Equal(t, 7, imp.calls, "6 candidates plus one refit")
}

func TestSearchNeverUnmasksEvaluationEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := randomMatrix(rng, 40, 5)
	m, err := mask.Generate(rng, x, 20, true)
	require.NoError(t, err)

	imp := newRecordingImputer(0)
	_, _, err = search.Search(imp, nil, x, m, search.WithRand(rng))
	require.NoError(t, err)

	// Candidate fits hide the validation entries on top of the evaluation
	// mask; the refit hides exactly the evaluation mask. Never fewer.
	assert.GreaterOrEqual(t, imp.minNaNs, m.Count())
}

func TestSearchTieBrokenByEnumerationOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	x := randomMatrix(rng, 20, 4)
	m, err := mask.Generate(rng, x, 10, true)
	require.NoError(t, err)

	// Every candidate produces the identical output, so every candidate
	// ties; the first in enumeration order must win.
	imp := newRecordingImputer(0)
	grid := search.Grid{{Name: "k", Values: []float64{1, 2, 3}}}

	_, params, err := search.Search(imp, grid, x, m, search.WithRand(rng))
	require.NoError(t, err)
	assert.Equal(t, 1.0, params["k"])
}

func TestSearchScoreNonNegativeAndZeroOnExactReconstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	x := randomMatrix(rng, 25, 4)
	m, err := mask.Generate(rng, x, 15, true)
	require.NoError(t, err)

	mse, _, err := search.Search(impute.NewMeanFill(), nil, x, m, search.WithRand(rng))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, mse, 0.0)

	// An oracle that reproduces the ground truth at every masked position
	// scores exactly zero.
	oracle := oracleImputer{truth: x}
	mse, _, err = search.Search(oracle, nil, x, m, search.WithRand(rng))
	require.NoError(t, err)
	assert.Zero(t, mse)
}

type oracleImputer struct {
	truth *mat.Dense
}

func (oracleImputer) Name() string { return "oracle" }

func (o oracleImputer) FitTransform(*mat.Dense, impute.Params) (*mat.Dense, error) {
	return mat.DenseCopyOf(o.truth), nil
}

func TestSearchMeanFillScoresHeldOutDeviation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := randomMatrix(rng, 100, 5)
	m, err := mask.Generate(rng, x, 10, true)
	require.NoError(t, err)

	mse, _, err := search.Search(impute.NewMeanFill(), nil, x, m, search.WithRand(rng))
	require.NoError(t, err)

	// The refit fills each held-out entry with the mean of its column's
	// observed values, so the score is the mean squared deviation of the
	// held-out truth from those means.
	means := make([]float64, 5)
	counts := make([]int, 5)
	for i := 0; i < 100; i++ {
		for j := 0; j < 5; j++ {
			if !m[i][j] {
				means[j] += x.At(i, j)
				counts[j]++
			}
		}
	}
	for j := range means {
		means[j] /= float64(counts[j])
	}
	var want float64
	for i := 0; i < 100; i++ {
		for j := 0; j < 5; j++ {
			if m[i][j] {
				d := x.At(i, j) - means[j]
				want += d * d
			}
		}
	}
	want /= float64(m.Count())

	assert.InDelta(t, want, mse, 1e-12)
}

func TestSearchKNNOnDuplicatedRows(t *testing.T) {
	// Every row has an exact duplicate, so the 1-nearest neighbour
	// reconstructs any masked entry perfectly at refit.
	rng := rand.New(rand.NewSource(8))
	x := mat.NewDense(10, 4, nil)
	for i := 0; i < 10; i += 2 {
		for j := 0; j < 4; j++ {
			v := rng.NormFloat64()
			x.Set(i, j, v)
			x.Set(i+1, j, v)
		}
	}
	m := mask.New(10, 4)
	m[0][0] = true
	m[2][1] = true
	m[4][2] = true

	grid := search.Grid{{Name: "k", Values: []float64{1}}}
	mse, _, err := search.Search(impute.NewKNN(), grid, x, m, search.WithRand(rng))
	require.NoError(t, err)
	assert.Zero(t, mse)
}

func TestSearchRejectsFullyMaskedInput(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	m := mask.New(2, 2)
	for i := range m {
		for j := range m[i] {
			m[i][j] = true
		}
	}

	_, _, err := search.Search(impute.NewMeanFill(), nil, x, m)
	assert.Error(t, err)
}

func TestGridCandidates(t *testing.T) {
	grid := search.Grid{
		{Name: "rank", Values: []float64{5, 10}},
		{Name: "l2_penalty", Values: []float64{1e-3, 1e-5}},
	}

	candidates := grid.Candidates()
	require.Len(t, candidates, 4)
	// The last axis varies fastest.
	assert.Equal(t, impute.Params{"rank": 5, "l2_penalty": 1e-3}, candidates[0])
	assert.Equal(t, impute.Params{"rank": 5, "l2_penalty": 1e-5}, candidates[1])
	assert.Equal(t, impute.Params{"rank": 10, "l2_penalty": 1e-3}, candidates[2])
	assert.Equal(t, impute.Params{"rank": 10, "l2_penalty": 1e-5}, candidates[3])
}

func TestGridEmptyYieldsOneCandidate(t *testing.T) {
	candidates := search.Grid{}.Candidates()
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0])
}
