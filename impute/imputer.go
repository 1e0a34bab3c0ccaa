// Package impute implements the imputer families exercised by the benchmark.
//
// Every family is reached through the same contract: a matrix in which
// missing entries are NaN goes in, a matrix of the same shape with every
// entry filled comes out. Observed entries may or may not be altered, so
// callers must only inspect positions that were missing. Failures such as a
// diverging factorization or an invalid hyperparameter are returned as
// errors and never suppressed.
package impute

import (
	"io"
	"log"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Params carries the hyperparameters for a single FitTransform call, keyed
// by parameter name.
type Params map[string]float64

// Imputer is the capability interface shared by the imputer families. The
// families share no structure beyond this contract.
type Imputer interface {
	// Name identifies the family in result records and grids.
	Name() string
	// FitTransform fills every NaN entry of x and returns the completed
	// matrix. x itself is never modified.
	FitTransform(x *mat.Dense, params Params) (*mat.Dense, error)
}

// Iterative families log per-iteration diagnostics through this logger,
// which is discarded by default. Errors are returned, never logged, so
// discarding the writer raises the effective severity to error only.
var logger = log.New(io.Discard, "impute: ", log.LstdFlags)

// SetLogOutput redirects imputer diagnostics, e.g. to os.Stderr for a
// verbose run.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func observed(v float64) bool {
	return !math.IsNaN(v)
}

// columnMeans returns the per-column mean over observed entries. A column
// with no observed entry at all cannot be imputed by any family and is an
// error.
func columnMeans(x *mat.Dense) ([]float64, error) {
	rows, cols := x.Dims()
	means := make([]float64, cols)
	for j := 0; j < cols; j++ {
		var (
			sum float64
			n   int
		)
		for i := 0; i < rows; i++ {
			if v := x.At(i, j); observed(v) {
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil, errors.Errorf("impute: column %d has no observed values", j)
		}
		means[j] = sum / float64(n)
	}
	return means, nil
}
