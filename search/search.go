package search

import (
	"log"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/lacunabench/lacuna/eval"
	"github.com/lacunabench/lacuna/impute"
	"github.com/lacunabench/lacuna/mask"
)

// DefaultValidation is the fraction of training-eligible entries resampled
// into the validation mask.
const DefaultValidation = 0.10

type options struct {
	validation float64
	rng        *rand.Rand
	evaluator  eval.Evaluator
}

// Option configures a search.
type Option func(*options)

// WithValidation overrides the validation fraction.
func WithValidation(fraction float64) Option {
	return func(o *options) {
		o.validation = fraction
	}
}

// WithRand sets the generator the validation resample draws from. The
// orchestrator passes its single run-wide generator here so draw order stays
// part of the reproducibility contract.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithEvaluator overrides the accuracy measure (MSE by default).
func WithEvaluator(e eval.Evaluator) Option {
	return func(o *options) {
		o.evaluator = e
	}
}

// Search grid-searches imp's hyperparameters on x and returns the held-out
// error under the best candidate, together with that candidate.
//
// Entries under evalMask are hidden from the imputer throughout. A
// validation subset is drawn from the remaining entries by sampling flat
// indices WITH replacement, so the realized validation mask may be smaller
// than the nominal draw count; that approximation is deliberate and
// preserved. Each candidate is fit on x with both masks hidden and scored
// on the validation positions; the winner (first encountered on ties) is
// refit with only evalMask hidden and scored on the evaluation positions.
// The imputer is invoked exactly len(candidates)+1 times.
func Search(imp impute.Imputer, grid Grid, x *mat.Dense, evalMask mask.Mask, opts ...Option) (float64, impute.Params, error) {
	o := options{
		validation: DefaultValidation,
		rng:        rand.New(rand.NewSource(0)),
		evaluator:  eval.MSE,
	}
	for _, opt := range opts {
		opt(&o)
	}

	candidates := grid.Candidates()

	// Flat indices of training-eligible entries.
	rows, cols := x.Dims()
	trainIdx := make([]int, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !evalMask[i][j] {
				trainIdx = append(trainIdx, i*cols+j)
			}
		}
	}
	if len(trainIdx) == 0 {
		return 0, nil, errors.Errorf("search: evaluation mask hides every entry of %s input", imp.Name())
	}

	// Resample the validation mask from the training-eligible entries.
	nValidation := int(float64(len(trainIdx)) * o.validation)
	validationMask := mask.New(rows, cols)
	for n := 0; n < nValidation; n++ {
		idx := trainIdx[o.rng.Intn(len(trainIdx))]
		validationMask[idx/cols][idx%cols] = true
	}

	incomplete := mask.Apply(x, evalMask.Or(validationMask))

	best := 0
	bestScore := math.Inf(1)
	for ci, candidate := range candidates {
		imputed, err := imp.FitTransform(incomplete, candidate)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "search: %s with %v", imp.Name(), candidate)
		}
		score := o.evaluator.Score(imputed, x, validationMask)
		log.Printf("trained %s with %v, %s=%v", imp.Name(), candidate, o.evaluator.Name(), score)
		if score < bestScore {
			bestScore = score
			best = ci
		}
	}

	// Refit on all training data with the winning candidate; only the
	// evaluation entries stay hidden.
	imputed, err := imp.FitTransform(mask.Apply(x, evalMask), candidates[best])
	if err != nil {
		return 0, nil, errors.Wrapf(err, "search: refit %s with %v", imp.Name(), candidates[best])
	}
	score := o.evaluator.Score(imputed, x, evalMask)
	log.Printf("hpo: %s best %v, %s=%v", imp.Name(), candidates[best], o.evaluator.Name(), score)
	return score, candidates[best], nil
}
