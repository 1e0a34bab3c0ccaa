// Package search selects imputer hyperparameters by exhaustive grid search
// against a resampled validation mask, then scores the winning candidate on
// the held-out evaluation mask.
package search

import "github.com/lacunabench/lacuna/impute"

// Axis is one named hyperparameter dimension of a grid, with its candidate
// values in search order.
type Axis struct {
	Name   string
	Values []float64
}

// Grid is an ordered set of hyperparameter axes. The slice order fixes the
// candidate enumeration order, which matters because ties in validation
// error are broken by the first-encountered candidate; a map would make
// that nondeterministic.
type Grid []Axis

// Candidates enumerates the Cartesian product of the axis values, with the
// last axis varying fastest. An empty grid yields exactly one empty
// candidate, so parameterless imputers still go through the full search.
func (g Grid) Candidates() []impute.Params {
	candidates := []impute.Params{{}}
	for _, ax := range g {
		next := make([]impute.Params, 0, len(candidates)*len(ax.Values))
		for _, c := range candidates {
			for _, v := range ax.Values {
				p := make(impute.Params, len(c)+1)
				for k, val := range c {
					p[k] = val
				}
				p[ax.Name] = v
				next = append(next, p)
			}
		}
		candidates = next
	}
	return candidates
}
