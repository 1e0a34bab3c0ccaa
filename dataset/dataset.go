// Package dataset provides the named data sources used by the benchmark.
//
// A source yields a dense numeric matrix of shape (samples, features). The
// synthetic sources are generated from fixed internal seeds and return bit
// identical matrices on every call; the tabular sources are parsed from CSV
// files embedded in the binary, with their trailing target column dropped.
package dataset

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Names of the sources known to Load.
const (
	LowRank   = "lowrank"
	Diabetes  = "diabetes"
	Wine      = "wine"
	SwissRoll = "swissroll"
)

// Sources returns the names of every known source, in benchmark order.
func Sources() []string {
	return []string{LowRank, Diabetes, Wine, SwissRoll}
}

// Load returns the matrix for a named source. Unknown names are a
// configuration error and fail immediately.
func Load(name string) (*mat.Dense, error) {
	switch name {
	case LowRank:
		return lowRank(1000, 10, 5, 0.5, lowRankSeed), nil
	case SwissRoll:
		return swissRoll(1000, swissRollSeed), nil
	case Wine:
		return tabular(Wine, wineCSV)
	case Diabetes:
		return tabular(Diabetes, diabetesCSV)
	default:
		return nil, errors.Errorf("dataset: unknown source %q", name)
	}
}
