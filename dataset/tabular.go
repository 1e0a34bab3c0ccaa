package dataset

import (
	"embed"
	"encoding/csv"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//go:embed data/wine.csv data/diabetes.csv
var dataFS embed.FS

const (
	wineCSV     = "data/wine.csv"
	diabetesCSV = "data/diabetes.csv"
)

// Parsed tabular sources are kept in a small cache so a sweep does not
// re-parse the same CSV for every percent level. Callers always receive a
// copy; the cached matrix is never aliased.
var tabularCache, _ = lru.New(4)

// tabular parses an embedded CSV source into a feature matrix. The file has
// a header row and carries the target in its last column, which is dropped:
// the benchmark only reconstructs features, never labels.
func tabular(name, file string) (*mat.Dense, error) {
	if v, ok := tabularCache.Get(name); ok {
		return mat.DenseCopyOf(v.(*mat.Dense)), nil
	}

	f, err := dataFS.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", file)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: parse %s", file)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, errors.Errorf("dataset: %s has no feature columns", file)
	}

	samples := len(rows) - 1
	features := len(rows[0]) - 1
	x := mat.NewDense(samples, features, nil)
	for i, row := range rows[1:] {
		if len(row) != features+1 {
			return nil, errors.Errorf("dataset: %s row %d has %d fields, want %d", file, i+2, len(row), features+1)
		}
		for j := 0; j < features; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset: %s row %d column %s", file, i+2, rows[0][j])
			}
			x.Set(i, j, v)
		}
	}

	tabularCache.Add(name, mat.DenseCopyOf(x))
	return x, nil
}
