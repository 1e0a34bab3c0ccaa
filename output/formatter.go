// Package output provides different formats and stores for benchmark
// results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lacunabench/lacuna"
)

// Formatter serializes an ordered sequence of benchmark records.
type Formatter func(records []lacuna.Record) (string, error)

// JSONFormatter outputs records as an indented JSON array, with the same
// keys the reference benchmark dumped.
func JSONFormatter(records []lacuna.Record) (string, error) {
	v, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// CSVFormatter outputs records as CSV with a header row.
func CSVFormatter(records []lacuna.Record) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"data", "imputer", "percent_missing", "missing_at_random", "mse"}); err != nil {
		return "", err
	}
	for _, r := range records {
		row := []string{
			r.Dataset,
			r.Imputer,
			strconv.FormatFloat(r.PercentMissing, 'f', -1, 64),
			strconv.FormatBool(r.MissingAtRandom),
			strconv.FormatFloat(r.MSE, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}
