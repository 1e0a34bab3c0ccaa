package output

import (
	"encoding/json"

	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"

	"github.com/lacunabench/lacuna"
)

// ResultStore persists benchmark records to a durable on-disk store, keyed
// by run id.
type ResultStore struct {
	d *diskv.Diskv
}

// NewResultStore creates a store rooted at base.
func NewResultStore(base string) *ResultStore {
	return &ResultStore{
		d: diskv.New(diskv.Options{
			BasePath:     base,
			Transform:    func(string) []string { return nil },
			CacheSizeMax: 1024 * 1024,
		}),
	}
}

// Write persists the ordered records of a run.
func (s *ResultStore) Write(runID string, records []lacuna.Record) error {
	b, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "output: marshal run %s", runID)
	}
	return errors.Wrapf(s.d.Write(runID, b), "output: write run %s", runID)
}

// Read loads the records of a previously written run.
func (s *ResultStore) Read(runID string) ([]lacuna.Record, error) {
	b, err := s.d.Read(runID)
	if err != nil {
		return nil, errors.Wrapf(err, "output: read run %s", runID)
	}
	var records []lacuna.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, errors.Wrapf(err, "output: decode run %s", runID)
	}
	return records, nil
}
