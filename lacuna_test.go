package lacuna_test

import (
	"testing"

	"github.com/lacunabench/lacuna"
	"github.com/lacunabench/lacuna/dataset"
	"github.com/lacunabench/lacuna/impute"
)

func TestExperimentProducesOrderedRecords(t *testing.T) {
	e := lacuna.NewExperiment(
		lacuna.WithPercents(10, 30),
		lacuna.WithDatasets(dataset.SwissRoll),
		lacuna.WithImputers(impute.NewMeanFill()),
		lacuna.WithSeed(1),
	)

	records, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}

	// percents x datasets x mechanisms x imputers.
	if len(records) != 2*1*2*1 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	expect := []struct {
		percent float64
		mar     bool
	}{
		{10, true},
		{10, false},
		{30, true},
		{30, false},
	}
	for i, r := range records {
		if r.Dataset != dataset.SwissRoll || r.Imputer != "mean_fill" {
			t.Fatalf("record %d names %s/%s", i, r.Dataset, r.Imputer)
		}
		if r.PercentMissing != expect[i].percent || r.MissingAtRandom != expect[i].mar {
			t.Fatalf("record %d out of order: %+v", i, r)
		}
		if r.MSE < 0 {
			t.Fatalf("record %d has negative error: %v", i, r.MSE)
		}
	}
}

func TestExperimentReproducible(t *testing.T) {
	run := func() []lacuna.Record {
		e := lacuna.NewExperiment(
			lacuna.WithPercents(20),
			lacuna.WithDatasets(dataset.Wine),
			lacuna.WithImputers(impute.NewMeanFill()),
			lacuna.WithSeed(99),
		)
		records, err := e.Run()
		if err != nil {
			t.Fatal(err)
		}
		return records
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs between identical runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestExperimentUnknownDatasetAbortsSweep(t *testing.T) {
	e := lacuna.NewExperiment(
		lacuna.WithDatasets("digits"),
		lacuna.WithImputers(impute.NewMeanFill()),
	)
	if _, err := e.Run(); err == nil {
		t.Fatal("expected an unknown dataset to abort the run")
	}
}

func TestNewExperimentDefaults(t *testing.T) {
	e := lacuna.NewExperiment()
	if len(e.Datasets) != 4 || len(e.Imputers) != 4 {
		t.Fatalf("defaults cover %d datasets and %d imputers, want 4 and 4", len(e.Datasets), len(e.Imputers))
	}
	if e.Grids == nil {
		t.Fatal("defaults carry no grids")
	}
	if e.RunID == "" {
		t.Fatal("run id unset")
	}
	if e.Validation <= 0 || e.Validation >= 1 {
		t.Fatalf("validation fraction %v out of range", e.Validation)
	}
}

func TestImputersByName(t *testing.T) {
	imputers, err := lacuna.ImputersByName([]string{"mean_fill", "knn", "matrix_factorization", "chained_regression"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(imputers) != 4 {
		t.Fatalf("resolved %d imputers, want 4", len(imputers))
	}

	if _, err := lacuna.ImputersByName([]string{"softimpute"}, 0); err == nil {
		t.Fatal("expected an error for an unknown imputer name")
	}
}
