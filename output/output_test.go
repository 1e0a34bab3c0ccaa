package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lacunabench/lacuna"
	"github.com/lacunabench/lacuna/output"
)

var records = []lacuna.Record{
	{Dataset: "lowrank", Imputer: "mean_fill", PercentMissing: 10, MissingAtRandom: true, MSE: 0.25},
	{Dataset: "wine", Imputer: "knn", PercentMissing: 30, MissingAtRandom: false, MSE: 1.5},
}

func TestJSONFormatter(t *testing.T) {
	s, err := output.JSONFormatter(records)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []lacuna.Record
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(records) || decoded[1] != records[1] {
		t.Fatalf("round trip produced %+v", decoded)
	}
	if !strings.Contains(s, `"percent_missing"`) {
		t.Fatal("JSON output misses the reference key names")
	}
}

func TestCSVFormatter(t *testing.T) {
	s, err := output.CSVFormatter(records)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 records", len(lines))
	}
	if lines[0] != "data,imputer,percent_missing,missing_at_random,mse" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "wine,knn,30,false,") {
		t.Fatalf("unexpected record line %q", lines[2])
	}
}

func TestResultStoreRoundTrip(t *testing.T) {
	store := output.NewResultStore(t.TempDir())

	if err := store.Write("run-1", records); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Read("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(records) || loaded[0] != records[0] {
		t.Fatalf("round trip produced %+v", loaded)
	}

	if _, err := store.Read("run-2"); err == nil {
		t.Fatal("expected an error for an unknown run id")
	}
}
