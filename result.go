package lacuna

// Record is one benchmark measurement: the held-out mean squared error of
// one imputer family on one dataset under one missingness draw. Records are
// created once per orchestration combination and never mutated. The JSON
// keys match the reference benchmark's result dictionaries.
type Record struct {
	Dataset         string  `json:"data"`
	Imputer         string  `json:"imputer"`
	PercentMissing  float64 `json:"percent_missing"`
	MissingAtRandom bool    `json:"missing_at_random"`
	MSE             float64 `json:"mse"`
}

type ResultType uint8

const (
	Imputation ResultType = iota
	Error
	Done
)

// Result is the output of an executing experiment.
type Result struct {
	Record Record
	Error  error
	Type   ResultType
}
