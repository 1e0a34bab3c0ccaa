package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/lacunabench/lacuna"
	"github.com/lacunabench/lacuna/impute"
	"github.com/lacunabench/lacuna/output"
)

var (
	name    = "lacuna"
	version = "12.Aug.2026"
)

type args struct {
	Percents   []float64 `arg:"-p,--percents,separate" help:"percent-missing sweep values (default 10)"`
	Datasets   []string  `arg:"--datasets,separate" help:"dataset sources to benchmark (default all)"`
	Imputers   []string  `arg:"--imputers,separate" help:"imputer families to benchmark (default all)"`
	Seed       int64     `arg:"--seed" help:"random seed for the run"`
	Validation float64   `arg:"--validation" default:"0.1" help:"hyperparameter-search validation fraction"`
	Config     string    `arg:"-c,--config" help:"properties file with experiment configuration"`
	Out        string    `arg:"-o,--out" help:"path to write formatted results"`
	Store      string    `arg:"--store" help:"directory of the durable result store"`
	CSV        bool      `arg:"--csv" help:"format results as CSV instead of JSON"`
	Verbose    bool      `arg:"-v,--verbose" help:"show imputer diagnostics"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
benchmark missing-value imputation strategies
# %s`, name, version)
}

func main() {
	var args args
	arg.MustParse(&args)

	// Some imputer adapters and dataset loaders churn through transient
	// file handles during large sweeps.
	raiseFileLimit(4096)

	if args.Config != "" {
		config, err := lacuna.LoadConfig(args.Config)
		if err != nil {
			panic(err)
		}
		if len(args.Percents) == 0 {
			args.Percents = config.Percents
		}
		if len(args.Datasets) == 0 {
			args.Datasets = config.Datasets
		}
		if len(args.Imputers) == 0 {
			args.Imputers = config.Imputers
		}
		if args.Seed == 0 {
			args.Seed = config.Seed
		}
		if config.Validation > 0 {
			args.Validation = config.Validation
		}
		if args.Out == "" {
			args.Out = config.Output
		}
		if args.Store == "" {
			args.Store = config.Store
		}
	}

	// Imputer diagnostics stay at error severity unless asked for.
	if args.Verbose {
		impute.SetLogOutput(os.Stderr)
	}

	components := []func(*lacuna.Experiment){
		lacuna.WithSeed(args.Seed),
		lacuna.WithValidation(args.Validation),
		lacuna.WithProgress(true),
	}
	if len(args.Percents) > 0 {
		components = append(components, lacuna.WithPercents(args.Percents...))
	}
	if len(args.Datasets) > 0 {
		components = append(components, lacuna.WithDatasets(args.Datasets...))
	}
	if len(args.Imputers) > 0 {
		imputers, err := lacuna.ImputersByName(args.Imputers, args.Seed)
		if err != nil {
			panic(err)
		}
		components = append(components, lacuna.WithImputers(imputers...))
	}

	e := lacuna.NewExperiment(components...)
	records, err := e.Run()
	if err != nil {
		panic(err)
	}

	formatter := output.JSONFormatter
	if args.CSV {
		formatter = output.CSVFormatter
	}
	formatted, err := formatter(records)
	if err != nil {
		panic(err)
	}

	if args.Store != "" {
		if err := output.NewResultStore(args.Store).Write(e.RunID, records); err != nil {
			panic(err)
		}
	}

	if args.Out == "" {
		fmt.Println(formatted)
		return
	}
	if err := os.WriteFile(args.Out, []byte(formatted), 0664); err != nil {
		panic(err)
	}
}
