package lacuna

import (
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Config is an experiment configuration loaded from a properties file. Zero
// values mean "not set"; the CLI overlays set values onto its defaults.
type Config struct {
	Percents   []float64
	Datasets   []string
	Imputers   []string
	Seed       int64
	Validation float64
	Output     string
	Store      string
}

// LoadConfig reads an experiment configuration from a properties file.
// Recognized keys: percents (comma separated), datasets, imputers, seed,
// validation, output, store.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: load %s", path)
	}

	var c Config
	if s, ok := p.Get("percents"); ok {
		c.Percents, err = parseFloats(s)
		if err != nil {
			return Config{}, errors.Wrap(err, "config: percents")
		}
	}
	if s, ok := p.Get("datasets"); ok {
		c.Datasets = parseList(s)
	}
	if s, ok := p.Get("imputers"); ok {
		c.Imputers = parseList(s)
	}
	c.Seed = p.GetInt64("seed", 0)
	c.Validation = p.GetFloat64("validation", 0)
	c.Output = p.GetString("output", "")
	c.Store = p.GetString("store", "")
	return c, nil
}

func parseList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, v := range parseList(s) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
