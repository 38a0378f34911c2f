package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"flake-growth/pkg/crystal"
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/seed"

	"github.com/sugawarayuuta/sonnet"
)

// runConfig describes one batch of growth cycles. It doubles as the schema of
// the -config file.
type runConfig struct {
	Cycles    int       `json:"cycles"`
	Seed      int64     `json:"seed"`
	Bounds    [3]uint16 `json:"bounds"`
	Faults    []uint16  `json:"faults"`
	Substrate uint16    `json:"substrate"`
	Prob      int       `json:"prob"` // 1-based
	SeedShape seed.Shape `json:"seed_shape"`
	SeedSize  int        `json:"seed_size"`
	SeedDirt  int        `json:"seed_dirt,omitempty"`
	Marks     []int     `json:"marks"`
	Weights   []uint64  `json:"weights,omitempty"`
}

// output selects what main does with the results.
type output struct {
	Workers int
	JSON    bool
	Dump    string
}

func defaultRunConfig() runConfig {
	return runConfig{
		Cycles:    8,
		Seed:      1,
		Bounds:    [3]uint16{1000, 1000, 120},
		Faults:    []uint16{58, 62},
		Substrate: 1,
		Prob:      3,
		SeedShape: seed.DefaultSpec().Shape,
		SeedSize:  seed.DefaultSpec().Size,
		Marks:     []int{1_000, 10_000, 50_000},
	}
}

// crystalConfig converts the run description into the engine config for the
// given cycle. Every cycle gets its own seed.
func (rc runConfig) crystalConfig(cycle int) crystal.Config {
	return crystal.Config{
		Bounds:         lattice.Coord{I: rc.Bounds[0], J: rc.Bounds[1], K: rc.Bounds[2]},
		Diameter:       lattice.DefaultDiameter,
		StackingFaults: rc.Faults,
		Substrate:      rc.Substrate,
		ProbList:       rc.Prob - 1,
		Seed:           rc.Seed + int64(cycle),
	}
}

// start is the seed every cycle grows from.
func (rc runConfig) start() seed.Spec {
	return seed.Spec{Shape: rc.SeedShape, Size: rc.SeedSize, Dirt: rc.SeedDirt}
}

func (rc runConfig) validate() error {
	if rc.Cycles < 1 {
		return fmt.Errorf("cycles must be positive, got %d", rc.Cycles)
	}
	for _, b := range rc.Bounds {
		if b < crystal.MinBound {
			return fmt.Errorf("bounds %v: every axis needs at least %d layers", rc.Bounds, crystal.MinBound)
		}
	}
	if rc.Prob < 1 || rc.Prob > len(crystal.ProbLists) {
		return fmt.Errorf("prob must be in [1, %d], got %d", len(crystal.ProbLists), rc.Prob)
	}
	if len(rc.Weights) != 0 && len(rc.Weights) != len(crystal.ProbLists[0]) {
		return fmt.Errorf("weights need %d entries, got %d", len(crystal.ProbLists[0]), len(rc.Weights))
	}
	if err := rc.start().Validate(); err != nil {
		return err
	}
	if len(rc.Marks) == 0 {
		return fmt.Errorf("no marks")
	}
	for n, m := range rc.Marks {
		if m < 1 || (n > 0 && m <= rc.Marks[n-1]) {
			return fmt.Errorf("marks must be positive and increasing: %v", rc.Marks)
		}
	}
	return nil
}

// parseArgs layers the command line over the optional -config file over the
// defaults.
func parseArgs(args []string, stderr io.Writer) (runConfig, output, error) {
	rc := defaultRunConfig()
	out := output{Workers: runtime.NumCPU()}

	fs := flag.NewFlagSet("flake-stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cycles := fs.Int("cycles", rc.Cycles, "number of independent growth cycles")
	seedFlag := fs.Int64("seed", rc.Seed, "seed of the first cycle, later cycles count up")
	bounds := fs.String("max", joinInts(rc.Bounds[:]), "lattice bounds as i,j,k")
	faults := fs.String("faults", joinInts(rc.Faults), "stacking fault layers, comma separated")
	substrate := fs.Uint("substrate", uint(rc.Substrate), "highest layer without vacancies")
	prob := fs.Int("prob", rc.Prob, "probability list (1-based)")
	marks := fs.String("marks", joinInts(rc.Marks), "atom counts at which to measure the flake")
	seedShape := fs.String("seed-shape", string(rc.SeedShape), "seed shape: layer, box, sphere, cylinder or rounded_box")
	seedSize := fs.Int("seed-size", rc.SeedSize, "seed size in atom diameters, or hexagon edge for a layer")
	seedDirt := fs.Int("seed-dirt", rc.SeedDirt, "edge of a contaminant layer laid on the seed, 0 for none")
	configPath := fs.String("config", "", "JSON file with a run configuration")
	fs.IntVar(&out.Workers, "workers", out.Workers, "number of worker goroutines")
	fs.BoolVar(&out.JSON, "json", false, "print results as JSON")
	fs.StringVar(&out.Dump, "dump", "", "write the atom positions of the last cycle to this file")
	if err := fs.Parse(args); err != nil {
		return rc, out, err
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return rc, out, err
		}
		if err := sonnet.Unmarshal(data, &rc); err != nil {
			return rc, out, fmt.Errorf("config %s: %w", *configPath, err)
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "cycles":
			rc.Cycles = *cycles
		case "seed":
			rc.Seed = *seedFlag
		case "max":
			var b []uint16
			if b, err = parseList[uint16](*bounds); err == nil {
				if len(b) != 3 {
					err = fmt.Errorf("-max needs three values, got %q", *bounds)
					return
				}
				copy(rc.Bounds[:], b)
			}
		case "faults":
			rc.Faults, err = parseList[uint16](*faults)
		case "substrate":
			rc.Substrate = uint16(*substrate)
		case "prob":
			rc.Prob = *prob
		case "marks":
			rc.Marks, err = parseList[int](*marks)
		case "seed-shape":
			rc.SeedShape, err = seed.ParseShape(*seedShape)
		case "seed-size":
			rc.SeedSize = *seedSize
		case "seed-dirt":
			rc.SeedDirt = *seedDirt
		}
	})
	if err != nil {
		return rc, out, err
	}
	out.Workers = max(out.Workers, 1)
	return rc, out, rc.validate()
}

func parseList[T int | uint16](s string) ([]T, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []T{}, nil
	}
	var out []T
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", s, err)
		}
		if v < 0 || int(T(v)) != v {
			return nil, fmt.Errorf("list %q: %d out of range", s, v)
		}
		out = append(out, T(v))
	}
	return out, nil
}

func joinInts[T int | uint16](vs []T) string {
	parts := make([]string, len(vs))
	for n, v := range vs {
		parts[n] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}
