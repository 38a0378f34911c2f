package flake

import (
	"strconv"
	"strings"

	"flake-growth/pkg/crystal"
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/seed"
)

// Config controls the viewer simulation.
type Config struct {
	Crystal crystal.Config

	// Batch is the number of atoms grown per Step.
	Batch int
	// View is the side of the rendered top view in cells. One cell spans half
	// an atom diameter.
	View int
	// Start is the seed placed on Reset. The predefined weight lists never
	// grow vacancies with fewer than three neighbors, so a lone atom only
	// grows under custom weights.
	Start seed.Spec
}

// DefaultConfig returns a lattice small enough for interactive use.
func DefaultConfig() Config {
	c := crystal.DefaultConfig()
	c.Bounds = lattice.Coord{I: 1000, J: 1000, K: 120}
	c.StackingFaults = []uint16{58, 62}
	return Config{Crystal: c, Batch: 200, View: 400, Start: seed.DefaultSpec()}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Malformed values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	for key, dst := range map[string]*uint16{
		"i": &c.Crystal.Bounds.I,
		"j": &c.Crystal.Bounds.J,
		"k": &c.Crystal.Bounds.K,
	} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseUint(v, 10, 16); err == nil && parsed >= crystal.MinBound {
				*dst = uint16(parsed)
			}
		}
	}
	if v, ok := cfg["faults"]; ok {
		if faults, ok := parseLayers(v); ok {
			c.Crystal.StackingFaults = faults
		}
	}
	if v, ok := cfg["substrate"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 16); err == nil {
			c.Crystal.Substrate = uint16(parsed)
		}
	}
	if v, ok := cfg["prob"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 && parsed <= len(crystal.ProbLists) {
			c.Crystal.ProbList = parsed - 1
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Crystal.Seed = parsed
		}
	}
	if v, ok := cfg["batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Batch = parsed
		}
	}
	if v, ok := cfg["view"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.View = parsed
		}
	}
	if v, ok := cfg["seed_shape"]; ok {
		if shape, err := seed.ParseShape(v); err == nil {
			c.Start.Shape = shape
		}
	}
	if v, ok := cfg["seed_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Start.Size = parsed
		}
	}
	if v, ok := cfg["seed_dirt"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Start.Dirt = parsed
		}
	}
	return c
}

// parseLayers reads a comma separated list of layer indices. An empty string
// yields an empty list.
func parseLayers(s string) ([]uint16, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []uint16{}, true
	}
	var out []uint16
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 16)
		if err != nil {
			return nil, false
		}
		out = append(out, uint16(v))
	}
	return out, true
}
