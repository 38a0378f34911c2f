package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Rate  int
	Seed  int64
	HUD   int

	// Options are handed to the sim factory.
	Options map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "flake", Scale: 2, TPS: 60, Rate: 20, Seed: 42, HUD: 280, Options: map[string]string{}}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.IntVar(&c.Rate, "rate", c.Rate, "growth steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUD, "hud", c.HUD, "parameter panel width in pixels, 0 hides it")
	fs.Func("opt", "sim option as key=value, repeatable", c.addOption)
}

func (c *Config) addOption(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("option %q is not key=value", s)
	}
	if c.Options == nil {
		c.Options = map[string]string{}
	}
	c.Options[key] = strings.TrimSpace(value)
	return nil
}
