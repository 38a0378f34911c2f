package core

import (
	"errors"
	"fmt"
	"slices"
)

// Size describes the dimensions of a rendered view in cells.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a viewable simulation must implement.
// Cells returns W*H display values in row-major order.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

// ErrUnknownSim reports a lookup of an unregistered name.
var ErrUnknownSim = errors.New("core: unknown sim")

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Names lists the registered simulations in lexical order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds the simulation registered under name.
func New(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownSim, name, Names())
	}
	return f(cfg)
}
