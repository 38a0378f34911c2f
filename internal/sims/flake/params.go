package flake

import (
	"fmt"
	"strconv"
	"strings"

	"flake-growth/internal/core"
	"flake-growth/pkg/crystal"
)

// Parameters reports the configuration and the current morphology.
func (f *Flake) Parameters() core.ParameterSnapshot {
	cr := f.cr
	l := cr.Lattice()
	size := cr.Size()
	_, _, share := cr.Hexagon().Sides()
	ext := cr.Extent()

	weights := make([]string, 0, len(cr.WeightsLog()))
	for _, w := range cr.WeightsLog() {
		weights = append(weights, strconv.Itoa(int(w)))
	}

	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				textParam("bounds", "Bounds", fmt.Sprintf("%dx%dx%d", l.Max().I, l.Max().J, l.Max().K)),
				textParam("faults", "Stacking faults", fmt.Sprint(l.Faults())),
				intParam("substrate", "Substrate", int(cr.Substrate())),
			},
		},
		{
			Name: "Growth",
			Params: []core.Parameter{
				intParam("prob_list", "Probability list", cr.ProbList()+1),
				textParam("weights", "log10 weights", strings.Join(weights, " ")),
				intParam("batch", "Atoms per step", f.cfg.Batch),
				textParam("seed_shape", "Seed shape", string(f.cfg.Start.Shape)),
				intParam("seed_size", "Seed size", f.cfg.Start.Size),
				intParam("seed_dirt", "Seed dirt", f.cfg.Start.Dirt),
			},
		},
		{
			Name: "Flake",
			Params: []core.Parameter{
				intParam("atoms", "Atoms", cr.Count()),
				intParam("surface", "Surface atoms", cr.SurfaceLen()),
				intParam("layers", "Layers", int(ext.Max.K-ext.Min.K)+1),
				floatParam("aspect_ratio", "Aspect ratio", size.AspectRatio),
				floatParam("length_ratio", "Length ratio", share),
			},
		},
	}}
}

// ParameterControls lists the values the HUD may change.
func (f *Flake) ParameterControls() []core.ParameterControl {
	maxK := int(f.cr.Lattice().Max().K) - 1
	return []core.ParameterControl{
		{Key: "substrate", Label: "Substrate", Step: 1, Min: 0, Max: maxK},
		{Key: "prob_list", Label: "Probability list", Step: 1, Min: 1, Max: len(crystal.ProbLists)},
		{Key: "batch", Label: "Atoms per step", Step: 100, Min: 1, Max: 1_000_000},
		{Key: "seed_size", Label: "Seed size", Step: 1, Min: 1, Max: 64},
		{Key: "seed_dirt", Label: "Seed dirt", Step: 1, Min: 0, Max: 64},
	}
}

// SetIntParameter updates one of the controls. Substrate changes rebuild the
// vacancy index right away; the seed settings apply on the next Reset.
func (f *Flake) SetIntParameter(key string, value int) bool {
	switch key {
	case "substrate":
		if value < 0 || f.cr.SetSubstrate(uint16(value)) != nil {
			return false
		}
		f.cfg.Crystal.Substrate = uint16(value)
		f.cr.UpdateVacancies()
	case "prob_list":
		if f.cr.SetProbList(value-1) != nil {
			return false
		}
		f.cfg.Crystal.ProbList = value - 1
	case "batch":
		if value <= 0 {
			return false
		}
		f.cfg.Batch = value
	case "seed_size":
		if value <= 0 {
			return false
		}
		f.cfg.Start.Size = value
	case "seed_dirt":
		if value < 0 {
			return false
		}
		f.cfg.Start.Dirt = value
	default:
		return false
	}
	return true
}

// NextProbList cycles the growth weights.
func (f *Flake) NextProbList() {
	f.cr.NextProbList()
	f.cfg.Crystal.ProbList = f.cr.ProbList()
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', 3, 64)}
}

func textParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeText, Value: value}
}
