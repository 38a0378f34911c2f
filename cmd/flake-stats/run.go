package main

import (
	"math"
	"os"
	"sort"
	"sync"

	"flake-growth/pkg/crystal"
	"flake-growth/pkg/vacancy"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// measurement is the shape of one flake at one mark.
type measurement struct {
	Mark    int     `json:"mark"`
	Atoms   int     `json:"atoms"`
	Height  float64 `json:"height"`
	Width   float64 `json:"width"`
	Depth   float64 `json:"depth"`
	Aspect  float64 `json:"aspect_ratio"`
	Layers  int     `json:"layers"`
	Side1   float64 `json:"side1"`
	Side2   float64 `json:"side2"`
	Share   float64 `json:"length_ratio"`
	Stalled bool    `json:"stalled,omitempty"`
}

type cycleResult struct {
	Cycle        int           `json:"cycle"`
	Seed         int64         `json:"seed"`
	Measurements []measurement `json:"measurements"`
	err          error
}

// summary aggregates one mark over all cycles.
type summary struct {
	Mark       int     `json:"mark"`
	Atoms      float64 `json:"atoms"`
	AspectMean float64 `json:"aspect_mean"`
	AspectStd  float64 `json:"aspect_std"`
	AspectMin  float64 `json:"aspect_min"`
	AspectMax  float64 `json:"aspect_max"`
	ShareMean  float64 `json:"length_ratio_mean"`
	ShareStd   float64 `json:"length_ratio_std"`
	Layers     float64 `json:"layers"`
	Stalled    int     `json:"stalled"`
}

type report struct {
	Config  runConfig     `json:"config"`
	Cycles  []cycleResult `json:"cycles"`
	Summary []summary     `json:"summary"`
}

// newCrystal allocates the engine for one worker. Workers reuse it across
// cycles and only clear the touched part of the arena.
func newCrystal(rc runConfig) (*crystal.Crystal, error) {
	cr, err := crystal.New(rc.crystalConfig(0))
	if err != nil {
		return nil, err
	}
	if len(rc.Weights) == vacancy.Buckets {
		cr.SetWeights(vacancy.Weights(rc.Weights))
	}
	return cr, nil
}

// runCycle regrows cr from the configured seed and measures it at every mark.
func runCycle(cr *crystal.Crystal, rc runConfig, cycle int) cycleResult {
	s := rc.crystalConfig(cycle).Seed
	cr.Clear()
	cr.Reseed(s)
	rc.start().Plant(cr)

	res := cycleResult{Cycle: cycle, Seed: s}
	stalled := false
	for _, mark := range rc.Marks {
		if need := mark - cr.Count(); need > 0 && !stalled {
			stalled = cr.RandomAdd(need) < need
		}
		res.Measurements = append(res.Measurements, measure(cr, mark, stalled))
	}
	return res
}

func measure(cr *crystal.Crystal, mark int, stalled bool) measurement {
	size := cr.Size()
	side1, side2, share := cr.Hexagon().Sides()
	ext := cr.Extent()
	return measurement{
		Mark:    mark,
		Atoms:   cr.Count(),
		Height:  size.Height,
		Width:   size.Width,
		Depth:   size.Depth,
		Aspect:  size.AspectRatio,
		Layers:  int(ext.Max.K) - int(ext.Min.K) + 1,
		Side1:   side1,
		Side2:   side2,
		Share:   share,
		Stalled: stalled,
	}
}

// runAll spreads the cycles over a pool of workers and returns the results
// ordered by cycle. The worker that draws the last cycle writes the dump.
func runAll(rc runConfig, workers int, dump string) ([]cycleResult, error) {
	jobs := make(chan int)
	results := make(chan cycleResult)
	var wg sync.WaitGroup

	for range min(workers, rc.Cycles) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cr, err := newCrystal(rc)
			for cycle := range jobs {
				if err != nil {
					results <- cycleResult{Cycle: cycle, err: err}
					continue
				}
				res := runCycle(cr, rc, cycle)
				if dump != "" && cycle == rc.Cycles-1 {
					res.err = writeDump(cr, dump)
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for cycle := range rc.Cycles {
			jobs <- cycle
		}
		close(jobs)
	}()

	var all []cycleResult
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Cycle < all[j].Cycle })
	return all, firstErr
}

func writeDump(cr *crystal.Crystal, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cr.Dump(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// aggregate summarizes every mark across cycles.
func aggregate(marks []int, cycles []cycleResult) []summary {
	out := make([]summary, 0, len(marks))
	for n, mark := range marks {
		var atoms, aspect, share, layers []float64
		s := summary{Mark: mark}
		for _, c := range cycles {
			if n >= len(c.Measurements) {
				continue
			}
			m := c.Measurements[n]
			atoms = append(atoms, float64(m.Atoms))
			aspect = append(aspect, m.Aspect)
			share = append(share, m.Share)
			layers = append(layers, float64(m.Layers))
			if m.Stalled {
				s.Stalled++
			}
		}
		if len(atoms) == 0 {
			out = append(out, s)
			continue
		}
		s.Atoms = stat.Mean(atoms, nil)
		s.AspectMean, s.AspectStd = meanStdDev(aspect)
		s.AspectMin, s.AspectMax = floats.Min(aspect), floats.Max(aspect)
		s.ShareMean, s.ShareStd = meanStdDev(share)
		s.Layers = stat.Mean(layers, nil)
		out = append(out, s)
	}
	return out
}

// meanStdDev is stat.MeanStdDev with a zero deviation for a single sample,
// which JSON can encode.
func meanStdDev(x []float64) (mean, std float64) {
	mean, std = stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
