package core

import "time"

// FixedStep paces growth steps at a fixed rate independent of the frame
// rate. Frames that fall behind run several steps, capped at MaxCatchUp.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// MaxCatchUp bounds the steps reported for a single frame.
const MaxCatchUp = 8

// NewFixedStep constructs a FixedStep targeting the given steps per second.
func NewFixedStep(rate int) *FixedStep {
	f := &FixedStep{now: time.Now}
	f.SetRate(rate)
	return f
}

// SetRate changes the step rate; non-positive rates fall back to 60.
func (f *FixedStep) SetRate(rate int) {
	if rate <= 0 {
		rate = 60
	}
	f.step = time.Second / time.Duration(rate)
}

// Due returns how many steps elapsed since the previous call. The first call
// returns one step.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
		return 1
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := int(f.accumulator / f.step)
	f.accumulator -= time.Duration(n) * f.step
	if n > MaxCatchUp {
		n = MaxCatchUp
		f.accumulator = 0
	}
	return n
}
