package system

import (
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/input"
)

const defaultMaxSteps = 5

// FixedStepper runs its systems in fixed-size steps from a frame-time
// accumulator. When a latch is set its edges are consumed after the first
// step, so a press reaches one step however many run in the frame.
type FixedStepper struct {
	sched    *ecs.Scheduler
	latch    *input.FrameLatch
	step     float64
	accum    float64
	maxSteps int
}

func NewFixedStepper(step float64, latch *input.FrameLatch, systems ...ecs.System) *FixedStepper {
	return &FixedStepper{
		sched:    ecs.NewScheduler(systems...),
		latch:    latch,
		step:     step,
		maxSteps: defaultMaxSteps,
	}
}

// Update adds dt to the accumulator and runs the whole steps it covers. A
// frame that hits the step cap drops the remainder. It returns the number of
// steps run.
func (f *FixedStepper) Update(w *ecs.World, dt float64) int {
	if f == nil || w == nil || f.step <= 0 {
		return 0
	}
	f.accum += dt
	steps := 0
	for f.accum >= f.step && steps < f.maxSteps {
		f.sched.Update(w)
		if f.latch != nil {
			f.latch.Consume()
		}
		f.accum -= f.step
		steps++
	}
	if steps == f.maxSteps {
		f.accum = 0
	}
	return steps
}
