// Package input abstracts player controls behind logical names so motion and
// reset logic never depend on a concrete device.
package input

import "github.com/milk9111/protagonist/common"

// Logical names read by the core.
const (
	Horizontal = "Horizontal"
	Vertical   = "Vertical"
	Jump       = "Jump"
	Cancel     = "Cancel"
)

// Source answers per-tick queries keyed by logical name. Queries have no side
// effects; ButtonPressed and ButtonReleased are true only on the tick of the
// corresponding transition.
type Source interface {
	Axis(name string) float64
	ButtonHeld(name string) bool
	ButtonPressed(name string) bool
	ButtonReleased(name string) bool
}

// Advancer is implemented by sources that step through frames on their own
// (replays, scripts). The host calls Advance once per frame tick.
type Advancer interface {
	Advance()
}

func clampAxis(v float64) float64 {
	return common.Clamp(v, -1, 1)
}
