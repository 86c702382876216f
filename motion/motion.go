// Package motion turns a tick's logical input and ground contact into a new
// rigid-body velocity.
package motion

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/protagonist/input"
)

// Parameters are fixed when a character is configured.
type Parameters struct {
	HorizontalSpeed float64 `yaml:"horizontal_speed"`
	JumpStrength    float64 `yaml:"jump_strength"`
}

func (p Parameters) Validate() error {
	if !(p.HorizontalSpeed > 0) {
		return &ConfigurationError{Field: "horizontal_speed", Reason: "must be > 0"}
	}
	if !(p.JumpStrength > 0) {
		return &ConfigurationError{Field: "jump_strength", Reason: "must be > 0"}
	}
	return nil
}

// LogicalInput is the per-tick snapshot the controller acts on. Jump is the
// press edge; JumpHeld is the level.
type LogicalInput struct {
	Horizontal float64
	Vertical   float64
	Jump       bool
	JumpHeld   bool
}

// ReadInput samples src once. Vertical is read but not used by Step.
func ReadInput(src input.Source) LogicalInput {
	return LogicalInput{
		Horizontal: src.Axis(input.Horizontal),
		Vertical:   src.Axis(input.Vertical),
		Jump:       src.ButtonPressed(input.Jump),
		JumpHeld:   src.ButtonHeld(input.Jump),
	}
}

type SupportStatus struct {
	Supported bool
}

// Step applies the motion rule: horizontal velocity is overwritten from the
// axis, and a jump adds JumpStrength only on a press edge while supported.
func Step(p Parameters, in LogicalInput, st SupportStatus, v cp.Vector) cp.Vector {
	v.X = p.HorizontalSpeed * in.Horizontal
	if in.Jump && st.Supported {
		v.Y += p.JumpStrength
	}
	return v
}
