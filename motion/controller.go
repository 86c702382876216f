package motion

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/protagonist/input"
)

// RigidBody is the velocity surface of the physics backend.
type RigidBody interface {
	Velocity() cp.Vector
	SetVelocity(cp.Vector)
}

// SupportSensor reports ground contact for the current tick.
type SupportSensor interface {
	IsSupported() bool
}

type Config struct {
	Body       RigidBody
	Sensor     SupportSensor
	Parameters Parameters
	// Input may be left nil and assigned later with SetInput.
	Input input.Source
}

// Sample records what a tick read and wrote.
type Sample struct {
	Input   LogicalInput
	Status  SupportStatus
	Before  cp.Vector
	After   cp.Vector
	Applied bool
}

// Controller is the fixed-step character controller.
type Controller struct {
	body   RigidBody
	sensor SupportSensor
	params Parameters
	input  input.Source
}

// NewController validates the wiring. A missing body or sensor is a
// configuration error; a missing input is not.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Body == nil {
		return nil, &ConfigurationError{Field: "body", Reason: "is required"}
	}
	if cfg.Sensor == nil {
		return nil, &ConfigurationError{Field: "support sensor", Reason: "is required"}
	}
	if err := cfg.Parameters.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		body:   cfg.Body,
		sensor: cfg.Sensor,
		params: cfg.Parameters,
		input:  cfg.Input,
	}, nil
}

func (c *Controller) SetInput(src input.Source) {
	c.input = src
}

func (c *Controller) Input() input.Source {
	return c.input
}

func (c *Controller) Parameters() Parameters {
	return c.params
}

// Tick runs one physics step. Without an input source it neither reads nor
// writes, leaving any externally driven velocity alone.
func (c *Controller) Tick() Sample {
	if c.input == nil {
		return Sample{}
	}
	in := ReadInput(c.input)
	st := SupportStatus{Supported: c.sensor.IsSupported()}

	before := c.body.Velocity()
	after := Step(c.params, in, st, before)
	c.body.SetVelocity(after)

	return Sample{Input: in, Status: st, Before: before, After: after, Applied: true}
}
