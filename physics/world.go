package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Config tunes the Chipmunk space. +Y points up, so Gravity is usually negative.
type Config struct {
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
	Step       float64 `yaml:"step"`
}

// World owns the Chipmunk space, its static level geometry and dynamic bodies.
type World struct {
	space  *cp.Space
	bodies map[*cp.Body]*Body
}

func NewWorld(cfg Config) *World {
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	if cfg.Iterations <= 0 {
		space.Iterations = 20
	}
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})
	return &World{
		space:  space,
		bodies: make(map[*cp.Body]*Body),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// BodySpec describes a dynamic box body. X/Y is the box center.
type BodySpec struct {
	X, Y          float64
	Width, Height float64
	Mass          float64
	Friction      float64
	FixedRotation bool
	Layer         Layer
	Collides      Layer
}

// AddBody creates a dynamic box and adds it to the space.
func (w *World) AddBody(spec BodySpec) *Body {
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	moment := cp.MomentForBox(mass, spec.Width, spec.Height)
	if spec.FixedRotation {
		moment = math.Inf(1)
	}
	cpBody := cp.NewBody(mass, moment)
	cpBody.SetPosition(cp.Vector{X: spec.X, Y: spec.Y})

	shape := cp.NewBox(cpBody, spec.Width, spec.Height, 0)
	shape.SetFriction(spec.Friction)
	categories, collides := spec.Layer, spec.Collides
	if categories == 0 {
		categories = LayerAll
	}
	if collides == 0 {
		collides = LayerAll
	}
	shape.SetFilter(filterFor(categories, collides))

	w.space.AddBody(cpBody)
	w.space.AddShape(shape)

	b := &Body{body: cpBody, shape: shape, width: spec.Width, height: spec.Height}
	w.bodies[cpBody] = b
	return b
}

// RemoveBody detaches a body, its shape and any sensors built on it.
func (w *World) RemoveBody(b *Body) {
	if w == nil || b == nil || b.body == nil {
		return
	}
	if _, ok := w.bodies[b.body]; !ok {
		return
	}
	delete(w.bodies, b.body)
	if b.shape != nil && b.shape.Space() != nil {
		w.space.RemoveShape(b.shape)
	}
	if w.space.ContainsBody(b.body) {
		w.space.RemoveBody(b.body)
	}
}

// AddStaticBox adds a static box in world coordinates.
func (w *World) AddStaticBox(bb cp.BB, layer Layer) *cp.Shape {
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	if layer == 0 {
		layer = LayerAll
	}
	shape.SetFilter(filterFor(layer, LayerAll))
	w.space.AddShape(shape)
	return shape
}

// RemoveShape removes a static shape previously added with AddStaticBox.
func (w *World) RemoveShape(shape *cp.Shape) {
	if w == nil || shape == nil || shape.Space() != w.space {
		return
	}
	w.space.RemoveShape(shape)
}

// Bodies returns the number of dynamic bodies in the world.
func (w *World) Bodies() int {
	return len(w.bodies)
}
