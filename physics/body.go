package physics

import "github.com/jakecoffman/cp"

// Body is the rigid-body handle handed to controllers. It only exposes the
// vector components; the Chipmunk body itself is never replaced.
type Body struct {
	body   *cp.Body
	shape  *cp.Shape
	width  float64
	height float64
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetVelocityVector(v)
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

// SetPosition teleports the body without touching its velocity.
func (b *Body) SetPosition(p cp.Vector) {
	b.body.SetPosition(p)
}

func (b *Body) Size() (float64, float64) {
	return b.width, b.height
}

// CP exposes the Chipmunk body for debug drawing.
func (b *Body) CP() *cp.Body {
	return b.body
}
