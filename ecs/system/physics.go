package system

import (
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/physics"
)

// PhysicsSystem steps the space by a fixed dt and copies body positions
// back into transforms.
type PhysicsSystem struct {
	world *physics.World
	step  float64
}

func NewPhysicsSystem(world *physics.World, step float64) *PhysicsSystem {
	return &PhysicsSystem{world: world, step: step}
}

func (ps *PhysicsSystem) World() *physics.World {
	if ps == nil {
		return nil
	}
	return ps.world
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.world == nil {
		return
	}
	ps.world.Step(ps.step)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil || pb.Static {
			return
		}
		pos := pb.Body.Position()
		t.X, t.Y = pos.X, pos.Y
	})
}
