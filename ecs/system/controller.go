package system

import (
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"go.uber.org/zap"
)

// ControllerSystem runs every motion controller once per physics step,
// before the space is stepped.
type ControllerSystem struct {
	logger *zap.Logger
}

func NewControllerSystem(logger *zap.Logger) *ControllerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ControllerSystem{logger: logger.Named("motion")}
}

func (s *ControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.ControllerComponent.Kind(), func(e ecs.Entity, c *component.Controller) {
		if c.Motion == nil {
			return
		}
		c.Last = c.Motion.Tick()
		if c.Last.Applied && c.Last.Input.Jump {
			s.logger.Debug("jump",
				zap.Stringer("entity", e),
				zap.Bool("supported", c.Last.Status.Supported),
				zap.Float64("vy", c.Last.After.Y),
			)
		}
	})
}
