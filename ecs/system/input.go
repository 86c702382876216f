package system

import (
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/input"
)

// InputSystem hands the active input source to character controllers that
// have none, so freshly spawned characters become controllable.
type InputSystem struct {
	source   input.Source
	replaced input.Source
}

func NewInputSystem(src input.Source) *InputSystem {
	return &InputSystem{source: src}
}

// SetSource swaps the active source. Controllers still on the old one are
// moved over on the next Update.
func (s *InputSystem) SetSource(src input.Source) {
	if src == s.source {
		return
	}
	s.replaced = s.source
	s.source = src
}

func (s *InputSystem) Source() input.Source {
	return s.source
}

func (s *InputSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.source == nil {
		return
	}
	ecs.ForEach2(w, component.CharacterTagComponent.Kind(), component.ControllerComponent.Kind(), func(_ ecs.Entity, _ *component.CharacterTag, c *component.Controller) {
		if c.Motion == nil {
			return
		}
		if cur := c.Motion.Input(); cur == nil || (s.replaced != nil && cur == s.replaced) {
			c.Motion.SetInput(s.source)
		}
	})
}
