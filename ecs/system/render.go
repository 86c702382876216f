package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/protagonist/common"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"golang.org/x/image/colornames"
)

const cameraFollow = 0.15

// RenderSystem draws boxes with a camera that follows the character. World
// space is +Y up; the screen is flipped here.
type RenderSystem struct {
	camX, camY float64
	Debug      bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Update eases the camera toward the character.
func (r *RenderSystem) Update(w *ecs.World) {
	if r == nil || w == nil {
		return
	}
	e, _, ok := ecs.First(w, component.CharacterTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	targetX := t.X - common.BaseWidth/2
	if targetX < 0 {
		targetX = 0
	}
	r.camX = common.Lerp(r.camX, targetX, cameraFollow)
}

// Camera returns the world position of the screen's bottom-left corner.
func (r *RenderSystem) Camera() (float64, float64) {
	return r.camX, r.camY
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Midnightblue)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BoxComponent.Kind(), func(_ ecs.Entity, t *component.Transform, b *component.Box) {
		x, y := r.toScreen(t.X-b.Width/2, t.Y+b.Height/2)
		var c color.Color = colornames.White
		if b.Color != nil {
			c = b.Color
		}
		vector.FillRect(screen, float32(x), float32(y), float32(b.Width), float32(b.Height), c, false)
	})

	if !r.Debug {
		return
	}
	ecs.ForEach3(w, component.ControllerComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, c *component.Controller, t *component.Transform, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		outline := colornames.Red
		if c.Last.Status.Supported {
			outline = colornames.Lime
		}
		bw, bh := pb.Body.Size()
		x, y := r.toScreen(t.X-bw/2, t.Y+bh/2)
		vector.StrokeRect(screen, float32(x), float32(y), float32(bw), float32(bh), 1, outline, false)
	})
}

func (r *RenderSystem) toScreen(x, y float64) (float64, float64) {
	return x - r.camX, common.BaseHeight - (y - r.camY)
}
