package bundle

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/levels"
	"github.com/milk9111/protagonist/motion"
	"github.com/milk9111/protagonist/physics"
	"github.com/milk9111/protagonist/scene"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	EntityCharacter = "character"
	EntitySpawn     = "spawn"
	EntityPlatform  = "platform"
	EntityMenu      = "menu"
)

const groundLayer = "ground"

var (
	tileColor      = colornames.Darkslategray
	platformColor  = colornames.Slategray
	characterColor = colornames.Goldenrod
)

func (l *Loader) spawn(h scene.Handle, lvl *levels.Level) *instance {
	inst := &instance{handle: h}
	top := lvl.PixelHeight()

	for i, tiles := range lvl.Layers {
		name, ok := lvl.PhysicsLayer(i)
		if !ok {
			continue
		}
		layer := l.layer(name, h)
		for _, shape := range l.space.AddTileLayer(tiles, lvl.Width, lvl.Height, lvl.TileSize, layer) {
			inst.shapes = append(inst.shapes, shape)
			bb := shape.BB()
			l.addStatic(inst, bb, tileColor)
		}
	}

	spawnAt, hasSpawn := cp.Vector{}, false
	for _, e := range lvl.Entities {
		if e.Type == EntitySpawn {
			spawnAt, hasSpawn = cp.Vector{X: e.X, Y: top - e.Y}, true
			break
		}
	}

	for _, e := range lvl.Entities {
		pos := cp.Vector{X: e.X, Y: top - e.Y}
		switch e.Type {
		case EntitySpawn:
		case EntityCharacter:
			if hasSpawn {
				pos = spawnAt
			}
			l.spawnCharacter(inst, e, pos)
		case EntityPlatform:
			w, hgt := e.Float("w", lvl.TileSize), e.Float("h", lvl.TileSize)
			bb := cp.BB{L: pos.X - w/2, B: pos.Y - hgt/2, R: pos.X + w/2, T: pos.Y + hgt/2}
			shape := l.space.AddStaticBox(bb, l.layer(e.String("layer", groundLayer), h))
			inst.shapes = append(inst.shapes, shape)
			l.addStatic(inst, bb, colorProp(e, platformColor))
		case EntityMenu:
			ent := l.newEntity(inst)
			addComponent(l, ent, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
			addComponent(l, ent, component.MenuTagComponent.Kind(), &component.MenuTag{Title: e.String("title", lvl.Name)})
		default:
			l.logger.Warn("unknown bundle entity", zap.Stringer("handle", h), zap.String("type", e.Type))
		}
	}
	return inst
}

func (l *Loader) spawnCharacter(inst *instance, e levels.Entity, pos cp.Vector) {
	char := l.char
	params := motion.Parameters{
		HorizontalSpeed: e.Float("horizontal_speed", char.HorizontalSpeed),
		JumpStrength:    e.Float("jump_strength", char.JumpStrength),
	}
	if err := params.Validate(); err != nil {
		l.logger.Error("character skipped", zap.Stringer("handle", inst.handle), zap.Error(err))
		return
	}

	var category physics.Layer
	if char.Layer != "" {
		category = l.layer(char.Layer, inst.handle)
	}
	ground, err := l.layers.Mask(char.GroundLayers...)
	if err != nil {
		l.logger.Error("character skipped", zap.Stringer("handle", inst.handle), zap.Error(err))
		return
	}

	body := l.space.AddBody(physics.BodySpec{
		X:             pos.X,
		Y:             pos.Y,
		Width:         char.Width,
		Height:        char.Height,
		Mass:          1,
		FixedRotation: true,
		Layer:         category,
	})
	inst.bodies = append(inst.bodies, body)
	sensor := l.space.NewSupportSensor(body, physics.FootRegion(char.Width, char.Height, char.SensorHeight), ground)

	ctrl, err := motion.NewController(motion.Config{Body: body, Sensor: sensor, Parameters: params})
	if err != nil {
		l.logger.Error("character skipped", zap.Stringer("handle", inst.handle), zap.Error(err))
		return
	}

	ent := l.newEntity(inst)
	addComponent(l, ent, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y})
	addComponent(l, ent, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body})
	addComponent(l, ent, component.SupportComponent.Kind(), &component.Support{Sensor: sensor})
	addComponent(l, ent, component.ControllerComponent.Kind(), &component.Controller{Motion: ctrl})
	addComponent(l, ent, component.CharacterTagComponent.Kind(), &component.CharacterTag{})
	addComponent(l, ent, component.BoxComponent.Kind(), &component.Box{
		Width:  char.Width,
		Height: char.Height,
		Color:  colorProp(e, characterColor),
	})
}

func (l *Loader) addStatic(inst *instance, bb cp.BB, c color.Color) {
	ent := l.newEntity(inst)
	center := bb.Center()
	addComponent(l, ent, component.TransformComponent.Kind(), &component.Transform{X: center.X, Y: center.Y})
	addComponent(l, ent, component.StaticTagComponent.Kind(), &component.StaticTag{})
	addComponent(l, ent, component.BoxComponent.Kind(), &component.Box{Width: bb.R - bb.L, Height: bb.T - bb.B, Color: c})
}

func (l *Loader) newEntity(inst *instance) ecs.Entity {
	ent := ecs.CreateEntity(l.world)
	addComponent(l, ent, component.BundleMemberComponent.Kind(), &component.BundleMember{
		Handle: inst.handle.ID,
		Bundle: inst.handle.Name,
	})
	inst.entities = append(inst.entities, ent)
	return ent
}

// layer resolves a named collision layer, falling back to every layer when
// the name is unknown.
func (l *Loader) layer(name string, h scene.Handle) physics.Layer {
	if name == "" {
		name = groundLayer
	}
	mask, err := l.layers.Mask(name)
	if err != nil {
		l.logger.Warn("unknown collision layer", zap.Stringer("handle", h), zap.String("layer", name))
		return physics.LayerAll
	}
	return mask
}

func colorProp(e levels.Entity, def color.Color) color.Color {
	if c, ok := colornames.Map[e.String("color", "")]; ok {
		return c
	}
	return def
}

// addComponent attaches v to e and logs when the world refuses it.
func addComponent[T any](l *Loader, e ecs.Entity, kind component.ComponentKind[T], v *T) bool {
	if err := ecs.Add(l.world, e, kind, v); err != nil {
		l.logger.Error("add component", zap.Stringer("entity", e), zap.Error(err))
		return false
	}
	return true
}
