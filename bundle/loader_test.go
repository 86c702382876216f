package bundle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/milk9111/protagonist/config"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/levels"
	"github.com/milk9111/protagonist/physics"
	"github.com/milk9111/protagonist/scene"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testLayers = physics.Layers{"ground": 0, "character": 1}

func testCharacter() config.Character {
	c := config.Character{Width: 20, Height: 30, SensorHeight: 2, Layer: "character", GroundLayers: []string{"ground"}}
	c.HorizontalSpeed = 100
	c.JumpStrength = 300
	return c
}

func testLevel() *levels.Level {
	return &levels.Level{
		Name:      "test",
		Width:     4,
		Height:    2,
		TileSize:  16,
		Layers:    [][]int{{0, 0, 0, 0, 1, 1, 1, 1}},
		LayerMeta: []levels.LayerMeta{{Physics: true, Layer: "ground"}},
		Entities: []levels.Entity{
			{Type: EntitySpawn, X: 8, Y: 0},
			{Type: EntityCharacter, X: 40, Y: 0, Props: map[string]any{"jump_strength": 450.0}},
			{Type: EntityPlatform, X: 32, Y: 8, Props: map[string]any{"w": 32.0, "h": 4.0}},
			{Type: EntityMenu, Props: map[string]any{"title": "Hi"}},
		},
	}
}

type fixture struct {
	world  *ecs.World
	space  *physics.World
	loader *Loader
}

func newFixture(t *testing.T, decode DecodeFunc, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{world: ecs.NewWorld(), space: physics.NewWorld(physics.Config{Gravity: -100})}
	opts = append([]Option{WithDecoder(decode)}, opts...)
	l, err := NewLoader(f.world, f.space, testLayers, testCharacter(), opts...)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	t.Cleanup(l.Close)
	f.loader = l
	return f
}

func flushAll(t *testing.T, l *Loader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestLoadInstantiates(t *testing.T) {
	f := newFixture(t, func(string) (*levels.Level, error) { return testLevel(), nil })

	var loaded []scene.Handle
	f.loader.OnLoaded(func(h scene.Handle) { loaded = append(loaded, h) })

	h := f.loader.Request("test")
	if got := f.loader.Loaded(); len(got) != 1 || got[0] != h {
		t.Fatalf("Loaded = %v, want pending %v", got, h)
	}
	if f.loader.Live(h) {
		t.Fatalf("bundle live before Flush")
	}
	flushAll(t, f.loader)

	if !f.loader.Live(h) || len(loaded) != 1 || loaded[0] != h {
		t.Fatalf("live=%v hooks=%v", f.loader.Live(h), loaded)
	}

	e, _, ok := ecs.First(f.world, component.CharacterTagComponent.Kind())
	if !ok {
		t.Fatalf("no character spawned")
	}
	tr, _ := ecs.Get(f.world, e, component.TransformComponent.Kind())
	if tr.X != 8 || tr.Y != 32 {
		t.Fatalf("character at (%v,%v), want spawn (8,32)", tr.X, tr.Y)
	}
	ctrl, ok := ecs.Get(f.world, e, component.ControllerComponent.Kind())
	if !ok {
		t.Fatalf("character has no controller")
	}
	if p := ctrl.Motion.Parameters(); p.JumpStrength != 450 || p.HorizontalSpeed != 100 {
		t.Fatalf("params = %+v", p)
	}
	if !ecs.Has(f.world, e, component.SupportComponent.Kind()) || !ecs.Has(f.world, e, component.PhysicsBodyComponent.Kind()) {
		t.Fatalf("character missing physics components")
	}

	_, menu, ok := ecs.First(f.world, component.MenuTagComponent.Kind())
	if !ok || menu.Title != "Hi" {
		t.Fatalf("menu = %+v, %v", menu, ok)
	}

	members := 0
	ecs.ForEach(f.world, component.BundleMemberComponent.Kind(), func(_ ecs.Entity, m *component.BundleMember) {
		if m.Handle != h.ID {
			t.Fatalf("member of %v, want %v", m.Handle, h.ID)
		}
		members++
	})
	// one merged tile row, one platform, the character, the menu
	if members != 4 {
		t.Fatalf("members = %d, want 4", members)
	}
	if f.space.Bodies() != 1 {
		t.Fatalf("bodies = %d, want 1", f.space.Bodies())
	}
}

func TestUnloadTearsDown(t *testing.T) {
	f := newFixture(t, func(string) (*levels.Level, error) { return testLevel(), nil })
	var unloaded []scene.Handle
	f.loader.OnUnloaded(func(h scene.Handle) { unloaded = append(unloaded, h) })

	h := f.loader.Request("test")
	flushAll(t, f.loader)

	f.loader.Unload(h)
	if len(f.loader.Loaded()) != 0 {
		t.Fatalf("Loaded still lists %v", h)
	}
	if !f.loader.Live(h) {
		t.Fatalf("teardown must wait for Flush")
	}
	f.loader.Flush()

	if f.loader.Live(h) || len(unloaded) != 1 {
		t.Fatalf("live=%v unloaded=%v", f.loader.Live(h), unloaded)
	}
	if n := f.world.Len(); n != 0 {
		t.Fatalf("%d entities left", n)
	}
	if f.space.Bodies() != 0 {
		t.Fatalf("%d bodies left", f.space.Bodies())
	}
}

func TestUnloadBeforeDecodeDiscards(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, func(string) (*levels.Level, error) {
		<-release
		return testLevel(), nil
	})
	hooks := 0
	f.loader.OnLoaded(func(scene.Handle) { hooks++ })

	h := f.loader.Request("slow")
	if n := f.loader.Flush(); n != 0 {
		t.Fatalf("Flush applied %d ops before decode finished", n)
	}
	f.loader.Unload(h)
	close(release)
	flushAll(t, f.loader)

	if f.loader.Live(h) || hooks != 0 || f.world.Len() != 0 {
		t.Fatalf("canceled load instantiated: live=%v hooks=%d entities=%d", f.loader.Live(h), hooks, f.world.Len())
	}
}

func TestDecodeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, func(string) (*levels.Level, error) { return nil, errors.New("boom") }, WithLogger(zap.New(core)))

	h := f.loader.Request("broken")
	flushAll(t, f.loader)

	if f.loader.Live(h) || len(f.loader.Loaded()) != 0 {
		t.Fatalf("failed bundle still tracked")
	}
	if logs.FilterMessage("bundle load failed").Len() != 1 {
		t.Fatalf("expected one failure log, got %v", logs.All())
	}
}

func TestDecodePanicBecomesError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, func(string) (*levels.Level, error) { panic("bad bundle") }, WithLogger(zap.New(core)))

	f.loader.Request("panics")
	flushAll(t, f.loader)

	if logs.FilterMessage("bundle load failed").Len() != 1 {
		t.Fatalf("expected failure log, got %v", logs.All())
	}
}

func TestHostIsNeverDecoded(t *testing.T) {
	calls := 0
	f := newFixture(t, func(string) (*levels.Level, error) {
		calls++
		return testLevel(), nil
	})
	host := f.loader.Host("main")
	if got := f.loader.Loaded(); len(got) != 1 || got[0] != host || !f.loader.Live(host) {
		t.Fatalf("host not registered: %v", got)
	}
	f.loader.Flush()
	if calls != 0 {
		t.Fatalf("host decoded %d times", calls)
	}
}

func TestRequestOrderIsPreserved(t *testing.T) {
	first := make(chan struct{})
	f := newFixture(t, func(name string) (*levels.Level, error) {
		if name == "first" {
			<-first
		}
		lvl := testLevel()
		lvl.Name = name
		return lvl, nil
	})
	var order []string
	f.loader.OnLoaded(func(h scene.Handle) { order = append(order, h.Name) })

	f.loader.Request("first")
	f.loader.Request("second")
	time.Sleep(20 * time.Millisecond)
	f.loader.Flush()
	if len(order) != 0 {
		t.Fatalf("second applied ahead of first: %v", order)
	}
	close(first)
	flushAll(t, f.loader)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}
}

func TestSetCharacterAppliesToNextLoad(t *testing.T) {
	f := newFixture(t, func(string) (*levels.Level, error) {
		return &levels.Level{Width: 1, Height: 1, TileSize: 16, Entities: []levels.Entity{{Type: EntityCharacter}}}, nil
	})
	f.loader.Request("a")
	flushAll(t, f.loader)

	c := testCharacter()
	c.HorizontalSpeed = 7
	f.loader.SetCharacter(c)
	f.loader.Request("b")
	flushAll(t, f.loader)

	var speeds []float64
	ecs.ForEach(f.world, component.ControllerComponent.Kind(), func(_ ecs.Entity, ctrl *component.Controller) {
		speeds = append(speeds, ctrl.Motion.Parameters().HorizontalSpeed)
	})
	if len(speeds) != 2 {
		t.Fatalf("speeds = %v", speeds)
	}
	seen := map[float64]bool{speeds[0]: true, speeds[1]: true}
	if !seen[100] || !seen[7] {
		t.Fatalf("speeds = %v, want one 100 and one 7", speeds)
	}
}

func TestLoadAfterCloseFails(t *testing.T) {
	f := newFixture(t, func(string) (*levels.Level, error) { return testLevel(), nil })
	f.loader.Close()
	h := f.loader.Request("late")
	flushAll(t, f.loader)
	if f.loader.Live(h) {
		t.Fatalf("load after Close instantiated")
	}
}

func TestAddComponentFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, func(string) (*levels.Level, error) { return testLevel(), nil }, WithLogger(zap.New(core)))

	e := ecs.CreateEntity(f.world)
	ecs.DestroyEntity(f.world, e)

	if addComponent(f.loader, e, component.TransformComponent.Kind(), &component.Transform{}) {
		t.Fatalf("add to a destroyed entity reported success")
	}
	entries := logs.FilterMessage("add component").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error log, got %v", logs.All())
	}
	if err, ok := entries[0].ContextMap()["error"].(string); !ok || err != component.ErrEntityNotAlive.Error() {
		t.Fatalf("logged error = %v, want %v", entries[0].ContextMap()["error"], component.ErrEntityNotAlive)
	}
	if !addComponent(f.loader, ecs.CreateEntity(f.world), component.TransformComponent.Kind(), &component.Transform{}) {
		t.Fatalf("add to a live entity failed")
	}
}
