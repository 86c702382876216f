package main

import (
	"errors"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/protagonist/bundle"
	"github.com/milk9111/protagonist/common"
	"github.com/milk9111/protagonist/config"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/ecs/system"
	"github.com/milk9111/protagonist/input"
	"github.com/milk9111/protagonist/level"
	"github.com/milk9111/protagonist/physics"
	"github.com/milk9111/protagonist/scene"
	"go.uber.org/zap"
)

type Options struct {
	ConfigPath string
	Debug      bool
	State      string
	Replay     string
	Script     string
}

type Game struct {
	frames int
	quit   bool
	debug  bool

	cfg     *config.Config
	cfgPath string
	logger  *zap.Logger
	watcher *config.Watcher

	world  *ecs.World
	space  *physics.World
	device *input.Device
	source input.Source
	latch  *input.FrameLatch
	bridge *input.EventBridge

	loader  *bundle.Loader
	machine *scene.Machine
	reset   *level.ResetCoordinator

	inputSys *system.InputSystem
	render   *system.RenderSystem
	fixed    *system.FixedStepper
	frameDT  float64

	menu       *ebitenui.UI
	menuOwner  scene.Handle
	resetOwner scene.Handle
}

func NewGame(cfg *config.Config, logger *zap.Logger, opts Options) (*Game, error) {
	g := &Game{
		debug:   opts.Debug,
		cfg:     cfg,
		cfgPath: opts.ConfigPath,
		logger:  logger,
		world:   ecs.NewWorld(),
		space:   physics.NewWorld(cfg.Physics),
		frameDT: 1 / float64(tps(cfg)),
	}

	device, err := input.NewDevice(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("game: input bindings: %w", err)
	}
	g.device = device
	g.source = device
	switch {
	case opts.Replay != "":
		r, err := input.LoadReplay(opts.Replay)
		if err != nil {
			return nil, err
		}
		g.source = r
	case opts.Script != "":
		s, err := input.LoadScript(opts.Script, logger)
		if err != nil {
			return nil, err
		}
		g.source = s
	}

	resetButton := cfg.Scenes.ResetButton
	g.bridge = input.NewEventBridge(g.source, input.Jump, input.Cancel, resetButton)
	g.reset = level.NewResetCoordinator(g.world, g.bridge, level.WithResetButton(resetButton), level.WithLogger(logger))

	g.loader, err = bundle.NewLoader(g.world, g.space, cfg.Layers, cfg.Character, bundle.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	g.loader.OnLoaded(g.bundleLoaded)
	g.loader.OnUnloaded(g.bundleUnloaded)

	host := g.loader.Host(cfg.Scenes.Host)
	g.machine = scene.NewMachine(g.loader, host, cfg.Scenes.Bundles(), scene.WithLogger(logger))

	g.latch = input.NewFrameLatch(g.source)
	g.inputSys = system.NewInputSystem(g.latch)
	g.render = system.NewRenderSystem()
	g.render.Debug = opts.Debug
	g.fixed = system.NewFixedStepper(cfg.Physics.Step, g.latch,
		system.NewControllerSystem(logger),
		system.NewPhysicsSystem(g.space, cfg.Physics.Step),
	)

	if err := g.machine.Start(scene.State(cfg.Scenes.Initial)); err != nil {
		return nil, err
	}
	if opts.State != "" {
		if err := g.machine.Normalize(scene.State(opts.State)); err != nil {
			logger.Warn("persisted scene state ignored", zap.String("state", opts.State), zap.Error(err))
		}
	}

	if g.cfgPath != "" {
		w, err := config.NewWatcher(g.cfgPath)
		if err != nil {
			logger.Warn("config watcher disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func tps(cfg *config.Config) int {
	if cfg.Window.TPS > 0 {
		return cfg.Window.TPS
	}
	return common.TPS
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	g.pollConfig()

	if adv, ok := g.source.(input.Advancer); ok {
		adv.Advance()
	}
	g.latch.Rearm()
	if r, ok := g.source.(*input.Replay); ok && r.Done() {
		g.logger.Info("replay finished, switching to device input")
		g.setSource(g.device)
	}

	g.loader.Flush()
	if g.menu != nil {
		g.menu.Update()
	}
	g.bridge.Poll()
	g.inputSys.Update(g.world)

	g.fixed.Update(g.world, g.frameDT)

	g.render.Update(g.world)
	return nil
}

func (g *Game) setSource(src input.Source) {
	g.source = src
	g.bridge.SetSource(src)
	g.latch.SetSource(src)
}

func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path := <-g.watcher.Events:
			cfg, err := config.Load(path)
			if err != nil {
				g.logger.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			g.cfg = cfg
			g.loader.SetCharacter(cfg.Character)
			g.logger.Info("config reloaded", zap.String("path", path))
		case err := <-g.watcher.Errors:
			g.logger.Warn("config watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) bundleLoaded(h scene.Handle) {
	ecs.ForEach2(g.world, component.MenuTagComponent.Kind(), component.BundleMemberComponent.Kind(), func(_ ecs.Entity, m *component.MenuTag, b *component.BundleMember) {
		if b.Handle != h.ID {
			return
		}
		g.menuOwner = h
		g.menu = NewMenuUI(m.Title, g.startGameplay, func() { g.quit = true })
	})

	if g.reset.Active() {
		return
	}
	if err := g.reset.Start(); err != nil {
		if !errors.Is(err, level.ErrMissingTarget) {
			g.logger.Warn("reset coordinator", zap.Error(err))
		}
		return
	}
	g.resetOwner = h
}

func (g *Game) bundleUnloaded(h scene.Handle) {
	if h.ID == g.menuOwner.ID {
		g.menu = nil
		g.menuOwner = scene.Handle{}
	}
	if h.ID == g.resetOwner.ID {
		g.reset.Stop()
		g.resetOwner = scene.Handle{}
	}
}

func (g *Game) startGameplay() {
	if err := g.machine.SetState(scene.Gameplay); err != nil {
		g.logger.Warn("start gameplay", zap.Error(err))
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.loader.Close()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.menu != nil {
		g.menu.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    TPS: %.2f    Scene: %s    Entities: %d",
			g.frames, ebiten.ActualFPS(), ebiten.ActualTPS(), g.machine.State(), g.world.Len()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
