// Command replay runs a bundle headlessly under recorded or scripted input
// and writes the character's trajectory as YAML.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/milk9111/protagonist/bundle"
	"github.com/milk9111/protagonist/config"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/ecs/system"
	"github.com/milk9111/protagonist/input"
	"github.com/milk9111/protagonist/level"
	"github.com/milk9111/protagonist/logging"
	"github.com/milk9111/protagonist/physics"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Point is one frame of the trajectory.
type Point struct {
	Frame     int     `yaml:"frame"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Supported bool    `yaml:"supported"`
	Jumped    bool    `yaml:"jumped,omitempty"`
	Reset     bool    `yaml:"reset,omitempty"`
}

type source interface {
	input.Source
	input.Advancer
}

func main() {
	configPath := flag.String("config", "config.yaml", "config file; the embedded defaults are used when it does not exist")
	bundleName := flag.String("bundle", "level_1", "bundle to load")
	replayPath := flag.String("replay", "", "recorded input file")
	scriptPath := flag.String("script", "", "tengo input script")
	frames := flag.Int("frames", 600, "maximum frames to simulate")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Logging, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	var src source
	switch {
	case *replayPath != "":
		src, err = input.LoadReplay(*replayPath)
	case *scriptPath != "":
		src, err = input.LoadScript(*scriptPath, logger)
	default:
		err = errors.New("one of -replay or -script is required")
	}
	if err != nil {
		logger.Fatal("input", zap.Error(err))
	}

	points, err := simulate(cfg, *bundleName, src, *frames, logger)
	if err != nil {
		logger.Fatal("simulate", zap.Error(err))
	}
	if err := write(os.Stdout, points); err != nil {
		logger.Fatal("write trajectory", zap.Error(err))
	}
}

func simulate(cfg *config.Config, bundleName string, src source, frames int, logger *zap.Logger) ([]Point, error) {
	world := ecs.NewWorld()
	space := physics.NewWorld(cfg.Physics)

	loader, err := bundle.NewLoader(world, space, cfg.Layers, cfg.Character, bundle.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	loader.Load(bundleName)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := loader.Sync(ctx); err != nil {
		return nil, fmt.Errorf("load %s: %w", bundleName, err)
	}

	bridge := input.NewEventBridge(src, input.Jump, cfg.Scenes.ResetButton)
	reset := level.NewResetCoordinator(world, bridge, level.WithResetButton(cfg.Scenes.ResetButton), level.WithLogger(logger))
	if err := reset.Start(); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", bundleName, err)
	}
	defer reset.Stop()

	latch := input.NewFrameLatch(src)
	inputSys := system.NewInputSystem(latch)
	fixed := system.NewFixedStepper(cfg.Physics.Step, latch,
		system.NewControllerSystem(logger),
		system.NewPhysicsSystem(space, cfg.Physics.Step),
	)
	frameDT := cfg.Physics.Step
	if cfg.Window.TPS > 0 {
		frameDT = 1 / float64(cfg.Window.TPS)
	}

	done := func() bool { return false }
	if r, ok := src.(*input.Replay); ok {
		done = r.Done
	}

	var points []Point
	for frame := 0; frame < frames; frame++ {
		src.Advance()
		if done() {
			break
		}
		latch.Rearm()
		resets := reset.Resets()
		bridge.Poll()
		inputSys.Update(world)
		fixed.Update(world, frameDT)

		e, _, ok := ecs.First(world, component.CharacterTagComponent.Kind())
		if !ok {
			break
		}
		pb, _ := ecs.Get(world, e, component.PhysicsBodyComponent.Kind())
		ctrl, _ := ecs.Get(world, e, component.ControllerComponent.Kind())
		pos, vel := pb.Body.Position(), pb.Body.Velocity()
		points = append(points, Point{
			Frame:     frame,
			X:         pos.X,
			Y:         pos.Y,
			VX:        vel.X,
			VY:        vel.Y,
			Supported: ctrl.Last.Status.Supported,
			Jumped:    ctrl.Last.Input.Jump && ctrl.Last.Status.Supported,
			Reset:     reset.Resets() > resets,
		})
	}
	return points, nil
}

func write(w io.Writer, points []Point) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(points); err != nil {
		return err
	}
	return enc.Close()
}
