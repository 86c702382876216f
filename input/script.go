package input

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

// Script drives input from a tengo program evaluated once per Advance. The
// program sees `tick` (starting at 0) and must assign the globals `axes`
// (map of name to number) and `held` (array of button names).
//
//	held = []
//	axes = {Horizontal: 1}
//	if tick % 30 == 0 { held = ["Jump"] }
type Script struct {
	compiled *tengo.Compiled
	tick     int
	state    framePair
	logger   *zap.Logger
}

// scriptPrelude declares the outputs so scripts may assign them conditionally.
const scriptPrelude = "axes := {}\nheld := []\n"

func NewScript(src []byte, logger *zap.Logger) (*Script, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	script := tengo.NewScript(append([]byte(scriptPrelude), src...))
	if err := script.Add("tick", 0); err != nil {
		return nil, fmt.Errorf("input: script: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script: %w", err)
	}
	return &Script{compiled: compiled, logger: logger.Named("script")}, nil
}

// LoadScript compiles the tengo file at path.
func LoadScript(path string, logger *zap.Logger) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: load script %s: %w", path, err)
	}
	return NewScript(data, logger)
}

func (s *Script) Advance() {
	next, err := s.run()
	if err != nil {
		s.logger.Warn("script frame failed", zap.Int("tick", s.tick), zap.Error(err))
		next = frameState{}
	}
	s.tick++
	s.state.push(next)
}

func (s *Script) run() (frameState, error) {
	if err := s.compiled.Set("tick", s.tick); err != nil {
		return frameState{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return frameState{}, err
	}

	axes := make(map[string]float64)
	for name, v := range s.compiled.Get("axes").Map() {
		switch n := v.(type) {
		case float64:
			axes[name] = n
		case int64:
			axes[name] = float64(n)
		}
	}

	var held []string
	for _, v := range s.compiled.Get("held").Array() {
		if name, ok := v.(string); ok {
			held = append(held, name)
		}
	}
	return newFrameState(axes, held), nil
}

func (s *Script) Axis(name string) float64        { return s.state.Axis(name) }
func (s *Script) ButtonHeld(name string) bool     { return s.state.ButtonHeld(name) }
func (s *Script) ButtonPressed(name string) bool  { return s.state.ButtonPressed(name) }
func (s *Script) ButtonReleased(name string) bool { return s.state.ButtonReleased(name) }
