package input

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Frame is one recorded tick of input.
type Frame struct {
	Axes map[string]float64 `yaml:"axes,omitempty"`
	Held []string           `yaml:"held,omitempty"`
	// Repeat holds the frame for this many ticks; zero means one.
	Repeat int `yaml:"repeat,omitempty"`
}

// Recording is the on-disk replay format.
type Recording struct {
	Name   string  `yaml:"name"`
	Frames []Frame `yaml:"frames"`
}

// Replay plays a recording back one frame per Advance. Before the first
// Advance and after the last frame every button reads released and every axis 0.
type Replay struct {
	frames []Frame
	index  int
	repeat int
	state  framePair
}

func NewReplay(frames []Frame) *Replay {
	return &Replay{frames: append([]Frame(nil), frames...), index: -1}
}

// LoadReplay reads a YAML recording from path.
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: load replay %s: %w", path, err)
	}
	return ParseReplay(data)
}

func ParseReplay(data []byte) (*Replay, error) {
	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("input: unmarshal replay: %w", err)
	}
	if len(rec.Frames) == 0 {
		return nil, fmt.Errorf("input: replay %q has no frames", rec.Name)
	}
	return NewReplay(rec.Frames), nil
}

func (r *Replay) Advance() {
	if r.index >= 0 && r.index < len(r.frames) && r.repeat > 1 {
		r.repeat--
		r.state.push(r.state.cur)
		return
	}
	r.index++
	if r.index >= len(r.frames) {
		r.index = len(r.frames)
		r.state.push(frameState{})
		return
	}
	f := r.frames[r.index]
	r.repeat = f.Repeat
	r.state.push(newFrameState(f.Axes, f.Held))
}

// Done reports whether every recorded frame has been played.
func (r *Replay) Done() bool {
	return r.index >= len(r.frames)
}

func (r *Replay) Axis(name string) float64        { return r.state.Axis(name) }
func (r *Replay) ButtonHeld(name string) bool     { return r.state.ButtonHeld(name) }
func (r *Replay) ButtonPressed(name string) bool  { return r.state.ButtonPressed(name) }
func (r *Replay) ButtonReleased(name string) bool { return r.state.ButtonReleased(name) }
