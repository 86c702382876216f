package input

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ButtonBinding maps a logical button to keys and standard gamepad buttons.
type ButtonBinding struct {
	Keys    []string `yaml:"keys"`
	Gamepad []int    `yaml:"gamepad,omitempty"`
}

// AxisBinding maps a logical axis to a key pair and a standard gamepad axis.
// A missing or negative GamepadAxis leaves the axis keyboard only.
type AxisBinding struct {
	Negative    []string `yaml:"negative"`
	Positive    []string `yaml:"positive"`
	GamepadAxis *int     `yaml:"gamepad_axis,omitempty"`
}

// Bindings is the device configuration keyed by logical name.
type Bindings struct {
	Deadzone float64                  `yaml:"deadzone"`
	Buttons  map[string]ButtonBinding `yaml:"buttons"`
	Axes     map[string]AxisBinding   `yaml:"axes"`
}

type deviceButton struct {
	keys    []ebiten.Key
	gamepad []ebiten.StandardGamepadButton
}

type deviceAxis struct {
	negative []ebiten.Key
	positive []ebiten.Key
	stick    ebiten.StandardGamepadAxis
	hasStick bool
}

// Device reads the keyboard and the first standard gamepad through ebiten.
// Edges follow inpututil, so they are only valid on the ebiten update goroutine.
type Device struct {
	deadzone float64
	buttons  map[string]deviceButton
	axes     map[string]deviceAxis
}

func NewDevice(b Bindings) (*Device, error) {
	d := &Device{
		deadzone: b.Deadzone,
		buttons:  make(map[string]deviceButton, len(b.Buttons)),
		axes:     make(map[string]deviceAxis, len(b.Axes)),
	}
	for name, bb := range b.Buttons {
		keys, err := parseKeys(bb.Keys)
		if err != nil {
			return nil, fmt.Errorf("input: button %q: %w", name, err)
		}
		btn := deviceButton{keys: keys}
		for _, g := range bb.Gamepad {
			if g < 0 || g > int(ebiten.StandardGamepadButtonMax) {
				return nil, fmt.Errorf("input: button %q: gamepad button %d out of range", name, g)
			}
			btn.gamepad = append(btn.gamepad, ebiten.StandardGamepadButton(g))
		}
		d.buttons[name] = btn
	}
	for name, ab := range b.Axes {
		neg, err := parseKeys(ab.Negative)
		if err != nil {
			return nil, fmt.Errorf("input: axis %q: %w", name, err)
		}
		pos, err := parseKeys(ab.Positive)
		if err != nil {
			return nil, fmt.Errorf("input: axis %q: %w", name, err)
		}
		axis := deviceAxis{negative: neg, positive: pos}
		if g := ab.GamepadAxis; g != nil && *g >= 0 {
			if *g > int(ebiten.StandardGamepadAxisMax) {
				return nil, fmt.Errorf("input: axis %q: gamepad axis %d out of range", name, *g)
			}
			axis.stick = ebiten.StandardGamepadAxis(*g)
			axis.hasStick = true
		}
		d.axes[name] = axis
	}
	return d, nil
}

func parseKeys(names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func gamepad() (ebiten.GamepadID, bool) {
	ids := ebiten.AppendGamepadIDs(nil)
	for _, id := range ids {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return id, true
		}
	}
	return 0, false
}

func (d *Device) Axis(name string) float64 {
	axis, ok := d.axes[name]
	if !ok {
		return 0
	}
	v := 0.0
	for _, k := range axis.negative {
		if ebiten.IsKeyPressed(k) {
			v--
			break
		}
	}
	for _, k := range axis.positive {
		if ebiten.IsKeyPressed(k) {
			v++
			break
		}
	}
	if id, ok := gamepad(); ok && axis.hasStick {
		if s := ebiten.StandardGamepadAxisValue(id, axis.stick); math.Abs(s) > d.deadzone {
			v = s
		}
	}
	return clampAxis(v)
}

func (d *Device) ButtonHeld(name string) bool {
	btn, ok := d.buttons[name]
	if !ok {
		return false
	}
	for _, k := range btn.keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	if id, ok := gamepad(); ok {
		for _, b := range btn.gamepad {
			if ebiten.IsStandardGamepadButtonPressed(id, b) {
				return true
			}
		}
	}
	return false
}

// ButtonPressed reports a press edge on any bound control. A second control
// going down while another is already held is not a new edge.
func (d *Device) ButtonPressed(name string) bool {
	btn, ok := d.buttons[name]
	if !ok {
		return false
	}
	edge := false
	for _, k := range btn.keys {
		if inpututil.IsKeyJustPressed(k) {
			edge = true
		} else if ebiten.IsKeyPressed(k) {
			return false
		}
	}
	if id, ok := gamepad(); ok {
		for _, b := range btn.gamepad {
			if inpututil.IsStandardGamepadButtonJustPressed(id, b) {
				edge = true
			} else if ebiten.IsStandardGamepadButtonPressed(id, b) {
				return false
			}
		}
	}
	return edge
}

// ButtonReleased reports a release edge once no bound control remains held.
func (d *Device) ButtonReleased(name string) bool {
	btn, ok := d.buttons[name]
	if !ok || d.ButtonHeld(name) {
		return false
	}
	for _, k := range btn.keys {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	if id, ok := gamepad(); ok {
		for _, b := range btn.gamepad {
			if inpututil.IsStandardGamepadButtonJustReleased(id, b) {
				return true
			}
		}
	}
	return false
}
