package motion

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/protagonist/input"
)

type fakeBody struct {
	v      cp.Vector
	writes int
}

func (b *fakeBody) Velocity() cp.Vector     { return b.v }
func (b *fakeBody) SetVelocity(v cp.Vector) { b.v = v; b.writes++ }

type fakeSensor struct {
	supported bool
	queries   int
}

func (s *fakeSensor) IsSupported() bool {
	s.queries++
	return s.supported
}

type fakeInput struct {
	horizontal    float64
	pressed, held bool
}

func (f *fakeInput) Axis(name string) float64 {
	if name == input.Horizontal {
		return f.horizontal
	}
	return 0
}
func (f *fakeInput) ButtonHeld(name string) bool     { return name == input.Jump && f.held }
func (f *fakeInput) ButtonPressed(name string) bool  { return name == input.Jump && f.pressed }
func (f *fakeInput) ButtonReleased(name string) bool { return false }

func TestStep(t *testing.T) {
	params := Parameters{HorizontalSpeed: 2, JumpStrength: 5}
	tests := []struct {
		name string
		in   LogicalInput
		st   SupportStatus
		v    cp.Vector
		want cp.Vector
	}{
		{
			name: "horizontal_overwrites",
			in:   LogicalInput{Horizontal: 0.5},
			v:    cp.Vector{X: 40, Y: -3},
			want: cp.Vector{X: 1, Y: -3},
		},
		{
			name: "jump_edge_supported",
			in:   LogicalInput{Jump: true, JumpHeld: true},
			st:   SupportStatus{Supported: true},
			want: cp.Vector{X: 0, Y: 5},
		},
		{
			name: "jump_edge_airborne_ignored",
			in:   LogicalInput{Jump: true, JumpHeld: true, Horizontal: -1},
			v:    cp.Vector{Y: -7},
			want: cp.Vector{X: -2, Y: -7},
		},
		{
			name: "held_without_edge_ignored",
			in:   LogicalInput{JumpHeld: true},
			st:   SupportStatus{Supported: true},
			v:    cp.Vector{Y: 5},
			want: cp.Vector{Y: 5},
		},
		{
			name: "jump_adds_to_current",
			in:   LogicalInput{Jump: true},
			st:   SupportStatus{Supported: true},
			v:    cp.Vector{Y: -1},
			want: cp.Vector{Y: 4},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Step(params, tc.in, tc.st, tc.v); got != tc.want {
				t.Fatalf("Step() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStepNeverJumpsWhenUnsupported(t *testing.T) {
	params := Parameters{HorizontalSpeed: 3, JumpStrength: 9}
	for _, vy := range []float64{-10, 0, 2.5} {
		for _, jump := range []bool{false, true} {
			for _, h := range []float64{-1, -0.25, 0, 0.75, 1} {
				got := Step(params, LogicalInput{Horizontal: h, Jump: jump, JumpHeld: jump}, SupportStatus{}, cp.Vector{Y: vy})
				if got.Y != vy {
					t.Fatalf("vy changed while unsupported: %v -> %v", vy, got.Y)
				}
				if got.X != params.HorizontalSpeed*h {
					t.Fatalf("vx = %v, want %v", got.X, params.HorizontalSpeed*h)
				}
			}
		}
	}
}

func TestControllerJumpOncePerEdge(t *testing.T) {
	body := &fakeBody{}
	sensor := &fakeSensor{supported: true}
	src := &fakeInput{pressed: true, held: true}

	c, err := NewController(Config{
		Body:       body,
		Sensor:     sensor,
		Parameters: Parameters{HorizontalSpeed: 1, JumpStrength: 5},
		Input:      src,
	})
	if err != nil {
		t.Fatal(err)
	}

	s := c.Tick()
	if body.v.Y != 5 || !s.Applied || !s.Input.Jump || !s.Status.Supported {
		t.Fatalf("first tick: vy=%v sample=%+v", body.v.Y, s)
	}

	src.pressed = false
	for i := 0; i < 3; i++ {
		c.Tick()
		if body.v.Y != 5 {
			t.Fatalf("held tick %d changed vy to %v", i, body.v.Y)
		}
	}
	if sensor.queries != 4 || body.writes != 4 {
		t.Fatalf("expected one sensor query and one write per tick, got %d/%d", sensor.queries, body.writes)
	}
}

func TestControllerWithoutInputSkips(t *testing.T) {
	body := &fakeBody{v: cp.Vector{X: 12, Y: -4}}
	sensor := &fakeSensor{supported: true}
	c, err := NewController(Config{
		Body:       body,
		Sensor:     sensor,
		Parameters: Parameters{HorizontalSpeed: 1, JumpStrength: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	if s := c.Tick(); s.Applied {
		t.Fatalf("expected no contribution without input")
	}
	if body.writes != 0 || sensor.queries != 0 {
		t.Fatalf("controller touched body or sensor without input")
	}
	if body.v != (cp.Vector{X: 12, Y: -4}) {
		t.Fatalf("external velocity overwritten: %v", body.v)
	}

	c.SetInput(&fakeInput{horizontal: 1})
	c.Tick()
	if body.v.X != 1 {
		t.Fatalf("expected velocity write once input assigned, got %v", body.v)
	}
}

func TestNewControllerConfiguration(t *testing.T) {
	valid := Parameters{HorizontalSpeed: 1, JumpStrength: 1}
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"missing_body", Config{Sensor: &fakeSensor{}, Parameters: valid}, "body"},
		{"missing_sensor", Config{Body: &fakeBody{}, Parameters: valid}, "support sensor"},
		{"zero_speed", Config{Body: &fakeBody{}, Sensor: &fakeSensor{}, Parameters: Parameters{JumpStrength: 1}}, "horizontal_speed"},
		{"negative_jump", Config{Body: &fakeBody{}, Sensor: &fakeSensor{}, Parameters: Parameters{HorizontalSpeed: 1, JumpStrength: -2}}, "jump_strength"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewController(tc.cfg)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestReadInputUsesEdgeAndLevel(t *testing.T) {
	in := ReadInput(&fakeInput{horizontal: -0.5, held: true})
	if in.Jump || !in.JumpHeld || in.Horizontal != -0.5 {
		t.Fatalf("unexpected snapshot %+v", in)
	}
}
