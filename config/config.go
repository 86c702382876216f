package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/milk9111/protagonist/input"
	"github.com/milk9111/protagonist/motion"
	"github.com/milk9111/protagonist/physics"
	"github.com/milk9111/protagonist/scene"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Logging   Logging        `yaml:"logging"`
	Window    Window         `yaml:"window"`
	Physics   physics.Config `yaml:"physics"`
	Layers    physics.Layers `yaml:"layers"`
	Character Character      `yaml:"character"`
	Input     input.Bindings `yaml:"input"`
	Scenes    Scenes         `yaml:"scenes"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

type Window struct {
	Title string `yaml:"title"`
	TPS   int    `yaml:"tps"`
}

// Character configures characters spawned by bundles. Bundle props may
// override the motion parameters per character.
type Character struct {
	motion.Parameters `yaml:",inline"`
	Width             float64  `yaml:"width"`
	Height            float64  `yaml:"height"`
	SensorHeight      float64  `yaml:"sensor_height"`
	Layer             string   `yaml:"layer"`
	GroundLayers      []string `yaml:"ground_layers"`
}

type Scenes struct {
	Initial     string              `yaml:"initial"`
	Host        string              `yaml:"host"`
	ResetButton string              `yaml:"reset_button"`
	States      map[string][]string `yaml:"states"`
}

// Bundles returns the state to bundle-set table.
func (s Scenes) Bundles() map[scene.State][]string {
	out := make(map[scene.State][]string, len(s.States))
	for state, names := range s.States {
		out[scene.State(state)] = names
	}
	return out
}

// Load reads path when it exists and falls back to the embedded defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return Parse(data)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return Default()
}

func Default() (*Config, error) {
	return Parse(defaultYAML)
}

// Parse decodes a config document on top of the embedded defaults. Scalars
// and structs override field by field; the maps layers, input.buttons,
// input.axes and scenes.states replace the defaults whole when the document
// sets them.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := decode(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}
	if err := replaceMaps(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// replaceMaps drops the default maps data sets, so decoding data fills them
// fresh instead of merging into the defaults.
func replaceMaps(data []byte, cfg *Config) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if child(doc, "layers") != nil {
		cfg.Layers = nil
	}
	if in := child(doc, "input"); in != nil {
		if child(in, "buttons") != nil {
			cfg.Input.Buttons = nil
		}
		if child(in, "axes") != nil {
			cfg.Input.Axes = nil
		}
	}
	if sc := child(doc, "scenes"); sc != nil && child(sc, "states") != nil {
		cfg.Scenes.States = nil
	}
	return nil
}

func child(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Character.Parameters.Validate(); err != nil {
		return fmt.Errorf("config: character: %w", err)
	}
	if c.Character.Width <= 0 || c.Character.Height <= 0 {
		return fmt.Errorf("config: character: size must be > 0")
	}
	if c.Physics.Step <= 0 {
		return fmt.Errorf("config: physics: step must be > 0")
	}
	if _, err := c.Layers.Mask(c.Character.GroundLayers...); err != nil {
		return fmt.Errorf("config: character: %w", err)
	}
	if c.Character.Layer != "" {
		if _, err := c.Layers.Mask(c.Character.Layer); err != nil {
			return fmt.Errorf("config: character: %w", err)
		}
	}
	if c.Scenes.Host == "" {
		return fmt.Errorf("config: scenes: host bundle is required")
	}
	if _, ok := c.Scenes.States[c.Scenes.Initial]; !ok {
		return fmt.Errorf("config: scenes: initial state %q has no bundles", c.Scenes.Initial)
	}
	return nil
}
