// Package levels holds the scene bundles shipped with the game.
package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is checked before the embedded files so edited bundles load without a
// rebuild.
var Dir = "levels"

type Level struct {
	Name      string      `json:"name,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool   `json:"physics"`
	Layer   string `json:"layer,omitempty"`
}

// Entity positions are in level pixels with y growing downward.
type Entity struct {
	Type  string         `json:"type"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// Float returns a numeric prop, or def when it is absent or not a number.
func (e Entity) Float(key string, def float64) float64 {
	v, ok := e.Props[key].(float64)
	if !ok {
		return def
	}
	return v
}

func (e Entity) String(key, def string) string {
	v, ok := e.Props[key].(string)
	if !ok {
		return def
	}
	return v
}

// PhysicsLayer reports whether layer i produces collision geometry and the
// named collision layer it uses.
func (l *Level) PhysicsLayer(i int) (string, bool) {
	if i < 0 || i >= len(l.LayerMeta) || !l.LayerMeta[i].Physics {
		return "", false
	}
	return l.LayerMeta[i].Layer, true
}

// PixelHeight is the level height in world units.
func (l *Level) PixelHeight() float64 {
	return float64(l.Height) * l.TileSize
}

func Load(name string) (*Level, error) {
	clean := cleanPath(name)
	data, err := os.ReadFile(filepath.Join(Dir, clean))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(clean, ".json")
	}
	return lvl, nil
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = 16
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("layer %d: %d tiles, want %dx%d", i, len(layer), lvl.Width, lvl.Height)
		}
	}
	return &lvl, nil
}

// Exists reports whether a bundle with this name can be loaded.
func Exists(name string) bool {
	clean := cleanPath(name)
	if _, err := os.Stat(filepath.Join(Dir, clean)); err == nil {
		return true
	}
	_, err := fs.Stat(LevelsFS, clean)
	return err == nil
}

func cleanPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}
