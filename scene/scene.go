// Package scene decides which scene bundles are loaded for the application's
// current logical state.
package scene

import (
	"errors"

	"github.com/google/uuid"
)

// State names a logical application scene.
type State string

const (
	Menu     State = "Menu"
	Gameplay State = "Gameplay"
)

var (
	ErrTransitionRejected = errors.New("scene: transition rejected")
	ErrUnknownState       = errors.New("scene: unknown state")
)

// Handle identifies one loaded instance of a bundle.
type Handle struct {
	ID   uuid.UUID
	Name string
}

func (h Handle) String() string {
	return h.Name + "#" + h.ID.String()
}

// Loader is the scene-loading backend. Loads are additive and asynchronous;
// the machine never waits for them.
type Loader interface {
	Load(name string)
	Unload(h Handle)
	Loaded() []Handle
}
