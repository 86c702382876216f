// Package level holds per-level gameplay services that live for as long as
// their scene bundle is loaded.
package level

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/ecs/component"
	"github.com/milk9111/protagonist/input"
	"go.uber.org/zap"
)

var ErrMissingTarget = errors.New("level: no character to reset")

type Option func(*ResetCoordinator)

// WithResetButton changes the logical button that triggers a reset.
func WithResetButton(name string) Option {
	return func(r *ResetCoordinator) {
		if name != "" {
			r.button = name
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *ResetCoordinator) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// ResetCoordinator remembers where the character stood when the level
// started and teleports it back there on the reset button's press edge.
type ResetCoordinator struct {
	world  *ecs.World
	bridge *input.EventBridge
	button string
	logger *zap.Logger

	anchor    cp.Vector
	hasAnchor bool
	sub       input.Subscription
	active    bool
	resets    int
}

func NewResetCoordinator(w *ecs.World, bridge *input.EventBridge, opts ...Option) *ResetCoordinator {
	r := &ResetCoordinator{
		world:  w,
		bridge: bridge,
		button: input.Cancel,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("reset")
	return r
}

// Start captures the anchor and begins listening. Calling it again
// re-captures the anchor without a second subscription.
func (r *ResetCoordinator) Start() error {
	pos, ok := r.locate()
	if !ok {
		r.logger.Debug("reset coordinator idle", zap.Error(ErrMissingTarget))
		return ErrMissingTarget
	}
	r.anchor, r.hasAnchor = pos, true
	if !r.active {
		r.sub = r.bridge.Subscribe(r.onAction)
		r.active = true
	}
	r.logger.Debug("reset anchor captured", zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
	return nil
}

// Stop unsubscribes. The anchor is kept until the next Start.
func (r *ResetCoordinator) Stop() {
	if !r.active {
		return
	}
	r.bridge.Unsubscribe(r.sub)
	r.active = false
}

func (r *ResetCoordinator) Anchor() (cp.Vector, bool) {
	return r.anchor, r.hasAnchor
}

func (r *ResetCoordinator) Active() bool {
	return r.active
}

// Resets counts teleports performed.
func (r *ResetCoordinator) Resets() int {
	return r.resets
}

func (r *ResetCoordinator) onAction(name string) {
	if name != r.button || !r.hasAnchor {
		return
	}
	e, ok := r.character()
	if !ok {
		r.logger.Debug("reset skipped", zap.Error(ErrMissingTarget))
		return
	}
	if pb, ok := ecs.Get(r.world, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetPosition(r.anchor)
	}
	if tr, ok := ecs.Get(r.world, e, component.TransformComponent.Kind()); ok {
		tr.X, tr.Y = r.anchor.X, r.anchor.Y
	}
	r.resets++
	r.logger.Info("character reset", zap.Float64("x", r.anchor.X), zap.Float64("y", r.anchor.Y))
}

// character looks the target up fresh on every use; the entity may have been
// replaced since Start.
func (r *ResetCoordinator) character() (ecs.Entity, bool) {
	e, _, ok := ecs.First(r.world, component.CharacterTagComponent.Kind())
	return e, ok
}

func (r *ResetCoordinator) locate() (cp.Vector, bool) {
	e, ok := r.character()
	if !ok {
		return cp.Vector{}, false
	}
	if pb, ok := ecs.Get(r.world, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		return pb.Body.Position(), true
	}
	if tr, ok := ecs.Get(r.world, e, component.TransformComponent.Kind()); ok {
		return cp.Vector{X: tr.X, Y: tr.Y}, true
	}
	return cp.Vector{}, false
}
