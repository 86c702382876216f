// Package bundle loads scene bundles into the ECS world. Decoding runs on a
// worker pool; everything that touches the world happens in Flush, on the
// frame goroutine.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/protagonist/config"
	"github.com/milk9111/protagonist/ecs"
	"github.com/milk9111/protagonist/levels"
	"github.com/milk9111/protagonist/physics"
	"github.com/milk9111/protagonist/scene"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("bundle: loader closed")

// Hook is called from Flush after a bundle is instantiated or torn down.
type Hook func(h scene.Handle)

// DecodeFunc reads a bundle by name. It runs on a pool worker and must not
// touch game state.
type DecodeFunc func(name string) (*levels.Level, error)

type op struct {
	handle   scene.Handle
	unload   bool
	canceled bool
	done     chan struct{}
	level    *levels.Level
	err      error
}

// instance is what a live bundle put into the world.
type instance struct {
	handle   scene.Handle
	entities []ecs.Entity
	bodies   []*physics.Body
	shapes   []*cp.Shape
}

type Option func(*Loader)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithDecoder(fn DecodeFunc) Option {
	return func(l *Loader) {
		if fn != nil {
			l.decode = fn
		}
	}
}

// WithPoolSize caps concurrent decodes.
func WithPoolSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.poolSize = n
		}
	}
}

type Loader struct {
	world    *ecs.World
	space    *physics.World
	layers   physics.Layers
	char     config.Character
	decode   DecodeFunc
	logger   *zap.Logger
	poolSize int
	pool     *ants.Pool
	closed   bool

	ops     []*op
	pending map[uuid.UUID]*op
	handles []scene.Handle
	live    map[uuid.UUID]*instance

	onLoaded   []Hook
	onUnloaded []Hook
}

func NewLoader(world *ecs.World, space *physics.World, layers physics.Layers, char config.Character, opts ...Option) (*Loader, error) {
	l := &Loader{
		world:    world,
		space:    space,
		layers:   layers,
		char:     char,
		decode:   levels.Load,
		logger:   zap.NewNop(),
		poolSize: 4,
		pending:  make(map[uuid.UUID]*op),
		live:     make(map[uuid.UUID]*instance),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.Named("bundle")

	pool, err := ants.NewPool(l.poolSize)
	if err != nil {
		return nil, fmt.Errorf("bundle: new pool: %w", err)
	}
	l.pool = pool
	return l, nil
}

// SetCharacter replaces the settings used for characters spawned by later
// loads. Characters already in the world keep their parameters.
func (l *Loader) SetCharacter(char config.Character) {
	l.char = char
}

func (l *Loader) OnLoaded(fn Hook) {
	if fn != nil {
		l.onLoaded = append(l.onLoaded, fn)
	}
}

func (l *Loader) OnUnloaded(fn Hook) {
	if fn != nil {
		l.onUnloaded = append(l.onUnloaded, fn)
	}
}

// Host registers a bundle that is already present, such as the one owning
// the scene machine. Nothing is decoded or spawned for it.
func (l *Loader) Host(name string) scene.Handle {
	h := scene.Handle{ID: uuid.New(), Name: name}
	l.handles = append(l.handles, h)
	l.live[h.ID] = &instance{handle: h}
	return h
}

// Load starts decoding name and returns immediately. The bundle is listed by
// Loaded right away and appears in the world on a later Flush.
func (l *Loader) Load(name string) {
	l.Request(name)
}

// Request is Load returning the new handle.
func (l *Loader) Request(name string) scene.Handle {
	h := scene.Handle{ID: uuid.New(), Name: name}
	o := &op{handle: h, done: make(chan struct{})}
	l.ops = append(l.ops, o)
	l.pending[h.ID] = o
	l.handles = append(l.handles, h)

	if l.closed {
		o.err = ErrClosed
		close(o.done)
		return h
	}
	decode := l.decode
	if err := l.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				o.err = fmt.Errorf("bundle: decode %s panicked: %v", name, r)
			}
			close(o.done)
		}()
		o.level, o.err = decode(name)
	}); err != nil {
		o.err = fmt.Errorf("bundle: submit %s: %w", name, err)
		close(o.done)
	}
	return h
}

// Unload removes h from Loaded immediately. A bundle still decoding is
// discarded when its decode finishes; a live one is torn down on the next
// Flush.
func (l *Loader) Unload(h scene.Handle) {
	idx := slices.IndexFunc(l.handles, func(x scene.Handle) bool { return x.ID == h.ID })
	if idx < 0 {
		l.logger.Debug("unload of unknown bundle", zap.Stringer("handle", h))
		return
	}
	l.handles = slices.Delete(l.handles, idx, idx+1)

	if o, ok := l.pending[h.ID]; ok {
		o.canceled = true
		delete(l.pending, h.ID)
		return
	}
	l.ops = append(l.ops, &op{handle: h, unload: true})
}

// Loaded lists requested and live bundles in request order.
func (l *Loader) Loaded() []scene.Handle {
	return slices.Clone(l.handles)
}

// Live reports whether h has been instantiated and not torn down.
func (l *Loader) Live(h scene.Handle) bool {
	_, ok := l.live[h.ID]
	return ok
}

// Pending is the number of queued operations Flush has not applied yet.
func (l *Loader) Pending() int {
	return len(l.ops)
}

// Flush applies finished work in request order and stops at the first load
// whose decode is still running. It returns the number of operations applied.
func (l *Loader) Flush() int {
	applied := 0
	for len(l.ops) > 0 {
		o := l.ops[0]
		if !o.unload {
			select {
			case <-o.done:
			default:
				return applied
			}
		}
		l.ops = l.ops[1:]
		applied++
		if o.unload {
			l.teardown(o.handle)
			continue
		}
		l.finish(o)
	}
	return applied
}

// Sync blocks until every queued operation is applied or ctx is done.
func (l *Loader) Sync(ctx context.Context) error {
	for len(l.ops) > 0 {
		o := l.ops[0]
		if !o.unload {
			select {
			case <-o.done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		l.Flush()
	}
	return nil
}

// Close releases the worker pool. Decodes already running finish; their
// results are still applied by Flush.
func (l *Loader) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.pool.Release()
}

func (l *Loader) finish(o *op) {
	if o.canceled {
		l.logger.Debug("bundle load discarded", zap.Stringer("handle", o.handle))
		return
	}
	delete(l.pending, o.handle.ID)
	if o.err != nil {
		l.dropHandle(o.handle)
		l.logger.Error("bundle load failed", zap.Stringer("handle", o.handle), zap.Error(o.err))
		return
	}

	inst := l.spawn(o.handle, o.level)
	l.live[o.handle.ID] = inst
	l.logger.Info("bundle loaded",
		zap.Stringer("handle", o.handle),
		zap.Int("entities", len(inst.entities)),
		zap.Int("shapes", len(inst.shapes)),
	)
	for _, fn := range l.onLoaded {
		fn(o.handle)
	}
}

func (l *Loader) teardown(h scene.Handle) {
	inst, ok := l.live[h.ID]
	if !ok {
		return
	}
	delete(l.live, h.ID)
	for _, fn := range l.onUnloaded {
		fn(h)
	}
	for _, e := range inst.entities {
		ecs.DestroyEntity(l.world, e)
	}
	for _, b := range inst.bodies {
		l.space.RemoveBody(b)
	}
	for _, s := range inst.shapes {
		l.space.RemoveShape(s)
	}
	l.logger.Info("bundle unloaded", zap.Stringer("handle", h), zap.Int("entities", len(inst.entities)))
}

func (l *Loader) dropHandle(h scene.Handle) {
	l.handles = slices.DeleteFunc(l.handles, func(x scene.Handle) bool { return x.ID == h.ID })
}
