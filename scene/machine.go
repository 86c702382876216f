package scene

import (
	"fmt"

	"go.uber.org/zap"
)

// Approver decides whether a transition may proceed.
type Approver func(from, to State) bool

type Option func(*Machine)

func WithApprover(fn Approver) Option {
	return func(m *Machine) {
		m.approve = fn
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Machine holds the committed scene state. Changing state swaps every loaded
// bundle, except the one hosting the machine, for the target state's set.
type Machine struct {
	loader  Loader
	host    Handle
	bundles map[State][]string
	approve Approver
	logger  *zap.Logger

	// applied shadows state; they differ only while a transition runs.
	applied State
	state   State
	started bool

	transitions int
}

func NewMachine(loader Loader, host Handle, bundles map[State][]string, opts ...Option) *Machine {
	m := &Machine{
		loader:  loader,
		host:    host,
		bundles: make(map[State][]string, len(bundles)),
		approve: func(State, State) bool { return true },
		logger:  zap.NewNop(),
	}
	for s, names := range bundles {
		m.bundles[s] = append([]string(nil), names...)
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("scene")
	return m
}

// State returns the committed state.
func (m *Machine) State() State {
	return m.state
}

// Transitions counts committed load/unload batches.
func (m *Machine) Transitions() int {
	return m.transitions
}

// Host returns the handle of the bundle that is never unloaded.
func (m *Machine) Host() Handle {
	return m.host
}

// Bundles returns the bundle names configured for s.
func (m *Machine) Bundles(s State) ([]string, bool) {
	names, ok := m.bundles[s]
	return append([]string(nil), names...), ok
}

// Start applies the initial state's bundles once, regardless of what is
// already loaded.
func (m *Machine) Start(initial State) error {
	if m.started {
		return nil
	}
	names, ok := m.bundles[initial]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, initial)
	}
	m.replace(names)
	m.applied = initial
	m.state = initial
	m.started = true
	m.transitions++
	m.logger.Info("scene started", zap.String("state", string(initial)), zap.Strings("bundles", names))
	return nil
}

// SetState requests a transition. Setting the applied state again is a no-op.
// A rejected or unknown target leaves state and loaded bundles untouched.
func (m *Machine) SetState(s State) error {
	if s == m.applied {
		return nil
	}
	names, ok := m.bundles[s]
	if !ok {
		m.logger.Warn("unknown scene state", zap.String("state", string(s)))
		return fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
	if !m.approve(m.applied, s) {
		m.logger.Info("scene transition rejected",
			zap.String("from", string(m.applied)),
			zap.String("to", string(s)))
		return fmt.Errorf("%w: %s -> %s", ErrTransitionRejected, m.applied, s)
	}

	from := m.applied
	unloaded := m.replace(names)
	m.applied = s
	m.state = s
	m.started = true
	m.transitions++

	m.logger.Info("scene transition",
		zap.String("from", string(from)),
		zap.String("to", string(s)),
		zap.Int("unloaded", unloaded),
		zap.Strings("loaded", names))
	return nil
}

// Normalize pushes an externally loaded or edited state through SetState so
// its side effects are re-applied rather than trusted.
func (m *Machine) Normalize(persisted State) error {
	if persisted == "" {
		return nil
	}
	if !m.started {
		return m.Start(persisted)
	}
	return m.SetState(persisted)
}

func (m *Machine) replace(names []string) int {
	unloaded := 0
	for _, h := range m.loader.Loaded() {
		if h.ID == m.host.ID {
			continue
		}
		m.loader.Unload(h)
		unloaded++
	}
	for _, name := range names {
		m.loader.Load(name)
	}
	return unloaded
}
