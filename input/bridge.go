package input

// Handler receives the logical name of a button that went down this frame.
type Handler func(name string)

// Subscription identifies a registered handler.
type Subscription uint64

type subscriber struct {
	id Subscription
	fn Handler
}

// EventBridge polls a Source once per frame and turns press edges of a fixed
// set of names into synchronous notifications.
type EventBridge struct {
	src    Source
	names  []string
	subs   []subscriber
	nextID Subscription
}

// NewEventBridge polls names in the given order; duplicates are dropped.
func NewEventBridge(src Source, names ...string) *EventBridge {
	seen := make(map[string]bool, len(names))
	b := &EventBridge{src: src}
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		b.names = append(b.names, name)
	}
	return b
}

// SetSource swaps the polled provider. A nil source disables polling.
func (b *EventBridge) SetSource(src Source) {
	b.src = src
}

func (b *EventBridge) Source() Source {
	return b.src
}

// Names returns the polled logical names in polling order.
func (b *EventBridge) Names() []string {
	return append([]string(nil), b.names...)
}

func (b *EventBridge) Subscribe(fn Handler) Subscription {
	if fn == nil {
		return 0
	}
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, fn: fn})
	return b.nextID
}

func (b *EventBridge) Unsubscribe(id Subscription) bool {
	for i, s := range b.subs {
		if s.id != id {
			continue
		}
		// copy rather than shift in place so snapshots handed to Poll stay intact
		next := make([]subscriber, 0, len(b.subs)-1)
		next = append(next, b.subs[:i]...)
		b.subs = append(next, b.subs[i+1:]...)
		return true
	}
	return false
}

// Subscribers returns the number of registered handlers.
func (b *EventBridge) Subscribers() int {
	return len(b.subs)
}

// Poll dispatches this frame's press edges. Each edge is delivered to the
// subscribers registered when it fires, in subscription order.
func (b *EventBridge) Poll() {
	if b.src == nil {
		return
	}
	var fired []string
	for _, name := range b.names {
		if b.src.ButtonPressed(name) {
			fired = append(fired, name)
		}
	}
	for _, name := range fired {
		snapshot := b.subs
		for _, s := range snapshot {
			s.fn(name)
		}
	}
}
