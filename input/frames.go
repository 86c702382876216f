package input

// frameState is one frame of held buttons and axis values. Edges are derived
// by comparing the current frame with the previous one.
type frameState struct {
	axes map[string]float64
	held map[string]bool
}

type framePair struct {
	prev frameState
	cur  frameState
}

func (p *framePair) push(next frameState) {
	p.prev = p.cur
	p.cur = next
}

func (p *framePair) Axis(name string) float64 {
	return clampAxis(p.cur.axes[name])
}

func (p *framePair) ButtonHeld(name string) bool {
	return p.cur.held[name]
}

func (p *framePair) ButtonPressed(name string) bool {
	return p.cur.held[name] && !p.prev.held[name]
}

func (p *framePair) ButtonReleased(name string) bool {
	return !p.cur.held[name] && p.prev.held[name]
}

func newFrameState(axes map[string]float64, held []string) frameState {
	fs := frameState{axes: axes, held: make(map[string]bool, len(held))}
	for _, name := range held {
		fs.held[name] = true
	}
	return fs
}
