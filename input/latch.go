package input

// FrameLatch hands a frame's press and release edges to the first fixed
// step of that frame only. Levels and axes pass through unchanged.
//
// The host calls Rearm after advancing the wrapped source and Consume after
// every fixed step.
type FrameLatch struct {
	src      Source
	consumed bool
}

func NewFrameLatch(src Source) *FrameLatch {
	return &FrameLatch{src: src}
}

// SetSource swaps the wrapped source. The latch state is kept.
func (l *FrameLatch) SetSource(src Source) {
	l.src = src
}

func (l *FrameLatch) Source() Source {
	return l.src
}

// Rearm makes the current frame's edges visible again.
func (l *FrameLatch) Rearm() {
	l.consumed = false
}

// Consume hides the current frame's edges until the next Rearm.
func (l *FrameLatch) Consume() {
	l.consumed = true
}

func (l *FrameLatch) Axis(name string) float64 {
	if l.src == nil {
		return 0
	}
	return l.src.Axis(name)
}

func (l *FrameLatch) ButtonHeld(name string) bool {
	return l.src != nil && l.src.ButtonHeld(name)
}

func (l *FrameLatch) ButtonPressed(name string) bool {
	return !l.consumed && l.src != nil && l.src.ButtonPressed(name)
}

func (l *FrameLatch) ButtonReleased(name string) bool {
	return !l.consumed && l.src != nil && l.src.ButtonReleased(name)
}
