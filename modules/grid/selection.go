package grid

// State is the tracker's drag state
type State int

const (
	Idle State = iota
	Dragging
)

// SelectionKind distinguishes a tap from a drag: a tap flips one cell, a
// drag sets the whole rectangle to one target state.
type SelectionKind int

const (
	// SelectionTap toggles a single cell
	SelectionTap SelectionKind = iota
	// SelectionRectangle sets every cell in the span to Target
	SelectionRectangle
)

// Selection is a finalized gesture
type Selection struct {
	Kind  SelectionKind
	Cells []CellPosition
	// Target is the availability every cell of a rectangle is set to: the
	// complement of the starting cell, so repeated drags are idempotent per
	// direction. Unused for taps.
	Target bool
}

// Tracker converts a press/move/release pointer stream into committed
// selections. It runs on the UI event-dispatch path: all methods are
// synchronous and non-blocking, and only the primary pointer is tracked.
type Tracker struct {
	layout Layout
	state  State

	pointerID int
	start     CellPosition
	current   CellPosition
	path      []CellPosition
	dragged   bool

	// isAvailable reports the current state of a cell, used to pick the
	// rectangle target
	isAvailable func(CellPosition) bool
	// onPath receives the updated path on every move, for live highlight
	onPath func([]CellPosition)
}

func NewTracker(layout Layout, isAvailable func(CellPosition) bool, onPath func([]CellPosition)) *Tracker {
	return &Tracker{
		layout:      layout,
		state:       Idle,
		isAvailable: isAvailable,
		onPath:      onPath,
	}
}

func (t *Tracker) State() State {
	return t.state
}

// SetLayout updates the grid geometry, e.g. after a scroll
func (t *Tracker) SetLayout(layout Layout) {
	t.layout = layout
}

// Press starts a drag at the given pixel coordinate. Ignored while already
// dragging (a second simultaneous pointer).
func (t *Tracker) Press(pointerID int, x, y float64) {
	if t.state != Idle {
		return
	}
	t.state = Dragging
	t.pointerID = pointerID
	t.start = ToCell(x, y, t.layout)
	t.current = t.start
	t.dragged = false
	t.path = []CellPosition{t.start}
	t.emitPath()
}

// Move recomputes the rectangular path from the start to the current cell
func (t *Tracker) Move(pointerID int, x, y float64) {
	if t.state != Dragging || pointerID != t.pointerID {
		return
	}
	cell := ToCell(x, y, t.layout)
	if cell != t.start {
		t.dragged = true
	}
	if cell == t.current {
		return
	}
	t.current = cell
	t.path = CellsBetween(t.start, t.current)
	t.emitPath()
}

// Release finalizes the gesture. A release without any movement is a
// single-cell tap; anything else commits the rectangle.
func (t *Tracker) Release(pointerID int, x, y float64) (Selection, bool) {
	if t.state != Dragging || pointerID != t.pointerID {
		return Selection{}, false
	}
	t.Move(pointerID, x, y)
	return t.finalize(), true
}

// Cancel finalizes using the last known path rather than discarding it; a
// partial drag is never silently lost.
func (t *Tracker) Cancel(pointerID int) (Selection, bool) {
	if t.state != Dragging || pointerID != t.pointerID {
		return Selection{}, false
	}
	return t.finalize(), true
}

func (t *Tracker) finalize() Selection {
	t.state = Idle

	if !t.dragged {
		return Selection{
			Kind:  SelectionTap,
			Cells: []CellPosition{t.start},
		}
	}

	target := true
	if t.isAvailable != nil {
		target = !t.isAvailable(t.start)
	}
	return Selection{
		Kind:   SelectionRectangle,
		Cells:  t.path,
		Target: target,
	}
}

func (t *Tracker) emitPath() {
	if t.onPath != nil {
		t.onPath(t.path)
	}
}
