// Package drag reschedules a timeline event by dragging its block
// vertically. A drop snaps the event to the top of an hour.
//
// Pointer positions are measured from the top edge of the dragged block,
// the way a widget reports mouse coordinates to its own handlers.
package drag

import (
	"errors"
	"time"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/timeline"
)

var (
	// ErrGestureActive is returned by PointerDown while another gesture
	// has not been released or cancelled.
	ErrGestureActive = errors.New("drag already in progress")
	// ErrNoGesture is returned by PointerMove and PointerUp when idle.
	ErrNoGesture = errors.New("no drag in progress")
)

// Gesture is the live state of one drag.
type Gesture struct {
	Event     *event.Event
	OriginTop int // block top when the gesture began
	Top       int // current visual top, already clamped
	offset    int // pointer offset within the block at pointer-down
}

// Tracker owns at most one gesture at a time.
type Tracker struct {
	Geometry timeline.Geometry
	// Location is the zone of the day being viewed. Drops are committed
	// on that calendar day. Nil uses each event's own location.
	Location *time.Location
	active   *Gesture
}

// NewTracker returns an idle tracker for a timeline drawn with g.
func NewTracker(g timeline.Geometry) *Tracker {
	return &Tracker{Geometry: g}
}

// Active returns the live gesture, or nil when idle.
func (t *Tracker) Active() *Gesture {
	return t.active
}

// PointerDown starts dragging ev, whose block currently sits at blockTop.
// A second pointer-down must wait for PointerUp or Cancel.
func (t *Tracker) PointerDown(ev *event.Event, blockTop, pointerY int) error {
	if t.active != nil {
		return ErrGestureActive
	}
	if ev == nil {
		return errors.New("drag: nil event")
	}

	t.active = &Gesture{
		Event:     ev,
		OriginTop: blockTop,
		Top:       blockTop,
		offset:    pointerY,
	}
	return nil
}

// PointerMove moves the block so the pointer keeps its original offset
// within it, and returns the new clamped top. The event is not modified.
func (t *Tracker) PointerMove(pointerY int) (int, error) {
	if t.active == nil {
		return 0, ErrNoGesture
	}

	g := t.active
	g.Top = ClampTop(g.Top+(pointerY-g.offset), t.Geometry.HourHeight)
	return g.Top, nil
}

// PointerUp commits the gesture: the event starts at the whole hour under
// the block's top on its original calendar day. Duration is untouched.
func (t *Tracker) PointerUp() (time.Time, error) {
	if t.active == nil {
		return time.Time{}, ErrNoGesture
	}

	g := t.active
	t.active = nil

	hour := QuantizeHour(g.Top, t.Geometry.HourHeight)
	s := g.Event.Start
	if t.Location != nil {
		s = s.In(t.Location)
	}
	g.Event.Start = time.Date(s.Year(), s.Month(), s.Day(), hour, 0, 0, 0, s.Location())

	return g.Event.Start, nil
}

// Cancel abandons the live gesture without touching its event and returns
// the top the block should snap back to.
func (t *Tracker) Cancel() (int, bool) {
	if t.active == nil {
		return 0, false
	}
	top := t.active.OriginTop
	t.active = nil
	return top, true
}

// ClampTop bounds a block top to the visible day, [0, 24*hourHeight].
func ClampTop(top, hourHeight int) int {
	if top < 0 {
		return 0
	}
	if bottom := 24 * hourHeight; top > bottom {
		return bottom
	}
	return top
}

// QuantizeHour converts a block top to the hour it sits in, [0, 23].
func QuantizeHour(top, hourHeight int) int {
	if hourHeight <= 0 || top < 0 {
		return 0
	}
	hour := top / hourHeight
	if hour > 23 {
		return 23
	}
	return hour
}
