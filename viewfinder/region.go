package viewfinder

import (
	"github.com/camera-next/camcli/types"
)

// dragSession is the transient state of an in-progress gesture. It is
// created on BeginDrag and folded into the committed rectangle on EndDrag;
// it never survives across gestures.
type dragSession struct {
	active  bool
	anchor  types.Point
	current types.Rect
}

// beginSession anchors a new session at p. A second begin while a session is
// active is ignored so an in-flight rectangle is never corrupted.
func beginSession(s dragSession, p types.Point) dragSession {
	if s.active {
		return s
	}
	return dragSession{
		active:  true,
		anchor:  p,
		current: types.Rect{StartX: p.X, StartY: p.Y},
	}
}

// updateSession recomputes the signed extents against the session anchor.
// This runs on every pointer move, so it stays allocation free.
func updateSession(s dragSession, p types.Point) dragSession {
	if !s.active {
		return s
	}
	s.current.Width = p.X - s.anchor.X
	s.current.Height = p.Y - s.anchor.Y
	return s
}

// commitSession finalizes the session at p and returns the rectangle to
// commit. The bool reports whether there was an active session to commit.
func commitSession(s dragSession, p types.Point) (types.Rect, bool) {
	if !s.active {
		return types.Rect{}, false
	}
	r := s.current
	r.EndX = p.X
	r.EndY = p.Y
	r.Width = p.X - s.anchor.X
	r.Height = p.Y - s.anchor.Y
	return r, true
}

// RegionTracker owns the interactive drag gesture and the committed
// viewfinder rectangle. Extents stay signed until extraction so a host can
// render directional selection feedback while the user drags. Malformed
// gesture sequences (double begin, stray move or end) are silently ignored;
// pointer event ordering is not reliable across platforms and a failure
// here would run inside the host's input dispatch.
type RegionTracker struct {
	rect    types.Rect
	session dragSession
	events  *Hub
}

// NewRegionTracker creates a tracker publishing change events on hub.
func NewRegionTracker(hub *Hub) *RegionTracker {
	return &RegionTracker{events: hub}
}

// ResetToDefault sets the viewfinder to the full surface, discards any
// active session and emits a change event.
func (t *RegionTracker) ResetToDefault(width, height int) {
	t.rect = types.Rect{
		EndX:   width,
		EndY:   height,
		Width:  width,
		Height: height,
	}
	t.session = dragSession{}
	t.events.publish(EventChange, t.rect)
}

// BeginDrag starts a new drag session anchored at p.
func (t *RegionTracker) BeginDrag(p types.Point) {
	t.session = beginSession(t.session, p)
}

// UpdateDrag advances the active session to p. No-op without a session.
func (t *RegionTracker) UpdateDrag(p types.Point) {
	t.session = updateSession(t.session, p)
}

// EndDrag commits the active session at p as the live rectangle and emits a
// change event. Calling without an active session is a no-op and emits
// nothing.
func (t *RegionTracker) EndDrag(p types.Point) {
	rect, ok := commitSession(t.session, p)
	if !ok {
		return
	}
	t.rect = rect
	t.session = dragSession{}
	t.events.publish(EventChange, t.rect)
}

// CurrentRectangle returns the live committed rectangle, never the
// in-progress session.
func (t *RegionTracker) CurrentRectangle() types.Rect {
	return t.rect
}

// SessionRectangle returns the in-progress rectangle and whether a drag is
// active, for hosts rendering live selection feedback.
func (t *RegionTracker) SessionRectangle() (types.Rect, bool) {
	return t.session.current, t.session.active
}

// Dragging reports whether a drag session is active.
func (t *RegionTracker) Dragging() bool {
	return t.session.active
}
