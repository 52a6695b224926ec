package viewfinder

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/camera-next/camcli/types"
)

// FrameSource supplies live frames as pixel buffers. Size is stable once
// Start has returned successfully. The core treats the source as opaque;
// how frames are produced is a backend concern.
type FrameSource interface {
	Start() error
	Stop() error
	Frame() (*image.RGBA, error)
	Size() types.Size
}

// Options configures a Viewer.
type Options struct {
	// Interactive enables drag-based region selection. When disabled (the
	// default) the viewfinder stays at the full-frame default and pointer
	// input is ignored.
	Interactive bool
}

// Viewer ties a frame source to the region tracker, snapshot extractor and
// snapshot store. Its methods are serialized with a mutex because transports
// invoke it from multiple goroutines; the tracker and extractor themselves
// stay single-threaded. Event handlers run synchronously and must not call
// back into the Viewer.
type Viewer struct {
	mu      sync.Mutex
	source  FrameSource
	opts    Options
	events  *Hub
	tracker *RegionTracker
	store   *Store
	started bool
	log     *logrus.Entry
}

// New creates a Viewer for the given source. A missing source is a
// construction failure, not something deferred to first use.
func New(source FrameSource, opts Options) (*Viewer, error) {
	if source == nil {
		return nil, fmt.Errorf("viewfinder: no frame source available")
	}

	hub := NewHub()
	return &Viewer{
		source:  source,
		opts:    opts,
		events:  hub,
		tracker: NewRegionTracker(hub),
		store:   NewStore(),
		log:     logrus.WithField("component", "viewer"),
	}, nil
}

// Events returns the viewer's notification hub.
func (v *Viewer) Events() *Hub { return v.events }

// Store returns the append-only snapshot collection.
func (v *Viewer) Store() *Store { return v.store }

// Interactive reports whether drag-based region selection is enabled.
func (v *Viewer) Interactive() bool { return v.opts.Interactive }

// Size returns the frame source dimensions, zero until started.
func (v *Viewer) Size() types.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.started {
		return types.Size{}
	}
	return v.source.Size()
}

// Started reports whether the frame source is running.
func (v *Viewer) Started() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.started
}

// Start brings up the frame source, resets the viewfinder to the full frame
// and emits a start event. An acquisition failure is reported on the error
// channel and leaves the viewer retryable; a later Start is well-formed.
func (v *Viewer) Start() error {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return nil
	}

	if err := v.source.Start(); err != nil {
		v.mu.Unlock()
		v.log.WithError(err).Warn("frame source failed to start")
		v.events.publish(EventError, err)
		return err
	}

	v.started = true
	size := v.source.Size()
	v.tracker.ResetToDefault(size.Width, size.Height)
	v.mu.Unlock()

	v.log.WithFields(logrus.Fields{"width": size.Width, "height": size.Height}).Info("frame source started")
	v.events.publish(EventStart, size)
	return nil
}

// Stop stops the frame source, best effort.
func (v *Viewer) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.started {
		return
	}
	if err := v.source.Stop(); err != nil {
		v.log.WithError(err).Warn("stopping frame source")
	}
	v.started = false
}

// PointerDown begins a drag at p when interactive selection is enabled.
func (v *Viewer) PointerDown(p types.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opts.Interactive {
		return
	}
	v.tracker.BeginDrag(p)
}

// PointerMove advances an active drag to p.
func (v *Viewer) PointerMove(p types.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opts.Interactive {
		return
	}
	v.tracker.UpdateDrag(p)
}

// PointerUp commits an active drag at p.
func (v *Viewer) PointerUp(p types.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opts.Interactive {
		return
	}
	v.tracker.EndDrag(p)
}

// Pointer applies a wire-form pointer action.
func (v *Viewer) Pointer(action types.PointerAction) error {
	p := types.Point{X: action.X, Y: action.Y}
	switch action.Type {
	case types.PointerDown:
		v.PointerDown(p)
	case types.PointerMove:
		v.PointerMove(p)
	case types.PointerUp:
		v.PointerUp(p)
	default:
		return fmt.Errorf("unknown pointer action type %q", action.Type)
	}
	return nil
}

// Region returns the committed viewfinder rectangle.
func (v *Viewer) Region() types.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tracker.CurrentRectangle()
}

// ResetRegion restores the full-frame default rectangle.
func (v *Viewer) ResetRegion() {
	v.mu.Lock()
	defer v.mu.Unlock()

	size := v.source.Size()
	v.tracker.ResetToDefault(size.Width, size.Height)
}

// TakeSnapshot crops the current frame to the committed rectangle, appends
// the result to the store and emits a snapshot event. When done is non-nil
// it is invoked synchronously with the new snapshot, after the event.
func (v *Viewer) TakeSnapshot(done func(*Snapshot)) (*Snapshot, error) {
	v.mu.Lock()
	if !v.started {
		v.mu.Unlock()
		return nil, fmt.Errorf("viewfinder: frame source not started")
	}

	frame, err := v.source.Frame()
	if err != nil {
		v.mu.Unlock()
		v.events.publish(EventError, err)
		return nil, err
	}

	rect := v.tracker.CurrentRectangle()
	snap := Extract(frame, rect)
	v.store.Add(snap)
	v.mu.Unlock()

	v.log.WithFields(logrus.Fields{"id": snap.ID, "width": snap.Width, "height": snap.Height}).Debug("snapshot taken")
	v.events.publish(EventSnapshot, snap)
	if done != nil {
		done(snap)
	}
	return snap, nil
}
