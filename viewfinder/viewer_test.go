package viewfinder

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camera-next/camcli/types"
)

// fakeSource is an in-memory frame source for driving the viewer.
type fakeSource struct {
	frame    *image.RGBA
	startErr error
	frameErr error
	starts   int
	stops    int
}

func (f *fakeSource) Start() error {
	f.starts++
	return f.startErr
}

func (f *fakeSource) Stop() error {
	f.stops++
	return nil
}

func (f *fakeSource) Frame() (*image.RGBA, error) {
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	return f.frame, nil
}

func (f *fakeSource) Size() types.Size {
	b := f.frame.Bounds()
	return types.Size{Width: b.Dx(), Height: b.Dy()}
}

func newTestViewer(t *testing.T, interactive bool) (*Viewer, *fakeSource) {
	t.Helper()
	src := &fakeSource{frame: gradientFrame(64, 48)}
	viewer, err := New(src, Options{Interactive: interactive})
	require.NoError(t, err)
	return viewer, src
}

func TestNew_NilSourceFailsConstruction(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestViewer_StartEmitsStartAndResetsRegion(t *testing.T) {
	viewer, _ := newTestViewer(t, false)

	var events []EventKind
	viewer.Events().Subscribe(EventStart, func(interface{}) { events = append(events, EventStart) })
	viewer.Events().Subscribe(EventChange, func(interface{}) { events = append(events, EventChange) })

	require.NoError(t, viewer.Start())

	assert.Equal(t, []EventKind{EventChange, EventStart}, events)
	assert.Equal(t, types.Rect{EndX: 64, EndY: 48, Width: 64, Height: 48}, viewer.Region())
	assert.True(t, viewer.Started())
}

func TestViewer_StartFailureIsReportedAndRetryable(t *testing.T) {
	src := &fakeSource{frame: gradientFrame(8, 8), startErr: fmt.Errorf("device busy")}
	viewer, err := New(src, Options{})
	require.NoError(t, err)

	var errs []error
	viewer.Events().Subscribe(EventError, func(payload interface{}) { errs = append(errs, payload.(error)) })

	require.Error(t, viewer.Start())
	require.Len(t, errs, 1)
	assert.False(t, viewer.Started())

	// a later start attempt is well-formed
	src.startErr = nil
	require.NoError(t, viewer.Start())
	assert.True(t, viewer.Started())
	assert.Equal(t, 2, src.starts)
}

func TestViewer_StartIsIdempotent(t *testing.T) {
	viewer, src := newTestViewer(t, false)

	require.NoError(t, viewer.Start())
	require.NoError(t, viewer.Start())

	assert.Equal(t, 1, src.starts)
}

func TestViewer_StopIsBestEffort(t *testing.T) {
	viewer, src := newTestViewer(t, false)
	require.NoError(t, viewer.Start())

	viewer.Stop()
	viewer.Stop()

	assert.Equal(t, 1, src.stops)
	assert.False(t, viewer.Started())
}

func TestViewer_PointerIgnoredWhenNotInteractive(t *testing.T) {
	viewer, _ := newTestViewer(t, false)
	require.NoError(t, viewer.Start())
	full := viewer.Region()

	viewer.PointerDown(types.Point{X: 10, Y: 10})
	viewer.PointerMove(types.Point{X: 20, Y: 20})
	viewer.PointerUp(types.Point{X: 30, Y: 30})

	assert.Equal(t, full, viewer.Region(), "non-interactive viewer keeps the full-frame default")
}

func TestViewer_InteractiveDragCommits(t *testing.T) {
	viewer, _ := newTestViewer(t, true)
	require.NoError(t, viewer.Start())

	viewer.PointerDown(types.Point{X: 10, Y: 10})
	viewer.PointerMove(types.Point{X: 20, Y: 15})
	viewer.PointerUp(types.Point{X: 30, Y: 40})

	expected := types.Rect{StartX: 10, StartY: 10, EndX: 30, EndY: 40, Width: 20, Height: 30}
	assert.Equal(t, expected, viewer.Region())
}

func TestViewer_PointerActionDispatch(t *testing.T) {
	viewer, _ := newTestViewer(t, true)
	require.NoError(t, viewer.Start())

	require.NoError(t, viewer.Pointer(types.PointerAction{Type: types.PointerDown, X: 1, Y: 2}))
	require.NoError(t, viewer.Pointer(types.PointerAction{Type: types.PointerMove, X: 5, Y: 6}))
	require.NoError(t, viewer.Pointer(types.PointerAction{Type: types.PointerUp, X: 9, Y: 10}))
	assert.Error(t, viewer.Pointer(types.PointerAction{Type: "hover"}))

	expected := types.Rect{StartX: 1, StartY: 2, EndX: 9, EndY: 10, Width: 8, Height: 8}
	assert.Equal(t, expected, viewer.Region())
}

func TestViewer_TakeSnapshotFullFrame(t *testing.T) {
	viewer, src := newTestViewer(t, false)
	require.NoError(t, viewer.Start())

	snap, err := viewer.TakeSnapshot(nil)
	require.NoError(t, err)

	assert.Equal(t, 64, snap.Width)
	assert.Equal(t, 48, snap.Height)
	assert.Equal(t, src.frame.Pix, snap.Image.Pix)
	assert.Equal(t, 1, viewer.Store().Len())
}

func TestViewer_TakeSnapshotEventThenCallback(t *testing.T) {
	viewer, _ := newTestViewer(t, true)
	require.NoError(t, viewer.Start())

	viewer.PointerDown(types.Point{X: 8, Y: 8})
	viewer.PointerUp(types.Point{X: 24, Y: 32})

	var order []string
	viewer.Events().Subscribe(EventSnapshot, func(payload interface{}) {
		snap := payload.(*Snapshot)
		order = append(order, "event:"+snap.ID)
	})

	snap, err := viewer.TakeSnapshot(func(s *Snapshot) {
		order = append(order, "callback:"+s.ID)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"event:" + snap.ID, "callback:" + snap.ID}, order,
		"notification fires before the per-call callback")
	assert.Equal(t, 16, snap.Width)
	assert.Equal(t, 24, snap.Height)
}

func TestViewer_TakeSnapshotBeforeStart(t *testing.T) {
	viewer, _ := newTestViewer(t, false)

	_, err := viewer.TakeSnapshot(nil)
	assert.Error(t, err)
}

func TestViewer_FrameFailureEmitsError(t *testing.T) {
	viewer, src := newTestViewer(t, false)
	require.NoError(t, viewer.Start())
	src.frameErr = fmt.Errorf("stream went away")

	var errs []error
	viewer.Events().Subscribe(EventError, func(payload interface{}) { errs = append(errs, payload.(error)) })

	_, err := viewer.TakeSnapshot(nil)
	require.Error(t, err)
	assert.Len(t, errs, 1)
	assert.Equal(t, 0, viewer.Store().Len())
}

func TestViewer_ResetRegionRestoresDefault(t *testing.T) {
	viewer, _ := newTestViewer(t, true)
	require.NoError(t, viewer.Start())

	viewer.PointerDown(types.Point{X: 5, Y: 5})
	viewer.PointerUp(types.Point{X: 10, Y: 10})
	viewer.ResetRegion()

	assert.Equal(t, types.Rect{EndX: 64, EndY: 48, Width: 64, Height: 48}, viewer.Region())
}
