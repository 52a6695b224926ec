package viewfinder

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camera-next/camcli/types"
)

func testSnapshot(t *testing.T, w, h int) *Snapshot {
	t.Helper()
	frame := gradientFrame(w, h)
	return Extract(frame, types.Rect{EndX: w, EndY: h, Width: w, Height: h})
}

func TestStore_AppendOrder(t *testing.T) {
	store := NewStore()

	first := testSnapshot(t, 4, 4)
	second := testSnapshot(t, 8, 8)
	store.Add(first)
	store.Add(second)

	infos := store.List()
	require.Len(t, infos, 2)
	assert.Equal(t, first.ID, infos[0].ID)
	assert.Equal(t, second.ID, infos[1].ID)
	assert.Equal(t, 2, store.Len())
}

func TestStore_Get(t *testing.T) {
	store := NewStore()
	snap := testSnapshot(t, 4, 4)
	store.Add(snap)

	got, ok := store.Get(snap.ID)
	require.True(t, ok)
	assert.Same(t, snap, got)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_EncodePNG(t *testing.T) {
	store := NewStore()
	snap := testSnapshot(t, 6, 3)
	store.Add(snap)

	data, err := store.EncodePNG(snap.ID)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 3), img.Bounds())

	// second call is a cache hit and returns the same rendering
	again, err := store.EncodePNG(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestStore_EncodePNG_UnknownID(t *testing.T) {
	store := NewStore()

	_, err := store.EncodePNG("nope")
	assert.Error(t, err)
}
