package commands

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camera-next/camcli/sources"
	"github.com/camera-next/camcli/types"
	"github.com/camera-next/camcli/viewfinder"
)

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func staticViewer(t *testing.T, w, h int, interactive bool) *viewfinder.Viewer {
	t.Helper()
	src, err := sources.NewStatic(testFrame(w, h))
	require.NoError(t, err)
	viewer, err := viewfinder.New(src, viewfinder.Options{Interactive: interactive})
	require.NoError(t, err)
	return viewer
}

func TestSnapshotCommand_UnknownSource(t *testing.T) {
	resp := SnapshotCommand(SnapshotRequest{Source: SourceConfig{Kind: "hologram"}})
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "hologram")
}

func TestTakeSnapshot_InvalidFormat(t *testing.T) {
	viewer := staticViewer(t, 8, 8, false)

	resp := takeSnapshot(viewer, SnapshotRequest{Format: "bmp"})

	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "invalid format")
}

func TestTakeSnapshot_StdoutReturnsBase64PNG(t *testing.T) {
	viewer := staticViewer(t, 16, 12, false)

	resp := takeSnapshot(viewer, SnapshotRequest{OutputPath: "-"})
	require.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(SnapshotResponse)
	require.True(t, ok)
	assert.Equal(t, "png", data.Format)
	assert.Equal(t, 16, data.Width)
	assert.Equal(t, 12, data.Height)
	assert.NotEmpty(t, data.ID)
	assert.Empty(t, data.FilePath)

	raw, err := base64.StdEncoding.DecodeString(data.Data)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds())
}

func TestTakeSnapshot_RegionCrop(t *testing.T) {
	viewer := staticViewer(t, 64, 48, true)

	// region dragged bottom-right to top-left; canonicalizes to (10,6)+30x24
	region := &types.Rect{StartX: 40, StartY: 30, EndX: 10, EndY: 6, Width: -30, Height: -24}
	resp := takeSnapshot(viewer, SnapshotRequest{Region: region, OutputPath: "-"})
	require.Equal(t, "ok", resp.Status)

	data := resp.Data.(SnapshotResponse)
	assert.Equal(t, 30, data.Width)
	assert.Equal(t, 24, data.Height)
}

func TestTakeSnapshot_WritesFile(t *testing.T) {
	viewer := staticViewer(t, 8, 8, false)
	path := filepath.Join(t.TempDir(), "snap.png")

	resp := takeSnapshot(viewer, SnapshotRequest{OutputPath: path})
	require.Equal(t, "ok", resp.Status)

	data := resp.Data.(SnapshotResponse)
	assert.Equal(t, path, data.FilePath)
	assert.Empty(t, data.Data)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestTakeSnapshot_JpegQualityDefaults(t *testing.T) {
	viewer := staticViewer(t, 8, 8, false)

	resp := takeSnapshot(viewer, SnapshotRequest{Format: "JPEG", Quality: 0, OutputPath: "-"})
	require.Equal(t, "ok", resp.Status)

	data := resp.Data.(SnapshotResponse)
	assert.Equal(t, "jpeg", data.Format)
}

func TestSourcesCommand(t *testing.T) {
	resp := SourcesCommand()
	require.Equal(t, "ok", resp.Status)

	infos, ok := resp.Data.([]SourceInfo)
	require.True(t, ok)
	require.Len(t, infos, len(sources.Kinds()))

	kinds := make([]string, 0, len(infos))
	for _, info := range infos {
		kinds = append(kinds, info.Kind)
	}
	assert.Equal(t, sources.Kinds(), kinds)
}
