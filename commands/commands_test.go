package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopAll_StopsBuiltViewers(t *testing.T) {
	server := mjpegInfoServer(t, 16, 12)
	defer server.Close()

	viewer, err := BuildViewer(SourceConfig{Kind: "mjpeg", StreamURL: server.URL}, false)
	require.NoError(t, err)
	require.NoError(t, viewer.Start())
	require.True(t, viewer.Started())

	StopAll()
	assert.False(t, viewer.Started())

	// registry is drained; a second call has nothing left to stop
	StopAll()
	assert.False(t, viewer.Started())
}
