package commands

import (
	"fmt"
	"sync"

	"github.com/camera-next/camcli/sources"
	"github.com/camera-next/camcli/viewfinder"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// SourceConfig selects and configures a frame source backend.
type SourceConfig struct {
	Kind      string `json:"kind"`
	StreamURL string `json:"streamUrl,omitempty"`
}

var (
	activeMu      sync.Mutex
	activeViewers []*viewfinder.Viewer
)

func trackViewer(v *viewfinder.Viewer) {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeViewers = append(activeViewers, v)
}

// StopAll stops every viewer built by this process. Called on signal-driven
// shutdown so frame sources release their capture loops.
func StopAll() {
	activeMu.Lock()
	viewers := activeViewers
	activeViewers = nil
	activeMu.Unlock()

	for _, v := range viewers {
		v.Stop()
	}
}

// BuildViewer constructs a viewer over the configured frame source. Source
// construction failures (unknown kind, unavailable platform) surface here.
func BuildViewer(cfg SourceConfig, interactive bool) (*viewfinder.Viewer, error) {
	if cfg.Kind == "" {
		cfg.Kind = sources.KindScreen
	}

	src, err := sources.New(cfg.Kind, sources.Options{StreamURL: cfg.StreamURL})
	if err != nil {
		return nil, fmt.Errorf("creating %s source: %w", cfg.Kind, err)
	}

	viewer, err := viewfinder.New(src, viewfinder.Options{Interactive: interactive})
	if err != nil {
		return nil, err
	}

	trackViewer(viewer)
	return viewer, nil
}
