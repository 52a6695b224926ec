package commands

import (
	"github.com/camera-next/camcli/sources"
	"github.com/camera-next/camcli/types"
)

// InfoResponse describes the configured frame source and whether it can
// deliver frames right now.
type InfoResponse struct {
	Kind      string      `json:"kind"`
	StreamURL string      `json:"streamUrl,omitempty"`
	Available bool        `json:"available"`
	Detail    string      `json:"detail,omitempty"`
	Size      *types.Size `json:"size,omitempty"`
}

// InfoCommand probes the configured frame source. Unlike SourcesCommand it
// actually starts the source, so a reported size reflects a real frame.
func InfoCommand(cfg SourceConfig) *CommandResponse {
	if cfg.Kind == "" {
		cfg.Kind = sources.KindScreen
	}

	info := InfoResponse{Kind: cfg.Kind, StreamURL: cfg.StreamURL}

	src, err := sources.New(cfg.Kind, sources.Options{StreamURL: cfg.StreamURL})
	if err != nil {
		info.Detail = err.Error()
		return NewSuccessResponse(info)
	}

	if err := src.Start(); err != nil {
		info.Detail = err.Error()
		return NewSuccessResponse(info)
	}
	defer func() { _ = src.Stop() }()

	size := src.Size()
	info.Available = true
	info.Size = &size
	return NewSuccessResponse(info)
}
