package commands

import (
	"github.com/camera-next/camcli/sources"
	"github.com/camera-next/camcli/types"
)

// SourceInfo describes one frame source backend and whether it can be used
// on this machine.
type SourceInfo struct {
	Kind      string      `json:"kind"`
	Available bool        `json:"available"`
	Detail    string      `json:"detail,omitempty"`
	Size      *types.Size `json:"size,omitempty"`
}

// SourcesCommand probes the known frame source backends.
func SourcesCommand() *CommandResponse {
	infos := make([]SourceInfo, 0, len(sources.Kinds()))

	for _, kind := range sources.Kinds() {
		switch kind {
		case sources.KindScreen:
			info := SourceInfo{Kind: kind}
			if src, err := sources.NewScreen(0); err != nil {
				info.Detail = err.Error()
			} else {
				size := src.Size()
				info.Available = true
				info.Size = &size
			}
			infos = append(infos, info)

		case sources.KindMJPEG:
			infos = append(infos, SourceInfo{
				Kind:      kind,
				Available: true,
				Detail:    "requires a stream url",
			})

		case sources.KindStatic:
			infos = append(infos, SourceInfo{
				Kind:      kind,
				Available: true,
				Detail:    "fixed test frame",
			})
		}
	}

	return NewSuccessResponse(infos)
}
