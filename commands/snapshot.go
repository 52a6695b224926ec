package commands

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/camera-next/camcli/types"
	"github.com/camera-next/camcli/utils"
	"github.com/camera-next/camcli/viewfinder"
)

// SnapshotRequest represents the parameters for taking a one-shot snapshot
type SnapshotRequest struct {
	Source     SourceConfig `json:"source"`
	Region     *types.Rect  `json:"region,omitempty"`     // nil means full frame
	Format     string       `json:"format,omitempty"`     // "png" or "jpeg"
	Quality    int          `json:"quality,omitempty"`    // 1-100, only used for JPEG
	OutputPath string       `json:"outputPath,omitempty"` // file path, "-" for stdout, or empty for default naming
}

// SnapshotResponse represents the response for a snapshot command
type SnapshotResponse struct {
	ID       string `json:"id"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     string `json:"data,omitempty"`     // base64 encoded image data
	FilePath string `json:"filePath,omitempty"` // path where file was saved
}

// SnapshotCommand starts the configured frame source, crops one still image
// and writes it out. With a region it replays the rectangle as a committed
// drag so the result matches what interactive selection would produce.
func SnapshotCommand(req SnapshotRequest) *CommandResponse {
	viewer, err := BuildViewer(req.Source, req.Region != nil)
	if err != nil {
		return NewErrorResponse(err)
	}

	return takeSnapshot(viewer, req)
}

// takeSnapshot runs the capture flow against an already constructed viewer.
func takeSnapshot(viewer *viewfinder.Viewer, req SnapshotRequest) *CommandResponse {
	if req.Format == "" {
		req.Format = "png"
	}

	req.Format = strings.ToLower(req.Format)
	if req.Format != "png" && req.Format != "jpeg" {
		return NewErrorResponse(fmt.Errorf("invalid format '%s'. Supported formats are 'png' and 'jpeg'", req.Format))
	}

	if req.Format == "jpeg" {
		if req.Quality < 1 || req.Quality > 100 {
			req.Quality = 90
		}
	}

	if err := viewer.Start(); err != nil {
		return NewErrorResponse(fmt.Errorf("starting frame source: %v", err))
	}
	defer viewer.Stop()

	if req.Region != nil {
		viewer.PointerDown(types.Point{X: req.Region.StartX, Y: req.Region.StartY})
		viewer.PointerUp(types.Point{X: req.Region.EndX, Y: req.Region.EndY})
	}

	snap, err := viewer.TakeSnapshot(nil)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error taking snapshot: %v", err))
	}

	imageBytes, err := utils.EncodeImage(snap.Image, req.Format, req.Quality)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error encoding snapshot: %v", err))
	}

	response := SnapshotResponse{
		ID:     snap.ID,
		Format: req.Format,
		Width:  snap.Width,
		Height: snap.Height,
	}

	if req.OutputPath == "-" {
		response.Data = base64.StdEncoding.EncodeToString(imageBytes)
	} else {
		finalPath := req.OutputPath
		if finalPath == "" {
			kind := req.Source.Kind
			if kind == "" {
				kind = "screen"
			}
			extension := "png"
			if req.Format == "jpeg" {
				extension = "jpg"
			}
			timestamp := time.Now().Format("20060102150405")
			finalPath = fmt.Sprintf("snapshot-%s-%s.%s", kind, timestamp, extension)
		}

		finalPath, err = filepath.Abs(finalPath)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("invalid output path: %v", err))
		}

		if err := os.WriteFile(finalPath, imageBytes, 0o600); err != nil {
			return NewErrorResponse(fmt.Errorf("error writing file: %v", err))
		}

		response.FilePath = finalPath
	}

	return NewSuccessResponse(response)
}
