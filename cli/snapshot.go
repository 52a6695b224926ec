package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/camera-next/camcli/commands"
	"github.com/camera-next/camcli/config"
	"github.com/camera-next/camcli/types"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Take a snapshot from a frame source",
	Long:  `Grabs one frame from the configured source, crops it to the given region (or the full frame) and saves it locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}
		applySnapshotConfig(cmd, cfg)

		var region *types.Rect
		if snapshotRegion != "" {
			region, err = parseRegion(snapshotRegion)
			if err != nil {
				return err
			}
		}

		req := commands.SnapshotRequest{
			Source:     commands.SourceConfig{Kind: sourceKind, StreamURL: streamURL},
			Region:     region,
			Format:     snapshotFormat,
			Quality:    snapshotJpegQuality,
			OutputPath: snapshotOutputPath,
		}

		response := commands.SnapshotCommand(req)

		// Handle stdout output for binary data
		if snapshotOutputPath == "-" && response.Status == "ok" {
			if snapshotResp, ok := response.Data.(commands.SnapshotResponse); ok && snapshotResp.Data != "" {
				imageBytes, err := base64.StdEncoding.DecodeString(snapshotResp.Data)
				if err != nil {
					return fmt.Errorf("failed to decode image data: %v", err)
				}
				_, err = os.Stdout.Write(imageBytes)
				if err != nil {
					return fmt.Errorf("failed to write to stdout: %v", err)
				}
				return nil
			}
		}

		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

// applySnapshotConfig fills in flags the user did not set from the config
// file.
func applySnapshotConfig(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("source") {
		sourceKind = cfg.SourceKind
	}
	if !cmd.Flags().Changed("stream-url") {
		streamURL = cfg.StreamURL
	}
	if !cmd.Flags().Changed("format") {
		snapshotFormat = cfg.Format
	}
	if !cmd.Flags().Changed("quality") {
		snapshotJpegQuality = cfg.Quality
	}
}

// parseRegion parses "x0,y0,x1,y1" into a rectangle. The coordinates are a
// drag's press and release points, so x0 > x1 or y0 > y1 is fine.
func parseRegion(s string) (*types.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid region '%s', expected 'x0,y0,x1,y1'", s)
	}

	coords := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid region coordinate '%s'", part)
		}
		coords[i] = n
	}

	return &types.Rect{
		StartX: coords[0],
		StartY: coords[1],
		EndX:   coords[2],
		EndY:   coords[3],
		Width:  coords[2] - coords[0],
		Height: coords[3] - coords[1],
	}, nil
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&sourceKind, "source", "", "Frame source kind (screen, mjpeg, static)")
	snapshotCmd.Flags().StringVar(&streamURL, "stream-url", "", "Stream URL for the mjpeg source")
	snapshotCmd.Flags().StringVarP(&snapshotRegion, "region", "r", "", "Crop region as 'x0,y0,x1,y1' (default: full frame)")
	snapshotCmd.Flags().StringVarP(&snapshotOutputPath, "output", "o", "", "Output file path for snapshot (e.g., shot.png, or '-' for stdout)")
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", "png", "Output format for snapshot (png or jpeg)")
	snapshotCmd.Flags().IntVarP(&snapshotJpegQuality, "quality", "q", 90, "JPEG quality (1-100, only applies if format is jpeg)")
}
