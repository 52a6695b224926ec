package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camera-next/camcli/commands"
	"github.com/camera-next/camcli/config"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show frame source information",
	Long:  `Probes the configured frame source and shows whether it is available and at what resolution.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("source") {
			sourceKind = cfg.SourceKind
		}
		if !cmd.Flags().Changed("stream-url") {
			streamURL = cfg.StreamURL
		}

		response := commands.InfoCommand(commands.SourceConfig{Kind: sourceKind, StreamURL: streamURL})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVar(&sourceKind, "source", "", "Frame source kind (screen, mjpeg, static)")
	infoCmd.Flags().StringVar(&streamURL, "stream-url", "", "Stream URL for the mjpeg source")
}
