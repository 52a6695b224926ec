package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camera-next/camcli/commands"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List frame source backends",
	Long:  `Lists the known frame source backends and whether each one is usable on this machine.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.SourcesCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
