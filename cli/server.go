package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/camera-next/camcli/commands"
	"github.com/camera-next/camcli/config"
	"github.com/camera-next/camcli/daemon"
	"github.com/camera-next/camcli/server"
	"github.com/camera-next/camcli/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the camcli server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the camcli server",
	Long:  `Starts the camcli server, exposing the viewfinder over JSON-RPC and WebSocket.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}

		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = cfg.ListenAddr
		}

		// GetBool/GetString cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		if !cmd.Flags().Changed("cors") {
			enableCORS = cfg.EnableCORS
		}
		interactive, _ := cmd.Flags().GetBool("interactive")
		if !cmd.Flags().Changed("interactive") {
			interactive = cfg.Interactive
		}
		isDaemon, _ := cmd.Flags().GetBool("daemon")
		useAuth, _ := cmd.Flags().GetBool("auth")

		if !cmd.Flags().Changed("source") {
			sourceKind = cfg.SourceKind
		}
		if !cmd.Flags().Changed("stream-url") {
			streamURL = cfg.StreamURL
		}

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		token := ""
		if useAuth {
			token, err = keyring.Get(keyringService, keyringUser)
			if err != nil {
				return fmt.Errorf("no access token found, run 'camcli auth generate' first")
			}
		}

		viewer, err := commands.BuildViewer(commands.SourceConfig{Kind: sourceKind, StreamURL: streamURL}, interactive)
		if err != nil {
			return err
		}

		// a failed source leaves the server up; clients retry with the
		// "start" method
		if err := viewer.Start(); err != nil {
			utils.Info("frame source not started yet: %v", err)
		}

		return server.NewServer(viewer, server.Options{Token: token}).ListenAndServe(listenAddr, enableCORS)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized camcli server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}
			addr = cfg.ListenAddr
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().Bool("interactive", false, "Enable drag-based region selection (disabled by default)")
	serverStartCmd.Flags().Bool("auth", false, "Require the stored access token as a bearer token")
	serverStartCmd.Flags().StringVar(&sourceKind, "source", "", "Frame source kind (screen, mjpeg, static)")
	serverStartCmd.Flags().StringVar(&streamURL, "stream-url", "", "Stream URL for the mjpeg source")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", "Address of server to kill (default from config)")
}
