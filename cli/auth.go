package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "camcli"
const keyringUser = "access-token"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Access token commands",
	Long:  `Commands for managing the server access token. The token is stored in the system keyring and required as a bearer token when the server runs with --auth.`,
}

var authGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a new access token",
	Long:  `Generates a random access token and stores it in the system keyring, replacing any existing one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		token := hex.EncodeToString(tokenBytes)

		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store access token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Display the current access token",
	Long:  `Displays the access token stored in the system keyring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := keyring.Get(keyringService, keyringUser)
		if err != nil {
			return fmt.Errorf("no access token found, run 'camcli auth generate' first")
		}

		fmt.Println(token)
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored access token",
	Long:  `Removes the access token from the system keyring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(keyringService, keyringUser); err != nil {
			fmt.Println("no access token stored")
			return nil
		}

		fmt.Println("Access token removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authGenerateCmd, authTokenCmd, authClearCmd)
}
