package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
	"github.com/xob0t/google-photos-mobile-client/pkg/secrets"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credentials",
}

var authSetCmd = &cobra.Command{
	Use:   "set <auth-data>",
	Short: "Store an auth data bundle in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.TrimSpace(args[0])
		data, err := api.ParseAuthData(raw)
		if err != nil {
			return err
		}
		if err := secrets.Store(raw); err != nil {
			return err
		}
		fmt.Printf("Stored credentials for %s\n", data.Email())
		return nil
	},
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which account the stored credentials belong to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := secrets.Resolve("")
		if err != nil {
			return err
		}
		data, err := api.ParseAuthData(raw)
		if err != nil {
			return err
		}
		fmt.Printf("Account: %s\n", data.Email())
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove credentials from the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.Clear(); err != nil {
			return err
		}
		fmt.Println("Credentials removed")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd, authShowCmd, authClearCmd)
	rootCmd.AddCommand(authCmd)
}
