package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"VectorConsole/backend/go/internal/console_service/api"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "API key helpers",
}

var authValidateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Check that the configured API key is accepted",
	PreRunE: connect,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := client.ValidateAPIKey(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("API key is not valid")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key is valid")
		return nil
	},
}

var authHashCmd = &cobra.Command{
	Use:   "hash [api-key]",
	Short: "Print the bcrypt hash to put in auth.apiKeyHashes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := api.HashAPIKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authValidateCmd)
	authCmd.AddCommand(authHashCmd)
}
