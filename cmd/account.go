package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// AccountCmd groups the account life cycle commands.
var AccountCmd = &cobra.Command{
	Use:   "account",
	Short: "Register, log in and log out",
	Long: `Manages your cipherboard account and the current session.

Your password never leaves this machine. It derives the key that protects
your private key and every page you belong to, so a forgotten password
cannot be recovered.

Examples:
  # Create an account
  cipherboard account register --user alice --email alice@example.com

  # Start a session
  cipherboard account login --user alice

  # Pipe the password in from a script
  echo "$PASSWORD" | cipherboard account login --user alice`,
}

func init() {
	addLoggingFlags(AccountCmd)
}

func resetAccountState() {
	resetRegisterState()
	resetLoginState()
}

// commandContext is the context every command runs its workflow under.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
