package cmd

import (
	"fmt"

	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/cipherboard/cipherboard/internal/utils"
	"github.com/cipherboard/cipherboard/internal/workflows"
	"github.com/spf13/cobra"
)

var loginUsername string

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "user", "u", "", "username to log in as (defaults to your OS username)")
	AccountCmd.AddCommand(loginCmd)
	AccountCmd.AddCommand(logoutCmd)
	AccountCmd.AddCommand(whoamiCmd)
}

func resetLoginState() {
	loginUsername = ""
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start a session",
	Long: `Starts a session, replacing any previous one on this machine.

The session lasts until you log out or it times out on the server
(session_timeout, 30m by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := loginUsername
		if username == "" {
			username = utils.DefaultUsername()
		}

		password, err := utils.ReadPassword("Password for " + username + ": ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read password: %w", err)
		}
		defer utils.Wipe(password)

		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Logging in...")
		defer cleanup()

		result, err := workflows.Login(commandContext(cmd), client, workflows.LoginOptions{
			Username: username,
			Password: password,
		})
		if err != nil {
			spinner.FinalMSG = failure("Login failed", err)
			return nil
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Logged in as " + ui.Highlight.Sprint(result.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Logging out...")
		defer cleanup()

		result, err := workflows.Logout(commandContext(cmd), client)
		if err != nil {
			spinner.FinalMSG = failure("Logout failed", err)
			return nil
		}
		if !result.WasLoggedIn {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " You were not logged in"
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Logged out " + ui.Highlight.Sprint(result.Username)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the current session belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		username, err := workflows.WhoAmI(client)
		if err != nil {
			fmt.Println(failure("No session", err))
			return nil
		}
		fmt.Println(username)
		return nil
	},
}
